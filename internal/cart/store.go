package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/chesser-academy/storefront/internal/catalog"
	"github.com/chesser-academy/storefront/internal/observability/metrics"
	"github.com/chesser-academy/storefront/internal/storage"
	"github.com/chesser-academy/storefront/pkg/logging"
)

// Store owns the list of cart entries for one visitor. Every mutation is
// written through to durable storage before subscribers are notified, so a
// rendered view never reflects state that was not the last persisted state.
// The in-memory list stays authoritative when a write fails.
type Store struct {
	key     string
	durable storage.Durable
	logger  *logging.Logger
	metrics *metrics.CartMetrics

	mu    sync.Mutex
	items []Entry
	subs  []func([]Entry)
}

// NewStore creates a cart store persisting under the given durable key.
func NewStore(durable storage.Durable, key string, logger *logging.Logger, m *metrics.CartMetrics) *Store {
	if durable == nil {
		panic("cart: durable storage required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		key:     key,
		durable: durable,
		logger:  logger,
		metrics: m,
	}
}

// Load hydrates the cart from durable storage. An absent record is an empty
// cart. A malformed record resets the cart to empty and returns a
// recoverable *ReadError; the store remains usable either way.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.durable.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		s.logger.Warn("cart record unreadable, starting empty", "key", s.key, "error", err)
		return &ReadError{Err: err}
	}

	var items []Entry
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("cart record malformed, resetting to empty", "key", s.key, "error", err)
		s.mu.Lock()
		s.items = nil
		s.mu.Unlock()
		return &ReadError{Err: err}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Subscribe registers a change listener. Listeners receive a snapshot of the
// entries after every mutation. Registration is expected once, at wiring
// time.
func (s *Store) Subscribe(fn func([]Entry)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Add appends a new entry built from req. It fails with a *DuplicateError
// when the derived unique id is already present, leaving the cart unchanged.
// A *WriteWarning means the entry was added but the durable write failed.
func (s *Store) Add(ctx context.Context, req AddRequest) error {
	if err := req.Validate(); err != nil {
		s.metrics.ObserveAdd("invalid")
		return err
	}

	if req.ServiceID == "" {
		req.ServiceID = catalog.Slugify(req.Name)
	}
	entry := Entry{
		UniqueID:        DeriveUniqueID(req.ServiceID, req.Sessions),
		ServiceID:       req.ServiceID,
		Name:            req.Name,
		Price:           req.Price,
		Kind:            req.Kind,
		SessionsPerWeek: req.SessionsPerWeek,
		Sessions:        CanonicalSessions(req.Sessions),
	}

	s.mu.Lock()
	for _, existing := range s.items {
		if existing.UniqueID == entry.UniqueID {
			s.mu.Unlock()
			s.metrics.ObserveAdd("duplicate")
			return &DuplicateError{Name: entry.Name}
		}
	}
	s.items = append(s.items, entry)
	warn := s.persistLocked(ctx)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.ObserveAdd("ok")
	s.logger.Info("cart entry added", "unique_id", entry.UniqueID, "service", entry.Name)
	s.notify(snapshot)
	return warn
}

// Remove filters out the entry with the given unique id. Removing an absent
// id is not an error.
func (s *Store) Remove(ctx context.Context, uniqueID string) error {
	s.mu.Lock()
	kept := s.items[:0]
	removed := false
	for _, item := range s.items {
		if item.UniqueID == uniqueID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	warn := s.persistLocked(ctx)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if removed {
		s.metrics.ObserveRemoval()
		s.logger.Info("cart entry removed", "unique_id", uniqueID)
	}
	s.notify(snapshot)
	return warn
}

// Clear empties the cart. Used on logout and on successful checkout.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = nil
	warn := s.persistLocked(ctx)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("cart cleared", "key", s.key)
	s.notify(snapshot)
	return warn
}

// Items returns a read-only snapshot in insertion order.
func (s *Store) Items() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Count returns the number of entries.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalPrice sums the entry prices. Computed fresh on every call; the cart
// is small and mutation infrequent.
func (s *Store) TotalPrice() Money {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total Money
	for _, item := range s.items {
		total += item.Price
	}
	return total
}

func (s *Store) snapshotLocked() []Entry {
	out := make([]Entry, len(s.items))
	copy(out, s.items)
	return out
}

// persistLocked serializes the full list to durable storage. A failed write
// is non-fatal: it is logged, counted, and returned as a *WriteWarning.
func (s *Store) persistLocked(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []Entry{}
	}
	payload, err := json.Marshal(items)
	if err == nil {
		err = s.durable.Set(ctx, s.key, string(payload))
	}
	if err != nil {
		s.metrics.ObserveWriteFailure()
		s.logger.Warn("cart write failed, keeping in-memory state", "key", s.key, "error", err)
		return &WriteWarning{Err: err}
	}
	return nil
}

func (s *Store) notify(snapshot []Entry) {
	s.mu.Lock()
	subs := make([]func([]Entry), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
