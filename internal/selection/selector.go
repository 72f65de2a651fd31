// Package selection implements the session picker: a small state machine
// that collects N distinct days and one time slot per day for a service,
// validates completeness and hands the finished pick list to the cart.
package selection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/chesser-academy/storefront/internal/cart"
	"github.com/chesser-academy/storefront/internal/catalog"
	"github.com/chesser-academy/storefront/pkg/logging"
)

// draft is the transient state of one open picker invocation.
type draft struct {
	service catalog.Service
	days    []string          // selection order, for rendering
	times   map[string]string // day -> chosen slot
}

// Selector moves between Closed and Open(draft). All transitions are
// synchronous; Open always starts from an empty draft.
type Selector struct {
	cart   *cart.Store
	logger *logging.Logger

	mu    sync.Mutex
	draft *draft
}

// NewSelector creates a selector feeding the given cart store.
func NewSelector(cartStore *cart.Store, logger *logging.Logger) *Selector {
	if cartStore == nil {
		panic("selection: cart store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Selector{cart: cartStore, logger: logger}
}

// Open starts a fresh draft for the service, discarding any previous one
// along with its validation state.
func (s *Selector) Open(service catalog.Service) {
	s.mu.Lock()
	s.draft = &draft{
		service: service,
		times:   make(map[string]string),
	}
	s.mu.Unlock()
	s.logger.Debug("session picker opened", "service", service.Name)
}

// Cancel discards the draft and closes. The cart is untouched.
func (s *Selector) Cancel() {
	s.mu.Lock()
	s.draft = nil
	s.mu.Unlock()
}

// IsOpen reports whether a draft is in progress.
func (s *Selector) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft != nil
}

// Service returns the service under configuration.
func (s *Selector) Service() (catalog.Service, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return catalog.Service{}, false
	}
	return s.draft.service, true
}

// SelectedDays returns the chosen days in pick order.
func (s *Selector) SelectedDays() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil
	}
	out := make([]string, len(s.draft.days))
	copy(out, s.draft.days)
	return out
}

// TimeFor returns the slot chosen for a day, if any.
func (s *Selector) TimeFor(day string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return "", false
	}
	slot, ok := s.draft.times[day]
	return slot, ok
}

// PendingDays returns the selected days that still need a time pick, in
// pick order. Re-derived after every change.
func (s *Selector) PendingDays() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil
	}
	var pending []string
	for _, day := range s.draft.days {
		if s.draft.times[day] == "" {
			pending = append(pending, day)
		}
	}
	return pending
}

// TimeOptions returns the legal slots for the draft's service kind. Empty
// when closed; rendering them is deferred until a day is chosen.
func (s *Selector) TimeOptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil
	}
	return catalog.TimesFor(s.draft.service.Kind)
}

// ToggleDay selects or deselects a day. Selecting past the weekly session
// count is rejected outright with a validation message; this is a hard cap,
// not a replace-oldest policy. Deselecting a day drops its time pick.
func (s *Selector) ToggleDay(day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return ErrClosed
	}
	if !catalog.IsValidDay(day) {
		return ErrDayNotOffered
	}

	for i, selected := range s.draft.days {
		if selected == day {
			s.draft.days = append(s.draft.days[:i], s.draft.days[i+1:]...)
			delete(s.draft.times, day)
			return nil
		}
	}

	if len(s.draft.days) >= s.draft.service.SessionsPerWeek {
		return &ValidationError{
			DayCount: fmt.Sprintf("Please select only %d day(s).", s.draft.service.SessionsPerWeek),
		}
	}
	s.draft.days = append(s.draft.days, day)
	return nil
}

// SetTime records the slot for a selected day.
func (s *Selector) SetTime(day, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return ErrClosed
	}
	selected := false
	for _, d := range s.draft.days {
		if d == day {
			selected = true
			break
		}
	}
	if !selected {
		return ErrDayNotSelected
	}
	if !catalog.IsValidTime(s.draft.service.Kind, slot) {
		return ErrTimeNotOffered
	}
	s.draft.times[day] = slot
	return nil
}

// Confirm validates the draft and, when complete, pushes a new cart entry
// and closes. On a validation failure the draft stays open with the
// offending fields reported. A duplicate cart entry also closes the picker;
// the cart error is returned as is.
func (s *Selector) Confirm(ctx context.Context) (*cart.Entry, error) {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return nil, ErrClosed
	}

	verr := &ValidationError{}
	if len(s.draft.days) != s.draft.service.SessionsPerWeek {
		verr.DayCount = fmt.Sprintf("You must select exactly %d day(s).", s.draft.service.SessionsPerWeek)
	}
	for _, day := range s.draft.days {
		if s.draft.times[day] == "" {
			verr.MissingTimes = append(verr.MissingTimes, day)
		}
	}
	if verr.DayCount != "" || len(verr.MissingTimes) > 0 {
		s.mu.Unlock()
		return nil, verr
	}

	service := s.draft.service
	sessions := make([]cart.SessionPick, 0, len(s.draft.days))
	for _, day := range s.draft.days {
		sessions = append(sessions, cart.SessionPick{Day: day, Time: s.draft.times[day]})
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Day < sessions[j].Day })

	s.draft = nil
	s.mu.Unlock()

	req := cart.AddRequest{
		ServiceID:       service.ID,
		Name:            service.Name,
		Price:           cart.Money(service.PriceCents),
		Kind:            service.Kind,
		SessionsPerWeek: service.SessionsPerWeek,
		Sessions:        sessions,
	}
	if err := s.cart.Add(ctx, req); err != nil {
		var warn *cart.WriteWarning
		if !errors.As(err, &warn) {
			s.logger.Info("session confirm rejected by cart", "service", service.Name, "error", err)
			return nil, err
		}
		// Entry landed in memory; surface the persistence warning.
		return s.findEntry(req), warn
	}
	return s.findEntry(req), nil
}

func (s *Selector) findEntry(req cart.AddRequest) *cart.Entry {
	uniqueID := cart.DeriveUniqueID(req.ServiceID, req.Sessions)
	for _, item := range s.cart.Items() {
		if item.UniqueID == uniqueID {
			entry := item
			return &entry
		}
	}
	return nil
}
