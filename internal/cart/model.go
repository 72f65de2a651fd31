package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/chesser-academy/storefront/internal/catalog"
)

// SessionPick is one chosen (day, time) pair within a cart entry.
type SessionPick struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

// Entry is a configured service in the cart. The JSON field names are the
// persisted cart record format and must stay backward-readable.
type Entry struct {
	UniqueID        string        `json:"uniqueId"`
	ServiceID       string        `json:"serviceId"`
	Name            string        `json:"name"`
	Price           Money         `json:"price"`
	Kind            catalog.Kind  `json:"serviceKind"`
	SessionsPerWeek int           `json:"sessionsPerWeek"`
	Sessions        []SessionPick `json:"sessions"`
}

// AddRequest is the input to Store.Add, the storefront's add-to-cart entry
// point. The JSON names mirror the persisted entry format.
type AddRequest struct {
	ServiceID       string        `json:"serviceId,omitempty"`
	Name            string        `json:"name"`
	Price           Money         `json:"price"`
	Kind            catalog.Kind  `json:"serviceKind"`
	SessionsPerWeek int           `json:"sessionsPerWeek"`
	Sessions        []SessionPick `json:"sessions"`
}

// Validate checks the request against the entry invariants.
func (r *AddRequest) Validate() error {
	if r.Name == "" {
		return ErrMissingName
	}
	if r.Price < 0 {
		return ErrNegativePrice
	}
	if !r.Kind.Valid() {
		return ErrInvalidKind
	}
	if r.SessionsPerWeek != 1 && r.SessionsPerWeek != 2 {
		return ErrInvalidSessionCount
	}
	if len(r.Sessions) != r.SessionsPerWeek {
		return ErrIncompleteSessions
	}
	seen := make(map[string]struct{}, len(r.Sessions))
	for _, s := range r.Sessions {
		if !catalog.IsValidDay(s.Day) {
			return ErrInvalidDay
		}
		if _, dup := seen[s.Day]; dup {
			return ErrRepeatedDay
		}
		seen[s.Day] = struct{}{}
		if !catalog.IsValidTime(r.Kind, s.Time) {
			return ErrInvalidTime
		}
	}
	return nil
}

// CanonicalSessions returns a copy of sessions stable-sorted by day then
// time, so two selections differing only in pick order collide on the same
// key.
func CanonicalSessions(sessions []SessionPick) []SessionPick {
	canon := make([]SessionPick, len(sessions))
	copy(canon, sessions)
	sort.SliceStable(canon, func(i, j int) bool {
		if canon[i].Day != canon[j].Day {
			return canon[i].Day < canon[j].Day
		}
		return canon[i].Time < canon[j].Time
	})
	return canon
}

// DeriveUniqueID computes the dedup key from the service id and the
// canonicalized session list.
func DeriveUniqueID(serviceID string, sessions []SessionPick) string {
	payload, _ := json.Marshal(CanonicalSessions(sessions))
	sum := sha256.Sum256(payload)
	return serviceID + "-" + hex.EncodeToString(sum[:6])
}
