// Package registry holds the authoritative map of participant ids to
// participant records for one relay process.
package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/trudypainter/socket-friend/domain"
)

// ErrDuplicateID reports an insert for an id that is already live. Ids are
// server-generated per connection, so hitting this from client input alone
// is a programming defect, not a recoverable condition.
var ErrDuplicateID = errors.New("registry: duplicate participant id")

type Registry struct {
	mu    sync.RWMutex
	users map[string]*domain.Participant
}

func New() *Registry {
	return &Registry{
		users: make(map[string]*domain.Participant),
	}
}

// Insert creates a record for id, filling defaults for any empty profile
// field, and returns a copy of the stored record.
func (r *Registry) Insert(id string, conn domain.Connection, p domain.Profile) (domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[id]; exists {
		return domain.Participant{}, ErrDuplicateID
	}

	user := &domain.Participant{
		ID:          id,
		Username:    p.Username,
		CursorColor: p.CursorColor,
		AvatarURL:   p.AvatarURL,
		Mode:        domain.DefaultMode,
		ConnectedAt: time.Now().UTC(),
		Conn:        conn,
	}
	if user.Username == "" {
		user.Username = domain.DefaultUsername(id)
	}
	if user.CursorColor == "" {
		user.CursorColor = domain.DefaultCursorColor
	}

	r.users[id] = user
	return *user, nil
}

func (r *Registry) Get(id string) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return domain.Participant{}, false
	}
	return *user, true
}

// Update merges the non-empty fields of p into the record for id. Empty
// fields keep their previous value, tolerating partial client updates.
func (r *Registry) Update(id string, p domain.Profile) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return domain.Participant{}, false
	}

	if p.Username != "" {
		user.Username = p.Username
	}
	if p.CursorColor != "" {
		user.CursorColor = p.CursorColor
	}
	if p.AvatarURL != "" {
		user.AvatarURL = p.AvatarURL
	}
	return *user, true
}

// SetMode records the participant's current interaction mode. The mode is
// informational only and never affects routing.
func (r *Registry) SetMode(id, mode string) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return domain.Participant{}, false
	}
	user.Mode = mode
	return *user, true
}

// Remove deletes the record for id and reports whether anything was removed.
// Removing an absent id is a no-op.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.users[id]
	delete(r.users, id)
	return ok
}

// All returns a snapshot of the current records. Order is unspecified.
func (r *Registry) All() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.MapToSlice(r.users, func(_ string, user *domain.Participant) domain.Participant {
		return *user
	})
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
