package repository

import (
	"context"
	"sync"

	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/pkg/metrics"
)

// InMemoryUsers is a map-backed UserStore. All writes go through Mutate so
// read-modify-write cycles on one user are atomic; the sync guard upstream
// keeps concurrent syncs for the same handle from ever reaching the store.
type InMemoryUsers struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewInMemoryUsers creates an empty user store.
func NewInMemoryUsers() *InMemoryUsers {
	return &InMemoryUsers{
		users: make(map[string]User),
	}
}

// Get returns a copy of the user's state.
func (s *InMemoryUsers) Get(_ context.Context, handle string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[handle]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return cloneUser(u), nil
}

// Mutate applies fn under the store lock. A missing handle starts from a
// zero User with the handle filled in.
func (s *InMemoryUsers) Mutate(_ context.Context, handle string, fn func(*User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[handle]
	if !ok {
		u = User{Handle: handle}
	}
	work := cloneUser(u)
	if err := fn(&work); err != nil {
		return err
	}
	work.Handle = handle
	s.users[handle] = work
	if !ok {
		metrics.UpdateTrackedUsers(len(s.users))
	}
	return nil
}

// Count returns the number of tracked users.
func (s *InMemoryUsers) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// cloneUser deep-copies the mutable collections so callers can never alias
// store-internal state.
func cloneUser(u User) User {
	out := u
	if u.Submissions != nil {
		out.Submissions = append([]model.Submission(nil), u.Submissions...)
	}
	if u.ContestStats != nil {
		out.ContestStats = append([]model.ContestProblemStat(nil), u.ContestStats...)
	}
	if u.Interactions != nil {
		out.Interactions = append([]model.Interaction(nil), u.Interactions...)
	}
	if u.Skills != nil {
		out.Skills = make(map[string]model.SkillRecord, len(u.Skills))
		for k, v := range u.Skills {
			out.Skills[k] = v
		}
	}
	if u.Solved != nil {
		out.Solved = make(map[string]struct{}, len(u.Solved))
		for k := range u.Solved {
			out.Solved[k] = struct{}{}
		}
	}
	return out
}
