package memstore

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/money/internal/user"
)

func (s *Store) CreateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.users {
		if other.Username == u.Username {
			return user.ErrUsernameTaken
		}

		if strings.EqualFold(other.Email, u.Email) {
			return user.ErrEmailTaken
		}
	}

	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()

	stored := *u
	s.users[u.ID] = &stored

	return nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}

	return nil, user.ErrNotFound
}

func (s *Store) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}

	return false, nil
}
