package memory

import (
	"context"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	return s.with(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.Username == user.Username || u.UserID == user.UserID {
				return apperrors.NewConflictError("username " + user.Username + " is already taken")
			}
		}
		st.users[user.UserID] = user
		return nil
	})
}

func (s *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var out domain.User
	err := s.with(ctx, func(st *state) error {
		u, ok := st.users[userID]
		if !ok {
			return notFound("user", userID)
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var out domain.User
	err := s.with(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.Username == username {
				out = u
				return nil
			}
		}
		return notFound("user", username)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) SaveJournal(ctx context.Context, journal domain.Journal) error {
	return s.with(ctx, func(st *state) error {
		for _, j := range st.journals {
			if j.Path == journal.Path || j.JournalID == journal.JournalID {
				return apperrors.NewConflictError("journal path " + journal.Path + " is already taken")
			}
		}
		st.journals[journal.JournalID] = journal
		return nil
	})
}

func (s *Store) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	var out domain.Journal
	err := s.with(ctx, func(st *state) error {
		j, ok := st.journals[journalID]
		if !ok {
			return notFound("journal", journalID)
		}
		out = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
