// Package memory is an in-process implementation of every repository port. It backs
// STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
)

type txCtxKey struct{}

// flatRow mirrors a user_roles row; roleName keeps the label exactly as written.
type flatRow struct {
	userID    string
	journalID *string
	roleName  string
}

type state struct {
	users       map[string]domain.User
	journals    map[string]domain.Journal
	flatRoles   []flatRow
	groups      map[string]domain.RoleGroup
	memberships map[[2]string]struct{} // (user, group)
	submissions map[string]domain.Submission
	rounds      map[string]domain.ReviewRound
	assignments map[string]domain.ReviewAssignment
	versions    map[string]domain.Version
	issues      map[string]domain.Issue
	activity    []domain.ActivityLogEntry
}

func newState() *state {
	return &state{
		users:       make(map[string]domain.User),
		journals:    make(map[string]domain.Journal),
		groups:      make(map[string]domain.RoleGroup),
		memberships: make(map[[2]string]struct{}),
		submissions: make(map[string]domain.Submission),
		rounds:      make(map[string]domain.ReviewRound),
		assignments: make(map[string]domain.ReviewAssignment),
		versions:    make(map[string]domain.Version),
		issues:      make(map[string]domain.Issue),
	}
}

// clone copies everything a rollback must restore. Version metadata maps are copied
// since they are merged in place.
func (st *state) clone() *state {
	versions := make(map[string]domain.Version, len(st.versions))
	for id, v := range st.versions {
		v.Metadata = maps.Clone(v.Metadata)
		versions[id] = v
	}
	return &state{
		users:       maps.Clone(st.users),
		journals:    maps.Clone(st.journals),
		flatRoles:   append([]flatRow(nil), st.flatRoles...),
		groups:      maps.Clone(st.groups),
		memberships: maps.Clone(st.memberships),
		submissions: maps.Clone(st.submissions),
		rounds:      maps.Clone(st.rounds),
		assignments: maps.Clone(st.assignments),
		versions:    versions,
		issues:      maps.Clone(st.issues),
		activity:    append([]domain.ActivityLogEntry(nil), st.activity...),
	}
}

// Store serializes all access behind one mutex. A transaction holds the mutex for
// its whole duration and restores a snapshot when fn fails.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

// Provider exposes the store through every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:      s,
		RoleRepo:       s,
		UserRepo:       s,
		JournalRepo:    s,
		SubmissionRepo: s,
		ReviewRepo:     s,
		VersionRepo:    s,
		IssueRepo:      s,
		ActivityRepo:   s,
	}
}

var (
	_ portsrepo.TransactionManager         = (*Store)(nil)
	_ portsrepo.RoleRepositoryFacade       = (*Store)(nil)
	_ portsrepo.UserRepositoryFacade       = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade    = (*Store)(nil)
	_ portsrepo.SubmissionRepositoryFacade = (*Store)(nil)
	_ portsrepo.ReviewRepositoryFacade     = (*Store)(nil)
	_ portsrepo.VersionRepositoryFacade    = (*Store)(nil)
	_ portsrepo.IssueRepositoryFacade      = (*Store)(nil)
	_ portsrepo.ActivityRepository         = (*Store)(nil)
)

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txCtxKey{}).(*Store)
	return ok && owner == s
}

// with runs fn against the current state, taking the mutex unless ctx already holds it.
func (s *Store) with(ctx context.Context, fn func(st *state) error) error {
	// Check if the context is canceled or timed out
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if s.inTx(ctx) {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(context.WithValue(ctx, txCtxKey{}, s)); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func notFound(what, id string) error {
	return apperrors.NewNotFoundError(what + " " + id + " not found")
}

func missingReference() error {
	return apperrors.NewValidationFailedError("referenced record does not exist")
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
