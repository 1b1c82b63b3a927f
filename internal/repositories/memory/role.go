package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/google/uuid"
)

func toAssignment(row flatRow) (domain.RoleAssignment, error) {
	role, err := domain.ParseRoleName(row.roleName)
	if err != nil {
		return domain.RoleAssignment{}, fmt.Errorf("user_roles row for user %s: %w", row.userID, err)
	}
	return domain.RoleAssignment{UserID: row.userID, Scope: domain.ScopeFromRef(row.journalID), Role: role}, nil
}

func (s *Store) listFlat(ctx context.Context, keep func(flatRow) bool) ([]domain.RoleAssignment, error) {
	var out []domain.RoleAssignment
	err := s.with(ctx, func(st *state) error {
		for _, row := range st.flatRoles {
			if !keep(row) {
				continue
			}
			a, err := toAssignment(row)
			if err != nil {
				return err
			}
			out = append(out, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

func (s *Store) ListRolesForUser(ctx context.Context, userID string, scope domain.Scope) ([]domain.RoleAssignment, error) {
	ref := scope.JournalRef()
	return s.listFlat(ctx, func(row flatRow) bool {
		return row.userID == userID && (row.journalID == nil || sameRef(row.journalID, ref))
	})
}

func (s *Store) ListUserRoles(ctx context.Context, userID string) ([]domain.RoleAssignment, error) {
	return s.listFlat(ctx, func(row flatRow) bool { return row.userID == userID })
}

func (s *Store) ListFlatAssignments(ctx context.Context, journalID *string) ([]domain.RoleAssignment, error) {
	return s.listFlat(ctx, func(row flatRow) bool {
		return journalID == nil || sameRef(row.journalID, journalID)
	})
}

// matchesFact compares labels the way ParseRoleName folds them, so "Sub-Editor"
// and "section_editor" name the same fact.
func matchesFact(row flatRow, a domain.RoleAssignment) bool {
	if row.userID != a.UserID || !sameRef(row.journalID, a.Scope.JournalRef()) {
		return false
	}
	role, err := domain.ParseRoleName(row.roleName)
	return err == nil && role == a.Role
}

func (s *Store) SaveFlatAssignment(ctx context.Context, a domain.RoleAssignment) (bool, error) {
	created := false
	err := s.with(ctx, func(st *state) error {
		if _, ok := st.users[a.UserID]; !ok {
			return missingReference()
		}
		for _, row := range st.flatRoles {
			if matchesFact(row, a) {
				return nil
			}
		}
		st.flatRoles = append(st.flatRoles, flatRow{userID: a.UserID, journalID: a.Scope.JournalRef(), roleName: a.Role.String()})
		created = true
		return nil
	})
	return created, err
}

func (s *Store) DeleteFlatAssignment(ctx context.Context, a domain.RoleAssignment) (bool, error) {
	deleted := false
	err := s.with(ctx, func(st *state) error {
		kept := st.flatRoles[:0]
		for _, row := range st.flatRoles {
			if matchesFact(row, a) {
				deleted = true
				continue
			}
			kept = append(kept, row)
		}
		st.flatRoles = kept
		return nil
	})
	return deleted, err
}

func findGroup(st *state, scope domain.Scope, class domain.RoleClass) (domain.RoleGroup, bool) {
	for _, g := range st.groups {
		if g.Scope == scope && g.Class == class {
			return g, true
		}
	}
	return domain.RoleGroup{}, false
}

func (s *Store) EnsureRoleGroup(ctx context.Context, scope domain.Scope, class domain.RoleClass) (domain.RoleGroup, bool, error) {
	var (
		group   domain.RoleGroup
		created bool
	)
	err := s.with(ctx, func(st *state) error {
		if g, ok := findGroup(st, scope, class); ok {
			group = g
			return nil
		}
		group = domain.RoleGroup{GroupID: uuid.NewString(), Scope: scope, Class: class}
		st.groups[group.GroupID] = group
		created = true
		return nil
	})
	return group, created, err
}

func (s *Store) FindRoleGroup(ctx context.Context, scope domain.Scope, class domain.RoleClass) (*domain.RoleGroup, error) {
	var out domain.RoleGroup
	err := s.with(ctx, func(st *state) error {
		g, ok := findGroup(st, scope, class)
		if !ok {
			return notFound("role group", scope.String())
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) AddMembership(ctx context.Context, userID, groupID string) (bool, error) {
	created := false
	err := s.with(ctx, func(st *state) error {
		if _, ok := st.users[userID]; !ok {
			return missingReference()
		}
		if _, ok := st.groups[groupID]; !ok {
			return missingReference()
		}
		key := [2]string{userID, groupID}
		if _, ok := st.memberships[key]; ok {
			return nil
		}
		st.memberships[key] = struct{}{}
		created = true
		return nil
	})
	return created, err
}

func (s *Store) RemoveMembership(ctx context.Context, userID, groupID string) (bool, error) {
	deleted := false
	err := s.with(ctx, func(st *state) error {
		key := [2]string{userID, groupID}
		if _, ok := st.memberships[key]; ok {
			delete(st.memberships, key)
			deleted = true
		}
		return nil
	})
	return deleted, err
}

func (s *Store) ListMemberships(ctx context.Context, journalID *string) ([]domain.GroupMembership, error) {
	var out []domain.GroupMembership
	err := s.with(ctx, func(st *state) error {
		for key := range st.memberships {
			g := st.groups[key[1]]
			if journalID != nil && !sameRef(g.Scope.JournalRef(), journalID) {
				continue
			}
			out = append(out, domain.GroupMembership{UserID: key[0], GroupID: g.GroupID, Scope: g.Scope, Class: g.Class})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		if out[i].Scope != out[j].Scope {
			return out[i].Scope.String() < out[j].Scope.String()
		}
		return out[i].Class < out[j].Class
	})
	return out, nil
}

// SeedFlatRole writes a user_roles row with roleName stored verbatim, the way rows
// written by older tooling look. It bypasses the normalized form.
func (s *Store) SeedFlatRole(userID string, journalID *string, roleName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.flatRoles = append(s.data.flatRoles, flatRow{userID: userID, journalID: journalID, roleName: roleName})
}

// SeedGroupMembership writes a normalized membership without a flat row. Class is
// stored as given, known or not.
func (s *Store) SeedGroupMembership(userID string, scope domain.Scope, class domain.RoleClass) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := findGroup(s.data, scope, class)
	if !ok {
		g = domain.RoleGroup{GroupID: uuid.NewString(), Scope: scope, Class: class}
		s.data.groups[g.GroupID] = g
	}
	s.data.memberships[[2]string{userID, g.GroupID}] = struct{}{}
}
