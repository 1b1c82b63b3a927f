package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/SscSPs/editorial_workflow/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRoleReader struct {
	mock.Mock
}

func (m *MockRoleReader) ListRolesForUser(ctx context.Context, userID string, scope domain.Scope) ([]domain.RoleAssignment, error) {
	args := m.Called(ctx, userID, scope)
	var out []domain.RoleAssignment
	if args.Get(0) != nil {
		out = args.Get(0).([]domain.RoleAssignment)
	}
	return out, args.Error(1)
}

func (m *MockRoleReader) ListUserRoles(ctx context.Context, userID string) ([]domain.RoleAssignment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.RoleAssignment), args.Error(1)
}

func (m *MockRoleReader) ListFlatAssignments(ctx context.Context, journalID *string) ([]domain.RoleAssignment, error) {
	args := m.Called(ctx, journalID)
	return args.Get(0).([]domain.RoleAssignment), args.Error(1)
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	journalA := domain.JournalScope("journal-a")
	journalB := domain.JournalScope("journal-b")

	reader := new(MockRoleReader)
	reader.On("ListRolesForUser", ctx, "admin", mock.Anything).
		Return([]domain.RoleAssignment{{UserID: "admin", Scope: domain.SiteScope(), Role: domain.RoleSiteAdmin}}, nil)
	reader.On("ListRolesForUser", ctx, "editor", journalA).
		Return([]domain.RoleAssignment{{UserID: "editor", Scope: journalA, Role: domain.RoleEditor}}, nil)
	reader.On("ListRolesForUser", ctx, "editor", journalB).Return(nil, nil)
	reader.On("ListRolesForUser", ctx, "editor", domain.SiteScope()).Return(nil, nil)
	reader.On("ListRolesForUser", ctx, "broken", mock.Anything).Return(nil, errors.New("pool closed"))

	authorizer := services.NewAuthorizationService(reader)

	tests := []struct {
		name      string
		principal string
		required  []domain.Role
		scope     domain.Scope
		wantErr   error
	}{
		{"site admin passes journal check", "admin", domain.EditorialRoles, journalB, nil},
		{"site admin passes site check", "admin", nil, domain.SiteScope(), nil},
		{"editor in own journal", "editor", domain.EditorialRoles, journalA, nil},
		{"editor lacks manager role", "editor", domain.RoleAdminRoles, journalA, apperrors.ErrForbidden},
		{"editor in other journal", "editor", domain.EditorialRoles, journalB, apperrors.ErrForbidden},
		{"editor at site scope", "editor", nil, domain.SiteScope(), apperrors.ErrForbidden},
		{"anonymous", "", domain.EditorialRoles, journalA, apperrors.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authorizer.Authorize(ctx, tt.principal, tt.required, tt.scope)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	err := authorizer.Authorize(ctx, "broken", domain.EditorialRoles, journalA)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrForbidden, "store failures are not denials")

	ok, err := authorizer.IsAuthorized(ctx, "editor", domain.EditorialRoles, journalB)
	require.NoError(t, err)
	assert.False(t, ok)
}
