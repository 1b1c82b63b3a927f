package domain_test

import (
	"testing"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoleName(t *testing.T) {
	tests := []struct {
		label   string
		want    domain.Role
		wantErr bool
	}{
		{label: "manager", want: domain.RoleManager},
		{label: "Journal Manager", want: domain.RoleManager},
		{label: "journal-manager", want: domain.RoleManager},
		{label: "admin", want: domain.RoleSiteAdmin},
		{label: "SITE_ADMIN", want: domain.RoleSiteAdmin},
		{label: "sub_editor", want: domain.RoleSectionEditor},
		{label: " reviewer ", want: domain.RoleReviewer},
		{label: "author", want: domain.RoleAuthor},
		{label: "copyeditor", wantErr: true},
		{label: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := domain.ParseRoleName(tt.label)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, domain.RoleUnknown, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleClassRoundTrip(t *testing.T) {
	for _, r := range []domain.Role{
		domain.RoleSiteAdmin, domain.RoleManager, domain.RoleEditor,
		domain.RoleSectionEditor, domain.RoleReviewer, domain.RoleAuthor,
	} {
		got, err := domain.RoleFromClass(r.Class())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}

	_, err := domain.RoleFromClass(domain.RoleClass(0x4000))
	assert.Error(t, err)
}

func TestRoleAssignment_Validate(t *testing.T) {
	tests := []struct {
		name    string
		a       domain.RoleAssignment
		wantErr bool
	}{
		{name: "journal editor", a: domain.RoleAssignment{UserID: "u1", Scope: domain.JournalScope("j1"), Role: domain.RoleEditor}},
		{name: "site admin", a: domain.RoleAssignment{UserID: "u1", Scope: domain.SiteScope(), Role: domain.RoleSiteAdmin}},
		{name: "site admin scoped to journal", a: domain.RoleAssignment{UserID: "u1", Scope: domain.JournalScope("j1"), Role: domain.RoleSiteAdmin}, wantErr: true},
		{name: "editor without journal", a: domain.RoleAssignment{UserID: "u1", Scope: domain.SiteScope(), Role: domain.RoleEditor}, wantErr: true},
		{name: "missing user", a: domain.RoleAssignment{Scope: domain.JournalScope("j1"), Role: domain.RoleEditor}, wantErr: true},
		{name: "unknown role", a: domain.RoleAssignment{UserID: "u1", Scope: domain.JournalScope("j1")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHoldsAny(t *testing.T) {
	reviewerA := []domain.RoleAssignment{{UserID: "u1", Scope: domain.JournalScope("A"), Role: domain.RoleReviewer}}
	editorA := []domain.RoleAssignment{{UserID: "u1", Scope: domain.JournalScope("A"), Role: domain.RoleEditor}}
	admin := []domain.RoleAssignment{{UserID: "u1", Scope: domain.SiteScope(), Role: domain.RoleSiteAdmin}}

	assert.False(t, domain.HoldsAny(reviewerA, domain.PublishingRoles, domain.JournalScope("A")))
	assert.False(t, domain.HoldsAny(reviewerA, []domain.Role{domain.RoleReviewer}, domain.JournalScope("B")))
	assert.True(t, domain.HoldsAny(reviewerA, []domain.Role{domain.RoleReviewer}, domain.JournalScope("A")))
	assert.True(t, domain.HoldsAny(editorA, domain.EditorialRoles, domain.JournalScope("A")))
	assert.False(t, domain.HoldsAny(editorA, domain.EditorialRoles, domain.JournalScope("B")))
	assert.True(t, domain.HoldsAny(admin, domain.EditorialRoles, domain.JournalScope("B")))
	assert.True(t, domain.HoldsAny(admin, nil, domain.SiteScope()))
	assert.False(t, domain.HoldsAny(nil, domain.EditorialRoles, domain.JournalScope("A")))
}

func TestDiffAssignments(t *testing.T) {
	a := domain.RoleAssignment{UserID: "u1", Scope: domain.JournalScope("j1"), Role: domain.RoleEditor}
	b := domain.RoleAssignment{UserID: "u2", Scope: domain.JournalScope("j1"), Role: domain.RoleReviewer}

	assert.Equal(t, []domain.RoleAssignment{b}, domain.DiffAssignments([]domain.RoleAssignment{a, b}, []domain.RoleAssignment{a}))
	assert.Empty(t, domain.DiffAssignments([]domain.RoleAssignment{a}, []domain.RoleAssignment{a, b}))
}

func TestRoleLabels(t *testing.T) {
	labels := domain.RoleSectionEditor.Labels()
	require.NotEmpty(t, labels)
	assert.Equal(t, "section_editor", labels[0])
	assert.ElementsMatch(t, []string{"section_editor", "sectioneditor", "sub_editor"}, labels)

	for _, l := range domain.RoleManager.Labels() {
		r, err := domain.ParseRoleName(l)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleManager, r, l)
	}
}
