package domain

import (
	"fmt"
	"slices"
)

// Role is the closed set of roles a principal can hold.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleSiteAdmin
	RoleManager
	RoleEditor
	RoleSectionEditor
	RoleReviewer
	RoleAuthor
)

var roleNames = map[Role]string{
	RoleSiteAdmin:     "site_admin",
	RoleManager:       "manager",
	RoleEditor:        "editor",
	RoleSectionEditor: "section_editor",
	RoleReviewer:      "reviewer",
	RoleAuthor:        "author",
}

// legacyRoleLabels is the single mapping from stored role_name strings to Role.
// Keys are normalized (see normalizeLabel).
var legacyRoleLabels = map[string]Role{
	"site_admin":      RoleSiteAdmin,
	"siteadmin":       RoleSiteAdmin,
	"admin":           RoleSiteAdmin,
	"manager":         RoleManager,
	"journal_manager": RoleManager,
	"journalmanager":  RoleManager,
	"editor":          RoleEditor,
	"section_editor":  RoleSectionEditor,
	"sectioneditor":   RoleSectionEditor,
	"sub_editor":      RoleSectionEditor,
	"reviewer":        RoleReviewer,
	"author":          RoleAuthor,
}

// RoleClass is the numeric role class carried by normalized role groups.
type RoleClass int

const (
	RoleClassSiteAdmin     RoleClass = 0x1
	RoleClassManager       RoleClass = 0x10
	RoleClassEditor        RoleClass = 0x100
	RoleClassSectionEditor RoleClass = 0x200
	RoleClassReviewer      RoleClass = 0x1000
	RoleClassAuthor        RoleClass = 0x10000
)

var roleClasses = map[Role]RoleClass{
	RoleSiteAdmin:     RoleClassSiteAdmin,
	RoleManager:       RoleClassManager,
	RoleEditor:        RoleClassEditor,
	RoleSectionEditor: RoleClassSectionEditor,
	RoleReviewer:      RoleClassReviewer,
	RoleAuthor:        RoleClassAuthor,
}

// Role sets used to gate workflow operations. Site admins always pass.
var (
	EditorialRoles        = []Role{RoleManager, RoleEditor}
	ReviewManagementRoles = []Role{RoleManager, RoleEditor, RoleSectionEditor}
	PublishingRoles       = []Role{RoleManager, RoleEditor, RoleSectionEditor}
	RoleAdminRoles        = []Role{RoleManager}
)

// ParseRoleName maps a stored or submitted role label to a Role.
func ParseRoleName(label string) (Role, error) {
	if r, ok := legacyRoleLabels[normalizeLabel(label)]; ok {
		return r, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role name %q", label)
}

// RoleFromClass maps a normalized role class back to a Role.
func RoleFromClass(class RoleClass) (Role, error) {
	for r, c := range roleClasses {
		if c == class {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("unknown role class %d", class)
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "unknown"
}

// Labels returns every stored spelling of r, canonical first.
func (r Role) Labels() []string {
	return labelsOf(r, r.String(), legacyRoleLabels)
}

// Class returns the normalized role class of r.
func (r Role) Class() RoleClass {
	return roleClasses[r]
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

// SiteScoped reports whether r may only be held at site scope.
func (r Role) SiteScoped() bool {
	return r == RoleSiteAdmin
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid role %d", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRoleName(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Scope is either the whole site (empty JournalID) or a single journal.
type Scope struct {
	JournalID string `json:"journalID,omitempty"`
}

// SiteScope returns the site-wide scope.
func SiteScope() Scope { return Scope{} }

// JournalScope returns the scope of one journal.
func JournalScope(journalID string) Scope { return Scope{JournalID: journalID} }

// IsSite reports whether s is the site-wide scope.
func (s Scope) IsSite() bool { return s.JournalID == "" }

// JournalRef returns the journal id as a nullable column value.
func (s Scope) JournalRef() *string {
	if s.IsSite() {
		return nil
	}
	id := s.JournalID
	return &id
}

// ScopeFromRef builds a Scope from a nullable journal id column.
func ScopeFromRef(journalID *string) Scope {
	if journalID == nil {
		return SiteScope()
	}
	return JournalScope(*journalID)
}

func (s Scope) String() string {
	if s.IsSite() {
		return "site"
	}
	return "journal:" + s.JournalID
}

// RoleAssignment is the flat form: (user, scope, role).
type RoleAssignment struct {
	UserID string `json:"userID"`
	Scope  Scope  `json:"scope"`
	Role   Role   `json:"role"`
}

// Validate checks that the assignment is well formed.
func (a RoleAssignment) Validate() error {
	if a.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if !a.Role.IsValid() {
		return fmt.Errorf("role is required")
	}
	if a.Role.SiteScoped() && !a.Scope.IsSite() {
		return fmt.Errorf("role %s can only be held at site scope", a.Role)
	}
	if !a.Role.SiteScoped() && a.Scope.IsSite() {
		return fmt.Errorf("role %s must be scoped to a journal", a.Role)
	}
	return nil
}

// Key identifies the logical fact independent of its encoding.
func (a RoleAssignment) Key() string {
	return a.UserID + "|" + a.Scope.String() + "|" + a.Role.String()
}

// RoleGroup is the normalized-form group a membership points at.
type RoleGroup struct {
	GroupID string    `json:"groupID"`
	Scope   Scope     `json:"scope"`
	Class   RoleClass `json:"roleClass"`
}

// GroupMembership is a normalized-form row joined with its group.
type GroupMembership struct {
	UserID  string    `json:"userID"`
	GroupID string    `json:"groupID"`
	Scope   Scope     `json:"scope"`
	Class   RoleClass `json:"roleClass"`
}

// Assignment converts the membership to its flat equivalent.
func (m GroupMembership) Assignment() (RoleAssignment, error) {
	role, err := RoleFromClass(m.Class)
	if err != nil {
		return RoleAssignment{}, err
	}
	return RoleAssignment{UserID: m.UserID, Scope: m.Scope, Role: role}, nil
}

// HoldsAny reports whether assignments grant site admin, or any of required in scope.
func HoldsAny(assignments []RoleAssignment, required []Role, scope Scope) bool {
	for _, a := range assignments {
		if a.Role == RoleSiteAdmin && a.Scope.IsSite() {
			return true
		}
		if scope.IsSite() || a.Scope != scope {
			continue
		}
		if slices.Contains(required, a.Role) {
			return true
		}
	}
	return false
}
