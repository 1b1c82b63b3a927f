package models

// UserRole is a row of the flat user_roles table. RoleName holds whatever label
// was written, including legacy spellings.
type UserRole struct {
	UserID    string  `db:"user_id"`
	JournalID *string `db:"journal_id"`
	RoleName  string  `db:"role_name"`
}

// UserGroup is a row of the normalized user_groups table.
type UserGroup struct {
	GroupID   string  `db:"group_id"`
	JournalID *string `db:"journal_id"`
	RoleID    int     `db:"role_id"`
}

// UserGroupMembership is a user_user_groups row joined with its group.
type UserGroupMembership struct {
	UserID    string  `db:"user_id"`
	GroupID   string  `db:"group_id"`
	JournalID *string `db:"journal_id"`
	RoleID    int     `db:"role_id"`
}
