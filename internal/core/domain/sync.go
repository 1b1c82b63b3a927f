package domain

// SyncReport is the outcome of projecting flat role rows into the normalized form.
type SyncReport struct {
	JournalID          string            `json:"journalID,omitempty"`
	DryRun             bool              `json:"dryRun"`
	FlatAssignments    int               `json:"flatAssignments"`
	GroupsCreated      int               `json:"groupsCreated"`
	MembershipsCreated int               `json:"membershipsCreated"`
	AlreadyPresent     int               `json:"alreadyPresent"`
	Divergences        []RoleAssignment  `json:"divergences"`
	Unmapped           []GroupMembership `json:"unmapped,omitempty"`
}

// Changed reports whether the run created anything.
func (r SyncReport) Changed() bool {
	return r.GroupsCreated > 0 || r.MembershipsCreated > 0
}

// ConsistencyReport lists drift between the two role representations in both directions.
type ConsistencyReport struct {
	JournalID         string            `json:"journalID,omitempty"`
	MissingNormalized []RoleAssignment  `json:"missingNormalized"`  // flat rows without a membership
	MissingFlat       []RoleAssignment  `json:"missingFlat"`        // memberships without a flat row
	Unmapped          []GroupMembership `json:"unmapped,omitempty"` // memberships with an unknown role class
}

// Consistent reports whether both forms denote the same set of facts.
func (r ConsistencyReport) Consistent() bool {
	return len(r.MissingNormalized) == 0 && len(r.MissingFlat) == 0 && len(r.Unmapped) == 0
}

// DiffAssignments returns the members of a whose Key is absent from b.
func DiffAssignments(a, b []RoleAssignment) []RoleAssignment {
	seen := make(map[string]struct{}, len(b))
	for _, x := range b {
		seen[x.Key()] = struct{}{}
	}
	out := []RoleAssignment{}
	for _, x := range a {
		if _, ok := seen[x.Key()]; !ok {
			out = append(out, x)
		}
	}
	return out
}
