package domain

import (
	"fmt"
	"time"
)

// Issue is a numbered publication of a journal that versions are placed into.
type Issue struct {
	IssueID       string     `json:"issueID"`
	JournalID     string     `json:"journalID"`
	Volume        int        `json:"volume"`
	Number        string     `json:"number"`
	Year          int        `json:"year"`
	Title         string     `json:"title,omitempty"`
	Published     bool       `json:"published"`
	DatePublished *time.Time `json:"datePublished,omitempty"`
	AuditFields
}

// Label renders the conventional "Vol. 3 No. 2 (2025)" form.
func (i Issue) Label() string {
	return fmt.Sprintf("Vol. %d No. %s (%d)", i.Volume, i.Number, i.Year)
}
