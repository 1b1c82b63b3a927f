package domain

import (
	"fmt"
	"maps"
	"time"
)

// VersionStatus is the publication status of one version.
type VersionStatus uint8

const (
	VersionStatusUnknown VersionStatus = iota
	VersionQueued
	VersionScheduled
	VersionPublished
)

var versionStatusNames = map[VersionStatus]string{
	VersionQueued:    "queued",
	VersionScheduled: "scheduled",
	VersionPublished: "published",
}

// ParseVersionStatus maps a stored status label to a VersionStatus.
func ParseVersionStatus(label string) (VersionStatus, error) {
	l := normalizeLabel(label)
	for s, n := range versionStatusNames {
		if n == l {
			return s, nil
		}
	}
	return VersionStatusUnknown, fmt.Errorf("unknown version status %q", label)
}

func (s VersionStatus) String() string {
	if n, ok := versionStatusNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s VersionStatus) MarshalText() ([]byte, error) {
	if _, ok := versionStatusNames[s]; !ok {
		return nil, fmt.Errorf("invalid version status %d", s)
	}
	return []byte(s.String()), nil
}

// SubmissionStatusFor mirrors a current version's status onto its submission.
func (s VersionStatus) SubmissionStatusFor() SubmissionStatus {
	switch s {
	case VersionPublished:
		return SubmissionPublished
	case VersionScheduled:
		return SubmissionScheduled
	default:
		return SubmissionQueued
	}
}

// Metadata keys written by issue placement.
const (
	MetaIssueID       = "issueId"
	MetaSection       = "section"
	MetaPages         = "pages"
	MetaURL           = "url"
	MetaDatePublished = "datePublished"
)

// Version is an immutable numbered snapshot of a submission's content.
type Version struct {
	VersionID    string         `json:"versionID"`
	SubmissionID string         `json:"submissionID"`
	Number       int            `json:"version"`
	Status       VersionStatus  `json:"status"`
	ScheduledAt  *time.Time     `json:"scheduledAt,omitempty"`
	PublishedAt  *time.Time     `json:"publishedAt,omitempty"`
	Metadata     map[string]any `json:"metadata"`
	AuditFields
}

// IssueID returns the issue the version is placed in, if any.
func (v Version) IssueID() (string, bool) {
	id, ok := v.Metadata[MetaIssueID].(string)
	return id, ok && id != ""
}

// VersionStatusChange describes a compare-and-set on a version's status.
type VersionStatusChange struct {
	From        []VersionStatus
	To          VersionStatus
	ScheduledAt *time.Time
	PublishedAt *time.Time
	UpdatedBy   string
	UpdatedAt   time.Time
}

// IssuePlacement places a version in an issue.
type IssuePlacement struct {
	IssueID       string
	Section       string
	Pages         string
	URL           string
	DatePublished *time.Time
}

// MetadataPatch returns only the keys the placement sets.
func (p IssuePlacement) MetadataPatch() map[string]any {
	patch := map[string]any{MetaIssueID: p.IssueID}
	if p.Section != "" {
		patch[MetaSection] = p.Section
	}
	if p.Pages != "" {
		patch[MetaPages] = p.Pages
	}
	if p.URL != "" {
		patch[MetaURL] = p.URL
	}
	if p.DatePublished != nil {
		patch[MetaDatePublished] = p.DatePublished.Format(DateLayout)
	}
	return patch
}

// MergeMetadata returns base with patch applied on top; neither input is modified.
func MergeMetadata(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	maps.Copy(out, base)
	maps.Copy(out, patch)
	return out
}

// DateLayout is the calendar date format accepted for publish and issue dates.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date or an RFC 3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", value)
	}
	return t.UTC(), nil
}
