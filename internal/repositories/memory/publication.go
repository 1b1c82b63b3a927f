package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

func copyVersion(v domain.Version) domain.Version {
	v.Metadata = maps.Clone(v.Metadata)
	if v.Metadata == nil {
		v.Metadata = map[string]any{}
	}
	return v
}

func sortVersions(vs []domain.Version) {
	sort.Slice(vs, func(i, j int) bool {
		if vs[i].SubmissionID != vs[j].SubmissionID {
			return vs[i].SubmissionID < vs[j].SubmissionID
		}
		return vs[i].Number < vs[j].Number
	})
}

func (s *Store) SaveVersion(ctx context.Context, version domain.Version) error {
	return s.with(ctx, func(st *state) error {
		if _, ok := st.submissions[version.SubmissionID]; !ok {
			return missingReference()
		}
		for _, v := range st.versions {
			if v.SubmissionID == version.SubmissionID && v.Number == version.Number {
				return apperrors.NewConflictError(fmt.Sprintf("version %d already exists", version.Number))
			}
		}
		st.versions[version.VersionID] = copyVersion(version)
		return nil
	})
}

func (s *Store) FindVersionByID(ctx context.Context, versionID string) (*domain.Version, error) {
	var out domain.Version
	err := s.with(ctx, func(st *state) error {
		v, ok := st.versions[versionID]
		if !ok {
			return notFound("version", versionID)
		}
		out = copyVersion(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) listVersions(ctx context.Context, keep func(domain.Version) bool) ([]domain.Version, error) {
	var out []domain.Version
	err := s.with(ctx, func(st *state) error {
		for _, v := range st.versions {
			if keep(v) {
				out = append(out, copyVersion(v))
			}
		}
		return nil
	})
	sortVersions(out)
	return out, err
}

func (s *Store) ListVersionsBySubmission(ctx context.Context, submissionID string) ([]domain.Version, error) {
	return s.listVersions(ctx, func(v domain.Version) bool { return v.SubmissionID == submissionID })
}

func (s *Store) MaxVersionNumber(ctx context.Context, submissionID string) (int, error) {
	maxNumber := 0
	err := s.with(ctx, func(st *state) error {
		for _, v := range st.versions {
			if v.SubmissionID == submissionID && v.Number > maxNumber {
				maxNumber = v.Number
			}
		}
		return nil
	})
	return maxNumber, err
}

func (s *Store) ListVersionsByIssue(ctx context.Context, issueID string, statuses ...domain.VersionStatus) ([]domain.Version, error) {
	return s.listVersions(ctx, func(v domain.Version) bool {
		id, ok := v.IssueID()
		return ok && id == issueID && (len(statuses) == 0 || slices.Contains(statuses, v.Status))
	})
}

func (s *Store) ListDueScheduledVersions(ctx context.Context, now time.Time) ([]domain.Version, error) {
	out, err := s.listVersions(ctx, func(v domain.Version) bool {
		return v.Status == domain.VersionScheduled && v.ScheduledAt != nil && !v.ScheduledAt.After(now)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].ScheduledAt.Before(*out[j].ScheduledAt) })
	return out, err
}

func (s *Store) UpdateVersionStatus(ctx context.Context, versionID string, change domain.VersionStatusChange) (bool, error) {
	updated := false
	err := s.with(ctx, func(st *state) error {
		v, ok := st.versions[versionID]
		if !ok || !slices.Contains(change.From, v.Status) {
			return nil
		}
		v.Status = change.To
		v.ScheduledAt = change.ScheduledAt
		v.PublishedAt = change.PublishedAt
		v.LastUpdatedAt = change.UpdatedAt
		v.LastUpdatedBy = change.UpdatedBy
		st.versions[versionID] = v
		updated = true
		return nil
	})
	return updated, err
}

func (s *Store) MergeVersionMetadata(ctx context.Context, versionID string, patch map[string]any, updatedBy string, updatedAt time.Time) error {
	return s.with(ctx, func(st *state) error {
		v, ok := st.versions[versionID]
		if !ok {
			return notFound("version", versionID)
		}
		v.Metadata = domain.MergeMetadata(v.Metadata, patch)
		v.LastUpdatedAt = updatedAt
		v.LastUpdatedBy = updatedBy
		st.versions[versionID] = v
		return nil
	})
}

func (s *Store) SaveIssue(ctx context.Context, issue domain.Issue) error {
	return s.with(ctx, func(st *state) error {
		if _, ok := st.journals[issue.JournalID]; !ok {
			return missingReference()
		}
		for _, i := range st.issues {
			if i.IssueID == issue.IssueID || (i.JournalID == issue.JournalID && i.Volume == issue.Volume && i.Number == issue.Number && i.Year == issue.Year) {
				return apperrors.NewConflictError(issue.Label() + " already exists")
			}
		}
		st.issues[issue.IssueID] = issue
		return nil
	})
}

func (s *Store) FindIssueByID(ctx context.Context, issueID string) (*domain.Issue, error) {
	var out domain.Issue
	err := s.with(ctx, func(st *state) error {
		i, ok := st.issues[issueID]
		if !ok {
			return notFound("issue", issueID)
		}
		out = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) ListIssuesByJournal(ctx context.Context, journalID string) ([]domain.Issue, error) {
	var out []domain.Issue
	err := s.with(ctx, func(st *state) error {
		for _, i := range st.issues {
			if i.JournalID == journalID {
				out = append(out, i)
			}
		}
		return nil
	})
	sort.Slice(out, func(a, b int) bool {
		if out[a].Year != out[b].Year {
			return out[a].Year > out[b].Year
		}
		if out[a].Volume != out[b].Volume {
			return out[a].Volume > out[b].Volume
		}
		return out[a].Number > out[b].Number
	})
	return out, err
}

func (s *Store) SetIssuePublished(ctx context.Context, issueID string, published bool, datePublished *time.Time, updatedBy string, updatedAt time.Time) (bool, error) {
	updated := false
	err := s.with(ctx, func(st *state) error {
		i, ok := st.issues[issueID]
		if !ok || i.Published == published {
			return nil
		}
		i.Published = published
		i.DatePublished = datePublished
		i.LastUpdatedAt = updatedAt
		i.LastUpdatedBy = updatedBy
		st.issues[issueID] = i
		updated = true
		return nil
	})
	return updated, err
}
