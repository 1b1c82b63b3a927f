package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	"github.com/SscSPs/editorial_workflow/internal/utils/pagination"
)

func (s *Store) SaveSubmission(ctx context.Context, sub domain.Submission) error {
	return s.with(ctx, func(st *state) error {
		if _, ok := st.journals[sub.JournalID]; !ok {
			return missingReference()
		}
		if _, ok := st.submissions[sub.SubmissionID]; ok {
			return apperrors.NewConflictError("submission " + sub.SubmissionID + " already exists")
		}
		st.submissions[sub.SubmissionID] = sub
		return nil
	})
}

func (s *Store) FindSubmissionByID(ctx context.Context, submissionID string) (*domain.Submission, error) {
	var out domain.Submission
	err := s.with(ctx, func(st *state) error {
		sub, ok := st.submissions[submissionID]
		if !ok {
			return notFound("submission", submissionID)
		}
		out = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// newerFirst orders by (at, id) descending, the keyset order used for paging.
func newerFirst(atI time.Time, idI string, atJ time.Time, idJ string) bool {
	if !atI.Equal(atJ) {
		return atI.After(atJ)
	}
	return idI > idJ
}

// afterCursor reports whether (at, id) sorts after the cursor in newerFirst order.
func afterCursor(at time.Time, id string, c pagination.Cursor) bool {
	return newerFirst(c.At, c.ID, at, id)
}

func decodeCursor(nextToken *string) (*pagination.Cursor, error) {
	if nextToken == nil || *nextToken == "" {
		return nil, nil
	}
	c, err := pagination.DecodeToken(*nextToken)
	if err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}
	return &c, nil
}

func (s *Store) ListSubmissionsByJournal(ctx context.Context, journalID string, limit int, nextToken *string) ([]domain.Submission, *string, error) {
	cursor, err := decodeCursor(nextToken)
	if err != nil {
		return nil, nil, err
	}
	var out []domain.Submission
	err = s.with(ctx, func(st *state) error {
		for _, sub := range st.submissions {
			if sub.JournalID != journalID {
				continue
			}
			if cursor != nil && !afterCursor(sub.DateSubmitted, sub.SubmissionID, *cursor) {
				continue
			}
			out = append(out, sub)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].DateSubmitted, out[i].SubmissionID, out[j].DateSubmitted, out[j].SubmissionID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	if len(out) == 0 {
		return []domain.Submission{}, nil, nil
	}
	last := out[len(out)-1]
	return out, pagination.NextToken(len(out), limit, last.DateSubmitted, last.SubmissionID), nil
}

func (s *Store) UpdateSubmissionState(ctx context.Context, submissionID string, from, to domain.SubmissionState, updatedBy string, updatedAt time.Time) (bool, error) {
	updated := false
	err := s.with(ctx, func(st *state) error {
		sub, ok := st.submissions[submissionID]
		if !ok || sub.State() != from {
			return nil
		}
		sub.Stage = to.Stage
		sub.Status = to.Status
		sub.LastUpdatedAt = updatedAt
		sub.LastUpdatedBy = updatedBy
		st.submissions[submissionID] = sub
		updated = true
		return nil
	})
	return updated, err
}

func (s *Store) SetCurrentVersion(ctx context.Context, submissionID, versionID string, updatedBy string, updatedAt time.Time) error {
	return s.with(ctx, func(st *state) error {
		sub, ok := st.submissions[submissionID]
		if !ok {
			return notFound("submission", submissionID)
		}
		id := versionID
		sub.CurrentVersionID = &id
		sub.LastUpdatedAt = updatedAt
		sub.LastUpdatedBy = updatedBy
		st.submissions[submissionID] = sub
		return nil
	})
}

func (s *Store) AppendActivity(ctx context.Context, entry domain.ActivityLogEntry) error {
	return s.with(ctx, func(st *state) error {
		st.activity = append(st.activity, entry)
		return nil
	})
}

func (s *Store) ListActivity(ctx context.Context, submissionID string, limit int, nextToken *string) ([]domain.ActivityLogEntry, *string, error) {
	cursor, err := decodeCursor(nextToken)
	if err != nil {
		return nil, nil, err
	}
	var out []domain.ActivityLogEntry
	err = s.with(ctx, func(st *state) error {
		for _, e := range st.activity {
			if e.SubmissionID != submissionID {
				continue
			}
			if cursor != nil && !afterCursor(e.CreatedAt, e.EntryID, *cursor) {
				continue
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[i].EntryID, out[j].CreatedAt, out[j].EntryID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	if len(out) == 0 {
		return []domain.ActivityLogEntry{}, nil, nil
	}
	last := out[len(out)-1]
	return out, pagination.NextToken(len(out), limit, last.CreatedAt, last.EntryID), nil
}
