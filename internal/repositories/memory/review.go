package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
)

func (s *Store) SaveReviewRound(ctx context.Context, round domain.ReviewRound) error {
	return s.with(ctx, func(st *state) error {
		if _, ok := st.submissions[round.SubmissionID]; !ok {
			return missingReference()
		}
		for _, r := range st.rounds {
			if r.SubmissionID == round.SubmissionID && r.RoundNumber == round.RoundNumber {
				return apperrors.NewConflictError(fmt.Sprintf("review round %d already exists", round.RoundNumber))
			}
		}
		st.rounds[round.RoundID] = round
		return nil
	})
}

func (s *Store) FindReviewRoundByID(ctx context.Context, roundID string) (*domain.ReviewRound, error) {
	var out domain.ReviewRound
	err := s.with(ctx, func(st *state) error {
		r, ok := st.rounds[roundID]
		if !ok {
			return notFound("review round", roundID)
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) ListReviewRounds(ctx context.Context, submissionID string) ([]domain.ReviewRound, error) {
	var out []domain.ReviewRound
	err := s.with(ctx, func(st *state) error {
		for _, r := range st.rounds {
			if r.SubmissionID == submissionID {
				out = append(out, r)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].RoundNumber < out[j].RoundNumber })
	return out, err
}

func (s *Store) RecordRoundDecision(ctx context.Context, roundID string, decision domain.EditorialDecision, decidedAt time.Time) (bool, error) {
	updated := false
	err := s.with(ctx, func(st *state) error {
		r, ok := st.rounds[roundID]
		if !ok || r.Decided() {
			return nil
		}
		r.Decision = decision
		at := decidedAt
		r.DecidedAt = &at
		st.rounds[roundID] = r
		updated = true
		return nil
	})
	return updated, err
}

func (s *Store) ReviseRoundDecision(ctx context.Context, roundID string, from, to domain.EditorialDecision, decidedAt time.Time) (bool, error) {
	updated := false
	err := s.with(ctx, func(st *state) error {
		r, ok := st.rounds[roundID]
		if !ok || r.Decision != from {
			return nil
		}
		r.Decision = to
		at := decidedAt
		r.DecidedAt = &at
		st.rounds[roundID] = r
		updated = true
		return nil
	})
	return updated, err
}

func (s *Store) SaveReviewAssignment(ctx context.Context, a domain.ReviewAssignment) error {
	return s.with(ctx, func(st *state) error {
		if _, ok := st.rounds[a.RoundID]; !ok {
			return missingReference()
		}
		if _, ok := st.users[a.ReviewerID]; !ok {
			return missingReference()
		}
		for _, existing := range st.assignments {
			if existing.RoundID == a.RoundID && existing.ReviewerID == a.ReviewerID && existing.Status != domain.AssignmentDeclined {
				return apperrors.NewConflictError("reviewer already has an active assignment in this round")
			}
		}
		st.assignments[a.AssignmentID] = a
		return nil
	})
}

func (s *Store) FindReviewAssignmentByID(ctx context.Context, assignmentID string) (*domain.ReviewAssignment, error) {
	var out domain.ReviewAssignment
	err := s.with(ctx, func(st *state) error {
		a, ok := st.assignments[assignmentID]
		if !ok {
			return notFound("review assignment", assignmentID)
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) ListAssignmentsByRound(ctx context.Context, roundID string) ([]domain.ReviewAssignment, error) {
	var out []domain.ReviewAssignment
	err := s.with(ctx, func(st *state) error {
		for _, a := range st.assignments {
			if a.RoundID == roundID {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateAssigned.Equal(out[j].DateAssigned) {
			return out[i].DateAssigned.Before(out[j].DateAssigned)
		}
		return out[i].AssignmentID < out[j].AssignmentID
	})
	return out, err
}

func (s *Store) UpdateAssignmentStatus(ctx context.Context, assignmentID string, change domain.AssignmentChange) (bool, error) {
	updated := false
	err := s.with(ctx, func(st *state) error {
		a, ok := st.assignments[assignmentID]
		if !ok || !slices.Contains(change.From, a.Status) {
			return nil
		}
		a.Status = change.To
		if change.Recommendation != nil {
			rec := *change.Recommendation
			a.Recommendation = &rec
		}
		if change.RespondedAt != nil {
			at := *change.RespondedAt
			a.DateResponded = &at
		}
		if change.CompletedAt != nil {
			at := *change.CompletedAt
			a.DateCompleted = &at
		}
		st.assignments[assignmentID] = a
		updated = true
		return nil
	})
	return updated, err
}
