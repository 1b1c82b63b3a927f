package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
)

// ReviewAssignmentStatus values are stored as integers in review_assignments.status.
type ReviewAssignmentStatus int

const (
	AssignmentPending   ReviewAssignmentStatus = 0
	AssignmentAccepted  ReviewAssignmentStatus = 1
	AssignmentDeclined  ReviewAssignmentStatus = 2
	AssignmentCompleted ReviewAssignmentStatus = 3
)

var assignmentStatusNames = map[ReviewAssignmentStatus]string{
	AssignmentPending:   "pending",
	AssignmentAccepted:  "accepted",
	AssignmentDeclined:  "declined",
	AssignmentCompleted: "completed",
}

// assignmentTransitions lists the legal successors of each non-terminal status.
var assignmentTransitions = map[ReviewAssignmentStatus][]ReviewAssignmentStatus{
	AssignmentPending:  {AssignmentAccepted, AssignmentDeclined},
	AssignmentAccepted: {AssignmentCompleted, AssignmentDeclined},
}

// ReviewAssignmentStatusFromCode validates a stored status code.
func ReviewAssignmentStatusFromCode(code int) (ReviewAssignmentStatus, error) {
	s := ReviewAssignmentStatus(code)
	if _, ok := assignmentStatusNames[s]; !ok {
		return s, fmt.Errorf("unknown review assignment status code %d", code)
	}
	return s, nil
}

func (s ReviewAssignmentStatus) String() string {
	if n, ok := assignmentStatusNames[s]; ok {
		return n
	}
	return "unknown"
}

// IsTerminal reports whether the assignment is Completed or Declined.
func (s ReviewAssignmentStatus) IsTerminal() bool {
	return s == AssignmentCompleted || s == AssignmentDeclined
}

// CanTransitionTo reports whether s -> to is an edge of the assignment state machine.
func (s ReviewAssignmentStatus) CanTransitionTo(to ReviewAssignmentStatus) bool {
	return slices.Contains(assignmentTransitions[s], to)
}

func (s ReviewAssignmentStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Recommendation is the reviewer's verdict, stored as an integer code.
type Recommendation int

const (
	RecommendationAccept            Recommendation = 1
	RecommendationPendingRevisions  Recommendation = 2
	RecommendationResubmitHere      Recommendation = 3
	RecommendationResubmitElsewhere Recommendation = 4
	RecommendationDecline           Recommendation = 5
	RecommendationSeeComments       Recommendation = 6
)

var recommendationNames = map[Recommendation]string{
	RecommendationAccept:            "accept",
	RecommendationPendingRevisions:  "pending_revisions",
	RecommendationResubmitHere:      "resubmit_here",
	RecommendationResubmitElsewhere: "resubmit_elsewhere",
	RecommendationDecline:           "decline",
	RecommendationSeeComments:       "see_comments",
}

// RecommendationFromCode validates a stored recommendation code.
func RecommendationFromCode(code int) (Recommendation, error) {
	r := Recommendation(code)
	if _, ok := recommendationNames[r]; !ok {
		return r, fmt.Errorf("unknown recommendation code %d", code)
	}
	return r, nil
}

// ParseRecommendation maps a label to a Recommendation.
func ParseRecommendation(label string) (Recommendation, error) {
	l := normalizeLabel(label)
	for r, n := range recommendationNames {
		if n == l {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown recommendation %q", label)
}

func (r Recommendation) String() string {
	if n, ok := recommendationNames[r]; ok {
		return n
	}
	return "unknown"
}

func (r Recommendation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Recommendation) UnmarshalText(text []byte) error {
	parsed, err := ParseRecommendation(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ReviewRound is one cycle of reviewer invitations for a submission.
type ReviewRound struct {
	RoundID      string            `json:"roundID"`
	SubmissionID string            `json:"submissionID"`
	RoundNumber  int               `json:"roundNumber"`
	Stage        Stage             `json:"stage"`
	Decision     EditorialDecision `json:"decision"`
	DecidedAt    *time.Time        `json:"decidedAt,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	CreatedBy    string            `json:"createdBy"`
}

// Decided reports whether an editorial decision was recorded on the round.
func (r ReviewRound) Decided() bool {
	return r.Decision != DecisionNone
}

// ReviewAssignment invites one reviewer into one round.
type ReviewAssignment struct {
	AssignmentID   string                 `json:"assignmentID"`
	RoundID        string                 `json:"roundID"`
	SubmissionID   string                 `json:"submissionID"`
	ReviewerID     string                 `json:"reviewerID"`
	Status         ReviewAssignmentStatus `json:"status"`
	Recommendation *Recommendation        `json:"recommendation,omitempty"`
	DateAssigned   time.Time              `json:"dateAssigned"`
	DateResponded  *time.Time             `json:"dateResponded,omitempty"`
	DateDue        *time.Time             `json:"dateDue,omitempty"`
	DateCompleted  *time.Time             `json:"dateCompleted,omitempty"`
	AssignedBy     string                 `json:"assignedBy"`
}

// AssignmentChange describes a compare-and-set on an assignment's status.
type AssignmentChange struct {
	From           []ReviewAssignmentStatus
	To             ReviewAssignmentStatus
	Recommendation *Recommendation
	RespondedAt    *time.Time
	CompletedAt    *time.Time
}

// PlanAssignmentChange validates moving a to status `to`.
func PlanAssignmentChange(a ReviewAssignment, to ReviewAssignmentStatus, allowedFrom ...ReviewAssignmentStatus) error {
	if a.Status == AssignmentCompleted {
		return apperrors.NewInvalidTransitionError("review assignment is completed and read-only")
	}
	if len(allowedFrom) > 0 && !slices.Contains(allowedFrom, a.Status) {
		return apperrors.NewInvalidTransitionError(fmt.Sprintf("review assignment is %s; cannot move to %s", a.Status, to))
	}
	if !a.Status.CanTransitionTo(to) {
		return apperrors.NewInvalidTransitionError(fmt.Sprintf("review assignment is %s; cannot move to %s", a.Status, to))
	}
	return nil
}

// RoundClosed reports whether every assignment is Completed or Declined.
func RoundClosed(assignments []ReviewAssignment) bool {
	for _, a := range assignments {
		if !a.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// RoundDetail is a round with its assignments and computed closed flag.
type RoundDetail struct {
	Round       ReviewRound        `json:"round"`
	Assignments []ReviewAssignment `json:"assignments"`
	Closed      bool               `json:"closed"`
}

// ReviewInvitation carries what a reviewer notification needs.
type ReviewInvitation struct {
	Reviewer   User             `json:"reviewer"`
	Submission Submission       `json:"submission"`
	Journal    Journal          `json:"journal"`
	Assignment ReviewAssignment `json:"assignment"`
}
