package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
)

// Stage is one of the four sequential editorial phases.
type Stage uint8

const (
	StageUnknown Stage = iota
	StageSubmission
	StageReview
	StageCopyediting
	StageProduction
)

var stageNames = map[Stage]string{
	StageSubmission:  "submission",
	StageReview:      "review",
	StageCopyediting: "copyediting",
	StageProduction:  "production",
}

var legacyStageLabels = map[string]Stage{
	"submission":      StageSubmission,
	"review":          StageReview,
	"external_review": StageReview,
	"externalreview":  StageReview,
	"copyediting":     StageCopyediting,
	"copy_editing":    StageCopyediting,
	"editing":         StageCopyediting,
	"production":      StageProduction,
}

// ParseStage maps a stored or submitted stage label to a Stage.
func ParseStage(label string) (Stage, error) {
	if s, ok := legacyStageLabels[normalizeLabel(label)]; ok {
		return s, nil
	}
	return StageUnknown, fmt.Errorf("unknown stage %q", label)
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return "unknown"
}

// Labels returns every stored spelling of s, canonical first.
func (s Stage) Labels() []string {
	return labelsOf(s, s.String(), legacyStageLabels)
}

func (s Stage) IsValid() bool {
	_, ok := stageNames[s]
	return ok
}

// Next returns the stage that directly follows s.
func (s Stage) Next() (Stage, bool) {
	if !s.IsValid() || s == StageProduction {
		return StageUnknown, false
	}
	return s + 1, true
}

func (s Stage) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid stage %d", s)
	}
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// SubmissionStatus is the submission-level status.
type SubmissionStatus uint8

const (
	SubmissionStatusUnknown SubmissionStatus = iota
	SubmissionQueued
	SubmissionInReview
	SubmissionScheduled
	SubmissionPublished
	SubmissionDeclined
	SubmissionWithdrawn
)

var submissionStatusNames = map[SubmissionStatus]string{
	SubmissionQueued:    "queued",
	SubmissionInReview:  "in_review",
	SubmissionScheduled: "scheduled",
	SubmissionPublished: "published",
	SubmissionDeclined:  "declined",
	SubmissionWithdrawn: "withdrawn",
}

var legacySubmissionStatusLabels = map[string]SubmissionStatus{
	"queued":    SubmissionQueued,
	"in_review": SubmissionInReview,
	"inreview":  SubmissionInReview,
	"scheduled": SubmissionScheduled,
	"published": SubmissionPublished,
	"declined":  SubmissionDeclined,
	"rejected":  SubmissionDeclined,
	"withdrawn": SubmissionWithdrawn,
}

// ParseSubmissionStatus maps a stored status label to a SubmissionStatus.
func ParseSubmissionStatus(label string) (SubmissionStatus, error) {
	if s, ok := legacySubmissionStatusLabels[normalizeLabel(label)]; ok {
		return s, nil
	}
	return SubmissionStatusUnknown, fmt.Errorf("unknown submission status %q", label)
}

func (s SubmissionStatus) String() string {
	if n, ok := submissionStatusNames[s]; ok {
		return n
	}
	return "unknown"
}

// Labels returns every stored spelling of s, canonical first.
func (s SubmissionStatus) Labels() []string {
	return labelsOf(s, s.String(), legacySubmissionStatusLabels)
}

// IsTerminal reports whether no further transition is accepted.
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionDeclined || s == SubmissionWithdrawn
}

func (s SubmissionStatus) MarshalText() ([]byte, error) {
	if _, ok := submissionStatusNames[s]; !ok {
		return nil, fmt.Errorf("invalid submission status %d", s)
	}
	return []byte(s.String()), nil
}

func (s *SubmissionStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseSubmissionStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// SubmissionState is the (stage, status) pair guarded by compare-and-set writes.
type SubmissionState struct {
	Stage  Stage            `json:"stage"`
	Status SubmissionStatus `json:"status"`
}

// Submission is a manuscript moving through the editorial stages of one journal.
type Submission struct {
	SubmissionID     string           `json:"submissionID"`
	JournalID        string           `json:"journalID"`
	SubmitterID      string           `json:"submitterID"`
	Title            string           `json:"title"`
	Stage            Stage            `json:"stage"`
	Status           SubmissionStatus `json:"status"`
	CurrentVersionID *string          `json:"currentVersionID,omitempty"`
	DateSubmitted    time.Time        `json:"dateSubmitted"`
	AuditFields
}

// State returns the guarded (stage, status) pair.
func (s Submission) State() SubmissionState {
	return SubmissionState{Stage: s.Stage, Status: s.Status}
}

// IsTerminal reports whether the submission was declined or withdrawn.
func (s Submission) IsTerminal() bool {
	return s.Status.IsTerminal()
}

// statusForStage is the status a live submission carries while in a stage.
func statusForStage(stage Stage) SubmissionStatus {
	if stage == StageReview {
		return SubmissionInReview
	}
	return SubmissionQueued
}

func rejectTerminal(from SubmissionState) error {
	if from.Status.IsTerminal() {
		return apperrors.NewInvalidTransitionError(fmt.Sprintf("submission is %s; no further transitions are accepted", from.Status))
	}
	return nil
}

// PlanAdvance validates a forward move to target and returns the new state.
// Stage-exit preconditions beyond ordering are checked by the caller.
func PlanAdvance(from SubmissionState, target Stage) (SubmissionState, error) {
	if err := rejectTerminal(from); err != nil {
		return from, err
	}
	next, ok := from.Stage.Next()
	if !ok || next != target {
		return from, apperrors.NewInvalidTransitionError(fmt.Sprintf("cannot move submission from %s to %s", from.Stage, target))
	}
	return SubmissionState{Stage: target, Status: statusForStage(target)}, nil
}

// PlanReturnToReview validates the copyediting -> review revision path.
func PlanReturnToReview(from SubmissionState) (SubmissionState, error) {
	if err := rejectTerminal(from); err != nil {
		return from, err
	}
	if from.Stage != StageCopyediting {
		return from, apperrors.NewInvalidTransitionError(fmt.Sprintf("cannot return submission to review from %s", from.Stage))
	}
	return SubmissionState{Stage: StageReview, Status: SubmissionInReview}, nil
}

// PlanTerminate validates entering declined or withdrawn.
func PlanTerminate(from SubmissionState, status SubmissionStatus) (SubmissionState, error) {
	if !status.IsTerminal() {
		return from, apperrors.NewValidationFailedError("terminal status must be declined or withdrawn")
	}
	if err := rejectTerminal(from); err != nil {
		return from, err
	}
	return SubmissionState{Stage: from.Stage, Status: status}, nil
}

// EditorialDecision is recorded on a review round by an editor.
type EditorialDecision int

const (
	DecisionNone             EditorialDecision = 0
	DecisionAccept           EditorialDecision = 1
	DecisionRequestRevisions EditorialDecision = 2
	DecisionResubmit         EditorialDecision = 3
)

var decisionNames = map[EditorialDecision]string{
	DecisionAccept:           "accept",
	DecisionRequestRevisions: "request_revisions",
	DecisionResubmit:         "resubmit",
}

var decisionLabels = map[string]EditorialDecision{
	"accept":            DecisionAccept,
	"request_revisions": DecisionRequestRevisions,
	"pending_revisions": DecisionRequestRevisions,
	"revisions":         DecisionRequestRevisions,
	"resubmit":          DecisionResubmit,
}

// ParseEditorialDecision maps a label to an EditorialDecision.
func ParseEditorialDecision(label string) (EditorialDecision, error) {
	if d, ok := decisionLabels[normalizeLabel(label)]; ok {
		return d, nil
	}
	return DecisionNone, fmt.Errorf("unknown editorial decision %q", label)
}

// EditorialDecisionFromCode validates a stored decision code.
func EditorialDecisionFromCode(code int) (EditorialDecision, error) {
	d := EditorialDecision(code)
	if d == DecisionNone {
		return d, nil
	}
	if _, ok := decisionNames[d]; !ok {
		return DecisionNone, fmt.Errorf("unknown editorial decision code %d", code)
	}
	return d, nil
}

func (d EditorialDecision) String() string {
	if n, ok := decisionNames[d]; ok {
		return n
	}
	return "none"
}

func (d EditorialDecision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *EditorialDecision) UnmarshalText(text []byte) error {
	parsed, err := ParseEditorialDecision(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SubmissionOverview is a submission with its review rounds and versions.
type SubmissionOverview struct {
	Submission Submission    `json:"submission"`
	Rounds     []RoundDetail `json:"rounds"`
	Versions   []Version     `json:"versions"`
}
