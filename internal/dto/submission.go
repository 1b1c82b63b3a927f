package dto

// CreateSubmissionRequest defines the data needed to register a submission.
type CreateSubmissionRequest struct {
	Title string `json:"title" binding:"required,max=512"`
}

// AdvanceStageRequest names the stage to move to; it must be the next one.
type AdvanceStageRequest struct {
	Stage string `json:"stage" binding:"required,stagename"`
}

// DecisionRequest records an editorial decision on the latest review round.
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accept request_revisions pending_revisions revisions resubmit"`
}

// ReasonRequest carries the optional reason of a decline or withdrawal.
type ReasonRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

// ListParams defines token-based pagination query parameters.
type ListParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}
