package dto

import "github.com/SscSPs/editorial_workflow/internal/core/domain"

// CreateVersionRequest optionally overrides metadata inherited from the latest version.
type CreateVersionRequest struct {
	Metadata map[string]any `json:"metadata"`
}

// PublishVersionRequest publishes at once or schedules for PublishDate.
type PublishVersionRequest struct {
	PublishDate string `json:"publishDate" binding:"omitempty,isodate"`
	PublishNow  bool   `json:"publishNow"`
}

// UnpublishRequest reverts one version, or all of them when VersionID is omitted.
type UnpublishRequest struct {
	VersionID *string `json:"versionId"`
}

// AssignIssueRequest places a version in an issue.
type AssignIssueRequest struct {
	IssueID       string  `json:"issueId" binding:"required"`
	Section       string  `json:"section"`
	Pages         string  `json:"pages"`
	URL           string  `json:"url" binding:"omitempty,url"`
	DatePublished *string `json:"datePublished" binding:"omitempty,isodate"`
}

// ToPlacement converts the request. DatePublished was checked by the isodate validator.
func (r AssignIssueRequest) ToPlacement() domain.IssuePlacement {
	p := domain.IssuePlacement{IssueID: r.IssueID, Section: r.Section, Pages: r.Pages, URL: r.URL}
	if r.DatePublished != nil {
		if t, err := domain.ParseDate(*r.DatePublished); err == nil {
			p.DatePublished = &t
		}
	}
	return p
}
