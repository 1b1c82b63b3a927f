package dto

// CreateJournalRequest defines the data needed to create a journal.
type CreateJournalRequest struct {
	Path string `json:"path" binding:"required,max=64"`
	Name string `json:"name" binding:"required"`
}

// CreateIssueRequest defines the data needed to create an issue of a journal.
type CreateIssueRequest struct {
	Volume int    `json:"volume" binding:"required,min=1"`
	Number string `json:"number" binding:"required"`
	Year   int    `json:"year" binding:"required,min=1000,max=9999"`
	Title  string `json:"title"`
}
