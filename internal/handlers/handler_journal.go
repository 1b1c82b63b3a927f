package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/dto"
	"github.com/SscSPs/editorial_workflow/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

// createJournal godoc
// @Summary Create a journal
// @Description Site admins only.
// @Tags journals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param journal body dto.CreateJournalRequest true "Journal"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Path already taken"
// @Router /journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	var req dto.CreateJournalRequest
	if !bindJSON(c, &req) {
		return
	}

	journal, err := h.journalService.CreateJournal(c.Request.Context(), principalID(c), req.Path, req.Name)
	if err != nil {
		respondWithError(c, err, "Create journal")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Journal created", slog.String("journal_id", journal.JournalID))
	respondOK(c, http.StatusCreated, gin.H{"journal": journal})
}

// getJournal godoc
// @Summary Get a journal
// @Tags journals
// @Produce json
// @Security BearerAuth
// @Param journal_id path string true "Journal ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /journals/{journal_id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	journal, err := h.journalService.FindJournalByID(c.Request.Context(), c.Param("journal_id"))
	if err != nil {
		respondWithError(c, err, "Get journal")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"journal": journal})
}
