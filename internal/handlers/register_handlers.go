package handlers

import (
	"github.com/SscSPs/editorial_workflow/cmd/docs"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/middleware"
	"github.com/SscSPs/editorial_workflow/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// health may be nil when there is nothing to probe.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	health HealthCheck,
) error {
	if err := registerValidators(); err != nil {
		return err
	}

	loginLimiter, err := middleware.NewLimiter(cfg.LoginRateLimit)
	if err != nil {
		return err
	}

	r.GET("/health", getHealth(health))

	// Register public authentication routes
	registerAuthRoutes(r, services.User, loginLimiter)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	registerMeRoutes(v1, service.User, service.Role)
	registerJournalRoutes(v1, service)
	registerRoleRoutes(v1, service.Role)
	registerSubmissionRoutes(v1, service)
	registerReviewRoutes(v1, service.Review)
	registerVersionRoutes(v1, service.Publication)
	registerIssueRoutes(v1, service.Issue)
}

// registerJournalRoutes registers every route nested under a journal.
func registerJournalRoutes(group *gin.RouterGroup, service *portssvc.ServiceContainer) {
	jh := newJournalHandler(service.Journal)
	rh := newRoleHandler(service.Role)
	sh := newSubmissionHandler(service.Submission)
	ih := newIssueHandler(service.Issue)

	journals := group.Group("/journals")
	{
		journals.POST("", jh.createJournal)
		journals.GET("/:journal_id", jh.getJournal)

		journals.GET("/:journal_id/submissions", sh.listSubmissions)
		journals.POST("/:journal_id/submissions", sh.createSubmission)

		journals.GET("/:journal_id/roles", rh.listJournalRoles)
		journals.POST("/:journal_id/roles", rh.grantJournalRole)
		journals.DELETE("/:journal_id/roles", rh.revokeJournalRole)

		journals.GET("/:journal_id/issues", ih.listIssues)
		journals.POST("/:journal_id/issues", ih.createIssue)
	}
}

func registerRoleRoutes(group *gin.RouterGroup, rs portssvc.RoleSvcFacade) {
	h := newRoleHandler(rs)
	roles := group.Group("/roles")
	{
		roles.POST("/site", h.grantSiteRole)
		roles.DELETE("/site", h.revokeSiteRole)
		roles.POST("/sync", h.syncRoles)
		roles.GET("/consistency", h.checkRoleConsistency)
	}
}

func registerSubmissionRoutes(group *gin.RouterGroup, service *portssvc.ServiceContainer) {
	sh := newSubmissionHandler(service.Submission)
	rh := newReviewHandler(service.Review)
	ph := newPublicationHandler(service.Publication)

	submissions := group.Group("/submissions/:submission_id")
	{
		submissions.GET("", sh.getSubmission)
		submissions.GET("/overview", sh.getSubmissionOverview)
		submissions.GET("/activity", sh.listActivity)
		submissions.POST("/stage", sh.advanceStage)
		submissions.POST("/return-to-review", sh.returnToReview)
		submissions.POST("/decision", sh.recordDecision)
		submissions.POST("/decline", sh.declineSubmission)
		submissions.POST("/withdraw", sh.withdrawSubmission)

		submissions.POST("/review-rounds", rh.openReviewRound)

		submissions.GET("/versions", ph.listVersions)
		submissions.POST("/versions", ph.createVersion)
		submissions.POST("/unpublish", ph.unpublishVersions)
	}
}

func registerReviewRoutes(group *gin.RouterGroup, rs portssvc.ReviewSvcFacade) {
	h := newReviewHandler(rs)

	rounds := group.Group("/review-rounds/:round_id")
	{
		rounds.GET("", h.getReviewRound)
		rounds.POST("/assignments", h.assignReviewer)
	}

	assignments := group.Group("/review-assignments/:assignment_id")
	{
		assignments.POST("/accept", h.acceptReview)
		assignments.POST("/decline", h.declineReview)
		assignments.POST("/submit", h.submitReview)
		assignments.POST("/withdraw", h.withdrawReview)
		assignments.POST("/cancel", h.cancelReview)
	}
}

func registerVersionRoutes(group *gin.RouterGroup, ps portssvc.PublicationSvcFacade) {
	h := newPublicationHandler(ps)
	versions := group.Group("/versions/:version_id")
	{
		versions.POST("/promote", h.promoteVersion)
		versions.POST("/publish", h.publishVersion)
		versions.PATCH("/issue", h.assignIssue)
	}
}

func registerIssueRoutes(group *gin.RouterGroup, is portssvc.IssueSvcFacade) {
	h := newIssueHandler(is)
	issues := group.Group("/issues/:issue_id")
	{
		issues.POST("/publish", h.publishIssue)
		issues.POST("/unpublish", h.unpublishIssue)
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
