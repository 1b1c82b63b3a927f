package services

import (
	portsrepo "github.com/SscSPs/editorial_workflow/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.ReviewerNotifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Every workflow service authorizes against the flat role form through this one checker
	container.Authorizer = NewAuthorizationService(repos.RoleRepo)

	container.Role = NewRoleService(repos.RoleRepo, repos.TxManager, container.Authorizer)
	container.User = NewUserService(repos.UserRepo, TokenSettings{
		Secret: cfg.JWTSecret,
		Expiry: cfg.JWTExpiryDuration,
		Issuer: cfg.JWTIssuer,
	})
	container.Journal = NewJournalService(repos.JournalRepo, container.Authorizer)
	container.Submission = NewSubmissionService(repos, container.Authorizer)

	reviewOptions := []ReviewServiceOption{}
	if notifier != nil {
		reviewOptions = append(reviewOptions, WithReviewerNotifier(notifier))
	}
	container.Review = NewReviewService(repos, container.Authorizer, reviewOptions...)

	container.Publication = NewPublicationService(repos, container.Authorizer,
		WithVersionCreateMaxAttempts(cfg.VersionCreateMaxAttempts))
	container.Issue = NewIssueService(repos, container.Authorizer)

	return container
}
