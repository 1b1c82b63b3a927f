package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager      TransactionManager
	RoleRepo       RoleRepositoryFacade
	UserRepo       UserRepositoryFacade
	JournalRepo    JournalRepositoryFacade
	SubmissionRepo SubmissionRepositoryFacade
	ReviewRepo     ReviewRepositoryFacade
	VersionRepo    VersionRepositoryFacade
	IssueRepo      IssueRepositoryFacade
	ActivityRepo   ActivityRepository
}
