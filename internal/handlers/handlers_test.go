package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/core/services"
	"github.com/SscSPs/editorial_workflow/internal/handlers"
	"github.com/SscSPs/editorial_workflow/internal/middleware"
	"github.com/SscSPs/editorial_workflow/internal/platform/config"
	"github.com/SscSPs/editorial_workflow/internal/repositories/memory"
	"github.com/SscSPs/editorial_workflow/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func testConfig() *config.Config {
	return &config.Config{
		StorageDriver:            config.StorageDriverMemory,
		JWTSecret:                "handler-test-secret",
		JWTIssuer:                "editorial-test",
		JWTExpiryDuration:        time.Hour,
		LoginRateLimit:           "100-M",
		IsProduction:             true,
		VersionCreateMaxAttempts: 3,
	}
}

func newRouter(cfg *config.Config, container *portssvc.ServiceContainer) (*gin.Engine, error) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	err := handlers.RegisterRoutes(r, cfg, container, nil)
	return r, err
}

type apiResponse struct {
	Code int
	Body map[string]any
}

func (r apiResponse) message() string {
	m, _ := r.Body["message"].(string)
	return m
}

func (r apiResponse) object(key string) map[string]any {
	m, _ := r.Body[key].(map[string]any)
	return m
}

func call(router *gin.Engine, method, path, token string, body any) apiResponse {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	out := apiResponse{Code: w.Code, Body: map[string]any{}}
	_ = json.Unmarshal(w.Body.Bytes(), &out.Body)
	return out
}

// HandlerSuite drives the full router over the in-memory store.
type HandlerSuite struct {
	suite.Suite
	cfg       *config.Config
	store     *memory.Store
	container *portssvc.ServiceContainer
	router    *gin.Engine

	journalID string
	admin     string
	editor    string
	author    string
	reviewer  string
}

func (s *HandlerSuite) SetupTest() {
	ctx := context.Background()
	s.cfg = testConfig()
	s.store = memory.NewStore()
	s.container = services.NewServiceContainer(s.cfg, s.store.Provider(), nil)

	router, err := newRouter(s.cfg, s.container)
	s.Require().NoError(err)
	s.router = router

	now := time.Now().UTC()
	for _, name := range []string{"admin", "editor", "author", "reviewer"} {
		s.Require().NoError(s.store.SaveUser(ctx, domain.User{
			UserID:      "user-" + name,
			Username:    name,
			Name:        name,
			AuditFields: domain.NewAuditFields("seed", now),
		}))
	}
	s.admin, s.editor, s.author, s.reviewer = "user-admin", "user-editor", "user-author", "user-reviewer"

	s.journalID = "journal-jms"
	s.Require().NoError(s.store.SaveJournal(ctx, domain.Journal{
		JournalID:   s.journalID,
		Path:        "jms",
		Name:        "Journal of Manuscript Studies",
		AuditFields: domain.NewAuditFields("seed", now),
	}))

	s.store.SeedFlatRole(s.admin, nil, "site_admin")
	s.store.SeedFlatRole(s.editor, &s.journalID, "editor")
}

func (s *HandlerSuite) token(userID string) string {
	token, err := utils.GenerateJWT(userID, s.cfg.JWTSecret, time.Hour, s.cfg.JWTIssuer)
	s.Require().NoError(err)
	return token
}

func (s *HandlerSuite) do(method, path, userID string, body any) apiResponse {
	token := ""
	if userID != "" {
		token = s.token(userID)
	}
	return call(s.router, method, path, token, body)
}

func (s *HandlerSuite) createSubmission(title string) string {
	resp := s.do(http.MethodPost, "/api/v1/journals/"+s.journalID+"/submissions", s.author, gin.H{"title": title})
	s.Require().Equal(http.StatusCreated, resp.Code, resp.message())
	id, _ := resp.object("submission")["submissionID"].(string)
	s.Require().NotEmpty(id)
	return id
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *HandlerSuite) TestAuthMiddleware_RejectsMissingAndInvalidTokens() {
	resp := call(s.router, http.MethodGet, "/api/v1/me/roles", "", nil)
	s.Equal(http.StatusUnauthorized, resp.Code)
	s.Equal(false, resp.Body["ok"])

	resp = call(s.router, http.MethodGet, "/api/v1/me/roles", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, resp.Code)

	foreign, err := utils.GenerateJWT(s.editor, "some-other-secret", time.Hour, s.cfg.JWTIssuer)
	s.Require().NoError(err)
	resp = call(s.router, http.MethodGet, "/api/v1/me/roles", foreign, nil)
	s.Equal(http.StatusUnauthorized, resp.Code)
}

func (s *HandlerSuite) TestLogin_IssuesUsableToken() {
	_, err := s.container.User.CreateUser(context.Background(), "copyeditor", "Copy Editor", "ce@example.org", "correct horse battery", "")
	s.Require().NoError(err)

	resp := call(s.router, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "copyeditor", "password": "correct horse battery"})
	s.Require().Equal(http.StatusOK, resp.Code, resp.message())
	token, _ := resp.Body["token"].(string)
	s.Require().NotEmpty(token)

	me := call(s.router, http.MethodGet, "/api/v1/me", token, nil)
	s.Require().Equal(http.StatusOK, me.Code)
	s.Equal("copyeditor", me.object("user")["username"])
	s.NotContains(me.object("user"), "passwordHash")
}

func (s *HandlerSuite) TestLogin_WrongPassword() {
	_, err := s.container.User.CreateUser(context.Background(), "copyeditor", "Copy Editor", "", "correct horse battery", "")
	s.Require().NoError(err)

	resp := call(s.router, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "copyeditor", "password": "wrong"})
	s.Equal(http.StatusUnauthorized, resp.Code)

	resp = call(s.router, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "copyeditor"})
	s.Equal(http.StatusBadRequest, resp.Code)
	s.Contains(resp.message(), "Password is required")
}

func (s *HandlerSuite) TestLogin_RateLimited() {
	cfg := testConfig()
	cfg.LoginRateLimit = "1-M"
	router, err := newRouter(cfg, s.container)
	s.Require().NoError(err)

	body := gin.H{"username": "nobody", "password": "whatever"}
	s.Equal(http.StatusUnauthorized, call(router, http.MethodPost, "/api/v1/auth/login", "", body).Code)
	s.Equal(http.StatusTooManyRequests, call(router, http.MethodPost, "/api/v1/auth/login", "", body).Code)
}

func (s *HandlerSuite) TestRegisterRoutes_InvalidRateLimit() {
	cfg := testConfig()
	cfg.LoginRateLimit = "lots"
	_, err := newRouter(cfg, s.container)
	s.Error(err)
}

func (s *HandlerSuite) TestSubmissionStages() {
	id := s.createSubmission("On marginalia")
	base := "/api/v1/submissions/" + id

	resp := s.do(http.MethodPost, base+"/stage", s.author, gin.H{"stage": "review"})
	s.Equal(http.StatusForbidden, resp.Code)

	resp = s.do(http.MethodPost, base+"/stage", s.editor, gin.H{"stage": "production"})
	s.Equal(http.StatusConflict, resp.Code)

	resp = s.do(http.MethodPost, base+"/stage", s.editor, gin.H{"stage": "limbo"})
	s.Equal(http.StatusBadRequest, resp.Code)
	s.Contains(resp.message(), "not a known stage")

	resp = s.do(http.MethodPost, base+"/stage", s.editor, gin.H{"stage": "External Review"})
	s.Require().Equal(http.StatusOK, resp.Code, resp.message())
	s.Equal("review", resp.object("submission")["stage"])
	s.Equal("in_review", resp.object("submission")["status"])

	resp = s.do(http.MethodGet, base, s.author, nil)
	s.Equal(http.StatusOK, resp.Code)
	resp = s.do(http.MethodGet, base, s.reviewer, nil)
	s.Equal(http.StatusForbidden, resp.Code)
}

func (s *HandlerSuite) TestUnknownSubmissionIsNotFound() {
	resp := s.do(http.MethodGet, "/api/v1/submissions/does-not-exist", s.editor, nil)
	s.Equal(http.StatusNotFound, resp.Code)
	s.Equal(false, resp.Body["ok"])
}

func (s *HandlerSuite) TestWithdrawWithoutBody() {
	id := s.createSubmission("Palimpsests")

	resp := s.do(http.MethodPost, "/api/v1/submissions/"+id+"/withdraw", s.author, nil)
	s.Require().Equal(http.StatusOK, resp.Code, resp.message())
	s.Equal("withdrawn", resp.object("submission")["status"])

	resp = s.do(http.MethodPost, "/api/v1/submissions/"+id+"/stage", s.editor, gin.H{"stage": "review"})
	s.Equal(http.StatusConflict, resp.Code)
}

func (s *HandlerSuite) TestListSubmissions_Paginates() {
	for _, title := range []string{"one", "two", "three"} {
		s.createSubmission(title)
	}
	path := "/api/v1/journals/" + s.journalID + "/submissions?limit=2"

	first := s.do(http.MethodGet, path, s.editor, nil)
	s.Require().Equal(http.StatusOK, first.Code, first.message())
	s.Len(first.Body["submissions"], 2)
	next, _ := first.Body["nextToken"].(string)
	s.Require().NotEmpty(next)

	second := s.do(http.MethodGet, path+"&nextToken="+next, s.editor, nil)
	s.Require().Equal(http.StatusOK, second.Code)
	s.Len(second.Body["submissions"], 1)
	s.Nil(second.Body["nextToken"])

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, path+"&nextToken=@@@", s.editor, nil).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/v1/journals/"+s.journalID+"/submissions?limit=0", s.editor, nil).Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodGet, path, s.author, nil).Code)
}

func (s *HandlerSuite) TestGrantJournalRole() {
	path := "/api/v1/journals/" + s.journalID + "/roles"

	resp := s.do(http.MethodPost, path, s.admin, gin.H{"userId": s.reviewer, "role": "wizard"})
	s.Equal(http.StatusBadRequest, resp.Code)
	s.Contains(resp.message(), "not a known role")

	resp = s.do(http.MethodPost, path, s.admin, gin.H{"userId": s.reviewer, "role": "Section Editor"})
	s.Require().Equal(http.StatusCreated, resp.Code, resp.message())
	s.Equal(true, resp.Body["created"])

	resp = s.do(http.MethodPost, path, s.admin, gin.H{"userId": s.reviewer, "role": "section_editor"})
	s.Equal(http.StatusOK, resp.Code)
	s.Equal(false, resp.Body["created"])

	resp = s.do(http.MethodPost, path, s.editor, gin.H{"userId": s.reviewer, "role": "editor"})
	s.Equal(http.StatusForbidden, resp.Code)

	resp = s.do(http.MethodDelete, path, s.admin, gin.H{"userId": s.reviewer, "role": "section_editor"})
	s.Equal(http.StatusOK, resp.Code)
	s.Equal(true, resp.Body["removed"])
}

func (s *HandlerSuite) TestSyncThenConsistency() {
	resp := s.do(http.MethodGet, "/api/v1/roles/consistency", s.admin, nil)
	s.Require().Equal(http.StatusOK, resp.Code, resp.message())
	s.Equal(false, resp.Body["consistent"])

	resp = s.do(http.MethodPost, "/api/v1/roles/sync", s.admin, gin.H{"dryRun": true})
	s.Require().Equal(http.StatusOK, resp.Code)
	s.Equal(true, resp.object("report")["dryRun"])

	resp = s.do(http.MethodPost, "/api/v1/roles/sync", s.admin, nil)
	s.Require().Equal(http.StatusOK, resp.Code)

	resp = s.do(http.MethodGet, "/api/v1/roles/consistency", s.admin, nil)
	s.Equal(true, resp.Body["consistent"])

	s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/api/v1/roles/sync", s.editor, nil).Code)
}

func (s *HandlerSuite) TestMyRoles() {
	s.createSubmission("Scribal hands")

	resp := s.do(http.MethodGet, "/api/v1/me/roles", s.author, nil)
	s.Require().Equal(http.StatusOK, resp.Code)
	roles, _ := resp.Body["roles"].([]any)
	s.Require().Len(roles, 1)
	s.Equal("author", roles[0].(map[string]any)["role"])
}

func (s *HandlerSuite) TestPublishVersion_RejectsBadDate() {
	id := s.createSubmission("Colophons")
	resp := s.do(http.MethodPost, "/api/v1/submissions/"+id+"/versions", s.editor, nil)
	s.Require().Equal(http.StatusCreated, resp.Code, resp.message())
	versionID, _ := resp.object("version")["versionID"].(string)

	resp = s.do(http.MethodPost, "/api/v1/versions/"+versionID+"/publish", s.editor, gin.H{"publishDate": "01/02/2025"})
	s.Equal(http.StatusBadRequest, resp.Code)
	s.Contains(resp.message(), "must be a date")

	resp = s.do(http.MethodPost, "/api/v1/versions/"+versionID+"/publish", s.editor, gin.H{"publishNow": true})
	s.Equal(http.StatusConflict, resp.Code)
	s.Contains(resp.message(), "publish date is required")
}

func (s *HandlerSuite) TestReviewFlow() {
	id := s.createSubmission("Bindings")
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/submissions/"+id+"/stage", s.editor, gin.H{"stage": "review"}).Code)

	resp := s.do(http.MethodPost, "/api/v1/submissions/"+id+"/review-rounds", s.editor, nil)
	s.Require().Equal(http.StatusCreated, resp.Code, resp.message())
	roundID, _ := resp.object("round")["roundID"].(string)

	resp = s.do(http.MethodPost, "/api/v1/review-rounds/"+roundID+"/assignments", s.editor,
		gin.H{"reviewerId": s.reviewer, "dueDate": "2030-06-01"})
	s.Require().Equal(http.StatusCreated, resp.Code, resp.message())
	assignmentID, _ := resp.object("assignment")["assignmentID"].(string)

	base := "/api/v1/review-assignments/" + assignmentID
	s.Equal(http.StatusForbidden, s.do(http.MethodPost, base+"/accept", s.author, nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodPost, base+"/accept", s.reviewer, nil).Code)

	resp = s.do(http.MethodPost, base+"/submit", s.reviewer, gin.H{"recommendation": "maybe"})
	s.Equal(http.StatusBadRequest, resp.Code)

	resp = s.do(http.MethodPost, base+"/submit", s.reviewer, gin.H{"recommendation": "accept"})
	s.Require().Equal(http.StatusOK, resp.Code, resp.message())
	s.Equal("completed", resp.object("assignment")["status"])

	s.Equal(http.StatusConflict, s.do(http.MethodPost, base+"/cancel", s.editor, nil).Code)

	resp = s.do(http.MethodPost, "/api/v1/submissions/"+id+"/decision", s.editor, gin.H{"decision": "accept"})
	s.Require().Equal(http.StatusOK, resp.Code, resp.message())

	resp = s.do(http.MethodPost, "/api/v1/submissions/"+id+"/stage", s.editor, gin.H{"stage": "copyediting"})
	s.Equal(http.StatusOK, resp.Code, resp.message())
}

// MockJournalService is used to check how unexpected failures are reported.
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) CreateJournal(ctx context.Context, actorID, path, name string) (*domain.Journal, error) {
	args := m.Called(ctx, actorID, path, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

func TestUnexpectedErrorsAreNotLeaked(t *testing.T) {
	cfg := testConfig()
	journals := new(MockJournalService)
	journals.On("FindJournalByID", mock.Anything, "j1").Return(nil, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	router, err := newRouter(cfg, &portssvc.ServiceContainer{Journal: journals})
	if err != nil {
		t.Fatal(err)
	}
	token, err := utils.GenerateJWT("u1", cfg.JWTSecret, time.Hour, cfg.JWTIssuer)
	if err != nil {
		t.Fatal(err)
	}

	resp := call(router, http.MethodGet, "/api/v1/journals/j1", token, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if msg := resp.message(); msg != "An internal server error occurred." {
		t.Fatalf("unexpected message %q", msg)
	}
	journals.AssertExpectations(t)
}
