package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/apperrors"
	"github.com/SscSPs/editorial_workflow/internal/core/domain"
	portssvc "github.com/SscSPs/editorial_workflow/internal/core/ports/services"
	"github.com/SscSPs/editorial_workflow/internal/core/services"
	"github.com/SscSPs/editorial_workflow/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserRepository (based on UserService usage) ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

// --- Test Suite Setup ---
type UserServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockUserRepository
	userService portssvc.UserSvcFacade
	ctx         context.Context
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.userService = services.NewUserService(suite.mockRepo, services.TokenSettings{
		Secret: "test-secret",
		Expiry: time.Hour,
		Issuer: "editorial-test",
	})
	suite.ctx = context.Background()
}

// --- Test Cases ---

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	suite.mockRepo.On("SaveUser", suite.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Username == "ada" && u.PasswordHash != "" && u.PasswordHash != "lovelace-1815" && u.CreatedBy == u.UserID
	})).Return(nil).Once()

	user, err := suite.userService.CreateUser(suite.ctx, " ada ", "Ada", "ada@example.org", "lovelace-1815", "")

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), user)
	assert.Equal(suite.T(), "ada", user.Username)
	assert.True(suite.T(), utils.CheckPasswordHash("lovelace-1815", user.PasswordHash))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_ShortPassword() {
	user, err := suite.userService.CreateUser(suite.ctx, "ada", "Ada", "", "short", "")

	assert.Nil(suite.T(), user)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_UsernameTaken() {
	suite.mockRepo.On("SaveUser", suite.ctx, mock.Anything).Return(apperrors.NewConflictError("username taken")).Once()

	user, err := suite.userService.CreateUser(suite.ctx, "ada", "Ada", "", "lovelace-1815", "admin-1")

	assert.Nil(suite.T(), user)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestGetUserByID_NotFound() {
	suite.mockRepo.On("FindUserByID", suite.ctx, "missing").Return(nil, apperrors.NewNotFoundError("user missing not found")).Once()

	user, err := suite.userService.GetUserByID(suite.ctx, "missing")

	assert.Nil(suite.T(), user)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser() {
	hash, err := utils.HashPassword("lovelace-1815")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "user-1", Username: "ada", PasswordHash: hash}
	suite.mockRepo.On("FindUserByUsername", suite.ctx, "ada").Return(stored, nil)
	suite.mockRepo.On("FindUserByUsername", suite.ctx, "nobody").Return(nil, apperrors.NewNotFoundError("user nobody not found"))
	suite.mockRepo.On("FindUserByUsername", suite.ctx, "broken").Return(nil, errors.New("connection reset"))

	user, err := suite.userService.AuthenticateUser(suite.ctx, "ada", "lovelace-1815")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "user-1", user.UserID)

	_, err = suite.userService.AuthenticateUser(suite.ctx, "ada", "wrong-password")
	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthenticated)

	_, err = suite.userService.AuthenticateUser(suite.ctx, "nobody", "lovelace-1815")
	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthenticated, "unknown users look like bad passwords")

	_, err = suite.userService.AuthenticateUser(suite.ctx, "broken", "lovelace-1815")
	assert.Error(suite.T(), err)
	assert.NotErrorIs(suite.T(), err, apperrors.ErrUnauthenticated)
}

func (suite *UserServiceTestSuite) TestIssueAccessToken() {
	token, expiresAt, err := suite.userService.IssueAccessToken(suite.ctx, &domain.User{UserID: "user-1"})

	assert.NoError(suite.T(), err)
	assert.WithinDuration(suite.T(), time.Now().Add(time.Hour), expiresAt, time.Minute)
	claims, err := utils.ParseAndValidateJWT(token, "test-secret", "editorial-test")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "user-1", claims.Subject)
}

// --- Run Test Suite ---
func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
