package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/freightdesk/backend/internal/apperrors"
	"github.com/freightdesk/backend/internal/core/domain"
	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/core/services"
	"github.com/freightdesk/backend/internal/dto"
	"github.com/freightdesk/backend/internal/platform/cache"
	"github.com/freightdesk/backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockUsers  *MockUserRepository
	mockTokens *MockTokenRepository
	service    portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUsers = new(MockUserRepository)
	suite.mockTokens = new(MockTokenRepository)
	// no cache backend in tests; every read is a miss
	suite.service = services.NewAuthService(suite.mockUsers, suite.mockTokens, cache.New("", "", 0), services.AuthServiceConfig{
		JWTSecret:          "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		Issuer:             "freightdesk-test",
		UserCacheTTL:       5 * time.Minute,
	})
}

func (suite *AuthServiceTestSuite) testUser(password string) *domain.User {
	hash, err := utils.HashPassword(password)
	assert.NoError(suite.T(), err)
	return &domain.User{
		UserID:       uuid.NewString(),
		Name:         "Ops User",
		Email:        "ops@example.com",
		PasswordHash: hash,
		RoleID:       uuid.NewString(),
	}
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	user := suite.testUser("s3cret")

	suite.mockUsers.On("FindUserByEmail", ctx, user.Email).Return(user, nil)

	var saved domain.AuthToken
	suite.mockTokens.On("SaveToken", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.AuthToken)
		}).Return(nil)

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "s3cret"})

	assert.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), resp.AccessToken)
	assert.NotEmpty(suite.T(), resp.RefreshToken)
	assert.Equal(suite.T(), user.UserID, resp.User.UserID)
	assert.Equal(suite.T(), user.UserID, saved.UserID)
	assert.Equal(suite.T(), resp.AccessToken, saved.Token)
	assert.False(suite.T(), saved.Revoked)

	// the issued token must parse against the same secret
	claims, err := utils.ParseAndValidateJWT(resp.AccessToken, "test-secret")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.UserID, claims.Subject)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	user := suite.testUser("s3cret")

	suite.mockUsers.On("FindUserByEmail", ctx, user.Email).Return(user, nil)

	_, err := suite.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "nope"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
	suite.mockTokens.AssertNotCalled(suite.T(), "SaveToken", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	ctx := context.Background()

	suite.mockUsers.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestValidateToken_Success() {
	ctx := context.Background()
	user := suite.testUser("s3cret")
	token := "opaque-token"

	suite.mockTokens.On("FindActiveToken", ctx, token, user.UserID).
		Return(&domain.AuthToken{UserID: user.UserID, ExpiresAt: time.Now().Add(time.Hour)}, nil)
	suite.mockUsers.On("FindUserWithRoleByID", ctx, user.UserID).Return(user, nil)

	got, err := suite.service.ValidateToken(ctx, token, user.UserID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.UserID, got.UserID)
}

func (suite *AuthServiceTestSuite) TestValidateToken_Expired() {
	ctx := context.Background()
	userID := uuid.NewString()
	token := "stale-token"

	suite.mockTokens.On("FindActiveToken", ctx, token, userID).
		Return(&domain.AuthToken{UserID: userID, ExpiresAt: time.Now().Add(-time.Minute)}, nil)

	_, err := suite.service.ValidateToken(ctx, token, userID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
	suite.mockUsers.AssertNotCalled(suite.T(), "FindUserWithRoleByID", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestValidateToken_UnknownToken() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockTokens.On("FindActiveToken", ctx, "missing", userID).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.ValidateToken(ctx, "missing", userID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefresh_RotatesTokenPair() {
	ctx := context.Background()
	user := suite.testUser("s3cret")
	row := &domain.AuthToken{
		TokenID:      uuid.NewString(),
		UserID:       user.UserID,
		Name:         "login",
		Token:        "old-access",
		RefreshToken: "old-refresh",
		ExpiresAt:    time.Now().Add(-time.Minute),
		CreatedAt:    time.Now().Add(-time.Hour),
	}

	suite.mockTokens.On("FindActiveTokenByRefresh", ctx, "old-refresh").Return(row, nil)
	suite.mockUsers.On("FindUserWithRoleByID", ctx, user.UserID).Return(user, nil)

	var newAccess, newRefresh string
	suite.mockTokens.On("RotateToken", ctx, row.TokenID, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			newAccess = args.Get(2).(string)
			newRefresh = args.Get(3).(string)
		}).Return(nil)

	resp, err := suite.service.Refresh(ctx, dto.RefreshRequest{RefreshToken: "old-refresh"})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), newAccess, resp.AccessToken)
	assert.Equal(suite.T(), newRefresh, resp.RefreshToken)
	assert.NotEqual(suite.T(), "old-access", resp.AccessToken)
	assert.NotEqual(suite.T(), "old-refresh", resp.RefreshToken)
	assert.Equal(suite.T(), user.UserID, resp.User.UserID)

	// the rotated access token must parse against the same secret
	claims, err := utils.ParseAndValidateJWT(resp.AccessToken, "test-secret")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.UserID, claims.Subject)
	suite.mockTokens.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRefresh_UnknownToken() {
	ctx := context.Background()

	suite.mockTokens.On("FindActiveTokenByRefresh", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.Refresh(ctx, dto.RefreshRequest{RefreshToken: "missing"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
	suite.mockTokens.AssertNotCalled(suite.T(), "RotateToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestRefresh_WindowExpired() {
	ctx := context.Background()
	row := &domain.AuthToken{
		TokenID:      uuid.NewString(),
		UserID:       uuid.NewString(),
		RefreshToken: "stale",
		CreatedAt:    time.Now().Add(-8 * 24 * time.Hour),
	}

	suite.mockTokens.On("FindActiveTokenByRefresh", ctx, "stale").Return(row, nil)

	_, err := suite.service.Refresh(ctx, dto.RefreshRequest{RefreshToken: "stale"})

	assert.ErrorIs(suite.T(), err, apperrors.ErrUnauthorized)
	suite.mockTokens.AssertNotCalled(suite.T(), "RotateToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogout_RevokesToken() {
	ctx := context.Background()

	suite.mockTokens.On("RevokeToken", ctx, "tok").Return(nil)

	err := suite.service.Logout(ctx, "tok")

	assert.NoError(suite.T(), err)
	suite.mockTokens.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
