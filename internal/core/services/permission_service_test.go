package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/freightdesk/backend/internal/apperrors"
	"github.com/freightdesk/backend/internal/core/domain"
	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/core/services"
	"github.com/freightdesk/backend/internal/platform/cache"
)

type PermissionServiceTestSuite struct {
	suite.Suite
	mockUsers  *MockUserRepository
	mockGrants *MockGrantRepository
	service    portssvc.PermissionSvcFacade
}

func (suite *PermissionServiceTestSuite) SetupTest() {
	suite.mockUsers = new(MockUserRepository)
	suite.mockGrants = new(MockGrantRepository)
	// no cache backend in tests; every read falls through to the mocks
	suite.service = services.NewPermissionService(suite.mockUsers, suite.mockGrants, cache.New("", "", 0), services.PermissionServiceConfig{
		UserCacheTTL:       5 * time.Minute,
		PermissionCacheTTL: 10 * time.Minute,
	})
}

func (suite *PermissionServiceTestSuite) TestCheckPermission_ExplicitGrantAllows() {
	ctx := context.Background()
	roleID := uuid.NewString()

	suite.mockGrants.On("IsAllowed", ctx, roleID, "quotations", "create").Return(true, nil)

	assert.True(suite.T(), suite.service.CheckPermission(ctx, roleID, "quotations", "create"))
}

func (suite *PermissionServiceTestSuite) TestCheckPermission_AbsentGrantDenies() {
	ctx := context.Background()
	roleID := uuid.NewString()

	suite.mockGrants.On("IsAllowed", ctx, roleID, "invoices", "delete").Return(false, nil)

	assert.False(suite.T(), suite.service.CheckPermission(ctx, roleID, "invoices", "delete"))
}

func (suite *PermissionServiceTestSuite) TestCheckPermission_DatabaseFailureDenies() {
	ctx := context.Background()
	roleID := uuid.NewString()

	suite.mockGrants.On("IsAllowed", ctx, roleID, "quotations", "getAll").
		Return(false, errors.New("connection refused"))

	assert.False(suite.T(), suite.service.CheckPermission(ctx, roleID, "quotations", "getAll"))
}

func (suite *PermissionServiceTestSuite) TestGetUserWithRole_FallsThroughToDatabase() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), RoleID: uuid.NewString(), Role: &domain.Role{Slug: "admin"}}

	suite.mockUsers.On("FindUserWithRoleByID", ctx, user.UserID).Return(user, nil)

	got, err := suite.service.GetUserWithRole(ctx, user.UserID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.UserID, got.UserID)
	assert.Equal(suite.T(), "admin", got.Role.Slug)
}

func (suite *PermissionServiceTestSuite) TestGetUserWithRole_UnknownUser() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUsers.On("FindUserWithRoleByID", ctx, userID).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.GetUserWithRole(ctx, userID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func TestPermissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PermissionServiceTestSuite))
}
