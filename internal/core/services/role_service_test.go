package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/freightdesk/backend/internal/apperrors"
	"github.com/freightdesk/backend/internal/core/domain"
	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/core/services"
	"github.com/freightdesk/backend/internal/dto"
)

type RoleServiceTestSuite struct {
	suite.Suite
	mockGrants *MockGrantRepository
	service    portssvc.RoleSvcFacade
}

func (suite *RoleServiceTestSuite) SetupTest() {
	suite.mockGrants = new(MockGrantRepository)
	suite.service = services.NewRoleService(suite.mockGrants)
}

func (suite *RoleServiceTestSuite) TestUpdateRolePermissions_Success() {
	ctx := context.Background()
	roleID := uuid.NewString()
	moduleID := uuid.NewString()
	permissionID := uuid.NewString()

	req := dto.UpdateRolePermissionsRequest{
		RoleID: roleID,
		ModulesWithPermissions: []dto.ModulePermissionsInput{
			{ModuleID: moduleID, Permissions: []dto.PermissionGrantInput{{ID: permissionID}}},
		},
	}

	suite.mockGrants.On("FindRoleByID", ctx, roleID).Return(&domain.Role{RoleID: roleID}, nil)
	suite.mockGrants.On("FindModuleSlugsByIDs", ctx, []string{moduleID}).
		Return(map[string]string{moduleID: "quotations"}, nil)
	suite.mockGrants.On("FindPermissionsByIDs", ctx, []string{permissionID}).
		Return([]domain.Permission{{PermissionID: permissionID, ModuleID: moduleID, Slug: "create"}}, nil)

	var replaced []domain.RolePermission
	suite.mockGrants.On("ReplaceRoleGrants", ctx, roleID, mock.Anything).
		Run(func(args mock.Arguments) {
			replaced = args.Get(2).([]domain.RolePermission)
		}).Return(nil)

	err := suite.service.UpdateRolePermissions(ctx, req, uuid.NewString())

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), replaced, 1)
	assert.Equal(suite.T(), "quotations", replaced[0].ModuleSlug)
	assert.Equal(suite.T(), "create", replaced[0].PermissionSlug)
	assert.True(suite.T(), replaced[0].IsAllowed)
}

func (suite *RoleServiceTestSuite) TestUpdateRolePermissions_PermissionFromOtherModule() {
	ctx := context.Background()
	roleID := uuid.NewString()
	moduleID := uuid.NewString()
	otherModuleID := uuid.NewString()
	permissionID := uuid.NewString()

	req := dto.UpdateRolePermissionsRequest{
		RoleID: roleID,
		ModulesWithPermissions: []dto.ModulePermissionsInput{
			{ModuleID: moduleID, Permissions: []dto.PermissionGrantInput{{ID: permissionID}}},
		},
	}

	suite.mockGrants.On("FindRoleByID", ctx, roleID).Return(&domain.Role{RoleID: roleID}, nil)
	suite.mockGrants.On("FindModuleSlugsByIDs", ctx, []string{moduleID}).
		Return(map[string]string{moduleID: "quotations"}, nil)
	// the permission exists but belongs to another module
	suite.mockGrants.On("FindPermissionsByIDs", ctx, []string{permissionID}).
		Return([]domain.Permission{{PermissionID: permissionID, ModuleID: otherModuleID, Slug: "create"}}, nil)

	err := suite.service.UpdateRolePermissions(ctx, req, uuid.NewString())

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockGrants.AssertNotCalled(suite.T(), "ReplaceRoleGrants", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RoleServiceTestSuite) TestUpdateRolePermissions_UnknownRole() {
	ctx := context.Background()
	roleID := uuid.NewString()

	suite.mockGrants.On("FindRoleByID", ctx, roleID).Return(nil, apperrors.ErrNotFound)

	err := suite.service.UpdateRolePermissions(ctx, dto.UpdateRolePermissionsRequest{RoleID: roleID}, uuid.NewString())

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *RoleServiceTestSuite) TestGetRoleByID_ReturnsGrants() {
	ctx := context.Background()
	roleID := uuid.NewString()
	grants := []domain.RolePermission{{RoleID: roleID, ModuleSlug: "invoices", PermissionSlug: "getAll"}}

	suite.mockGrants.On("FindRoleByID", ctx, roleID).Return(&domain.Role{RoleID: roleID}, nil)
	suite.mockGrants.On("FindGrantsByRoleID", ctx, roleID).Return(grants, nil)

	role, got, err := suite.service.GetRoleByID(ctx, roleID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), roleID, role.RoleID)
	assert.Equal(suite.T(), grants, got)
}

func TestRoleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RoleServiceTestSuite))
}
