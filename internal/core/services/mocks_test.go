package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/freightdesk/backend/internal/core/domain"
)

// MockQuotationRepository is a mock type for the QuotationRepositoryFacade interface
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockQuotationRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockQuotationRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockQuotationRepository) FindQuotationByID(ctx context.Context, quotationID string) (*domain.Quotation, error) {
	args := m.Called(ctx, quotationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) ListQuotations(ctx context.Context, limit, offset int, search string) ([]domain.Quotation, int64, error) {
	args := m.Called(ctx, limit, offset, search)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Quotation), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuotationRepository) InsertQuotation(ctx context.Context, tx pgx.Tx, quotation domain.Quotation, items []domain.QuotationItem) error {
	args := m.Called(ctx, tx, quotation, items)
	return args.Error(0)
}

func (m *MockQuotationRepository) UpdateQuotation(ctx context.Context, tx pgx.Tx, quotation domain.Quotation) error {
	args := m.Called(ctx, tx, quotation)
	return args.Error(0)
}

func (m *MockQuotationRepository) ReplaceQuotationItems(ctx context.Context, tx pgx.Tx, quotationID string, items []domain.QuotationItem) error {
	args := m.Called(ctx, tx, quotationID, items)
	return args.Error(0)
}

func (m *MockQuotationRepository) SetServiceDetails(ctx context.Context, tx pgx.Tx, quotationID string, serviceDetailIDs []string) error {
	args := m.Called(ctx, tx, quotationID, serviceDetailIDs)
	return args.Error(0)
}

func (m *MockQuotationRepository) DeleteQuotation(ctx context.Context, quotationID string) error {
	args := m.Called(ctx, quotationID)
	return args.Error(0)
}

func (m *MockQuotationRepository) FindQuotationForUpdate(ctx context.Context, tx pgx.Tx, quotationID string) (*domain.Quotation, error) {
	args := m.Called(ctx, tx, quotationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindQuotationItems(ctx context.Context, tx pgx.Tx, quotationID string) ([]domain.QuotationItem, error) {
	args := m.Called(ctx, tx, quotationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuotationItem), args.Error(1)
}

func (m *MockQuotationRepository) MarkInvoiceCreated(ctx context.Context, tx pgx.Tx, quotationID string, updatedBy *string) error {
	args := m.Called(ctx, tx, quotationID, updatedBy)
	return args.Error(0)
}

// MockInvoiceRepository is a mock type for the InvoiceRepositoryFacade interface
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockInvoiceRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, limit, offset int, search string) ([]domain.Invoice, int64, error) {
	args := m.Called(ctx, limit, offset, search)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) InsertInvoice(ctx context.Context, tx pgx.Tx, invoice domain.Invoice, items []domain.InvoiceItem) error {
	args := m.Called(ctx, tx, invoice, items)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoice(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	args := m.Called(ctx, tx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) ReplaceInvoiceItems(ctx context.Context, tx pgx.Tx, invoiceID string, items []domain.InvoiceItem) error {
	args := m.Called(ctx, tx, invoiceID, items)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SetSubcategories(ctx context.Context, tx pgx.Tx, invoiceID string, subcategoryIDs []string) error {
	args := m.Called(ctx, tx, invoiceID, subcategoryIDs)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

// MockCounterRepository is a mock type for the CounterRepository interface
type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) NextSerial(ctx context.Context, tx pgx.Tx, year int) (int64, error) {
	args := m.Called(ctx, tx, year)
	return args.Get(0).(int64), args.Error(1)
}

// MockReferenceRepository is a mock type for the ReferenceRepository interface
type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) FindClientByID(ctx context.Context, tx pgx.Tx, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, tx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockReferenceRepository) FindJobFileByID(ctx context.Context, tx pgx.Tx, jobFileID string) (*domain.JobFile, error) {
	args := m.Called(ctx, tx, jobFileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobFile), args.Error(1)
}

func (m *MockReferenceRepository) FindServiceDetailsByIDs(ctx context.Context, tx pgx.Tx, ids []string) ([]domain.ServiceDetail, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceDetail), args.Error(1)
}

func (m *MockReferenceRepository) FindSubcategoriesByIDs(ctx context.Context, tx pgx.Tx, ids []string) ([]domain.Subcategory, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Subcategory), args.Error(1)
}

func (m *MockReferenceRepository) CountProductsByIDs(ctx context.Context, tx pgx.Tx, ids []string) (int, error) {
	args := m.Called(ctx, tx, ids)
	return args.Int(0), args.Error(1)
}

func (m *MockReferenceRepository) FindTaxRatesByIDs(ctx context.Context, tx pgx.Tx, ids []string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// MockUserRepository is a mock type for the UserReader interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserWithRoleByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockTokenRepository is a mock type for the TokenRepository interface
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) SaveToken(ctx context.Context, token domain.AuthToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) FindActiveToken(ctx context.Context, token string, userID string) (*domain.AuthToken, error) {
	args := m.Called(ctx, token, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthToken), args.Error(1)
}

func (m *MockTokenRepository) FindActiveTokenByRefresh(ctx context.Context, refreshToken string) (*domain.AuthToken, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthToken), args.Error(1)
}

func (m *MockTokenRepository) RotateToken(ctx context.Context, tokenID string, accessToken, refreshToken string, expiresAt time.Time) error {
	args := m.Called(ctx, tokenID, accessToken, refreshToken, expiresAt)
	return args.Error(0)
}

func (m *MockTokenRepository) RevokeToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockGrantRepository is a mock type for the GrantRepository interface
type MockGrantRepository struct {
	mock.Mock
}

func (m *MockGrantRepository) FindRoleByID(ctx context.Context, roleID string) (*domain.Role, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockGrantRepository) ListRoles(ctx context.Context, limit, offset int) ([]domain.Role, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Role), args.Get(1).(int64), args.Error(2)
}

func (m *MockGrantRepository) FindGrantsByRoleID(ctx context.Context, roleID string) ([]domain.RolePermission, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RolePermission), args.Error(1)
}

func (m *MockGrantRepository) IsAllowed(ctx context.Context, roleID, moduleSlug, permissionSlug string) (bool, error) {
	args := m.Called(ctx, roleID, moduleSlug, permissionSlug)
	return args.Bool(0), args.Error(1)
}

func (m *MockGrantRepository) FindPermissionsByIDs(ctx context.Context, ids []string) ([]domain.Permission, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Permission), args.Error(1)
}

func (m *MockGrantRepository) FindModuleSlugsByIDs(ctx context.Context, ids []string) (map[string]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockGrantRepository) ReplaceRoleGrants(ctx context.Context, roleID string, grants []domain.RolePermission) error {
	args := m.Called(ctx, roleID, grants)
	return args.Error(0)
}
