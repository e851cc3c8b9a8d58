package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/freightdesk/backend/internal/apperrors"
	"github.com/freightdesk/backend/internal/core/domain"
	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/core/services"
	"github.com/freightdesk/backend/internal/dto"
)

type QuotationServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockQuotationRepository
	mockCounter *MockCounterRepository
	mockRef     *MockReferenceRepository
	service     portssvc.QuotationSvcFacade
}

func (suite *QuotationServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockQuotationRepository)
	suite.mockCounter = new(MockCounterRepository)
	suite.mockRef = new(MockReferenceRepository)
	suite.service = services.NewQuotationService(suite.mockRepo, suite.mockCounter, suite.mockRef)
}

func (suite *QuotationServiceTestSuite) TestCreateQuotation_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	customerID := uuid.NewString()
	productA := uuid.NewString()
	productB := uuid.NewString()
	taxID := uuid.NewString()

	req := dto.CreateQuotationRequest{
		CustomerID: customerID,
		Items: []dto.DocumentItemInput{
			{ProductID: productA, TaxID: &taxID, Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
			{ProductID: productB, Quantity: 1, UnitPrice: decimal.NewFromInt(50)},
		},
	}

	suite.mockRepo.On("Begin", ctx).Return(nil, nil)
	suite.mockRepo.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockRef.On("FindClientByID", ctx, mock.Anything, customerID).Return(&domain.Client{ClientID: customerID}, nil)
	suite.mockRef.On("CountProductsByIDs", ctx, mock.Anything, []string{productA, productB}).Return(2, nil)
	suite.mockRef.On("FindTaxRatesByIDs", ctx, mock.Anything, []string{taxID}).
		Return(map[string]decimal.Decimal{taxID: decimal.NewFromInt(10)}, nil)

	year := time.Now().UTC().Year()
	suite.mockCounter.On("NextSerial", ctx, mock.Anything, year).Return(int64(7), nil)

	var inserted domain.Quotation
	var insertedItems []domain.QuotationItem
	suite.mockRepo.On("InsertQuotation", ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			inserted = args.Get(2).(domain.Quotation)
			insertedItems = args.Get(3).([]domain.QuotationItem)
		}).Return(nil)
	suite.mockRepo.On("Commit", ctx, mock.Anything).Return(nil)

	reloaded := &domain.Quotation{QuoteNumber: domain.FormatDocumentNumber(domain.QuotePrefix, year, 7)}
	suite.mockRepo.On("FindQuotationByID", ctx, mock.Anything).Return(reloaded, nil)

	result, err := suite.service.CreateQuotation(ctx, req, userID)

	assert.NoError(suite.T(), err)
	assert.Same(suite.T(), reloaded, result)
	assert.Equal(suite.T(), domain.FormatDocumentNumber(domain.QuotePrefix, year, 7), inserted.QuoteNumber)
	assert.True(suite.T(), inserted.Subtotal.Equal(decimal.NewFromInt(250)))
	assert.True(suite.T(), inserted.TaxTotal.Equal(decimal.NewFromInt(20)))
	assert.True(suite.T(), inserted.GrandTotal.Equal(decimal.NewFromInt(270)))
	assert.Len(suite.T(), insertedItems, 2)
	// line totals are pre-tax
	assert.True(suite.T(), insertedItems[0].LineTotal.Equal(decimal.NewFromInt(200)))
	assert.True(suite.T(), insertedItems[1].LineTotal.Equal(decimal.NewFromInt(50)))
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCounter.AssertExpectations(suite.T())
}

func (suite *QuotationServiceTestSuite) TestCreateQuotation_UnknownCustomer() {
	ctx := context.Background()
	req := dto.CreateQuotationRequest{
		CustomerID: uuid.NewString(),
		Items: []dto.DocumentItemInput{
			{ProductID: uuid.NewString(), Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockRepo.On("Begin", ctx).Return(nil, nil)
	suite.mockRepo.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockRef.On("FindClientByID", ctx, mock.Anything, req.CustomerID).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.CreateQuotation(ctx, req, uuid.NewString())

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "InsertQuotation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *QuotationServiceTestSuite) TestCreateQuotation_UnknownProduct() {
	ctx := context.Background()
	customerID := uuid.NewString()
	productID := uuid.NewString()
	req := dto.CreateQuotationRequest{
		CustomerID: customerID,
		Items: []dto.DocumentItemInput{
			{ProductID: productID, Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockRepo.On("Begin", ctx).Return(nil, nil)
	suite.mockRepo.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockRef.On("FindClientByID", ctx, mock.Anything, customerID).Return(&domain.Client{ClientID: customerID}, nil)
	suite.mockRef.On("CountProductsByIDs", ctx, mock.Anything, []string{productID}).Return(0, nil)

	_, err := suite.service.CreateQuotation(ctx, req, uuid.NewString())

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockCounter.AssertNotCalled(suite.T(), "NextSerial", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *QuotationServiceTestSuite) TestCreateQuotation_PartialServiceDetails() {
	ctx := context.Background()
	customerID := uuid.NewString()
	sdA := uuid.NewString()
	sdB := uuid.NewString()
	req := dto.CreateQuotationRequest{
		CustomerID:       customerID,
		ServiceDetailIDs: []string{sdA, sdB},
		Items: []dto.DocumentItemInput{
			{ProductID: uuid.NewString(), Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		},
	}

	suite.mockRepo.On("Begin", ctx).Return(nil, nil)
	suite.mockRepo.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockRef.On("FindClientByID", ctx, mock.Anything, customerID).Return(&domain.Client{ClientID: customerID}, nil)
	// only one of the two requested rows exists
	suite.mockRef.On("FindServiceDetailsByIDs", ctx, mock.Anything, []string{sdA, sdB}).
		Return([]domain.ServiceDetail{{ServiceDetailID: sdA}}, nil)

	_, err := suite.service.CreateQuotation(ctx, req, uuid.NewString())

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "InsertQuotation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *QuotationServiceTestSuite) TestCreateQuotation_NegativeUnitPrice() {
	ctx := context.Background()
	customerID := uuid.NewString()
	req := dto.CreateQuotationRequest{
		CustomerID: customerID,
		Items: []dto.DocumentItemInput{
			{ProductID: uuid.NewString(), Quantity: 1, UnitPrice: decimal.NewFromInt(-5)},
		},
	}

	suite.mockRepo.On("Begin", ctx).Return(nil, nil)
	suite.mockRepo.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockRef.On("FindClientByID", ctx, mock.Anything, customerID).Return(&domain.Client{ClientID: customerID}, nil)

	_, err := suite.service.CreateQuotation(ctx, req, uuid.NewString())

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *QuotationServiceTestSuite) TestUpdateQuotation_NotFound() {
	ctx := context.Background()
	req := dto.UpdateQuotationRequest{ID: uuid.NewString()}

	suite.mockRepo.On("FindQuotationByID", ctx, req.ID).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.UpdateQuotation(ctx, req, uuid.NewString())

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *QuotationServiceTestSuite) TestUpdateQuotation_ClearsJobFile() {
	ctx := context.Background()
	quotationID := uuid.NewString()
	jobFileID := uuid.NewString()
	existing := &domain.Quotation{
		QuotationID: quotationID,
		CustomerID:  uuid.NewString(),
		JobFileID:   &jobFileID,
	}

	req := dto.UpdateQuotationRequest{
		ID:        quotationID,
		JobFileID: dto.Optional[string]{Set: true, Value: nil},
	}

	suite.mockRepo.On("FindQuotationByID", ctx, quotationID).Return(existing, nil)
	suite.mockRepo.On("Begin", ctx).Return(nil, nil)
	suite.mockRepo.On("Rollback", ctx, mock.Anything).Return(nil)

	var updated domain.Quotation
	suite.mockRepo.On("UpdateQuotation", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			updated = args.Get(2).(domain.Quotation)
		}).Return(nil)
	suite.mockRepo.On("Commit", ctx, mock.Anything).Return(nil)

	_, err := suite.service.UpdateQuotation(ctx, req, uuid.NewString())

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), updated.JobFileID)
	suite.mockRepo.AssertNotCalled(suite.T(), "ReplaceQuotationItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *QuotationServiceTestSuite) TestUpdateQuotation_ReplacesItemsAndRecomputesTotals() {
	ctx := context.Background()
	quotationID := uuid.NewString()
	productID := uuid.NewString()
	existing := &domain.Quotation{
		QuotationID: quotationID,
		CustomerID:  uuid.NewString(),
		Subtotal:    decimal.NewFromInt(999),
	}

	req := dto.UpdateQuotationRequest{
		ID: quotationID,
		Items: []dto.DocumentItemInput{
			{ProductID: productID, Quantity: 3, UnitPrice: decimal.NewFromInt(20)},
		},
	}

	suite.mockRepo.On("FindQuotationByID", ctx, quotationID).Return(existing, nil)
	suite.mockRepo.On("Begin", ctx).Return(nil, nil)
	suite.mockRepo.On("Rollback", ctx, mock.Anything).Return(nil)
	suite.mockRef.On("CountProductsByIDs", ctx, mock.Anything, []string{productID}).Return(1, nil)

	var replaced []domain.QuotationItem
	suite.mockRepo.On("ReplaceQuotationItems", ctx, mock.Anything, quotationID, mock.Anything).
		Run(func(args mock.Arguments) {
			replaced = args.Get(3).([]domain.QuotationItem)
		}).Return(nil)

	var updated domain.Quotation
	suite.mockRepo.On("UpdateQuotation", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			updated = args.Get(2).(domain.Quotation)
		}).Return(nil)
	suite.mockRepo.On("Commit", ctx, mock.Anything).Return(nil)

	_, err := suite.service.UpdateQuotation(ctx, req, uuid.NewString())

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), replaced, 1)
	assert.True(suite.T(), updated.Subtotal.Equal(decimal.NewFromInt(60)))
	assert.True(suite.T(), updated.GrandTotal.Equal(decimal.NewFromInt(60)))
}

func (suite *QuotationServiceTestSuite) TestListQuotations_NormalizesPaging() {
	ctx := context.Background()

	suite.mockRepo.On("ListQuotations", ctx, 10, 0, "").Return([]domain.Quotation{}, int64(0), nil)

	_, total, err := suite.service.ListQuotations(ctx, dto.ListDocumentsRequest{})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), total)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *QuotationServiceTestSuite) TestDeleteQuotation_NotFound() {
	ctx := context.Background()
	quotationID := uuid.NewString()

	suite.mockRepo.On("FindQuotationByID", ctx, quotationID).Return(nil, apperrors.ErrNotFound)

	err := suite.service.DeleteQuotation(ctx, quotationID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteQuotation", mock.Anything, mock.Anything)
}

func TestQuotationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(QuotationServiceTestSuite))
}
