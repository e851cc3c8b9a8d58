package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/dto"
	"github.com/freightdesk/backend/internal/middleware"
)

const quotationHeading = "Quotation"

// quotationHandler handles HTTP requests related to quotations.
type quotationHandler struct {
	quotationService portssvc.QuotationSvcFacade
}

func newQuotationHandler(qs portssvc.QuotationSvcFacade) *quotationHandler {
	return &quotationHandler{quotationService: qs}
}

// registerQuotationRoutes registers routes related to quotations.
func registerQuotationRoutes(rg *gin.RouterGroup, quotationService portssvc.QuotationSvcFacade) {
	h := newQuotationHandler(quotationService)

	quotations := rg.Group("/quotations")
	{
		quotations.POST("/create", h.createQuotation)
		quotations.PUT("/update", h.updateQuotation)
		quotations.GET("/getById/:id", h.getQuotationByID)
		quotations.GET("/getAll", h.listQuotations)
		quotations.DELETE("/delete/:id", h.deleteQuotation)
	}
}

// createQuotation godoc
// @Summary Create a new quotation
// @Description Creates a quotation with an auto-assigned quote number and computed totals
// @Tags quotations
// @Accept  json
// @Produce  json
// @Param   quotation body dto.CreateQuotationRequest true "Quotation details"
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Failed to create quotation"
// @Security BearerAuth
// @Router /quotations/create [post]
func (h *quotationHandler) createQuotation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createQuotation", slog.String("error", err.Error()))
		respondBindError(c, err, quotationHeading)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	quotation, err := h.quotationService.CreateQuotation(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, quotationHeading)
		return
	}

	c.JSON(http.StatusCreated, dto.Success(quotation, "Quotation created successfully", quotationHeading, http.StatusCreated))
}

// updateQuotation godoc
// @Summary Update a quotation
// @Description Applies a partial update; a non-empty item list replaces all items and recomputes totals
// @Tags quotations
// @Accept  json
// @Produce  json
// @Param   quotation body dto.UpdateQuotationRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Invalid input format or validation error"
// @Failure 404 {object} dto.APIResponse "Quotation not found"
// @Security BearerAuth
// @Router /quotations/update [put]
func (h *quotationHandler) updateQuotation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateQuotation", slog.String("error", err.Error()))
		respondBindError(c, err, quotationHeading)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	quotation, err := h.quotationService.UpdateQuotation(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, quotationHeading)
		return
	}

	c.JSON(http.StatusOK, dto.Success(quotation, "Quotation updated successfully", quotationHeading, http.StatusOK))
}

// getQuotationByID godoc
// @Summary Get a quotation by ID
// @Description Loads a quotation with its customer, job file, service details and items
// @Tags quotations
// @Produce  json
// @Param   id path string true "Quotation ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Quotation not found"
// @Security BearerAuth
// @Router /quotations/getById/{id} [get]
func (h *quotationHandler) getQuotationByID(c *gin.Context) {
	quotation, err := h.quotationService.GetQuotationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, quotationHeading)
		return
	}

	c.JSON(http.StatusOK, dto.Success(quotation, "Quotation fetched successfully", quotationHeading, http.StatusOK))
}

// listQuotations godoc
// @Summary List quotations
// @Description Returns one page of quotations with pagination metadata; search matches quote number, shipment and relation text
// @Tags quotations
// @Produce  json
// @Param   page query int false "Page number" default(1)
// @Param   limit query int false "Page size" default(10)
// @Param   search query string false "Search term"
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /quotations/getAll [get]
func (h *quotationHandler) listQuotations(c *gin.Context) {
	var req dto.ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err, quotationHeading)
		return
	}
	req.Normalize()

	quotations, total, err := h.quotationService.ListQuotations(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, quotationHeading)
		return
	}

	pagination := dto.NewPagination(req.Page, req.Limit, total)
	c.JSON(http.StatusOK, dto.Paginated(quotations, "quotations", pagination, "Quotations fetched successfully", quotationHeading))
}

// deleteQuotation godoc
// @Summary Delete a quotation
// @Description Hard-deletes a quotation; its items and service-detail links cascade
// @Tags quotations
// @Produce  json
// @Param   id path string true "Quotation ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Quotation not found"
// @Security BearerAuth
// @Router /quotations/delete/{id} [delete]
func (h *quotationHandler) deleteQuotation(c *gin.Context) {
	if err := h.quotationService.DeleteQuotation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, quotationHeading)
		return
	}

	c.JSON(http.StatusOK, dto.Success(nil, "Quotation deleted successfully", quotationHeading, http.StatusOK))
}
