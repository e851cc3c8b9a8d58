package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/freightdesk/backend/internal/core/ports/services"
	"github.com/freightdesk/backend/internal/dto"
	"github.com/freightdesk/backend/internal/middleware"
)

const invoiceHeading = "Invoice"

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

// registerInvoiceRoutes registers routes related to invoices.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("/create", h.createInvoice)
		invoices.PUT("/update", h.updateInvoice)
		invoices.GET("/getById/:id", h.getInvoiceByID)
		invoices.GET("/getAll", h.listInvoices)
		invoices.DELETE("/delete/:id", h.deleteInvoice)
	}
}

// createInvoice godoc
// @Summary Create a new invoice
// @Description Creates an invoice, optionally derived from a quotation whose items are copied forward exactly once
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Invalid input format or validation error"
// @Failure 409 {object} dto.APIResponse "Quotation already has an invoice"
// @Failure 500 {object} dto.APIResponse "Failed to create invoice"
// @Security BearerAuth
// @Router /invoices/create [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createInvoice", slog.String("error", err.Error()))
		respondBindError(c, err, invoiceHeading)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, invoiceHeading)
		return
	}

	c.JSON(http.StatusCreated, dto.Success(invoice, "Invoice created successfully", invoiceHeading, http.StatusCreated))
}

// updateInvoice godoc
// @Summary Update an invoice
// @Description Applies a partial update; repointing the quotation link never replays the item copy
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.APIResponse "Invalid input format or validation error"
// @Failure 404 {object} dto.APIResponse "Invoice not found"
// @Security BearerAuth
// @Router /invoices/update [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateInvoice", slog.String("error", err.Error()))
		respondBindError(c, err, invoiceHeading)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, invoiceHeading)
		return
	}

	c.JSON(http.StatusOK, dto.Success(invoice, "Invoice updated successfully", invoiceHeading, http.StatusOK))
}

// getInvoiceByID godoc
// @Summary Get an invoice by ID
// @Description Loads an invoice with its quotation, customer, job file, subcategories and items
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Invoice not found"
// @Security BearerAuth
// @Router /invoices/getById/{id} [get]
func (h *invoiceHandler) getInvoiceByID(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, invoiceHeading)
		return
	}

	c.JSON(http.StatusOK, dto.Success(invoice, "Invoice fetched successfully", invoiceHeading, http.StatusOK))
}

// listInvoices godoc
// @Summary List invoices
// @Description Returns one page of invoices with pagination metadata; search matches invoice number, shipment and relation text
// @Tags invoices
// @Produce  json
// @Param   page query int false "Page number" default(1)
// @Param   limit query int false "Page size" default(10)
// @Param   search query string false "Search term"
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /invoices/getAll [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	var req dto.ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err, invoiceHeading)
		return
	}
	req.Normalize()

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, invoiceHeading)
		return
	}

	pagination := dto.NewPagination(req.Page, req.Limit, total)
	c.JSON(http.StatusOK, dto.Paginated(invoices, "invoices", pagination, "Invoices fetched successfully", invoiceHeading))
}

// deleteInvoice godoc
// @Summary Delete an invoice
// @Description Hard-deletes an invoice; the source quotation keeps its derivation flag
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Invoice not found"
// @Security BearerAuth
// @Router /invoices/delete/{id} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, invoiceHeading)
		return
	}

	c.JSON(http.StatusOK, dto.Success(nil, "Invoice deleted successfully", invoiceHeading, http.StatusOK))
}
