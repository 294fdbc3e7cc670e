package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"domus/internal/core/apperror"
	"domus/internal/domain/fees/payment"
	"domus/internal/infrastructure/http/v1/dto"
)

// PaymentHandler handles payment obligation endpoints.
type PaymentHandler struct {
	*BaseHandler
	service *payment.Service
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(base *BaseHandler, service *payment.Service) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Get handles GET /payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	paymentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// List handles GET /payments.
func (h *PaymentHandler) List(c *gin.Context) {
	var query dto.PaymentListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid month format").WithDetail("error", err.Error()))
		return
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// Record handles POST /payments/:id/record - applies money against the
// obligation and credits the building's main inventory.
func (h *PaymentHandler) Record(c *gin.Context) {
	paymentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.RecordPayment(c.Request.Context(), paymentID, req.Amount, req.PaymentMethodID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// Generate handles POST /payments/generate - creates obligations for
// every chargeable fee and apartment of the given month. Existing rows
// are skipped, so repeated calls are safe.
func (h *PaymentHandler) Generate(c *gin.Context) {
	var req dto.GeneratePaymentsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.service.GeneratePayments(c.Request.Context(), req.Month, req.DueDate)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: int64(created)})
}

// GenerateForFee handles POST /fees/:id/generate-payments - creates
// obligations for one fee only.
func (h *PaymentHandler) GenerateForFee(c *gin.Context) {
	feeID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.GeneratePaymentsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	created, err := h.service.GenerateForFee(c.Request.Context(), feeID, req.Month, req.DueDate)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: int64(created)})
}

// OverdueSweep handles POST /payments/overdue-sweep - flags unpaid
// obligations past their due date.
func (h *PaymentHandler) OverdueSweep(c *gin.Context) {
	flagged, err := h.service.OverdueSweep(c.Request.Context(), time.Now())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{Count: flagged})
}
