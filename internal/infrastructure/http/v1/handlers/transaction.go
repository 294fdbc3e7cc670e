package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"domus/internal/domain/ledger"
	"domus/internal/infrastructure/http/v1/dto"
)

// TransactionHandler handles the append-only journal endpoints.
type TransactionHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(base *BaseHandler, service *ledger.Service) *TransactionHandler {
	return &TransactionHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Record handles POST /transactions - append a journal entry and move
// the inventory balances it names.
func (h *TransactionHandler) Record(c *gin.Context) {
	var req dto.RecordTransactionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tr, err := h.service.RecordTransaction(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, tr)
}

// Get handles GET /transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	trID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	tr, err := h.service.GetTransaction(c.Request.Context(), trID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, tr)
}

// List handles GET /transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	var query dto.TransactionListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	items, err := h.service.ListTransactions(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// Turnover handles GET /transactions/turnover - inflow/outflow report
// with opening and closing balances for a period.
func (h *TransactionHandler) Turnover(c *gin.Context) {
	var query dto.TurnoverQuery
	if !h.BindQuery(c, &query) {
		return
	}

	report, err := h.service.GetTurnover(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
