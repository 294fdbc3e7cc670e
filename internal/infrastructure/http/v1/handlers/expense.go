package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"domus/internal/core/id"
	"domus/internal/domain/expenses"
	"domus/internal/infrastructure/http/v1/dto"
)

// ExpenseHandler handles recurring and one-time expense endpoints.
type ExpenseHandler struct {
	*CatalogHandler[*expenses.RecurringExpense, dto.CreateRecurringExpenseRequest, dto.UpdateRecurringExpenseRequest]
	service *expenses.Service
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(base *BaseHandler, service *expenses.Service) *ExpenseHandler {
	return &ExpenseHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*expenses.RecurringExpense, dto.CreateRecurringExpenseRequest, dto.UpdateRecurringExpenseRequest]{
			Service: service,
			MapCreate: func(req dto.CreateRecurringExpenseRequest) *expenses.RecurringExpense {
				return req.ToEntity()
			},
			MapUpdate: func(req dto.UpdateRecurringExpenseRequest, existing *expenses.RecurringExpense) *expenses.RecurringExpense {
				return req.Apply(existing)
			},
		}),
		service: service,
	}
}

// Pay handles POST /expenses/recurring/:id/pay - settles one month of
// the expense and debits the building's main inventory.
func (h *ExpenseHandler) Pay(c *gin.Context) {
	expenseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.PayRecurringExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.PayRecurring(c.Request.Context(), expenseID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// ListPayments handles GET /expenses/recurring/payments?ids=a,b,c.
func (h *ExpenseHandler) ListPayments(c *gin.Context) {
	var expenseIDs []id.ID
	if raw := c.Query("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			parsed, err := id.Parse(strings.TrimSpace(part))
			if err != nil {
				h.Error(c, validationErr("ids"))
				return
			}
			expenseIDs = append(expenseIDs, parsed)
		}
	}

	items, err := h.service.ListPayments(c.Request.Context(), expenseIDs)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// CreateOneTime handles POST /expenses/one-time - records an ad hoc
// expense and debits the named inventory.
func (h *ExpenseHandler) CreateOneTime(c *gin.Context) {
	var req dto.CreateOneTimeExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	e := req.ToEntity()
	if err := h.service.RecordOneTime(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, e)
}

// GetOneTime handles GET /expenses/one-time/:id.
func (h *ExpenseHandler) GetOneTime(c *gin.Context) {
	expenseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	e, err := h.service.GetOneTime(c.Request.Context(), expenseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, e)
}

// ListOneTime handles GET /expenses/one-time.
func (h *ExpenseHandler) ListOneTime(c *gin.Context) {
	var query dto.OneTimeExpenseListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	items, err := h.service.ListOneTime(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}
