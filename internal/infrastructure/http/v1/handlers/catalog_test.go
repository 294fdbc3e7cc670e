package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/domain"
	"domus/internal/domain/catalogs/paymentmethod"
	"domus/internal/infrastructure/http/v1/dto"
	"domus/internal/infrastructure/http/v1/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeMethodOps is an in-memory CatalogOps implementation.
type fakeMethodOps struct {
	items map[id.ID]*paymentmethod.PaymentMethod
}

func newFakeMethodOps() *fakeMethodOps {
	return &fakeMethodOps{items: make(map[id.ID]*paymentmethod.PaymentMethod)}
}

func (f *fakeMethodOps) Create(ctx context.Context, m *paymentmethod.PaymentMethod) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}
	cp := *m
	f.items[m.ID] = &cp
	return nil
}

func (f *fakeMethodOps) GetByID(ctx context.Context, entityID id.ID) (*paymentmethod.PaymentMethod, error) {
	m, ok := f.items[entityID]
	if !ok {
		return nil, apperror.NewNotFound("payment method", entityID.String())
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMethodOps) Update(ctx context.Context, m *paymentmethod.PaymentMethod) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}
	if _, ok := f.items[m.ID]; !ok {
		return apperror.NewNotFound("payment method", m.ID.String())
	}
	cp := *m
	f.items[m.ID] = &cp
	return nil
}

func (f *fakeMethodOps) Delete(ctx context.Context, entityID id.ID) error {
	if _, ok := f.items[entityID]; !ok {
		return apperror.NewNotFound("payment method", entityID.String())
	}
	delete(f.items, entityID)
	return nil
}

func (f *fakeMethodOps) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*paymentmethod.PaymentMethod], error) {
	var items []*paymentmethod.PaymentMethod
	for _, m := range f.items {
		cp := *m
		items = append(items, &cp)
	}
	return domain.ListResult[*paymentmethod.PaymentMethod]{
		Items:      items,
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func newMethodRouter(ops *fakeMethodOps) *gin.Engine {
	h := NewCatalogHandler(NewBaseHandler(), CatalogHandlerConfig[*paymentmethod.PaymentMethod, dto.CreatePaymentMethodRequest, dto.UpdatePaymentMethodRequest]{
		Service: ops,
		MapCreate: func(req dto.CreatePaymentMethodRequest) *paymentmethod.PaymentMethod {
			return req.ToEntity()
		},
		MapUpdate: func(req dto.UpdatePaymentMethodRequest, existing *paymentmethod.PaymentMethod) *paymentmethod.PaymentMethod {
			return req.Apply(existing)
		},
	})

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/payment-methods", h.List)
	r.POST("/payment-methods", h.Create)
	r.GET("/payment-methods/:id", h.Get)
	r.PUT("/payment-methods/:id", h.Update)
	r.DELETE("/payment-methods/:id", h.Delete)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCatalogHandler_CreateAndGet(t *testing.T) {
	ops := newFakeMethodOps()
	r := newMethodRouter(ops)

	w := doJSON(r, http.MethodPost, "/payment-methods", `{"name":"Cash desk","kind":"cash"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"isActive":true`)

	require.Len(t, ops.items, 1)
	var created *paymentmethod.PaymentMethod
	for _, m := range ops.items {
		created = m
	}
	assert.Equal(t, "Cash desk", created.Name)
	assert.Equal(t, paymentmethod.KindCash, created.Kind)

	w = doJSON(r, http.MethodGet, "/payment-methods/"+created.ID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.ID.String())
}

func TestCatalogHandler_CreateValidation(t *testing.T) {
	r := newMethodRouter(newFakeMethodOps())

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"missing kind", `{"name":"Cash desk"}`},
		{"unknown kind", `{"name":"Cash desk","kind":"crypto"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/payment-methods", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), apperror.CodeValidation)
		})
	}
}

func TestCatalogHandler_GetErrors(t *testing.T) {
	r := newMethodRouter(newFakeMethodOps())

	w := doJSON(r, http.MethodGet, "/payment-methods/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/payment-methods/"+id.New().String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogHandler_Update(t *testing.T) {
	ops := newFakeMethodOps()
	r := newMethodRouter(ops)

	m := paymentmethod.New("Old name", paymentmethod.KindBank)
	require.NoError(t, ops.Create(context.Background(), m))

	w := doJSON(r, http.MethodPut, "/payment-methods/"+m.ID.String(),
		`{"name":"New name","kind":"card","isActive":false}`)
	require.Equal(t, http.StatusOK, w.Code)

	stored := ops.items[m.ID]
	assert.Equal(t, "New name", stored.Name)
	assert.Equal(t, paymentmethod.KindCard, stored.Kind)
	assert.False(t, stored.IsActive)
}

func TestCatalogHandler_DeleteAndList(t *testing.T) {
	ops := newFakeMethodOps()
	r := newMethodRouter(ops)

	m := paymentmethod.New("Cash desk", paymentmethod.KindCash)
	require.NoError(t, ops.Create(context.Background(), m))

	w := doJSON(r, http.MethodGet, "/payment-methods", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalCount":1`)

	w = doJSON(r, http.MethodDelete, "/payment-methods/"+m.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, ops.items)
}
