package handlers

import (
	"domus/internal/domain/catalogs/paymentmethod"
	"domus/internal/infrastructure/http/v1/dto"
)

// PaymentMethodHandler handles payment method endpoints.
type PaymentMethodHandler struct {
	*CatalogHandler[*paymentmethod.PaymentMethod, dto.CreatePaymentMethodRequest, dto.UpdatePaymentMethodRequest]
}

// NewPaymentMethodHandler creates a new payment method handler.
func NewPaymentMethodHandler(base *BaseHandler, service *paymentmethod.Service) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*paymentmethod.PaymentMethod, dto.CreatePaymentMethodRequest, dto.UpdatePaymentMethodRequest]{
			Service: service,
			MapCreate: func(req dto.CreatePaymentMethodRequest) *paymentmethod.PaymentMethod {
				return req.ToEntity()
			},
			MapUpdate: func(req dto.UpdatePaymentMethodRequest, existing *paymentmethod.PaymentMethod) *paymentmethod.PaymentMethod {
				return req.Apply(existing)
			},
		}),
	}
}
