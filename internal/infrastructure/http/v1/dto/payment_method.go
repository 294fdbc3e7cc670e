package dto

import (
	"domus/internal/domain/catalogs/paymentmethod"
)

// CreatePaymentMethodRequest creates a payment method.
type CreatePaymentMethodRequest struct {
	Name     string `json:"name" binding:"required"`
	Kind     string `json:"kind" binding:"required"`
	IsActive *bool  `json:"isActive"`
}

// ToEntity maps the request to a domain payment method.
func (r CreatePaymentMethodRequest) ToEntity() *paymentmethod.PaymentMethod {
	m := paymentmethod.New(r.Name, paymentmethod.Kind(r.Kind))
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
	return m
}

// UpdatePaymentMethodRequest updates a payment method.
type UpdatePaymentMethodRequest struct {
	Name     string `json:"name" binding:"required"`
	Kind     string `json:"kind" binding:"required"`
	IsActive bool   `json:"isActive"`
}

// Apply copies the request onto an existing payment method.
func (r UpdatePaymentMethodRequest) Apply(m *paymentmethod.PaymentMethod) *paymentmethod.PaymentMethod {
	m.Name = r.Name
	m.Kind = paymentmethod.Kind(r.Kind)
	m.IsActive = r.IsActive
	return m
}
