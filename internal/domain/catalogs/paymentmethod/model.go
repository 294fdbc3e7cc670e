// Package paymentmethod provides the payment method catalog (cash, bank,
// card terminals). Methods are referenced by ledger transactions and
// expenses with RESTRICT semantics.
package paymentmethod

import (
	"context"

	"domus/internal/core/apperror"
	"domus/internal/core/entity"
)

// Kind groups payment methods by channel.
type Kind string

const (
	KindCash     Kind = "cash"
	KindBank     Kind = "bank"
	KindCard     Kind = "card"
	KindExternal Kind = "external"
)

// PaymentMethod is a way money enters or leaves an inventory.
type PaymentMethod struct {
	entity.BaseEntity

	Name     string `db:"name" json:"name"`
	Kind     Kind   `db:"kind" json:"kind"`
	IsActive bool   `db:"is_active" json:"isActive"`
}

// New creates an active PaymentMethod.
func New(name string, kind Kind) *PaymentMethod {
	return &PaymentMethod{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Kind:       kind,
		IsActive:   true,
	}
}

// Validate implements entity.Validatable.
func (m *PaymentMethod) Validate(ctx context.Context) error {
	if m.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	switch m.Kind {
	case KindCash, KindBank, KindCard, KindExternal:
	default:
		return apperror.NewValidation("invalid payment method kind").
			WithDetail("field", "kind").
			WithDetail("value", string(m.Kind))
	}
	return nil
}
