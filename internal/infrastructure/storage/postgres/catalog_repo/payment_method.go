package catalog_repo

import (
	"domus/internal/domain/catalogs/paymentmethod"
	"domus/internal/infrastructure/storage/postgres"
)

const paymentMethodTable = "cat_payment_methods"

// PaymentMethodRepo implements the payment method catalog repository.
type PaymentMethodRepo struct {
	*BaseCatalogRepo[*paymentmethod.PaymentMethod]
}

// NewPaymentMethodRepo creates a new payment method repository.
func NewPaymentMethodRepo(txm *postgres.TxManager) *PaymentMethodRepo {
	return &PaymentMethodRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*paymentmethod.PaymentMethod](
			txm,
			paymentMethodTable,
			postgres.ExtractDBColumns[paymentmethod.PaymentMethod](),
			nil,
			func() *paymentmethod.PaymentMethod { return &paymentmethod.PaymentMethod{} },
		),
	}
}
