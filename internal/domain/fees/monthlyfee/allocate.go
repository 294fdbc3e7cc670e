package monthlyfee

import (
	"github.com/shopspring/decimal"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/core/types"
)

// CoefficientRow is one apartment's input to the allocation engine.
type CoefficientRow struct {
	ApartmentID id.ID
	Coefficient float64
}

// Share is one apartment's computed output.
type Share struct {
	ApartmentID id.ID
	Coefficient float64
	Amount      types.Money
}

// ComputeShares distributes a fee across apartments.
//
// Per-unit mode charges baseAmount * coefficient per apartment. Total mode
// splits baseAmount proportionally to coefficients; amounts are rounded to
// cents and the rounding remainder lands on the last apartment with a
// non-zero coefficient so the shares sum exactly to baseAmount.
//
// Apartments with coefficient 0 owe 0 but still get a share row, keeping a
// payment-tracking row per apartment. A zero coefficient sum in total mode
// is rejected: there is nothing to divide by.
func ComputeShares(fee *MonthlyFee, rows []CoefficientRow) ([]Share, error) {
	shares := make([]Share, len(rows))

	switch fee.ApplicationMode {
	case ModePerUnit:
		for i, row := range rows {
			coeff := decimal.NewFromFloat(row.Coefficient)
			shares[i] = Share{
				ApartmentID: row.ApartmentID,
				Coefficient: row.Coefficient,
				Amount:      types.RoundMoney(fee.BaseAmount.Mul(coeff)),
			}
		}
		return shares, nil

	case ModeTotal:
		sum := decimal.Zero
		for _, row := range rows {
			sum = sum.Add(decimal.NewFromFloat(row.Coefficient))
		}
		if sum.IsZero() {
			return nil, apperror.NewZeroCoefficients(string(fee.PaymentBasis))
		}

		lastNonZero := -1
		allocated := decimal.Zero
		for i, row := range rows {
			coeff := decimal.NewFromFloat(row.Coefficient)
			amount := types.RoundMoney(fee.BaseAmount.Mul(coeff).Div(sum))
			shares[i] = Share{
				ApartmentID: row.ApartmentID,
				Coefficient: row.Coefficient,
				Amount:      amount,
			}
			allocated = allocated.Add(amount)
			if !coeff.IsZero() {
				lastNonZero = i
			}
		}

		if remainder := fee.BaseAmount.Sub(allocated); !remainder.IsZero() && lastNonZero >= 0 {
			shares[lastNonZero].Amount = shares[lastNonZero].Amount.Add(remainder)
		}
		return shares, nil
	}

	return nil, apperror.NewValidation("invalid application mode").
		WithDetail("value", string(fee.ApplicationMode))
}
