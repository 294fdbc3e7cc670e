package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/core/types"
)

func newObligation(owed string, due time.Time) *Payment {
	return New(id.New(), id.New(), types.MustMonth("2026-08"), types.MustMoney(owed), due)
}

func TestApply_PartialThenFull(t *testing.T) {
	now := time.Date(2026, 8, 5, 10, 0, 0, 0, time.UTC)
	due := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	p := newObligation("50.00", due)

	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, "50.00", p.Balance.StringFixed(2))

	require.NoError(t, p.Apply(types.MustMoney("20.00"), nil, now))
	assert.Equal(t, StatusPartiallyPaid, p.Status)
	assert.Equal(t, "30.00", p.Balance.StringFixed(2))
	assert.Nil(t, p.PaidDate)

	require.NoError(t, p.Apply(types.MustMoney("30.00"), nil, now))
	assert.Equal(t, StatusPaid, p.Status)
	assert.True(t, p.Balance.IsZero())
	require.NotNil(t, p.PaidDate)
}

func TestApply_SettledIsTerminal(t *testing.T) {
	now := time.Date(2026, 8, 5, 10, 0, 0, 0, time.UTC)
	p := newObligation("10.00", now.AddDate(0, 0, 10))

	require.NoError(t, p.Apply(types.MustMoney("10.00"), nil, now))
	require.Equal(t, StatusPaid, p.Status)

	err := p.Apply(types.MustMoney("5.00"), nil, now)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodePaymentSettled, appErr.Code)
	assert.Equal(t, "10.00", p.AmountPaid.StringFixed(2))
}

func TestApply_NonPositiveAmount(t *testing.T) {
	now := time.Now().UTC()
	p := newObligation("10.00", now.AddDate(0, 0, 10))

	require.Error(t, p.Apply(types.Zero(), nil, now))
	require.Error(t, p.Apply(types.MustMoney("-3.00"), nil, now))
	assert.Equal(t, StatusPending, p.Status)
}

func TestApply_OverpaymentRejected(t *testing.T) {
	now := time.Date(2026, 8, 5, 10, 0, 0, 0, time.UTC)
	p := newObligation("50.00", now.AddDate(0, 0, 10))

	err := p.Apply(types.MustMoney("80.00"), nil, now)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	// Nothing moved: still a pristine pending obligation.
	assert.Equal(t, StatusPending, p.Status)
	assert.True(t, p.AmountPaid.IsZero())
	assert.Equal(t, "50.00", p.Balance.StringFixed(2))

	// The remainder is the cap after a partial payment too.
	require.NoError(t, p.Apply(types.MustMoney("20.00"), nil, now))
	require.Error(t, p.Apply(types.MustMoney("30.01"), nil, now))
	require.NoError(t, p.Apply(types.MustMoney("30.00"), nil, now))
	assert.Equal(t, StatusPaid, p.Status)
}

func TestRefresh_OverdueThenPaid(t *testing.T) {
	due := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	after := time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC)
	p := newObligation("50.00", due)

	p.Refresh(after)
	assert.Equal(t, StatusOverdue, p.Status)

	require.NoError(t, p.Apply(types.MustMoney("50.00"), nil, after))
	assert.Equal(t, StatusPaid, p.Status)
	assert.True(t, p.Balance.IsZero())
}

func TestRefresh_PartialPastDueIsOverdue(t *testing.T) {
	due := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	before := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	after := time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC)
	p := newObligation("50.00", due)

	require.NoError(t, p.Apply(types.MustMoney("20.00"), nil, before))
	assert.Equal(t, StatusPartiallyPaid, p.Status)

	p.Refresh(after)
	assert.Equal(t, StatusOverdue, p.Status)
}

func TestValidate_BalanceIdentity(t *testing.T) {
	p := newObligation("50.00", time.Now().AddDate(0, 0, 10))
	require.NoError(t, p.Validate(context.Background()))

	p.Balance = types.MustMoney("49.00")
	require.Error(t, p.Validate(context.Background()))
}
