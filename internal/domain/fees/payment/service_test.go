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
	"domus/internal/domain/fees/monthlyfee"
	"domus/internal/domain/ledger"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type obligationKey struct {
	apartment id.ID
	fee       id.ID
	month     types.Month
}

type fakePaymentRepo struct {
	items map[id.ID]*Payment
	keys  map[obligationKey]bool
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		items: make(map[id.ID]*Payment),
		keys:  make(map[obligationKey]bool),
	}
}

func (r *fakePaymentRepo) Create(ctx context.Context, p *Payment) error {
	key := obligationKey{apartment: p.ApartmentID, fee: p.MonthlyFeeID, month: p.PaymentMonth}
	if r.keys[key] {
		return apperror.NewDuplicate("payment", "apartment_id,monthly_fee_id,payment_month", key.month.String())
	}
	r.keys[key] = true
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, paymentID id.ID) (*Payment, error) {
	p, ok := r.items[paymentID]
	if !ok {
		return nil, apperror.NewNotFound("payment", paymentID.String())
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) GetForUpdate(ctx context.Context, paymentID id.ID) (*Payment, error) {
	return r.GetByID(ctx, paymentID)
}

func (r *fakePaymentRepo) Update(ctx context.Context, p *Payment) error {
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) Exists(ctx context.Context, apartmentID, feeID id.ID, month types.Month) (bool, error) {
	return r.keys[obligationKey{apartment: apartmentID, fee: feeID, month: month}], nil
}

func (r *fakePaymentRepo) List(ctx context.Context, f ListFilter) ([]*Payment, error) {
	var out []*Payment
	for _, p := range r.items {
		if f.ApartmentID != nil && p.ApartmentID != *f.ApartmentID {
			continue
		}
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePaymentRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	var n int64
	for _, p := range r.items {
		if p.Status != StatusPaid && p.Balance.IsPositive() && p.DueDate.Before(asOf) && p.Status != StatusOverdue {
			p.Status = StatusOverdue
			n++
		}
	}
	return n, nil
}

type fakeFeeSource struct {
	fees   map[id.ID]*monthlyfee.MonthlyFee
	allocs map[id.ID][]*monthlyfee.Allocation
}

func (f *fakeFeeSource) ListChargeable(ctx context.Context, month types.Month) ([]*monthlyfee.MonthlyFee, error) {
	var out []*monthlyfee.MonthlyFee
	for _, fee := range f.fees {
		if fee.IsActive && fee.AppliesTo(month) {
			out = append(out, fee)
		}
	}
	return out, nil
}

func (f *fakeFeeSource) GetWithAllocations(ctx context.Context, feeID id.ID) (*monthlyfee.MonthlyFee, []*monthlyfee.Allocation, error) {
	fee, ok := f.fees[feeID]
	if !ok {
		return nil, nil, apperror.NewNotFound("monthly fee", feeID.String())
	}
	return fee, f.allocs[feeID], nil
}

type fakeLedger struct {
	mains   map[id.ID]*ledger.Inventory // keyed by building
	entries []ledger.TransactionInput
}

func (l *fakeLedger) GetMain(ctx context.Context, buildingID id.ID) (*ledger.Inventory, error) {
	inv, ok := l.mains[buildingID]
	if !ok {
		return nil, apperror.NewNotFound("main inventory", buildingID.String())
	}
	return inv, nil
}

func (l *fakeLedger) RecordTransaction(ctx context.Context, in ledger.TransactionInput) (*ledger.Transaction, error) {
	l.entries = append(l.entries, in)
	inv := l.mains[in.BuildingID]
	inv.Amount = inv.Amount.Add(in.Amount)
	return &ledger.Transaction{ID: id.New(), BuildingID: in.BuildingID, Type: in.Type, Amount: in.Amount}, nil
}

type fakeApartments struct {
	buildings map[id.ID]id.ID // apartment -> building
	debts     map[id.ID]types.Money
}

func (a *fakeApartments) BuildingOf(ctx context.Context, apartmentID id.ID) (id.ID, error) {
	b, ok := a.buildings[apartmentID]
	if !ok {
		return id.Nil(), apperror.NewNotFound("apartment", apartmentID.String())
	}
	return b, nil
}

func (a *fakeApartments) AdjustDebt(ctx context.Context, apartmentID id.ID, delta types.Money) error {
	a.debts[apartmentID] = a.debts[apartmentID].Add(delta)
	return nil
}

type fixture struct {
	svc        *Service
	payments   *fakePaymentRepo
	feeSource  *fakeFeeSource
	ledger     *fakeLedger
	apartments *fakeApartments
	building   id.ID
	fee        *monthlyfee.MonthlyFee
	aptA, aptB id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	building := id.New()
	aptA, aptB := id.New(), id.New()

	fee := monthlyfee.New(building, "General maintenance", monthlyfee.BasisApartment, monthlyfee.ModeTotal, types.MustMoney("100.00"))
	feeSource := &fakeFeeSource{
		fees: map[id.ID]*monthlyfee.MonthlyFee{fee.ID: fee},
		allocs: map[id.ID][]*monthlyfee.Allocation{
			fee.ID: {
				{MonthlyFeeID: fee.ID, ApartmentID: aptA, Coefficient: 1, CalculatedAmount: types.MustMoney("50.00")},
				{MonthlyFeeID: fee.ID, ApartmentID: aptB, Coefficient: 1, CalculatedAmount: types.MustMoney("50.00")},
			},
		},
	}

	led := &fakeLedger{mains: map[id.ID]*ledger.Inventory{
		building: {BuildingID: building, Name: ledger.MainInventoryName, Amount: types.Zero(), IsMain: true},
	}}
	led.mains[building].ID = id.New()

	apartments := &fakeApartments{
		buildings: map[id.ID]id.ID{aptA: building, aptB: building},
		debts:     map[id.ID]types.Money{aptA: types.Zero(), aptB: types.Zero()},
	}

	payments := newFakePaymentRepo()
	svc := NewService(payments, feeSource, led, apartments, passthroughTx{})

	return &fixture{
		svc: svc, payments: payments, feeSource: feeSource,
		ledger: led, apartments: apartments,
		building: building, fee: fee, aptA: aptA, aptB: aptB,
	}
}

func TestGeneratePayments_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	month := types.MustMonth("2026-08")
	due := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	created, err := f.svc.GeneratePayments(ctx, month, due)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	// Debt goes up by the owed amounts.
	assert.Equal(t, "50.00", f.apartments.debts[f.aptA].StringFixed(2))

	// Second run creates nothing.
	created, err = f.svc.GeneratePayments(ctx, month, due)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, "50.00", f.apartments.debts[f.aptA].StringFixed(2))
}

func TestGeneratePayments_OneOffFeeOnlyTargetMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	target := types.MustMonth("2026-09")
	f.fee.TargetMonth = &target

	created, err := f.svc.GeneratePayments(ctx, types.MustMonth("2026-08"), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	created, err = f.svc.GeneratePayments(ctx, target, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, created)
}

func TestRecordPayment_FullFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	month := types.MustMonth("2026-08")
	due := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.GeneratePayments(ctx, month, due)
	require.NoError(t, err)

	list, err := f.svc.List(ctx, ListFilter{ApartmentID: &f.aptA})
	require.NoError(t, err)
	require.Len(t, list, 1)
	obligation := list[0]

	p, err := f.svc.RecordPayment(ctx, obligation.ID, types.MustMoney("20.00"), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyPaid, p.Status)
	assert.Equal(t, "30.00", p.Balance.StringFixed(2))

	p, err = f.svc.RecordPayment(ctx, obligation.ID, types.MustMoney("30.00"), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, p.Status)
	assert.True(t, p.Balance.IsZero())

	// Main inventory received both amounts as payment_received entries.
	require.Len(t, f.ledger.entries, 2)
	for _, e := range f.ledger.entries {
		assert.Equal(t, ledger.TypePaymentReceived, e.Type)
		assert.Equal(t, f.building, e.BuildingID)
	}
	assert.Equal(t, "50.00", f.ledger.mains[f.building].Amount.StringFixed(2))

	// Apartment debt is back to zero: +50 owed, -50 paid.
	assert.True(t, f.apartments.debts[f.aptA].IsZero())
}

func TestRecordPayment_SettledRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GeneratePayments(ctx, types.MustMonth("2026-08"), time.Now().AddDate(0, 0, 10))
	require.NoError(t, err)

	list, _ := f.svc.List(ctx, ListFilter{ApartmentID: &f.aptA})
	require.Len(t, list, 1)

	_, err = f.svc.RecordPayment(ctx, list[0].ID, types.MustMoney("50.00"), nil)
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(ctx, list[0].ID, types.MustMoney("1.00"), nil)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodePaymentSettled, appErr.Code)
}

func TestRecordPayment_OverpaymentRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GeneratePayments(ctx, types.MustMonth("2026-08"), time.Now().AddDate(0, 0, 10))
	require.NoError(t, err)

	list, _ := f.svc.List(ctx, ListFilter{ApartmentID: &f.aptA})
	require.Len(t, list, 1)

	_, err = f.svc.RecordPayment(ctx, list[0].ID, types.MustMoney("80.00"), nil)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	// No money moved and no debt was relieved.
	assert.Empty(t, f.ledger.entries)
	assert.True(t, f.ledger.mains[f.building].Amount.IsZero())
	assert.Equal(t, "50.00", f.apartments.debts[f.aptA].StringFixed(2))

	list, _ = f.svc.List(ctx, ListFilter{ApartmentID: &f.aptA})
	assert.Equal(t, StatusPending, list[0].Status)
	assert.True(t, list[0].AmountPaid.IsZero())
}

func TestOverdueSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	month := types.MustMonth("2026-07")
	due := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.GeneratePayments(ctx, month, due)
	require.NoError(t, err)

	n, err := f.svc.OverdueSweep(ctx, time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	overdue := StatusOverdue
	list, _ := f.svc.List(ctx, ListFilter{Status: &overdue})
	assert.Len(t, list, 2)

	// Paying an overdue obligation in full settles it.
	p, err := f.svc.RecordPayment(ctx, list[0].ID, types.MustMoney("50.00"), nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, p.Status)
	assert.True(t, p.Balance.IsZero())
}
