package monthlyfee

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeFeeRepo struct {
	items        map[id.ID]*MonthlyFee
	expenseLinks map[id.ID]bool
}

func newFakeFeeRepo() *fakeFeeRepo {
	return &fakeFeeRepo{
		items:        make(map[id.ID]*MonthlyFee),
		expenseLinks: make(map[id.ID]bool),
	}
}

func (r *fakeFeeRepo) Create(ctx context.Context, f *MonthlyFee) error {
	cp := *f
	r.items[f.ID] = &cp
	return nil
}

func (r *fakeFeeRepo) GetByID(ctx context.Context, feeID id.ID) (*MonthlyFee, error) {
	f, ok := r.items[feeID]
	if !ok {
		return nil, apperror.NewNotFound("monthly fee", feeID.String())
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFeeRepo) Update(ctx context.Context, f *MonthlyFee) error {
	cp := *f
	r.items[f.ID] = &cp
	return nil
}

func (r *fakeFeeRepo) Delete(ctx context.Context, feeID id.ID) error {
	delete(r.items, feeID)
	return nil
}

func (r *fakeFeeRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*MonthlyFee], error) {
	var items []*MonthlyFee
	for _, fee := range r.items {
		cp := *fee
		items = append(items, &cp)
	}
	return domain.ListResult[*MonthlyFee]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeFeeRepo) Exists(ctx context.Context, feeID id.ID) (bool, error) {
	_, ok := r.items[feeID]
	return ok, nil
}

func (r *fakeFeeRepo) ListByBuilding(ctx context.Context, buildingID id.ID, onlyActive bool) ([]*MonthlyFee, error) {
	var out []*MonthlyFee
	for _, fee := range r.items {
		if fee.BuildingID != buildingID {
			continue
		}
		if onlyActive && !fee.IsActive {
			continue
		}
		cp := *fee
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeFeeRepo) ListChargeable(ctx context.Context, month types.Month) ([]*MonthlyFee, error) {
	var out []*MonthlyFee
	for _, fee := range r.items {
		if fee.IsActive && fee.AppliesTo(month) {
			cp := *fee
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeFeeRepo) HasExpenseLinks(ctx context.Context, feeID id.ID) (bool, error) {
	return r.expenseLinks[feeID], nil
}

type allocKey struct {
	fee       id.ID
	apartment id.ID
}

type fakeAllocRepo struct {
	rows map[allocKey]*Allocation
}

func newFakeAllocRepo() *fakeAllocRepo {
	return &fakeAllocRepo{rows: make(map[allocKey]*Allocation)}
}

func (r *fakeAllocRepo) Upsert(ctx context.Context, allocations []*Allocation) error {
	for _, a := range allocations {
		cp := *a
		r.rows[allocKey{fee: a.MonthlyFeeID, apartment: a.ApartmentID}] = &cp
	}
	return nil
}

func (r *fakeAllocRepo) ListByFee(ctx context.Context, feeID id.ID) ([]*Allocation, error) {
	var out []*Allocation
	for k, a := range r.rows {
		if k.fee == feeID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAllocRepo) ListByApartment(ctx context.Context, apartmentID id.ID) ([]*Allocation, error) {
	var out []*Allocation
	for k, a := range r.rows {
		if k.apartment == apartmentID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeRoster struct {
	rows map[id.ID][]CoefficientRow // keyed by building
}

func (r *fakeRoster) CoefficientRows(ctx context.Context, buildingID id.ID, basis string) ([]CoefficientRow, error) {
	return r.rows[buildingID], nil
}

func TestCreateFee_PersistsAllocations(t *testing.T) {
	building := id.New()
	aptA, aptB, aptC := id.New(), id.New(), id.New()
	roster := &fakeRoster{rows: map[id.ID][]CoefficientRow{
		building: {
			{ApartmentID: aptA, Coefficient: 50},
			{ApartmentID: aptB, Coefficient: 70},
			{ApartmentID: aptC, Coefficient: 80},
		},
	}}
	feeRepo := newFakeFeeRepo()
	allocRepo := newFakeAllocRepo()
	svc := NewService(feeRepo, allocRepo, passthroughTx{}, roster)

	fee := New(building, "General maintenance", BasisQuadrature, ModeTotal, types.MustMoney("100.00"))
	require.NoError(t, svc.Create(context.Background(), fee))

	allocs, err := allocRepo.ListByFee(context.Background(), fee.ID)
	require.NoError(t, err)
	require.Len(t, allocs, 3)

	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.CalculatedAmount)
	}
	assert.True(t, total.Equal(fee.BaseAmount))
}

func TestCreateFee_ZeroSumRejectedAtomically(t *testing.T) {
	building := id.New()
	roster := &fakeRoster{rows: map[id.ID][]CoefficientRow{
		building: {
			{ApartmentID: id.New(), Coefficient: 0},
			{ApartmentID: id.New(), Coefficient: 0},
		},
	}}
	feeRepo := newFakeFeeRepo()
	allocRepo := newFakeAllocRepo()
	svc := NewService(feeRepo, allocRepo, passthroughTx{}, roster)

	fee := New(building, "Pet fee", BasisPet, ModeTotal, types.MustMoney("50.00"))
	err := svc.Create(context.Background(), fee)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeZeroCoefficients, appErr.Code)
	assert.Empty(t, allocRepo.rows)
}

func TestUpdateFee_RecomputesInPlace(t *testing.T) {
	building := id.New()
	aptA, aptB := id.New(), id.New()
	roster := &fakeRoster{rows: map[id.ID][]CoefficientRow{
		building: {
			{ApartmentID: aptA, Coefficient: 1},
			{ApartmentID: aptB, Coefficient: 1},
		},
	}}
	feeRepo := newFakeFeeRepo()
	allocRepo := newFakeAllocRepo()
	svc := NewService(feeRepo, allocRepo, passthroughTx{}, roster)
	ctx := context.Background()

	fee := New(building, "Cleaning", BasisApartment, ModeTotal, types.MustMoney("80.00"))
	require.NoError(t, svc.Create(ctx, fee))

	fee.BaseAmount = types.MustMoney("120.00")
	require.NoError(t, svc.Update(ctx, fee))

	allocs, _ := allocRepo.ListByFee(ctx, fee.ID)
	require.Len(t, allocs, 2)
	for _, a := range allocs {
		assert.Equal(t, "60.00", a.CalculatedAmount.StringFixed(2))
	}
}

func TestRecompute_OnRosterChange(t *testing.T) {
	building := id.New()
	aptA, aptB := id.New(), id.New()
	roster := &fakeRoster{rows: map[id.ID][]CoefficientRow{
		building: {{ApartmentID: aptA, Coefficient: 1}},
	}}
	feeRepo := newFakeFeeRepo()
	allocRepo := newFakeAllocRepo()
	svc := NewService(feeRepo, allocRepo, passthroughTx{}, roster)
	ctx := context.Background()

	fee := New(building, "Cleaning", BasisApartment, ModeTotal, types.MustMoney("100.00"))
	require.NoError(t, svc.Create(ctx, fee))

	// A second apartment joins the building.
	roster.rows[building] = append(roster.rows[building], CoefficientRow{ApartmentID: aptB, Coefficient: 1})
	require.NoError(t, svc.OnRosterChanged(ctx, building))

	allocs, _ := allocRepo.ListByFee(ctx, fee.ID)
	require.Len(t, allocs, 2)
	for _, a := range allocs {
		assert.Equal(t, "50.00", a.CalculatedAmount.StringFixed(2))
	}
}

func TestDeleteFee_RestrictedByExpenseLink(t *testing.T) {
	building := id.New()
	roster := &fakeRoster{rows: map[id.ID][]CoefficientRow{
		building: {{ApartmentID: id.New(), Coefficient: 1}},
	}}
	feeRepo := newFakeFeeRepo()
	allocRepo := newFakeAllocRepo()
	svc := NewService(feeRepo, allocRepo, passthroughTx{}, roster)
	ctx := context.Background()

	fee := New(building, "Elevator maintenance", BasisApartment, ModePerUnit, types.MustMoney("10.00"))
	require.NoError(t, svc.Create(ctx, fee))
	feeRepo.expenseLinks[fee.ID] = true

	err := svc.Delete(ctx, fee.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeRestrictDelete, appErr.Code)

	feeRepo.expenseLinks[fee.ID] = false
	assert.NoError(t, svc.Delete(ctx, fee.ID))
}

func TestCustomCoefficients_PreservedWhenNotEven(t *testing.T) {
	building := id.New()
	aptA, aptB := id.New(), id.New()
	roster := &fakeRoster{rows: map[id.ID][]CoefficientRow{
		building: {
			{ApartmentID: aptA, Coefficient: 1},
			{ApartmentID: aptB, Coefficient: 1},
		},
	}}
	feeRepo := newFakeFeeRepo()
	allocRepo := newFakeAllocRepo()
	svc := NewService(feeRepo, allocRepo, passthroughTx{}, roster)
	ctx := context.Background()

	fee := New(building, "Garden", BasisApartment, ModeTotal, types.MustMoney("90.00"))
	fee.IsDistributedEvenly = false
	require.NoError(t, svc.Create(ctx, fee))

	// Give apartment A double weight and recompute.
	allocs, _ := allocRepo.ListByFee(ctx, fee.ID)
	for _, a := range allocs {
		if a.ApartmentID == aptA {
			a.Coefficient = 2
			require.NoError(t, allocRepo.Upsert(ctx, []*Allocation{a}))
		}
	}
	require.NoError(t, svc.Recompute(ctx, fee.ID))

	allocs, _ = allocRepo.ListByFee(ctx, fee.ID)
	byApt := make(map[id.ID]*Allocation)
	for _, a := range allocs {
		byApt[a.ApartmentID] = a
	}
	assert.Equal(t, "60.00", byApt[aptA].CalculatedAmount.StringFixed(2))
	assert.Equal(t, "30.00", byApt[aptB].CalculatedAmount.StringFixed(2))
}
