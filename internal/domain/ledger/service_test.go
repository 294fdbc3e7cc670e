package ledger

import (
	"context"
	"sort"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain"
	"domus/pkg/numerator"
)

// passthroughTx runs the function directly; transactional behavior itself
// is exercised against a real database elsewhere.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeInventoryRepo struct {
	items map[id.ID]*Inventory
	txRef map[id.ID]bool // inventories referenced by journal entries
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{
		items: make(map[id.ID]*Inventory),
		txRef: make(map[id.ID]bool),
	}
}

func (r *fakeInventoryRepo) Create(ctx context.Context, inv *Inventory) error {
	cp := *inv
	r.items[inv.ID] = &cp
	return nil
}

func (r *fakeInventoryRepo) GetByID(ctx context.Context, invID id.ID) (*Inventory, error) {
	inv, ok := r.items[invID]
	if !ok {
		return nil, apperror.NewNotFound("inventory", invID.String())
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInventoryRepo) Update(ctx context.Context, inv *Inventory) error {
	cp := *inv
	r.items[inv.ID] = &cp
	return nil
}

func (r *fakeInventoryRepo) Delete(ctx context.Context, invID id.ID) error {
	delete(r.items, invID)
	return nil
}

func (r *fakeInventoryRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Inventory], error) {
	var items []*Inventory
	for _, inv := range r.items {
		cp := *inv
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return domain.ListResult[*Inventory]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeInventoryRepo) Exists(ctx context.Context, invID id.ID) (bool, error) {
	_, ok := r.items[invID]
	return ok, nil
}

func (r *fakeInventoryRepo) ListByBuilding(ctx context.Context, buildingID id.ID) ([]*Inventory, error) {
	var out []*Inventory
	for _, inv := range r.items {
		if inv.BuildingID == buildingID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) GetMain(ctx context.Context, buildingID id.ID) (*Inventory, error) {
	for _, inv := range r.items {
		if inv.BuildingID == buildingID && inv.IsMain {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("main inventory", buildingID.String())
}

func (r *fakeInventoryRepo) GetForUpdate(ctx context.Context, invID id.ID) (*Inventory, error) {
	return r.GetByID(ctx, invID)
}

func (r *fakeInventoryRepo) AdjustAmount(ctx context.Context, invID id.ID, delta types.Money) error {
	inv, ok := r.items[invID]
	if !ok {
		return apperror.NewNotFound("inventory", invID.String())
	}
	inv.Amount = inv.Amount.Add(delta)
	return nil
}

func (r *fakeInventoryRepo) SetMainFlag(ctx context.Context, invID id.ID, isMain bool) error {
	inv, ok := r.items[invID]
	if !ok {
		return apperror.NewNotFound("inventory", invID.String())
	}
	inv.IsMain = isMain
	return nil
}

func (r *fakeInventoryRepo) HasTransactions(ctx context.Context, invID id.ID) (bool, error) {
	return r.txRef[invID], nil
}

type fakeTransactionRepo struct {
	entries []*Transaction
}

func (r *fakeTransactionRepo) Create(ctx context.Context, tr *Transaction) error {
	cp := *tr
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, trID id.ID) (*Transaction, error) {
	for _, tr := range r.entries {
		if tr.ID == trID {
			cp := *tr
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("transaction", trID.String())
}

func (r *fakeTransactionRepo) List(ctx context.Context, f TransactionFilter) ([]*Transaction, error) {
	var out []*Transaction
	for _, tr := range r.entries {
		if f.BuildingID != nil && tr.BuildingID != *f.BuildingID {
			continue
		}
		cp := *tr
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeTransactionRepo) GetTurnover(ctx context.Context, f TurnoverFilter) (Turnover, error) {
	return Turnover{BuildingID: f.BuildingID}, nil
}

// seqRow feeds the numerator a monotonically increasing sequence.
type seqRow struct{ n *int64 }

func (r seqRow) Scan(dest ...any) error {
	*r.n++
	*(dest[0].(*int64)) = *r.n
	return nil
}

type seqQuerier struct{ n int64 }

func (q *seqQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return seqRow{n: &q.n}
}

func newTestService(t *testing.T) (*Service, *fakeInventoryRepo, *fakeTransactionRepo) {
	t.Helper()
	invRepo := newFakeInventoryRepo()
	trRepo := &fakeTransactionRepo{}
	svc := NewService(invRepo, trRepo, passthroughTx{}, nil, numerator.New(&seqQuerier{}), nil)
	return svc, invRepo, trRepo
}

func TestSeedMain(t *testing.T) {
	svc, invRepo, _ := newTestService(t)
	building := id.New()

	require.NoError(t, svc.SeedMain(context.Background(), building))

	main, err := invRepo.GetMain(context.Background(), building)
	require.NoError(t, err)
	assert.Equal(t, MainInventoryName, main.Name)
	assert.True(t, main.IsMain)
	assert.True(t, main.Amount.IsZero())
}

func TestCreateInventory_SecondMainRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	building := id.New()
	ctx := context.Background()

	require.NoError(t, svc.SeedMain(ctx, building))

	second := NewInventory(building, "Shadow main")
	second.IsMain = true
	err := svc.Create(ctx, second)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeMainInventoryExists, appErr.Code)

	// A non-main sibling is fine.
	sibling := NewInventory(building, "Repairs fund")
	assert.NoError(t, svc.Create(ctx, sibling))
}

func TestTransferMainStatus(t *testing.T) {
	svc, invRepo, _ := newTestService(t)
	building := id.New()
	ctx := context.Background()

	require.NoError(t, svc.SeedMain(ctx, building))
	other := NewInventory(building, "Bank account")
	require.NoError(t, svc.Create(ctx, other))

	require.NoError(t, svc.TransferMainStatus(ctx, building, other.ID))

	main, err := invRepo.GetMain(ctx, building)
	require.NoError(t, err)
	assert.Equal(t, other.ID, main.ID)

	all, err := invRepo.ListByBuilding(ctx, building)
	require.NoError(t, err)
	mains := 0
	for _, inv := range all {
		if inv.IsMain {
			mains++
		}
	}
	assert.Equal(t, 1, mains)
}

func TestTransferMainStatus_WrongBuilding(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	buildingA := id.New()
	buildingB := id.New()

	require.NoError(t, svc.SeedMain(ctx, buildingA))
	require.NoError(t, svc.SeedMain(ctx, buildingB))

	foreign := NewInventory(buildingB, "Foreign")
	require.NoError(t, svc.Create(ctx, foreign))

	err := svc.TransferMainStatus(ctx, buildingA, foreign.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsAppError(err))
}

func TestRecordTransaction_Transfer(t *testing.T) {
	svc, invRepo, trRepo := newTestService(t)
	building := id.New()
	ctx := context.Background()

	require.NoError(t, svc.SeedMain(ctx, building))
	main, _ := invRepo.GetMain(ctx, building)
	require.NoError(t, invRepo.AdjustAmount(ctx, main.ID, types.MustMoney("500.00")))

	fund := NewInventory(building, "Repairs fund")
	require.NoError(t, svc.Create(ctx, fund))

	tr, err := svc.RecordTransaction(ctx, TransactionInput{
		BuildingID:      building,
		Type:            TypeTransfer,
		Amount:          types.MustMoney("120.00"),
		FromInventoryID: &main.ID,
		ToInventoryID:   &fund.ID,
		Description:     "monthly repairs reserve",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tr.Number)
	assert.Contains(t, tr.Number, "TRX-")

	src, _ := invRepo.GetByID(ctx, main.ID)
	dst, _ := invRepo.GetByID(ctx, fund.ID)
	assert.Equal(t, "380", src.Amount.String())
	assert.Equal(t, "120", dst.Amount.String())
	assert.Len(t, trRepo.entries, 1)
}

func TestRecordTransaction_InsufficientFunds(t *testing.T) {
	svc, invRepo, trRepo := newTestService(t)
	building := id.New()
	ctx := context.Background()

	require.NoError(t, svc.SeedMain(ctx, building))
	main, _ := invRepo.GetMain(ctx, building)
	require.NoError(t, invRepo.AdjustAmount(ctx, main.ID, types.MustMoney("50.00")))

	_, err := svc.RecordTransaction(ctx, TransactionInput{
		BuildingID:      building,
		Type:            TypeWithdrawal,
		Amount:          types.MustMoney("80.00"),
		FromInventoryID: &main.ID,
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientFunds, appErr.Code)

	// Nothing moved, nothing recorded.
	src, _ := invRepo.GetByID(ctx, main.ID)
	assert.Equal(t, "50", src.Amount.String())
	assert.Empty(t, trRepo.entries)
}

func TestRecordTransaction_Deposit(t *testing.T) {
	svc, invRepo, _ := newTestService(t)
	building := id.New()
	ctx := context.Background()

	require.NoError(t, svc.SeedMain(ctx, building))
	main, _ := invRepo.GetMain(ctx, building)

	_, err := svc.RecordTransaction(ctx, TransactionInput{
		BuildingID:    building,
		Type:          TypeDeposit,
		Amount:        types.MustMoney("300.50"),
		ToInventoryID: &main.ID,
	})
	require.NoError(t, err)

	got, _ := invRepo.GetByID(ctx, main.ID)
	assert.Equal(t, "300.5", got.Amount.String())
}

func TestRecordTransaction_InactiveInventory(t *testing.T) {
	svc, invRepo, _ := newTestService(t)
	building := id.New()
	ctx := context.Background()

	require.NoError(t, svc.SeedMain(ctx, building))
	main, _ := invRepo.GetMain(ctx, building)

	closed := NewInventory(building, "Closed")
	closed.IsActive = false
	require.NoError(t, invRepo.Create(ctx, closed))

	_, err := svc.RecordTransaction(ctx, TransactionInput{
		BuildingID:      building,
		Type:            TypeTransfer,
		Amount:          types.MustMoney("10.00"),
		FromInventoryID: &main.ID,
		ToInventoryID:   &closed.ID,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsAppError(err))
}

func TestDeleteInventory_Restrictions(t *testing.T) {
	svc, invRepo, _ := newTestService(t)
	building := id.New()
	ctx := context.Background()

	require.NoError(t, svc.SeedMain(ctx, building))
	main, _ := invRepo.GetMain(ctx, building)

	// Main inventory is never deletable.
	err := svc.Delete(ctx, main.ID)
	require.Error(t, err)

	// Inventory referenced by journal entries is protected.
	used := NewInventory(building, "Used")
	require.NoError(t, svc.Create(ctx, used))
	invRepo.txRef[used.ID] = true

	err = svc.Delete(ctx, used.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeRestrictDelete, appErr.Code)

	// Clean unused inventory deletes fine.
	unused := NewInventory(building, "Unused")
	require.NoError(t, svc.Create(ctx, unused))
	assert.NoError(t, svc.Delete(ctx, unused.ID))
}
