package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/core/types"
)

func ptrID(v id.ID) *id.ID { return &v }

func TestTransactionValidate_LegRules(t *testing.T) {
	building := id.New()
	invA := id.New()
	invB := id.New()

	tests := []struct {
		name     string
		trType   TransactionType
		from     *id.ID
		to       *id.ID
		wantErr  bool
		wantCode string
	}{
		{name: "transfer with both legs", trType: TypeTransfer, from: ptrID(invA), to: ptrID(invB)},
		{name: "transfer missing destination", trType: TypeTransfer, from: ptrID(invA), wantErr: true},
		{name: "transfer same inventory", trType: TypeTransfer, from: ptrID(invA), to: ptrID(invA), wantErr: true},
		{name: "deposit with destination only", trType: TypeDeposit, to: ptrID(invA)},
		{name: "deposit with source leg", trType: TypeDeposit, from: ptrID(invA), to: ptrID(invB), wantErr: true},
		{name: "payment received with destination only", trType: TypePaymentReceived, to: ptrID(invA)},
		{name: "withdrawal with source only", trType: TypeWithdrawal, from: ptrID(invA)},
		{name: "withdrawal with destination leg", trType: TypeWithdrawal, from: ptrID(invA), to: ptrID(invB), wantErr: true},
		{name: "expense paid with source only", trType: TypeExpensePaid, from: ptrID(invA)},
		{name: "expense paid missing source", trType: TypeExpensePaid, wantErr: true},
		{name: "unknown type", trType: TransactionType("refund"), to: ptrID(invA), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Transaction{
				ID:              id.New(),
				BuildingID:      building,
				Type:            tt.trType,
				Amount:          types.MustMoney("100.00"),
				FromInventoryID: tt.from,
				ToInventoryID:   tt.to,
			}
			err := tr.Validate(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsAppError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransactionValidate_Amount(t *testing.T) {
	building := id.New()
	inv := id.New()

	tr := &Transaction{
		ID:            id.New(),
		BuildingID:    building,
		Type:          TypeDeposit,
		Amount:        types.Zero(),
		ToInventoryID: ptrID(inv),
	}
	err := tr.Validate(context.Background())
	require.Error(t, err)

	tr.Amount = types.MustMoney("-5.00")
	require.Error(t, tr.Validate(context.Background()))

	tr.Amount = types.MustMoney("0.01")
	assert.NoError(t, tr.Validate(context.Background()))
}

func TestInventoryValidate(t *testing.T) {
	inv := NewInventory(id.New(), "Repairs fund")
	assert.NoError(t, inv.Validate(context.Background()))
	assert.True(t, inv.IsActive)
	assert.True(t, inv.Amount.IsZero())

	inv.Name = ""
	require.Error(t, inv.Validate(context.Background()))

	inv2 := NewInventory(id.Nil(), "x")
	require.Error(t, inv2.Validate(context.Background()))
}
