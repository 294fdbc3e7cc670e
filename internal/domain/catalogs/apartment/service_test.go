package apartment

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/core/types"
	"domus/internal/domain"
)

type fakeApartmentRepo struct {
	items map[id.ID]*Apartment
}

func newFakeApartmentRepo() *fakeApartmentRepo {
	return &fakeApartmentRepo{items: make(map[id.ID]*Apartment)}
}

func (r *fakeApartmentRepo) snapshot() map[id.ID]*Apartment {
	snap := make(map[id.ID]*Apartment, len(r.items))
	for k, v := range r.items {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

func (r *fakeApartmentRepo) Create(ctx context.Context, a *Apartment) error {
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeApartmentRepo) GetByID(ctx context.Context, aptID id.ID) (*Apartment, error) {
	a, ok := r.items[aptID]
	if !ok {
		return nil, apperror.NewNotFound("apartment", aptID.String())
	}
	cp := *a
	return &cp, nil
}

func (r *fakeApartmentRepo) Update(ctx context.Context, a *Apartment) error {
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeApartmentRepo) Delete(ctx context.Context, aptID id.ID) error {
	delete(r.items, aptID)
	return nil
}

func (r *fakeApartmentRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Apartment], error) {
	var items []*Apartment
	for _, a := range r.items {
		cp := *a
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Number < items[j].Number })
	return domain.ListResult[*Apartment]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeApartmentRepo) Exists(ctx context.Context, aptID id.ID) (bool, error) {
	_, ok := r.items[aptID]
	return ok, nil
}

func (r *fakeApartmentRepo) ListByBuilding(ctx context.Context, buildingID id.ID) ([]*Apartment, error) {
	var items []*Apartment
	for _, a := range r.items {
		if a.BuildingID == buildingID {
			cp := *a
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (r *fakeApartmentRepo) AdjustDebt(ctx context.Context, aptID id.ID, delta types.Money) error {
	a, ok := r.items[aptID]
	if !ok {
		return apperror.NewNotFound("apartment", aptID.String())
	}
	a.Debt = a.Debt.Add(delta)
	return nil
}

func (r *fakeApartmentRepo) SetResidentsCount(ctx context.Context, aptID id.ID, count int) error {
	a, ok := r.items[aptID]
	if !ok {
		return apperror.NewNotFound("apartment", aptID.String())
	}
	a.ResidentsCount = count
	return nil
}

// rollbackTx restores repository state when the function fails, so
// tests observe the same all-or-nothing behavior a database
// transaction gives the service.
type rollbackTx struct {
	repo *fakeApartmentRepo
}

func (t rollbackTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.repo.snapshot()
	if err := fn(ctx); err != nil {
		t.repo.items = snap
		return err
	}
	return nil
}

type fakeBuildings struct {
	known map[id.ID]bool
}

func (b *fakeBuildings) Exists(ctx context.Context, buildingID id.ID) (bool, error) {
	return b.known[buildingID], nil
}

type fakeAggregates struct {
	refreshed []id.ID
	fail      bool
}

func (a *fakeAggregates) RefreshAggregates(ctx context.Context, buildingID id.ID) error {
	if a.fail {
		return errors.New("refresh failed")
	}
	a.refreshed = append(a.refreshed, buildingID)
	return nil
}

type fakeListener struct {
	notified []id.ID
	fail     bool
}

func (l *fakeListener) OnRosterChanged(ctx context.Context, buildingID id.ID) error {
	if l.fail {
		return errors.New("recompute failed")
	}
	l.notified = append(l.notified, buildingID)
	return nil
}

type aptFixture struct {
	svc      *Service
	repo     *fakeApartmentRepo
	aggs     *fakeAggregates
	listener *fakeListener
	building id.ID
}

func newAptFixture(t *testing.T) *aptFixture {
	t.Helper()
	building := id.New()
	repo := newFakeApartmentRepo()
	aggs := &fakeAggregates{}
	listener := &fakeListener{}

	svc := NewService(repo, rollbackTx{repo: repo},
		&fakeBuildings{known: map[id.ID]bool{building: true}}, aggs)
	svc.AddRosterListener(listener)

	return &aptFixture{svc: svc, repo: repo, aggs: aggs, listener: listener, building: building}
}

func TestCreate_RefreshesAggregatesAndNotifiesRoster(t *testing.T) {
	f := newAptFixture(t)
	ctx := context.Background()

	a := New(f.building, "12", TypeApartment)
	require.NoError(t, f.svc.Create(ctx, a))

	assert.Equal(t, []id.ID{f.building}, f.aggs.refreshed)
	assert.Equal(t, []id.ID{f.building}, f.listener.notified)
}

func TestCreate_UnknownBuildingRejected(t *testing.T) {
	f := newAptFixture(t)

	a := New(id.New(), "12", TypeApartment)
	err := f.svc.Create(context.Background(), a)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, f.repo.items)
}

func TestCreate_FailedRecomputeRollsBackApartment(t *testing.T) {
	f := newAptFixture(t)
	f.listener.fail = true

	a := New(f.building, "12", TypeApartment)
	err := f.svc.Create(context.Background(), a)
	require.Error(t, err)

	// The allocation recompute runs in the insert's transaction: when
	// it fails the apartment is not persisted, so persisted roster and
	// allocations cannot drift apart silently.
	assert.Empty(t, f.repo.items)
}

func TestDelete_FailedAggregateRefreshKeepsApartment(t *testing.T) {
	f := newAptFixture(t)
	ctx := context.Background()

	a := New(f.building, "12", TypeApartment)
	require.NoError(t, f.svc.Create(ctx, a))

	f.aggs.fail = true
	require.Error(t, f.svc.Delete(ctx, a.ID))
	assert.Len(t, f.repo.items, 1)
}
