package resident

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/domain"
)

type fakeResidentRepo struct {
	items      map[id.ID]*Resident
	failCreate bool
}

func newFakeResidentRepo() *fakeResidentRepo {
	return &fakeResidentRepo{items: make(map[id.ID]*Resident)}
}

func (r *fakeResidentRepo) snapshot() map[id.ID]*Resident {
	snap := make(map[id.ID]*Resident, len(r.items))
	for k, v := range r.items {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

func (r *fakeResidentRepo) Create(ctx context.Context, res *Resident) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	cp := *res
	r.items[res.ID] = &cp
	return nil
}

func (r *fakeResidentRepo) GetByID(ctx context.Context, resID id.ID) (*Resident, error) {
	res, ok := r.items[resID]
	if !ok {
		return nil, apperror.NewNotFound("resident", resID.String())
	}
	cp := *res
	return &cp, nil
}

func (r *fakeResidentRepo) Update(ctx context.Context, res *Resident) error {
	cp := *res
	r.items[res.ID] = &cp
	return nil
}

func (r *fakeResidentRepo) Delete(ctx context.Context, resID id.ID) error {
	delete(r.items, resID)
	return nil
}

func (r *fakeResidentRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Resident], error) {
	var items []*Resident
	for _, res := range r.items {
		cp := *res
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Surname < items[j].Surname })
	return domain.ListResult[*Resident]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *fakeResidentRepo) Exists(ctx context.Context, resID id.ID) (bool, error) {
	_, ok := r.items[resID]
	return ok, nil
}

func (r *fakeResidentRepo) ListByApartment(ctx context.Context, apartmentID id.ID) ([]*Resident, error) {
	var items []*Resident
	for _, res := range r.items {
		if res.ApartmentID == apartmentID {
			cp := *res
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (r *fakeResidentRepo) CountByApartment(ctx context.Context, apartmentID id.ID) (int, error) {
	n := 0
	for _, res := range r.items {
		if res.ApartmentID == apartmentID {
			n++
		}
	}
	return n, nil
}

func (r *fakeResidentRepo) ClearMainContact(ctx context.Context, apartmentID id.ID) error {
	for _, res := range r.items {
		if res.ApartmentID == apartmentID {
			res.IsMainContact = false
		}
	}
	return nil
}

// rollbackTx restores repository state when the function fails, so
// tests observe the same all-or-nothing behavior a database
// transaction gives the service.
type rollbackTx struct {
	repo *fakeResidentRepo
}

func (t rollbackTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.repo.snapshot()
	if err := fn(ctx); err != nil {
		t.repo.items = snap
		return err
	}
	return nil
}

type fakeCountSync struct {
	counts map[id.ID]int
}

func (c *fakeCountSync) SetResidentsCount(ctx context.Context, apartmentID id.ID, count int) error {
	c.counts[apartmentID] = count
	return nil
}

func newResidentFixture(t *testing.T) (*Service, *fakeResidentRepo, *fakeCountSync, id.ID) {
	t.Helper()
	repo := newFakeResidentRepo()
	sync := &fakeCountSync{counts: make(map[id.ID]int)}
	svc := NewService(repo, rollbackTx{repo: repo}, sync)
	return svc, repo, sync, id.New()
}

func TestCreate_MainContactDemotesPrevious(t *testing.T) {
	svc, repo, sync, apt := newResidentFixture(t)
	ctx := context.Background()

	first := New(apt, "Maria", "Petrova", RoleOwner)
	first.IsMainContact = true
	require.NoError(t, svc.Create(ctx, first))

	second := New(apt, "Ivan", "Georgiev", RoleTenant)
	second.IsMainContact = true
	require.NoError(t, svc.Create(ctx, second))

	assert.False(t, repo.items[first.ID].IsMainContact)
	assert.True(t, repo.items[second.ID].IsMainContact)
	assert.Equal(t, 2, sync.counts[apt])
}

func TestCreate_FailedInsertKeepsPreviousMainContact(t *testing.T) {
	svc, repo, _, apt := newResidentFixture(t)
	ctx := context.Background()

	first := New(apt, "Maria", "Petrova", RoleOwner)
	first.IsMainContact = true
	require.NoError(t, svc.Create(ctx, first))

	repo.failCreate = true
	second := New(apt, "Ivan", "Georgiev", RoleTenant)
	second.IsMainContact = true
	require.Error(t, svc.Create(ctx, second))

	// The demote ran in the same transaction as the insert, so the
	// failed insert rolled it back and the apartment kept its main
	// contact.
	assert.True(t, repo.items[first.ID].IsMainContact)
}

func TestSetMainContact_Promotes(t *testing.T) {
	svc, repo, _, apt := newResidentFixture(t)
	ctx := context.Background()

	first := New(apt, "Maria", "Petrova", RoleOwner)
	first.IsMainContact = true
	require.NoError(t, svc.Create(ctx, first))

	second := New(apt, "Ivan", "Georgiev", RoleTenant)
	require.NoError(t, svc.Create(ctx, second))

	require.NoError(t, svc.SetMainContact(ctx, second.ID))
	assert.False(t, repo.items[first.ID].IsMainContact)
	assert.True(t, repo.items[second.ID].IsMainContact)

	// Promoting the current main contact is a no-op.
	require.NoError(t, svc.SetMainContact(ctx, second.ID))
	assert.True(t, repo.items[second.ID].IsMainContact)
}
