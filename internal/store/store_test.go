package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediio-admin/internal/models"
	"mediio-admin/internal/persist"
)

type countingObserver struct {
	mu       sync.Mutex
	mutated  map[string]int
	failures int
}

func (o *countingObserver) Mutated(store, op string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.mutated == nil {
		o.mutated = map[string]int{}
	}
	o.mutated[op]++
}

func (o *countingObserver) PersistFailed(string) {
	o.mu.Lock()
	o.failures++
	o.mu.Unlock()
}

func newClinics(t *testing.T, storage persist.Storage, opts ...Option) *Store[models.Clinic] {
	t.Helper()
	s, err := New[models.Clinic](context.Background(), ClinicsKey, ClinicsField, storage, opts...)
	require.NoError(t, err)
	return s
}

func TestAddAppendsAtEnd(t *testing.T) {
	ctx := context.Background()
	s := newClinics(t, persist.NewMemory())

	require.NoError(t, s.Add(ctx, models.Clinic{ID: "a", Name: "A"}))
	require.NoError(t, s.Add(ctx, models.Clinic{ID: "b", Name: "B", Address: "Weg 2"}))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, models.Clinic{ID: "b", Name: "B", Address: "Weg 2"}, list[1])
	assert.Equal(t, 2, s.Len())
}

func TestUpdateKeepsID(t *testing.T) {
	ctx := context.Background()
	s := newClinics(t, persist.NewMemory())
	require.NoError(t, s.Add(ctx, models.Clinic{ID: "a", Name: "A"}))
	require.NoError(t, s.Add(ctx, models.Clinic{ID: "b", Name: "B"}))

	ok, err := s.Update(ctx, "a", models.Clinic{ID: "other", Name: "A2", Address: "Neu"})
	require.NoError(t, err)
	assert.True(t, ok)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, models.Clinic{ID: "a", Name: "A2", Address: "Neu"}, list[0])
	assert.Equal(t, "b", list[1].ID)
}

func TestUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemory()
	s := newClinics(t, mem)
	require.NoError(t, s.Add(ctx, models.Clinic{ID: "a", Name: "A"}))
	saves := mem.Saves()

	ok, err := s.Update(ctx, "missing", models.Clinic{Name: "X"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, []models.Clinic{{ID: "a", Name: "A"}}, s.List())
	assert.Equal(t, saves, mem.Saves())
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	s := newClinics(t, persist.NewMemory())
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Add(ctx, models.Clinic{ID: id, Name: id}))
	}

	ok, err := s.Delete(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "c", list[1].ID)
	_, found := s.Get("b")
	assert.False(t, found)
}

func TestReloadFromStorage(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemory()
	s := newClinics(t, mem)
	require.NoError(t, s.Add(ctx, models.Clinic{ID: "c1", Name: "Universitätsklinikum Berlin"}))

	reloaded := newClinics(t, mem)
	assert.Equal(t, s.List(), reloaded.List())

	raw, err := mem.Load(ctx, ClinicsKey)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"version":0,"state":{"clinics":[{"id":"c1","name":"Universitätsklinikum Berlin","address":"","contactPerson":""}]}}`,
		string(raw))
}

func TestLoadCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemory()
	require.NoError(t, mem.Save(ctx, ClinicsKey, []byte("{not json")))

	s, err := New[models.Clinic](ctx, ClinicsKey, ClinicsField, mem)
	assert.ErrorIs(t, err, ErrLoad)
	require.NotNil(t, s)
	assert.Empty(t, s.List())
}

func TestLoadMissingField(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemory()
	require.NoError(t, mem.Save(ctx, ClinicsKey, []byte(`{"version":0,"state":{}}`)))

	s := newClinics(t, mem)
	assert.Empty(t, s.List())
}

func TestPersistFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemory()
	obs := &countingObserver{}
	logger, hook := test.NewNullLogger()
	s := newClinics(t, mem, WithObserver(obs), WithLogger(logger))

	mem.FailWrites(true)
	err := s.Add(ctx, models.Clinic{ID: "a", Name: "A"})
	assert.ErrorIs(t, err, ErrPersist)
	assert.Len(t, s.List(), 1)
	assert.Equal(t, 1, obs.failures)
	assert.Equal(t, 1, obs.mutated[OpAdd])
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	mem.FailWrites(false)
	require.NoError(t, s.Add(ctx, models.Clinic{ID: "b", Name: "B"}))
	assert.Len(t, newClinics(t, mem).List(), 2)
}

func TestListIsACopy(t *testing.T) {
	ctx := context.Background()
	s, err := New[models.PurchasingGroup](ctx, PurchasingGroupsKey, PurchasingGroupsField, persist.NewMemory())
	require.NoError(t, err)

	clinics := []string{"c1"}
	require.NoError(t, s.Add(ctx, models.PurchasingGroup{ID: "pg1", Name: "Nord", AssociatedClinics: clinics}))
	clinics[0] = "mutated"

	list := s.List()
	assert.Equal(t, []string{"c1"}, list[0].AssociatedClinics)
	list[0].AssociatedClinics[0] = "mutated"
	got, ok := s.Get("pg1")
	require.True(t, ok)
	assert.Equal(t, []string{"c1"}, got.AssociatedClinics)
}

func TestConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	s := newClinics(t, persist.NewMemory())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Add(ctx, models.Clinic{ID: string(rune('a' + i)), Name: "x"})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, s.Len())
}

func TestOpenSet(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemory()
	require.NoError(t, mem.Save(ctx, SuppliersKey, []byte("garbage")))
	logger, hook := test.NewNullLogger()

	set := OpenSet(ctx, mem, logger)
	require.NotNil(t, set.Clinics)
	require.NotNil(t, set.PurchasingGroups)
	require.NotNil(t, set.Suppliers)
	require.NotNil(t, set.Customers)
	assert.Equal(t, 0, set.Suppliers.Len())
	assert.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, CustomersKey, set.Customers.Key())
}

// unreadable fails every Load with a transient error but keeps the data.
type unreadable struct {
	*persist.Memory
}

func (u unreadable) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection reset by peer")
}

func TestUnreadableSnapshotIsNeverOverwritten(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemory()
	saved := `{"version":0,"state":{"clinics":[{"id":"real1","name":"Echte Klinik","address":"Weg 1","contactPerson":""}]}}`
	require.NoError(t, mem.Save(ctx, ClinicsKey, []byte(saved)))
	obs := &countingObserver{}

	s, err := New[models.Clinic](ctx, ClinicsKey, ClinicsField, unreadable{mem}, WithObserver(obs))
	assert.ErrorIs(t, err, ErrLoad)
	assert.True(t, s.LoadFailed())
	saves := mem.Saves()

	err = s.Add(ctx, models.Clinic{ID: "new", Name: "Neu"})
	assert.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, 1, s.Len(), "change kept in memory")
	_, err = s.Delete(ctx, "new")
	assert.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, 2, obs.failures)

	assert.Equal(t, saves, mem.Saves())
	raw, err := mem.Load(ctx, ClinicsKey)
	require.NoError(t, err)
	assert.JSONEq(t, saved, string(raw))
}

func TestMissingSnapshotIsNotALoadFailure(t *testing.T) {
	s := newClinics(t, persist.NewMemory())
	assert.False(t, s.LoadFailed())
}

func TestLoadNormalisesNullClinicLists(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemory()
	require.NoError(t, mem.Save(ctx, PurchasingGroupsKey, []byte(
		`{"version":0,"state":{"purchasingGroups":[{"id":"a","name":"A","associatedClinics":null},{"id":"b","name":"B"}]}}`)))

	s, err := New[models.PurchasingGroup](ctx, PurchasingGroupsKey, PurchasingGroupsField, mem)
	require.NoError(t, err)
	for _, g := range s.List() {
		assert.NotNil(t, g.AssociatedClinics, g.ID)
	}

	_, err = s.Update(ctx, "a", models.PurchasingGroup{Name: "A2"})
	require.NoError(t, err)
	raw, err := mem.Load(ctx, PurchasingGroupsKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "null")
	assert.Contains(t, string(raw), `"associatedClinics":[]`)
}
