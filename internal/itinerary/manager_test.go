package itinerary_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/itinerary/internal/destination"
	"github.com/neexbeast/itinerary/internal/itinerary"
)

// ---- helpers ----

func paris() *destination.Destination {
	return destination.New("Paris", "France", "2025-08-10", "2025-08-15", 1200, []string{"Eiffel Tower"})
}

func tokyo() *destination.Destination {
	return destination.New("Tokyo", "Japan", "2025-09-01", "2025-09-07", 1800, []string{"Shinjuku", "Mount Fuji Tour"})
}

func cities(m *itinerary.Manager) []string {
	var out []string
	for _, d := range m.All() {
		out = append(out, d.City)
	}
	return out
}

func budgets(m *itinerary.Manager) []float64 {
	var out []float64
	for _, d := range m.All() {
		out = append(out, d.Budget)
	}
	return out
}

// memStore is an in-memory Store with injectable failures.
type memStore struct {
	records []destination.Record
	saveErr error
	loadErr error
	saves   int
}

func (s *memStore) Save(_ context.Context, records []destination.Record) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.records = records
	return nil
}

func (s *memStore) Load(_ context.Context) ([]destination.Record, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.records, nil
}

// ---- Add ----

func TestAdd_AppendsInOrder(t *testing.T) {
	m := itinerary.NewManager(nil)
	m.Add(paris())
	m.Add(tokyo())
	m.Add(paris())

	assert.Equal(t, []string{"Paris", "Tokyo", "Paris"}, cities(m))
	assert.Equal(t, 3, m.Len())
}

func TestAdd_DoesNotValidate(t *testing.T) {
	m := itinerary.NewManager(nil)
	m.Add(destination.New("", "", "", "", -1, nil))
	assert.Equal(t, 1, m.Len())
}

func TestAdd_OwnsItsCopy(t *testing.T) {
	m := itinerary.NewManager(nil)
	d := paris()
	m.Add(d)
	d.Budget = 1

	got, ok := m.Search("Paris")
	require.True(t, ok)
	assert.Equal(t, 1200.0, got.Budget)
}

// ---- Remove ----

func TestRemove_FirstMatchOnly(t *testing.T) {
	m := itinerary.NewManager(nil)
	first := paris()
	second := paris()
	second.Budget = 999
	m.Add(first)
	m.Add(tokyo())
	m.Add(second)

	require.NoError(t, m.Remove("Paris"))
	assert.Equal(t, []string{"Tokyo", "Paris"}, cities(m))
	assert.Equal(t, []float64{1800, 999}, budgets(m))
}

func TestRemove_NotFoundLeavesItineraryUnchanged(t *testing.T) {
	m := itinerary.NewManager(nil)
	m.Add(paris())
	m.Add(tokyo())
	before := m.All()

	err := m.Remove("Atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, itinerary.ErrNotFound)
	assert.Equal(t, before, m.All())
}

func TestRemove_MatchNotAtFront(t *testing.T) {
	m := itinerary.NewManager(nil)
	m.Add(paris())
	m.Add(tokyo())

	require.NoError(t, m.Remove("Tokyo"))
	assert.Equal(t, []string{"Paris"}, cities(m))
}

// ---- Update ----

func TestUpdate_OnlyChangesSuppliedField(t *testing.T) {
	m := itinerary.NewManager(nil)
	m.Add(paris())

	start := "2025-01-01"
	require.NoError(t, m.Update("Paris", destination.Patch{StartDate: &start}))

	got, ok := m.Search("Paris")
	require.True(t, ok)
	want := paris()
	want.StartDate = "2025-01-01"
	assert.Equal(t, want, got)
}

func TestUpdate_FirstMatchOnly(t *testing.T) {
	m := itinerary.NewManager(nil)
	m.Add(paris())
	m.Add(paris())

	budget := 50.0
	require.NoError(t, m.Update("Paris", destination.Patch{Budget: &budget}))
	assert.Equal(t, []float64{50, 1200}, budgets(m))
}

func TestUpdate_NotFound(t *testing.T) {
	m := itinerary.NewManager(nil)
	m.Add(paris())

	budget := 50.0
	err := m.Update("Rome", destination.Patch{Budget: &budget})
	assert.ErrorIs(t, err, itinerary.ErrNotFound)
	assert.Equal(t, []float64{1200}, budgets(m))
}

// ---- Search / All ----

func TestSearch_Found(t *testing.T) {
	m := itinerary.NewManager(nil)
	m.Add(paris())
	m.Add(tokyo())

	got, ok := m.Search("Tokyo")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, "Japan", got.Country)
}

func TestSearch_NotFound(t *testing.T) {
	m := itinerary.NewManager(nil)
	m.Add(paris())

	got, ok := m.Search("Tokyo")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestSearch_ReturnsCopy(t *testing.T) {
	m := itinerary.NewManager(nil)
	m.Add(paris())

	got, _ := m.Search("Paris")
	got.Activities[0] = "changed"

	again, _ := m.Search("Paris")
	assert.Equal(t, "Eiffel Tower", again.Activities[0])
}

func TestAll_EmptyManager(t *testing.T) {
	assert.Empty(t, itinerary.NewManager(nil).All())
}

// ---- Sort ----

func TestSort_Budget(t *testing.T) {
	m := itinerary.NewManager(nil)
	m.Add(tokyo())
	m.Add(paris())

	require.NoError(t, m.Sort(itinerary.SortByBudget))
	assert.Equal(t, []float64{1200, 1800}, budgets(m))
}

func TestSort_Dates(t *testing.T) {
	m := itinerary.NewManager(nil)
	rome := destination.New("Rome", "Italy", "2025-07-01", "2025-09-30", 900, []string{"Colosseum"})
	m.Add(tokyo())
	m.Add(rome)
	m.Add(paris())

	require.NoError(t, m.Sort(itinerary.SortByStartDate))
	assert.Equal(t, []string{"Rome", "Paris", "Tokyo"}, cities(m))

	require.NoError(t, m.Sort(itinerary.SortByEndDate))
	assert.Equal(t, []string{"Paris", "Tokyo", "Rome"}, cities(m))
}

func TestSort_IsStable(t *testing.T) {
	m := itinerary.NewManager(nil)
	for _, c := range []string{"A", "B", "C", "D"} {
		d := paris()
		d.City = c
		m.Add(d)
	}
	cheap := paris()
	cheap.City = "Cheap"
	cheap.Budget = 1
	m.Add(cheap)

	require.NoError(t, m.Sort(itinerary.SortByBudget))
	assert.Equal(t, []string{"Cheap", "A", "B", "C", "D"}, cities(m))
}

func TestSort_InvalidKeyLeavesOrder(t *testing.T) {
	m := itinerary.NewManager(nil)
	m.Add(tokyo())
	m.Add(paris())

	err := m.Sort("bogus")
	assert.ErrorIs(t, err, itinerary.ErrInvalidSortKey)
	assert.Equal(t, []float64{1800, 1200}, budgets(m))
}

// ---- Save / Load ----

func TestSaveLoad_FileScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), itinerary.DefaultFile)
	ctx := context.Background()

	m := itinerary.NewManager(nil)
	d := paris()
	require.NoError(t, d.Validate())
	m.Add(d)
	require.NoError(t, m.Save(ctx, itinerary.NewFileStore(path)))

	fresh := itinerary.NewManager(nil)
	require.NoError(t, fresh.Load(ctx, itinerary.NewFileStore(path)))
	require.Equal(t, 1, fresh.Len())

	got := fresh.All()[0]
	assert.Equal(t, "Paris", got.City)
	assert.Equal(t, 1200.0, got.Budget)
}

func TestSave_PreservesCurrentOrder(t *testing.T) {
	s := &memStore{}
	m := itinerary.NewManager(nil)
	m.Add(tokyo())
	m.Add(paris())
	require.NoError(t, m.Sort(itinerary.SortByBudget))

	require.NoError(t, m.Save(context.Background(), s))
	require.Len(t, s.records, 2)
	assert.Equal(t, "Paris", s.records[0].City)
	assert.Equal(t, "Tokyo", s.records[1].City)
}

func TestSave_InvalidDestinationWritesNothing(t *testing.T) {
	s := &memStore{}
	m := itinerary.NewManager(nil)
	m.Add(paris())
	bad := tokyo()
	bad.Budget = 0
	m.Add(bad)

	err := m.Save(context.Background(), s)
	require.Error(t, err)
	assert.ErrorIs(t, err, destination.ErrNonPositiveBudget)
	assert.Contains(t, err.Error(), "Tokyo")
	assert.Equal(t, 0, s.saves)
}

func TestSave_StoreErrorKeepsMemory(t *testing.T) {
	s := &memStore{saveErr: fmt.Errorf("disk full")}
	m := itinerary.NewManager(nil)
	m.Add(paris())

	err := m.Save(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []string{"Paris"}, cities(m))
}

func TestLoad_ReplacesInFileOrder(t *testing.T) {
	s := &memStore{records: []destination.Record{tokyo().Record(), paris().Record()}}
	m := itinerary.NewManager(nil)
	m.Add(destination.New("Rome", "Italy", "2025-07-01", "2025-07-03", 300, []string{"Vatican"}))

	require.NoError(t, m.Load(context.Background(), s))
	assert.Equal(t, []string{"Tokyo", "Paris"}, cities(m))
}

func TestLoad_NoFileKeepsMemory(t *testing.T) {
	m := itinerary.NewManager(nil)
	m.Add(paris())

	err := m.Load(context.Background(), itinerary.NewFileStore(filepath.Join(t.TempDir(), "missing.json")))
	require.Error(t, err)
	assert.ErrorIs(t, err, itinerary.ErrNoFile)
	assert.Equal(t, []string{"Paris"}, cities(m))
}

func TestLoad_StoreErrorKeepsMemory(t *testing.T) {
	m := itinerary.NewManager(nil)
	m.Add(paris())

	err := m.Load(context.Background(), &memStore{loadErr: errors.New("corrupt")})
	require.Error(t, err)
	assert.False(t, errors.Is(err, itinerary.ErrNoFile))
	assert.Equal(t, []string{"Paris"}, cities(m))
}

func TestSeed(t *testing.T) {
	m := itinerary.NewManager(nil)
	itinerary.Seed(m)
	assert.Equal(t, []string{"Paris", "Tokyo"}, cities(m))
	for _, d := range m.All() {
		require.NoError(t, d.Validate())
	}
}
