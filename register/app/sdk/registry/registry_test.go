package registry_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ardanlabs/signup/register/app/sdk/registry"
	"github.com/ardanlabs/signup/register/app/sdk/registry/stores/regdb"
	"github.com/ardanlabs/signup/register/foundation/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	regs []registry.Registration
}

func (r *recorder) Notify(ctx context.Context, reg registry.Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.regs = append(r.regs, reg)
}

func (r *recorder) all() []registry.Registration {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]registry.Registration(nil), r.regs...)
}

func newRegistry(t *testing.T, notifiers ...registry.Notifier) (*registry.Registry, *regdb.Store) {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", func(context.Context) string { return "" })

	db, err := regdb.Open(regdb.Config{
		Path:        filepath.Join(t.TempDir(), "data.db"),
		BusyTimeout: time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		regdb.Close(db)
	})

	require.NoError(t, regdb.Migrate(context.Background(), db))

	store := regdb.NewStore(log, db)

	return registry.New(log, store, notifiers...), store
}

func TestRegisterMissingFields(t *testing.T) {
	ctx := context.Background()
	rec := recorder{}
	reg, store := newRegistry(t, &rec)

	tests := []registry.NewRegistration{
		{},
		{Name: "Alice"},
		{Address: "1 Main St"},
	}

	for _, nr := range tests {
		_, err := reg.Register(ctx, nr)
		assert.ErrorIs(t, err, registry.ErrMissingFields)
	}

	_, err := store.QueryUserByName(ctx, "Alice")
	assert.ErrorIs(t, err, registry.ErrNotFound)
	assert.Empty(t, rec.all())
}

func TestRegisterNewThenExisting(t *testing.T) {
	ctx := context.Background()
	rec := recorder{}
	reg, _ := newRegistry(t, &rec)

	first, err := reg.Register(ctx, registry.NewRegistration{Name: "Alice", Address: "1 Main St"})
	require.NoError(t, err)
	assert.True(t, first.NewUser)
	assert.Equal(t, "Alice", first.User.Name)
	assert.Equal(t, first.User.ID, first.Address.UserID)
	assert.Equal(t, "1 Main St", first.Address.Address)

	second, err := reg.Register(ctx, registry.NewRegistration{Name: "Alice", Address: "2 Oak Ave"})
	require.NoError(t, err)
	assert.False(t, second.NewUser)
	assert.Equal(t, first.User.ID, second.User.ID)

	hist, err := reg.QueryByName(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, first.User, hist.User)
	require.Len(t, hist.Addresses, 2)
	assert.Equal(t, "1 Main St", hist.Addresses[0].Address)
	assert.Equal(t, "2 Oak Ave", hist.Addresses[1].Address)
	for _, addr := range hist.Addresses {
		assert.Equal(t, first.User.ID, addr.UserID)
	}

	regs := rec.all()
	require.Len(t, regs, 2)
	assert.True(t, regs[0].NewUser)
	assert.False(t, regs[1].NewUser)
}

func TestRegisterNotIdempotent(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry(t)

	for range 3 {
		_, err := reg.Register(ctx, registry.NewRegistration{Name: "Bob", Address: "1 Main St"})
		require.NoError(t, err)
	}

	hist, err := reg.QueryByName(ctx, "Bob")
	require.NoError(t, err)
	assert.Len(t, hist.Addresses, 3)
}

func TestRegisterDistinctUsers(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry(t)

	a, err := reg.Register(ctx, registry.NewRegistration{Name: "Alice", Address: "1 Main St"})
	require.NoError(t, err)

	b, err := reg.Register(ctx, registry.NewRegistration{Name: "Bob", Address: "1 Main St"})
	require.NoError(t, err)

	assert.True(t, b.NewUser)
	assert.NotEqual(t, a.User.ID, b.User.ID)
}

func TestRegisterConcurrentSameName(t *testing.T) {
	ctx := context.Background()
	reg, _ := newRegistry(t)

	const n = 20

	var wg sync.WaitGroup
	results := make([]registry.Registration, n)
	errs := make([]error, n)

	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = reg.Register(ctx, registry.NewRegistration{
				Name:    "Carol",
				Address: fmt.Sprintf("%d Elm St", i),
			})
		}()
	}
	wg.Wait()

	var created int
	for i := range n {
		require.NoError(t, errs[i])
		if results[i].NewUser {
			created++
		}
	}
	assert.Equal(t, 1, created)

	hist, err := reg.QueryByName(ctx, "Carol")
	require.NoError(t, err)
	assert.Len(t, hist.Addresses, n)
	for i := range n {
		assert.Equal(t, hist.User.ID, results[i].User.ID)
	}
}

func TestQueryByNameUnknown(t *testing.T) {
	reg, _ := newRegistry(t)

	_, err := reg.QueryByName(context.Background(), "nobody")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

// =============================================================================

// raceStore reports the user missing on the first lookup and a duplicate on
// the first insert, the way a store behaves when another request created the
// same name between the two statements.
type raceStore struct {
	lookups int
	inserts int
	users   map[string]registry.User
	addrs   []registry.Address
}

func (s *raceStore) ExecUnderTx(ctx context.Context, fn func(s registry.Storer) error) error {
	return fn(s)
}

func (s *raceStore) QueryUserByName(ctx context.Context, name string) (registry.User, error) {
	s.lookups++
	usr, exists := s.users[name]
	if !exists || s.lookups == 1 {
		return registry.User{}, registry.ErrNotFound
	}
	return usr, nil
}

func (s *raceStore) QueryAddressesByUserID(ctx context.Context, userID uuid.UUID) ([]registry.Address, error) {
	return s.addrs, nil
}

func (s *raceStore) CreateUser(ctx context.Context, usr registry.User) error {
	s.inserts++
	return fmt.Errorf("insert user: %w", registry.ErrDuplicate)
}

func (s *raceStore) CreateAddress(ctx context.Context, addr registry.Address) (registry.Address, error) {
	addr.ID = int64(len(s.addrs) + 1)
	s.addrs = append(s.addrs, addr)
	return addr, nil
}

func TestRegisterRetriesAfterDuplicate(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "TEST", func(context.Context) string { return "" })

	winner := registry.User{ID: uuid.New(), Name: "Dave"}
	store := raceStore{
		users: map[string]registry.User{"Dave": winner},
	}

	reg, err := registry.New(log, &store).Register(context.Background(), registry.NewRegistration{Name: "Dave", Address: "9 Pine Rd"})
	require.NoError(t, err)

	assert.False(t, reg.NewUser)
	assert.Equal(t, winner, reg.User)
	assert.Equal(t, 2, store.lookups)
	assert.Equal(t, 1, store.inserts)
	assert.Len(t, store.addrs, 1)
}

type brokenStore struct {
	raceStore
}

func (s *brokenStore) ExecUnderTx(ctx context.Context, fn func(s registry.Storer) error) error {
	return errors.New("disk I/O error")
}

func TestRegisterStorageFailure(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "TEST", func(context.Context) string { return "" })
	rec := recorder{}

	_, err := registry.New(log, &brokenStore{}, &rec).Register(context.Background(), registry.NewRegistration{Name: "Eve", Address: "1 Main St"})
	assert.EqualError(t, err, "disk I/O error")
	assert.Empty(t, rec.all())
}
