package service_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/studyset-api/internal/domain"
	"github.com/phrazzld/studyset-api/internal/service"
	"github.com/phrazzld/studyset-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopDriver is a minimal database/sql driver whose transactions commit
// and roll back as no-ops. It lets the transactional service paths run
// against the in-memory fake store without a database server.
type noopDriver struct{}

type noopConn struct{}

type noopTx struct{}

func (noopDriver) Open(name string) (driver.Conn, error) { return noopConn{}, nil }

func (noopConn) Prepare(query string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (noopConn) Close() error                              { return nil }
func (noopConn) Begin() (driver.Tx, error)                 { return noopTx{}, nil }

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

var noopDB = func() *sql.DB {
	sql.Register("service_noop", noopDriver{})
	db, err := sql.Open("service_noop", "")
	if err != nil {
		panic(err)
	}
	return db
}()

// fakeSetStore is an in-memory SetStore. Reads hand out copies so that
// service mutations work on a loaded snapshot, exactly like the real
// document store; Update enforces the version check.
type fakeSetStore struct {
	mu        sync.Mutex
	sets      map[uuid.UUID]*domain.Set
	updateErr error // forced Update failure, when set
}

func newFakeSetStore() *fakeSetStore {
	return &fakeSetStore{sets: make(map[uuid.UUID]*domain.Set)}
}

func cloneSet(s *domain.Set) *domain.Set {
	clone := *s
	clone.Tags = append([]string(nil), s.Tags...)
	clone.Cards = append([]domain.Card(nil), s.Cards...)
	return &clone
}

func (f *fakeSetStore) Create(ctx context.Context, set *domain.Set) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set.Version = 1
	f.sets[set.ID] = cloneSet(set)
	return nil
}

func (f *fakeSetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Set, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[id]
	if !ok {
		return nil, store.ErrSetNotFound
	}
	return cloneSet(set), nil
}

func (f *fakeSetStore) Update(ctx context.Context, set *domain.Set) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	current, ok := f.sets[set.ID]
	if !ok {
		return store.ErrSetNotFound
	}
	if current.Version != set.Version {
		return store.ErrVersionConflict
	}
	set.Version++
	f.sets[set.ID] = cloneSet(set)
	return nil
}

func (f *fakeSetStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sets[id]; !ok {
		return store.ErrSetNotFound
	}
	delete(f.sets, id)
	return nil
}

func (f *fakeSetStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Set, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Set
	for _, set := range f.sets {
		if set.OwnerID == ownerID {
			out = append(out, cloneSet(set))
		}
	}
	return out, nil
}

func (f *fakeSetStore) FindPublic(ctx context.Context, limit int) ([]*domain.Set, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Set
	for _, set := range f.sets {
		if set.IsPublic {
			out = append(out, cloneSet(set))
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSetStore) WithTx(tx *sql.Tx) store.SetStore { return f }

func newTestService(t *testing.T, sets store.SetStore) service.SetService {
	t.Helper()
	svc, err := service.NewSetService(noopDB, sets, slog.Default())
	require.NoError(t, err)
	return svc
}

func TestCreateSet(t *testing.T) {
	t.Parallel()

	fake := newFakeSetStore()
	svc := newTestService(t, fake)
	owner := uuid.New()

	set, err := svc.CreateSet(context.Background(), owner, service.CreateSetInput{
		Title:       "Spanish Basics",
		Description: "Starter vocabulary",
		Tags:        []string{"spanish", "beginner"},
		Cards: []service.CardInput{
			{Question: "hola", Answer: "hello"},
			{Question: "adios", Answer: "goodbye"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, owner, set.OwnerID)
	assert.Equal(t, domain.DefaultCategory, set.Category)
	assert.Equal(t, 2, set.CardCount())
	assert.Equal(t, "hola", set.Cards[0].Question)

	stored, err := fake.GetByID(context.Background(), set.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.CardCount())
}

func TestCreateSet_ValidationFailure(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeSetStore())

	_, err := svc.CreateSet(context.Background(), uuid.New(), service.CreateSetInput{
		Title: "   ",
	})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = svc.CreateSet(context.Background(), uuid.New(), service.CreateSetInput{
		Title: "Valid",
		Cards: []service.CardInput{{Question: "", Answer: "a"}},
	})
	assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
}

func TestGetSet_OwnershipGate(t *testing.T) {
	t.Parallel()

	fake := newFakeSetStore()
	svc := newTestService(t, fake)
	owner := uuid.New()
	stranger := uuid.New()

	private, err := svc.CreateSet(context.Background(), owner, service.CreateSetInput{Title: "Private"})
	require.NoError(t, err)
	public, err := svc.CreateSet(context.Background(), owner, service.CreateSetInput{Title: "Public", IsPublic: true})
	require.NoError(t, err)

	_, err = svc.GetSet(context.Background(), owner, private.ID)
	assert.NoError(t, err)

	_, err = svc.GetSet(context.Background(), stranger, private.ID)
	assert.ErrorIs(t, err, service.ErrSetNotOwned)

	_, err = svc.GetSet(context.Background(), stranger, public.ID)
	assert.NoError(t, err, "public sets are readable by non-owners")

	_, err = svc.GetSet(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, store.ErrSetNotFound)
}

func TestMutationsRequireOwnership(t *testing.T) {
	t.Parallel()

	fake := newFakeSetStore()
	svc := newTestService(t, fake)
	owner := uuid.New()
	stranger := uuid.New()

	// Public visibility must not open the write path.
	set, err := svc.CreateSet(context.Background(), owner, service.CreateSetInput{
		Title:    "Public but not yours",
		IsPublic: true,
		Cards:    []service.CardInput{{Question: "q", Answer: "a"}},
	})
	require.NoError(t, err)
	cardID := set.Cards[0].ID

	title := "hijacked"
	_, err = svc.UpdateSet(context.Background(), stranger, set.ID, domain.SetUpdate{Title: &title})
	assert.ErrorIs(t, err, service.ErrSetNotOwned)

	_, err = svc.AddCard(context.Background(), stranger, set.ID, "q2", "a2")
	assert.ErrorIs(t, err, service.ErrSetNotOwned)

	_, err = svc.UpdateCard(context.Background(), stranger, set.ID, cardID, "q2", "a2")
	assert.ErrorIs(t, err, service.ErrSetNotOwned)

	_, err = svc.RemoveCard(context.Background(), stranger, set.ID, cardID)
	assert.ErrorIs(t, err, service.ErrSetNotOwned)

	_, err = svc.RecordReview(context.Background(), stranger, set.ID, cardID, true)
	assert.ErrorIs(t, err, service.ErrSetNotOwned)

	err = svc.DeleteSet(context.Background(), stranger, set.ID)
	assert.ErrorIs(t, err, service.ErrSetNotOwned)

	// The set is untouched after all of the above.
	reloaded, err := svc.GetSet(context.Background(), owner, set.ID)
	require.NoError(t, err)
	assert.Equal(t, "Public but not yours", reloaded.Title)
	assert.Equal(t, 1, reloaded.CardCount())
}

func TestUpdateSet_PartialUpdate(t *testing.T) {
	t.Parallel()

	fake := newFakeSetStore()
	svc := newTestService(t, fake)
	owner := uuid.New()

	set, err := svc.CreateSet(context.Background(), owner, service.CreateSetInput{
		Title:       "Original",
		Description: "Keep me",
		Category:    "Languages",
	})
	require.NoError(t, err)

	title := "Renamed"
	isPublic := true
	updated, err := svc.UpdateSet(context.Background(), owner, set.ID, domain.SetUpdate{
		Title:    &title,
		IsPublic: &isPublic,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "Keep me", updated.Description)
	assert.Equal(t, "Languages", updated.Category)
	assert.True(t, updated.IsPublic)

	stored, err := fake.GetByID(context.Background(), set.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Title)
}

func TestCardLifecycle(t *testing.T) {
	t.Parallel()

	fake := newFakeSetStore()
	svc := newTestService(t, fake)
	owner := uuid.New()
	ctx := context.Background()

	set, err := svc.CreateSet(ctx, owner, service.CreateSetInput{Title: "Cards"})
	require.NoError(t, err)

	set, err = svc.AddCard(ctx, owner, set.ID, "first?", "one")
	require.NoError(t, err)
	set, err = svc.AddCard(ctx, owner, set.ID, "second?", "two")
	require.NoError(t, err)
	require.Equal(t, 2, set.CardCount())
	first, second := set.Cards[0].ID, set.Cards[1].ID

	set, err = svc.UpdateCard(ctx, owner, set.ID, first, "first, revised?", "one")
	require.NoError(t, err)
	assert.Equal(t, "first, revised?", set.Cards[0].Question)
	assert.Equal(t, first, set.Cards[0].ID, "update keeps card position")

	set, err = svc.RemoveCard(ctx, owner, set.ID, first)
	require.NoError(t, err)
	require.Equal(t, 1, set.CardCount())
	assert.Equal(t, second, set.Cards[0].ID)

	_, err = svc.RemoveCard(ctx, owner, set.ID, first)
	assert.ErrorIs(t, err, domain.ErrCardNotFound)

	_, err = svc.UpdateCard(ctx, owner, set.ID, uuid.New(), "q", "a")
	assert.ErrorIs(t, err, domain.ErrCardNotFound)
}

func TestRecordReview(t *testing.T) {
	t.Parallel()

	fake := newFakeSetStore()
	svc := newTestService(t, fake)
	owner := uuid.New()
	ctx := context.Background()

	set, err := svc.CreateSet(ctx, owner, service.CreateSetInput{
		Title: "Reviews",
		Cards: []service.CardInput{
			{Question: "q1", Answer: "a1"},
			{Question: "q2", Answer: "a2"},
		},
	})
	require.NoError(t, err)

	receipt, err := svc.RecordReview(ctx, owner, set.ID, set.Cards[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, set.Cards[0].ID, receipt.CardID)
	assert.True(t, receipt.IsCorrect)
	assert.Equal(t, 1, receipt.ReviewCount)
	assert.Equal(t, 1, receipt.TotalReviews)
	assert.Equal(t, 100, receipt.AverageScore)

	receipt, err = svc.RecordReview(ctx, owner, set.ID, set.Cards[1].ID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, receipt.TotalReviews)
	assert.Equal(t, 50, receipt.AverageScore)

	stored, err := fake.GetByID(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.TotalReviews)
	assert.Equal(t, 50, stored.AverageScore)
	assert.Equal(t, domain.CorrectnessCorrect, stored.Cards[0].Correctness)
	assert.Equal(t, domain.CorrectnessIncorrect, stored.Cards[1].Correctness)

	_, err = svc.RecordReview(ctx, owner, set.ID, uuid.New(), true)
	assert.ErrorIs(t, err, domain.ErrCardNotFound)
}

func TestMutation_VersionConflict(t *testing.T) {
	t.Parallel()

	fake := newFakeSetStore()
	svc := newTestService(t, fake)
	owner := uuid.New()
	ctx := context.Background()

	set, err := svc.CreateSet(ctx, owner, service.CreateSetInput{Title: "Contended"})
	require.NoError(t, err)

	fake.updateErr = store.ErrVersionConflict
	_, err = svc.AddCard(ctx, owner, set.ID, "q", "a")
	assert.ErrorIs(t, err, service.ErrEditConflict)

	// The failed save left the stored document unchanged.
	fake.updateErr = nil
	stored, err := fake.GetByID(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.CardCount())
}

func TestDeleteSet(t *testing.T) {
	t.Parallel()

	fake := newFakeSetStore()
	svc := newTestService(t, fake)
	owner := uuid.New()
	ctx := context.Background()

	set, err := svc.CreateSet(ctx, owner, service.CreateSetInput{Title: "Doomed"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSet(ctx, owner, set.ID))

	_, err = svc.GetSet(ctx, owner, set.ID)
	assert.ErrorIs(t, err, store.ErrSetNotFound)

	err = svc.DeleteSet(ctx, owner, set.ID)
	assert.ErrorIs(t, err, store.ErrSetNotFound)
}
