package timezone

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
	"contestlet/internal/models"
	"contestlet/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakePrefRepo is an in-memory TimezonePreferenceRepository whose primary
// tier can be forced to fail.
type fakePrefRepo struct {
	prefs map[uuid.UUID]models.TimezonePreference
	fail  bool
}

func newFakePrefRepo() *fakePrefRepo {
	return &fakePrefRepo{prefs: map[uuid.UUID]models.TimezonePreference{}}
}

func (f *fakePrefRepo) DB() *sql.DB { return nil }

func (f *fakePrefRepo) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakePrefRepo) Get(_ context.Context, userID uuid.UUID) (*models.TimezonePreference, error) {
	if f.fail {
		return nil, errors.New("database unreachable")
	}
	pref, ok := f.prefs[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &pref, nil
}

func (f *fakePrefRepo) Upsert(_ context.Context, pref *models.TimezonePreference) error {
	if f.fail {
		return errors.New("database unreachable")
	}
	f.prefs[pref.UserID] = *pref
	return nil
}

func newTestStore(t *testing.T, repo repository.TimezonePreferenceRepository) *PreferenceStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timezone_prefs.json")
	return NewPreferenceStore(repo, NewCatalog("UTC", time.Minute), path)
}

func TestPreferenceStoreSetAndGet(t *testing.T) {
	repo := newFakePrefRepo()
	store := newTestStore(t, repo)
	userID := uuid.New()

	synced, err := store.Set(context.Background(), userID, "America/Denver", false)
	require.NoError(t, err)
	require.True(t, synced)

	pref, synced, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, synced)
	require.Equal(t, "America/Denver", pref.Timezone)
	require.False(t, pref.AutoDetect)
}

func TestPreferenceStoreUnsetIsNotFound(t *testing.T) {
	store := newTestStore(t, newFakePrefRepo())

	_, _, err := store.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPreferenceStoreRejectsInvalidZone(t *testing.T) {
	repo := newFakePrefRepo()
	store := newTestStore(t, repo)

	_, err := store.Set(context.Background(), uuid.New(), "Not/A_Zone", false)
	require.Error(t, err)
	require.Empty(t, repo.prefs)
}

func TestPreferenceStoreDatabaseWriteFailureIsReported(t *testing.T) {
	repo := newFakePrefRepo()
	repo.fail = true
	store := newTestStore(t, repo)
	userID := uuid.New()

	// The local tier still takes the write; the caller learns sync failed.
	synced, err := store.Set(context.Background(), userID, "America/Denver", true)
	require.NoError(t, err)
	require.False(t, synced)

	// Reads served from the snapshot tier while the database is down, and
	// say so.
	pref, synced, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	require.False(t, synced)
	require.Equal(t, "America/Denver", pref.Timezone)
	require.True(t, pref.AutoDetect)
}

func TestPreferenceStoreDatabaseWinsOverSnapshot(t *testing.T) {
	repo := newFakePrefRepo()
	store := newTestStore(t, repo)
	userID := uuid.New()

	repo.fail = true
	_, err := store.Set(context.Background(), userID, "America/Chicago", false)
	require.NoError(t, err)

	repo.fail = false
	_, err = store.Set(context.Background(), userID, "America/Denver", false)
	require.NoError(t, err)

	pref, synced, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, synced)
	require.Equal(t, "America/Denver", pref.Timezone)
}

func TestPreferenceStoreResolve(t *testing.T) {
	repo := newFakePrefRepo()
	store := newTestStore(t, repo)
	userID := uuid.New()

	// Nothing stored anywhere: the catalog default.
	require.Equal(t, "UTC", store.Resolve(context.Background(), userID))

	_, err := store.Set(context.Background(), userID, "Asia/Tokyo", false)
	require.NoError(t, err)
	require.Equal(t, "Asia/Tokyo", store.Resolve(context.Background(), userID))
}
