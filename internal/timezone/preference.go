package timezone

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
	"contestlet/internal/models"
	"contestlet/internal/repository"
	"contestlet/internal/timeconv"

	"github.com/google/uuid"
)

// PreferenceStore is the two-tier admin timezone preference store. The
// database is the source of truth across devices; a local JSON snapshot is
// the resilience fallback when the database is unreachable.
//
// Read precedence: database > snapshot > catalog default.
// Write policy: snapshot always, database best-effort. A failed database
// write is reported to the caller via the synced flag, not hidden.
type PreferenceStore struct {
	repo         repository.TimezonePreferenceRepository
	catalog      *Catalog
	snapshotPath string
	mu           sync.Mutex
}

type snapshotEntry struct {
	Timezone   string    `json:"timezone"`
	AutoDetect bool      `json:"timezone_auto_detect"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewPreferenceStore creates a preference store backed by repo with a local
// snapshot file at snapshotPath.
func NewPreferenceStore(repo repository.TimezonePreferenceRepository, catalog *Catalog, snapshotPath string) *PreferenceStore {
	return &PreferenceStore{
		repo:         repo,
		catalog:      catalog,
		snapshotPath: snapshotPath,
	}
}

// Get returns the stored preference for an admin. repository.ErrNotFound
// means no preference has been set yet, which callers treat as a normal
// state. The snapshot tier is consulted only when the primary tier fails;
// synced reports whether the database answered.
func (s *PreferenceStore) Get(ctx context.Context, userID uuid.UUID) (pref *models.TimezonePreference, synced bool, err error) {
	pref, err = s.repo.Get(ctx, userID)
	if err == nil {
		return pref, true, nil
	}
	if err == repository.ErrNotFound {
		return nil, false, repository.ErrNotFound
	}

	log.Printf("timezone preference read fell back to snapshot: %v", err)
	entry, ok := s.readSnapshot(userID)
	if !ok {
		return nil, false, repository.ErrNotFound
	}
	return &models.TimezonePreference{
		UserID:     userID,
		Timezone:   entry.Timezone,
		AutoDetect: entry.AutoDetect,
		UpdatedAt:  entry.UpdatedAt,
	}, false, nil
}

// Resolve returns the effective timezone for an admin, walking the full
// fallback chain down to the catalog default.
func (s *PreferenceStore) Resolve(ctx context.Context, userID uuid.UUID) string {
	pref, _, err := s.Get(ctx, userID)
	if err != nil || pref.Timezone == "" {
		return s.catalog.DefaultZone()
	}
	return pref.Timezone
}

// Set stores a preference. The snapshot tier is always written; the database
// write is best-effort and its outcome is returned as synced. An invalid
// timezone is rejected before either tier is touched.
func (s *PreferenceStore) Set(ctx context.Context, userID uuid.UUID, tz string, autoDetect bool) (synced bool, err error) {
	if _, err := timeconv.LoadLocation(tz); err != nil {
		return false, err
	}

	now := time.Now().UTC()
	if err := s.writeSnapshot(userID, snapshotEntry{
		Timezone:   tz,
		AutoDetect: autoDetect,
		UpdatedAt:  now,
	}); err != nil {
		log.Printf("timezone preference snapshot write failed: %v", err)
	}

	pref := &models.TimezonePreference{
		UserID:     userID,
		Timezone:   tz,
		AutoDetect: autoDetect,
		UpdatedAt:  now,
	}
	if err := s.repo.Upsert(ctx, pref); err != nil {
		log.Printf("timezone preference database write failed: %v", err)
		return false, nil
	}
	return true, nil
}

func (s *PreferenceStore) readSnapshot(userID uuid.UUID) (snapshotEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadSnapshotLocked()
	if err != nil {
		return snapshotEntry{}, false
	}
	entry, ok := entries[userID.String()]
	return entry, ok
}

func (s *PreferenceStore) writeSnapshot(userID uuid.UUID, entry snapshotEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.loadSnapshotLocked()
	if err != nil {
		entries = map[string]snapshotEntry{}
	}
	entries[userID.String()] = entry

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.snapshotPath), 0o750); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	return os.WriteFile(s.snapshotPath, data, 0o600)
}

func (s *PreferenceStore) loadSnapshotLocked() (map[string]snapshotEntry, error) {
	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		return nil, err
	}
	entries := map[string]snapshotEntry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
