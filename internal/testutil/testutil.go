// Package testutil provides utilities for testing: pointer helpers and
// in-memory repository fakes for handler and service tests.
package testutil

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"
	"contestlet/internal/models"
	"contestlet/internal/repository"

	"github.com/google/uuid"
)

// fakeBase satisfies the base repository.Repository interface for fakes.
type fakeBase struct{}

func (fakeBase) DB() *sql.DB { return nil }

func (fakeBase) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// FakeContestRepo is an in-memory ContestRepository.
type FakeContestRepo struct {
	fakeBase
	mu       sync.Mutex
	contests map[uuid.UUID]models.Contest

	// Err, when set, is returned by every method.
	Err error
}

// NewFakeContestRepo creates an empty in-memory contest repository.
func NewFakeContestRepo() *FakeContestRepo {
	return &FakeContestRepo{contests: map[uuid.UUID]models.Contest{}}
}

func (f *FakeContestRepo) Create(_ context.Context, contest *models.Contest) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	contest.ID = uuid.New()
	now := time.Now().UTC()
	contest.CreatedAt = now
	contest.UpdatedAt = now
	f.contests[contest.ID] = *contest
	return nil
}

func (f *FakeContestRepo) Update(_ context.Context, contest *models.Contest) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.contests[contest.ID]; !ok {
		return repository.ErrNotFound
	}
	contest.UpdatedAt = time.Now().UTC()
	f.contests[contest.ID] = *contest
	return nil
}

func (f *FakeContestRepo) Delete(_ context.Context, id uuid.UUID) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.contests[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.contests, id)
	return nil
}

func (f *FakeContestRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Contest, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	contest, ok := f.contests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &contest, nil
}

func (f *FakeContestRepo) List(_ context.Context, filter repository.ContestFilter) ([]models.Contest, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var contests []models.Contest
	for _, c := range f.contests {
		if filter.Active != nil && c.Active != *filter.Active {
			continue
		}
		if filter.Search != nil && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(*filter.Search)) {
			continue
		}
		contests = append(contests, c)
	}
	sort.Slice(contests, func(i, j int) bool {
		return contests[i].StartTime.Before(contests[j].StartTime)
	})
	return contests, nil
}

func (f *FakeContestRepo) SetWinner(_ context.Context, contestID, entryID uuid.UUID, selectedAt time.Time) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	contest, ok := f.contests[contestID]
	if !ok {
		return repository.ErrNotFound
	}
	if contest.WinnerSelectedAt != nil {
		return repository.ErrWinnerAlreadyChosen
	}
	contest.WinnerEntryID = &entryID
	contest.WinnerSelectedAt = &selectedAt
	f.contests[contestID] = contest
	return nil
}

func (f *FakeContestRepo) EndedBetween(_ context.Context, from, to time.Time) ([]models.Contest, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var contests []models.Contest
	for _, c := range f.contests {
		if c.WinnerSelectedAt != nil {
			continue
		}
		if c.EndTime.After(from) && !c.EndTime.After(to) {
			contests = append(contests, c)
		}
	}
	sort.Slice(contests, func(i, j int) bool {
		return contests[i].EndTime.Before(contests[j].EndTime)
	})
	return contests, nil
}

// FakeEntryRepo is an in-memory EntryRepository.
type FakeEntryRepo struct {
	fakeBase
	mu      sync.Mutex
	entries map[uuid.UUID]models.Entry
	phones  map[uuid.UUID]string
}

// NewFakeEntryRepo creates an empty in-memory entry repository.
func NewFakeEntryRepo() *FakeEntryRepo {
	return &FakeEntryRepo{
		entries: map[uuid.UUID]models.Entry{},
		phones:  map[uuid.UUID]string{},
	}
}

// SetPhone registers the phone returned for a user on entry listings.
func (f *FakeEntryRepo) SetPhone(userID uuid.UUID, phone string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phones[userID] = phone
}

func (f *FakeEntryRepo) Create(_ context.Context, entry *models.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.ContestID == entry.ContestID && e.UserID == entry.UserID {
			return repository.ErrDuplicateEntry
		}
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now().UTC()
	f.entries[entry.ID] = *entry
	return nil
}

func (f *FakeEntryRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	entry.Phone = f.phones[entry.UserID]
	return &entry, nil
}

func (f *FakeEntryRepo) ListByContest(_ context.Context, contestID uuid.UUID) ([]models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var entries []models.Entry
	for _, e := range f.entries {
		if e.ContestID == contestID {
			e.Phone = f.phones[e.UserID]
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

func (f *FakeEntryRepo) CountByContest(ctx context.Context, contestID uuid.UUID) (int, error) {
	entries, err := f.ListByContest(ctx, contestID)
	return len(entries), err
}

// FakeUserRepo is an in-memory UserRepository.
type FakeUserRepo struct {
	fakeBase
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

// NewFakeUserRepo creates an empty in-memory user repository.
func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{users: map[uuid.UUID]models.User{}}
}

func (f *FakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Phone == user.Phone {
			return repository.ErrPhoneExists
		}
	}
	user.ID = uuid.New()
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users[user.ID] = *user
	return nil
}

func (f *FakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

func (f *FakeUserRepo) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Phone == phone {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *FakeUserRepo) GetOrCreateByPhone(ctx context.Context, phone string) (*models.User, error) {
	if user, err := f.GetByPhone(ctx, phone); err == nil {
		return user, nil
	}
	user := &models.User{Phone: phone, Role: models.RoleUser}
	if err := f.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (f *FakeUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Role = role
	f.users[id] = user
	return nil
}

func (f *FakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, lastLoginAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.LastLoginAt = &lastLoginAt
	f.users[id] = user
	return nil
}

func (f *FakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []models.User
	for _, u := range f.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// FakeOTPRepo is an in-memory OTPRepository.
type FakeOTPRepo struct {
	fakeBase
	mu    sync.Mutex
	codes map[uuid.UUID]models.OTPCode
}

// NewFakeOTPRepo creates an empty in-memory OTP repository.
func NewFakeOTPRepo() *FakeOTPRepo {
	return &FakeOTPRepo{codes: map[uuid.UUID]models.OTPCode{}}
}

func (f *FakeOTPRepo) Create(_ context.Context, code *models.OTPCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	code.ID = uuid.New()
	code.CreatedAt = time.Now().UTC()
	f.codes[code.ID] = *code
	return nil
}

func (f *FakeOTPRepo) GetActiveByPhone(_ context.Context, phone string) (*models.OTPCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *models.OTPCode
	now := time.Now().UTC()
	for _, c := range f.codes {
		c := c
		if c.Phone != phone || c.Used || !c.ExpiresAt.After(now) {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = &c
		}
	}
	if latest == nil {
		return nil, repository.ErrOTPNotFound
	}
	return latest, nil
}

func (f *FakeOTPRepo) MarkUsed(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	code, ok := f.codes[id]
	if !ok || code.Used {
		return repository.ErrOTPUsed
	}
	code.Used = true
	f.codes[id] = code
	return nil
}

func (f *FakeOTPRepo) DeleteExpired(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	for id, c := range f.codes {
		if !c.ExpiresAt.After(now) {
			delete(f.codes, id)
		}
	}
	return nil
}

// FakeRefreshTokenRepo is an in-memory RefreshTokenRepository.
type FakeRefreshTokenRepo struct {
	fakeBase
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
}

// NewFakeRefreshTokenRepo creates an empty in-memory refresh token repository.
func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{tokens: map[string]models.RefreshToken{}}
}

func (f *FakeRefreshTokenRepo) Create(_ context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (f *FakeRefreshTokenRepo) GetByToken(_ context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.tokens[token]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	if time.Now().After(rt.ExpiresAt) {
		return nil, repository.ErrTokenExpired
	}
	return &rt, nil
}

func (f *FakeRefreshTokenRepo) DeleteByToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[token]; !ok {
		return repository.ErrTokenNotFound
	}
	delete(f.tokens, token)
	return nil
}

func (f *FakeRefreshTokenRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, rt := range f.tokens {
		if rt.UserID == userID {
			delete(f.tokens, token)
		}
	}
	return nil
}

func (f *FakeRefreshTokenRepo) DeleteExpired(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for token, rt := range f.tokens {
		if now.After(rt.ExpiresAt) {
			delete(f.tokens, token)
		}
	}
	return nil
}

// FakeNotificationRepo is an in-memory NotificationRepository.
type FakeNotificationRepo struct {
	fakeBase
	mu            sync.Mutex
	Notifications []models.Notification
}

// NewFakeNotificationRepo creates an empty in-memory notification repository.
func NewFakeNotificationRepo() *FakeNotificationRepo {
	return &FakeNotificationRepo{}
}

func (f *FakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = uuid.New()
	if n.SentAt.IsZero() {
		n.SentAt = time.Now().UTC()
	}
	f.Notifications = append(f.Notifications, *n)
	return nil
}

func (f *FakeNotificationRepo) List(_ context.Context, filter repository.NotificationFilter) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var notifications []models.Notification
	for _, n := range f.Notifications {
		if filter.ContestID != nil && (n.ContestID == nil || *n.ContestID != *filter.ContestID) {
			continue
		}
		if filter.Type != nil && n.Type != *filter.Type {
			continue
		}
		if filter.Status != nil && n.Status != *filter.Status {
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}
