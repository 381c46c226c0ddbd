// Package sweep finds contests that ended without a winner and records
// follow-up notifications for them.
package sweep

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
	"contestlet/internal/config"
	"contestlet/internal/models"
	"contestlet/internal/repository"
	"contestlet/internal/timeconv"

	"github.com/robfig/cron/v3"
)

// initialLookback bounds the first scan window after startup.
const initialLookback = 24 * time.Hour

// Result summarizes a single sweep run
type Result struct {
	// From and To delimit the scanned window
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	// Flagged is the number of ended contests awaiting winner selection
	Flagged int `json:"flagged"`
}

// Sweeper scans for contests whose end time has passed with no winner chosen.
type Sweeper struct {
	contestRepo      repository.ContestRepository
	notificationRepo repository.NotificationRepository

	mu      sync.Mutex
	lastRun time.Time
}

// NewSweeper creates a sweeper over the given repositories.
func NewSweeper(contestRepo repository.ContestRepository, notificationRepo repository.NotificationRepository) *Sweeper {
	return &Sweeper{
		contestRepo:      contestRepo,
		notificationRepo: notificationRepo,
	}
}

// Run scans the window since the previous run and records a reminder
// notification for every ended contest still missing a winner.
func (s *Sweeper) Run(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	now := time.Now().UTC()
	from := s.lastRun
	if from.IsZero() {
		from = now.Add(-initialLookback)
	}
	s.lastRun = now
	s.mu.Unlock()

	contests, err := s.contestRepo.EndedBetween(ctx, from, now)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ended contests: %w", err)
	}

	for _, contest := range contests {
		contestID := contest.ID
		n := &models.Notification{
			ContestID: &contestID,
			Type:      models.NotificationReminder,
			Status:    models.NotificationSent,
			Message:   fmt.Sprintf("Contest %q ended at %s; winner selection is pending", contest.Name, timeconv.UTCString(contest.EndTime)),
		}
		if err := s.notificationRepo.Create(ctx, n); err != nil {
			return nil, fmt.Errorf("failed to record sweep notification: %w", err)
		}
	}

	return &Result{From: from, To: now, Flagged: len(contests)}, nil
}

// Manager runs the sweeper on a cron schedule.
type Manager struct {
	sweeper *Sweeper
	config  config.SweepConfig
	cron    *cron.Cron
}

// NewManager creates a sweep manager.
func NewManager(sweeper *Sweeper, cfg config.SweepConfig) *Manager {
	c := cron.New(cron.WithParser(cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
	)))

	return &Manager{
		sweeper: sweeper,
		config:  cfg,
		cron:    c,
	}
}

// Sweeper returns the managed sweeper, for manual runs.
func (m *Manager) Sweeper() *Sweeper {
	return m.sweeper
}

// StartScheduler runs the sweeper on its configured schedule until the
// context is cancelled.
func (m *Manager) StartScheduler(ctx context.Context) error {
	if !m.config.Enabled {
		log.Println("Sweep is disabled, skipping scheduler")
		<-ctx.Done()
		return nil
	}
	if m.config.Schedule == "" {
		return fmt.Errorf("sweep has no schedule configured")
	}

	_, err := m.cron.AddFunc(m.config.Schedule, func() {
		result, err := m.sweeper.Run(ctx)
		if err != nil {
			log.Printf("Error running sweep: %v", err)
			return
		}
		if result.Flagged > 0 {
			log.Printf("Sweep flagged %d contest(s) awaiting winner selection", result.Flagged)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	m.cron.Start()
	log.Printf("Sweep scheduler started with schedule %s", m.config.Schedule)

	<-ctx.Done()
	log.Println("Stopping sweep scheduler...")
	m.cron.Stop()

	return nil
}
