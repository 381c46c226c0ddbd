package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"contestlet/internal/models"
	"contestlet/internal/repository"

	"github.com/google/uuid"
)

type contestRepository struct {
	repository.BaseRepository
}

// NewContestRepository creates a new PostgreSQL contest repository
func NewContestRepository(db *sql.DB) repository.ContestRepository {
	return &contestRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *contestRepository) Create(ctx context.Context, contest *models.Contest) error {
	query := `
		INSERT INTO contests (
			id, name, description, location, latitude, longitude,
			start_time, end_time, prize_description, active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING created_at, updated_at`

	contest.ID = uuid.New()
	now := time.Now().UTC()

	err := r.DB().QueryRowContext(ctx, query,
		contest.ID,
		contest.Name,
		contest.Description,
		contest.Location,
		contest.Latitude,
		contest.Longitude,
		contest.StartTime,
		contest.EndTime,
		contest.PrizeDescription,
		contest.Active,
		now,
	).Scan(&contest.CreatedAt, &contest.UpdatedAt)
	if err != nil {
		return err
	}

	if contest.OfficialRules != nil {
		if err := r.upsertOfficialRules(ctx, contest.ID, contest.OfficialRules); err != nil {
			return err
		}
	}
	return nil
}

func (r *contestRepository) upsertOfficialRules(ctx context.Context, contestID uuid.UUID, rules *models.OfficialRules) error {
	query := `
		INSERT INTO official_rules (
			id, contest_id, eligibility_text, sponsor_name,
			start_date, end_date, prize_value_usd, terms_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (contest_id) DO UPDATE SET
			eligibility_text = EXCLUDED.eligibility_text,
			sponsor_name = EXCLUDED.sponsor_name,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			prize_value_usd = EXCLUDED.prize_value_usd,
			terms_url = EXCLUDED.terms_url
		RETURNING id`

	rules.ContestID = contestID
	if rules.ID == uuid.Nil {
		rules.ID = uuid.New()
	}
	return r.DB().QueryRowContext(ctx, query,
		rules.ID,
		contestID,
		rules.EligibilityText,
		rules.SponsorName,
		rules.StartDate,
		rules.EndDate,
		rules.PrizeValueUSD,
		rules.TermsURL,
	).Scan(&rules.ID)
}

func (r *contestRepository) Update(ctx context.Context, contest *models.Contest) error {
	query := `
		UPDATE contests
		SET name = $1, description = $2, location = $3, latitude = $4,
		    longitude = $5, start_time = $6, end_time = $7,
		    prize_description = $8, active = $9, updated_at = $10
		WHERE id = $11
		RETURNING updated_at`

	err := r.DB().QueryRowContext(ctx, query,
		contest.Name,
		contest.Description,
		contest.Location,
		contest.Latitude,
		contest.Longitude,
		contest.StartTime,
		contest.EndTime,
		contest.PrizeDescription,
		contest.Active,
		time.Now().UTC(),
		contest.ID,
	).Scan(&contest.UpdatedAt)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return err
	}

	if contest.OfficialRules != nil {
		if err := r.upsertOfficialRules(ctx, contest.ID, contest.OfficialRules); err != nil {
			return err
		}
	}
	return nil
}

func (r *contestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM contests WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

const contestColumns = `
	c.id, c.name, c.description, c.location, c.latitude, c.longitude,
	c.start_time, c.end_time, c.prize_description, c.active,
	c.winner_entry_id, c.winner_selected_at, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM entries e WHERE e.contest_id = c.id) AS entry_count`

func (r *contestRepository) scanContest(row interface{ Scan(...interface{}) error }) (*models.Contest, error) {
	contest := &models.Contest{}
	err := row.Scan(
		&contest.ID,
		&contest.Name,
		&contest.Description,
		&contest.Location,
		&contest.Latitude,
		&contest.Longitude,
		&contest.StartTime,
		&contest.EndTime,
		&contest.PrizeDescription,
		&contest.Active,
		&contest.WinnerEntryID,
		&contest.WinnerSelectedAt,
		&contest.CreatedAt,
		&contest.UpdatedAt,
		&contest.EntryCount,
	)
	if err != nil {
		return nil, err
	}
	// Timestamps come back in the session zone; the domain works in UTC.
	contest.StartTime = contest.StartTime.UTC()
	contest.EndTime = contest.EndTime.UTC()
	if contest.WinnerSelectedAt != nil {
		t := contest.WinnerSelectedAt.UTC()
		contest.WinnerSelectedAt = &t
	}
	return contest, nil
}

func (r *contestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contest, error) {
	query := "SELECT " + contestColumns + " FROM contests c WHERE c.id = $1"

	contest, err := r.scanContest(r.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rules, err := r.getOfficialRules(ctx, id)
	if err != nil {
		return nil, err
	}
	contest.OfficialRules = rules
	return contest, nil
}

func (r *contestRepository) getOfficialRules(ctx context.Context, contestID uuid.UUID) (*models.OfficialRules, error) {
	rules := &models.OfficialRules{}
	query := `
		SELECT id, contest_id, eligibility_text, sponsor_name,
		       start_date, end_date, prize_value_usd, terms_url
		FROM official_rules
		WHERE contest_id = $1`

	err := r.DB().QueryRowContext(ctx, query, contestID).Scan(
		&rules.ID,
		&rules.ContestID,
		&rules.EligibilityText,
		&rules.SponsorName,
		&rules.StartDate,
		&rules.EndDate,
		&rules.PrizeValueUSD,
		&rules.TermsURL,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *contestRepository) List(ctx context.Context, filter repository.ContestFilter) ([]models.Contest, error) {
	query := "SELECT " + contestColumns + " FROM contests c"
	var conditions []string
	var args []interface{}

	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("c.name ILIKE $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("c.active = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy := "c.start_time"
	switch filter.OrderBy {
	case "name":
		orderBy = "c.name"
	case "end_time":
		orderBy = "c.end_time"
	case "created_at":
		orderBy = "c.created_at"
	}
	query += " ORDER BY " + orderBy
	if filter.OrderDesc {
		query += " DESC"
	}

	if filter.Limit != nil {
		args = append(args, *filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset != nil {
		args = append(args, *filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contests []models.Contest
	for rows.Next() {
		contest, err := r.scanContest(rows)
		if err != nil {
			return nil, err
		}
		contests = append(contests, *contest)
	}
	return contests, rows.Err()
}

func (r *contestRepository) SetWinner(ctx context.Context, contestID, entryID uuid.UUID, selectedAt time.Time) error {
	query := `
		UPDATE contests
		SET winner_entry_id = $1, winner_selected_at = $2, updated_at = $2
		WHERE id = $3 AND winner_selected_at IS NULL`

	result, err := r.DB().ExecContext(ctx, query, entryID, selectedAt, contestID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Distinguish "no such contest" from "winner already set".
		var exists bool
		if err := r.DB().QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM contests WHERE id = $1)", contestID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return repository.ErrNotFound
		}
		return repository.ErrWinnerAlreadyChosen
	}
	return nil
}

func (r *contestRepository) EndedBetween(ctx context.Context, from, to time.Time) ([]models.Contest, error) {
	query := "SELECT " + contestColumns + `
		FROM contests c
		WHERE c.end_time > $1 AND c.end_time <= $2
		  AND c.winner_selected_at IS NULL
		ORDER BY c.end_time`

	rows, err := r.DB().QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contests []models.Contest
	for rows.Next() {
		contest, err := r.scanContest(rows)
		if err != nil {
			return nil, err
		}
		contests = append(contests, *contest)
	}
	return contests, rows.Err()
}
