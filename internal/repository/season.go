package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gridblitz.dev/platform/internal/core"
)

type SeasonRepository struct {
	db *sql.DB
}

func NewSeasonRepository(db *sql.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

const seasonColumns = `id, season_number, current_week, total_weeks, status, master_seed, created_at`

func scanSeason(row interface{ Scan(...any) error }) (*core.Season, error) {
	var s core.Season
	err := row.Scan(&s.ID, &s.SeasonNumber, &s.CurrentWeek, &s.TotalWeeks, &s.Status, &s.MasterSeed, &s.CreatedAt)
	return &s, err
}

func (r *SeasonRepository) GetActive(ctx context.Context) (*core.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE status != $1 ORDER BY season_number DESC LIMIT 1`
	s, err := scanSeason(r.db.QueryRowContext(ctx, query, string(core.SeasonStatusOffseason)))
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("season", "active")
	}
	if err != nil {
		return nil, core.NewPersistenceFailureError("season.getActive", fmt.Errorf("failed to get active season: %w", err))
	}
	return s, nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, id core.SeasonID) (*core.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE id = $1`
	s, err := scanSeason(r.db.QueryRowContext(ctx, query, string(id)))
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("season", string(id))
	}
	if err != nil {
		return nil, core.NewPersistenceFailureError("season.get", fmt.Errorf("failed to get season: %w", err))
	}
	return s, nil
}

func (r *SeasonRepository) GetBySeasonNumber(ctx context.Context, number int) (*core.Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM seasons WHERE season_number = $1`
	s, err := scanSeason(r.db.QueryRowContext(ctx, query, number))
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("season", fmt.Sprintf("number=%d", number))
	}
	if err != nil {
		return nil, core.NewPersistenceFailureError("season.getByNumber", fmt.Errorf("failed to get season: %w", err))
	}
	return s, nil
}

func (r *SeasonRepository) LatestSeasonNumber(ctx context.Context) (int, error) {
	var n sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT MAX(season_number) FROM seasons`).Scan(&n)
	if err != nil {
		return 0, core.NewPersistenceFailureError("season.latestNumber", fmt.Errorf("failed to get latest season number: %w", err))
	}
	if !n.Valid {
		return 0, nil
	}
	return int(n.Int64), nil
}

func (r *SeasonRepository) Create(ctx context.Context, season *core.Season) error {
	query := `
		INSERT INTO seasons (id, season_number, current_week, total_weeks, status, master_seed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		string(season.ID), season.SeasonNumber, season.CurrentWeek, season.TotalWeeks,
		string(season.Status), season.MasterSeed, season.CreatedAt,
	)
	if err != nil {
		return core.NewPersistenceFailureError("season.create", fmt.Errorf("failed to create season: %w", err))
	}
	return nil
}

// AdvanceWeek is a compare-and-set: it only applies if the row is still
// at expectedWeek, so two concurrent ticks can't both advance it.
func (r *SeasonRepository) AdvanceWeek(ctx context.Context, id core.SeasonID, expectedWeek, newWeek int) (bool, error) {
	query := `UPDATE seasons SET current_week = $1 WHERE id = $2 AND current_week = $3`
	result, err := r.db.ExecContext(ctx, query, newWeek, string(id), expectedWeek)
	if err != nil {
		return false, core.NewPersistenceFailureError("season.advanceWeek", fmt.Errorf("failed to advance week: %w", err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, core.NewPersistenceFailureError("season.advanceWeek.rowsAffected", err)
	}
	return n == 1, nil
}

// TransitionStatus is a compare-and-set on status.
func (r *SeasonRepository) TransitionStatus(ctx context.Context, id core.SeasonID, expectedStatus, newStatus core.SeasonStatus) (bool, error) {
	query := `UPDATE seasons SET status = $1 WHERE id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, string(newStatus), string(id), string(expectedStatus))
	if err != nil {
		return false, core.NewPersistenceFailureError("season.transitionStatus", fmt.Errorf("failed to transition season status: %w", err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, core.NewPersistenceFailureError("season.transitionStatus.rowsAffected", err)
	}
	return n == 1, nil
}

// Reset cascades a full delete of a season and everything it owns.
// Not exposed over HTTP and not called by the CLI; `db reset` goes
// through internal/db's Reset instead.
func (r *SeasonRepository) Reset(ctx context.Context, id core.SeasonID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.NewPersistenceFailureError("season.reset.begin", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	statements := []string{
		`DELETE FROM game_events WHERE game_id IN (SELECT id FROM games WHERE season_id = $1)`,
		`DELETE FROM standings WHERE season_id = $1`,
		`DELETE FROM games WHERE season_id = $1`,
		`DELETE FROM seasons WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, string(id)); err != nil {
			return core.NewPersistenceFailureError("season.reset.exec", fmt.Errorf("failed to reset season: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return core.NewPersistenceFailureError("season.reset.commit", fmt.Errorf("failed to commit reset: %w", err))
	}
	return nil
}
