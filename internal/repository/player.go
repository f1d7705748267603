package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gridblitz.dev/platform/internal/core"
)

type PlayerRepository struct {
	db *sql.DB
}

func NewPlayerRepository(db *sql.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id core.PlayerID) (*core.Player, error) {
	query := `
		SELECT id, team_id, name, position, jersey_number, rating, speed,
			strength, awareness, clutch_rating, injury_prone
		FROM players WHERE id = $1
	`

	var p core.Player
	err := r.db.QueryRowContext(ctx, query, string(id)).Scan(
		&p.ID, &p.TeamID, &p.Name, &p.Position, &p.JerseyNumber, &p.Rating,
		&p.Speed, &p.Strength, &p.Awareness, &p.ClutchRating, &p.InjuryProne,
	)
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("player", string(id))
	}
	if err != nil {
		return nil, core.NewPersistenceFailureError("player.get", fmt.Errorf("failed to get player: %w", err))
	}
	return &p, nil
}

func (r *PlayerRepository) List(ctx context.Context, filter core.PlayerFilter) ([]core.Player, error) {
	query := `
		SELECT id, team_id, name, position, jersey_number, rating, speed,
			strength, awareness, clutch_rating, injury_prone
		FROM players WHERE 1=1
	`

	args := []any{}
	argNum := 1

	if filter.TeamID != "" {
		query += fmt.Sprintf(" AND team_id = $%d", argNum)
		args = append(args, string(filter.TeamID))
		argNum++
	}
	if filter.Position != "" {
		query += fmt.Sprintf(" AND position = $%d", argNum)
		args = append(args, string(filter.Position))
		argNum++
	}
	query += " ORDER BY jersey_number"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.NewPersistenceFailureError("player.list", fmt.Errorf("failed to list players: %w", err))
	}
	defer rows.Close()

	var players []core.Player
	for rows.Next() {
		var p core.Player
		if err := rows.Scan(
			&p.ID, &p.TeamID, &p.Name, &p.Position, &p.JerseyNumber, &p.Rating,
			&p.Speed, &p.Strength, &p.Awareness, &p.ClutchRating, &p.InjuryProne,
		); err != nil {
			return nil, core.NewPersistenceFailureError("player.list.scan", fmt.Errorf("failed to scan player: %w", err))
		}
		players = append(players, p)
	}
	return players, nil
}

func (r *PlayerRepository) Roster(ctx context.Context, teamID core.TeamID) ([]core.Player, error) {
	return r.List(ctx, core.PlayerFilter{TeamID: teamID})
}

func (r *PlayerRepository) Create(ctx context.Context, player *core.Player) error {
	query := `
		INSERT INTO players (id, team_id, name, position, jersey_number, rating,
			speed, strength, awareness, clutch_rating, injury_prone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		string(player.ID), string(player.TeamID), player.Name, player.Position, player.JerseyNumber,
		player.Rating, player.Speed, player.Strength, player.Awareness, player.ClutchRating, player.InjuryProne,
	)
	if err != nil {
		return core.NewPersistenceFailureError("player.create", fmt.Errorf("failed to create player: %w", err))
	}
	return nil
}

// CreateBatch inserts a full roster in one transaction, the way a
// season is seeded: all-or-nothing.
func (r *PlayerRepository) CreateBatch(ctx context.Context, players []core.Player) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.NewPersistenceFailureError("player.createBatch.begin", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO players (id, team_id, name, position, jersey_number, rating,
			speed, strength, awareness, clutch_rating, injury_prone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return core.NewPersistenceFailureError("player.createBatch.prepare", fmt.Errorf("failed to prepare statement: %w", err))
	}
	defer stmt.Close()

	for _, p := range players {
		if _, err := stmt.ExecContext(ctx,
			string(p.ID), string(p.TeamID), p.Name, p.Position, p.JerseyNumber,
			p.Rating, p.Speed, p.Strength, p.Awareness, p.ClutchRating, p.InjuryProne,
		); err != nil {
			return core.NewPersistenceFailureError("player.createBatch.exec", fmt.Errorf("failed to insert player %s: %w", p.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return core.NewPersistenceFailureError("player.createBatch.commit", fmt.Errorf("failed to commit: %w", err))
	}
	return nil
}
