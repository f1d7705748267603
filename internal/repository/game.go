package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gridblitz.dev/platform/internal/core"
)

type GameRepository struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = `
	id, season_id, week, game_type, home_team_id, away_team_id,
	home_score, away_score, status, is_featured, server_seed_hash,
	server_seed, client_seed, nonce, total_plays, box_score,
	broadcast_started_at, completed_at
`

func scanGame(row interface{ Scan(...any) error }) (*core.Game, error) {
	var g core.Game
	var homeScore, awayScore, nonce, totalPlays sql.NullInt64
	var serverSeed sql.NullString
	var boxScore []byte

	err := row.Scan(
		&g.ID, &g.SeasonID, &g.Week, &g.GameType, &g.HomeTeamID, &g.AwayTeamID,
		&homeScore, &awayScore, &g.Status, &g.IsFeatured, &g.ServerSeedHash,
		&serverSeed, &g.ClientSeed, &nonce, &totalPlays, &boxScore,
		&g.BroadcastStartedAt, &g.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if homeScore.Valid {
		v := int(homeScore.Int64)
		g.HomeScore = &v
	}
	if awayScore.Valid {
		v := int(awayScore.Int64)
		g.AwayScore = &v
	}
	if serverSeed.Valid {
		g.ServerSeed = &serverSeed.String
	}
	g.Nonce = int(nonce.Int64)
	g.TotalPlays = int(totalPlays.Int64)
	if len(boxScore) > 0 {
		var box core.BoxScore
		if err := json.Unmarshal(boxScore, &box); err != nil {
			return nil, fmt.Errorf("failed to unmarshal box score: %w", err)
		}
		g.BoxScore = &box
	}
	return &g, nil
}

func (r *GameRepository) GetByID(ctx context.Context, id core.GameID) (*core.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	g, err := scanGame(r.db.QueryRowContext(ctx, query, string(id)))
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("game", string(id))
	}
	if err != nil {
		return nil, core.NewPersistenceFailureError("game.get", fmt.Errorf("failed to get game: %w", err))
	}
	return g, nil
}

func (r *GameRepository) List(ctx context.Context, filter core.GameFilter) ([]core.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE 1=1`
	args := []any{}
	argNum := 1

	if filter.SeasonID != "" {
		query += fmt.Sprintf(" AND season_id = $%d", argNum)
		args = append(args, string(filter.SeasonID))
		argNum++
	}
	if filter.Week != 0 {
		query += fmt.Sprintf(" AND week = $%d", argNum)
		args = append(args, filter.Week)
		argNum++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(filter.Status))
		argNum++
	}
	query += " ORDER BY week, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.NewPersistenceFailureError("game.list", fmt.Errorf("failed to list games: %w", err))
	}
	defer rows.Close()

	var games []core.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, core.NewPersistenceFailureError("game.list.scan", fmt.Errorf("failed to scan game: %w", err))
		}
		games = append(games, *g)
	}
	return games, nil
}

func (r *GameRepository) CreateBatch(ctx context.Context, games []core.Game) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.NewPersistenceFailureError("game.createBatch.begin", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO games (id, season_id, week, game_type, home_team_id, away_team_id,
			status, is_featured, server_seed_hash, client_seed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return core.NewPersistenceFailureError("game.createBatch.prepare", fmt.Errorf("failed to prepare statement: %w", err))
	}
	defer stmt.Close()

	for _, g := range games {
		if _, err := stmt.ExecContext(ctx,
			string(g.ID), string(g.SeasonID), g.Week, string(g.GameType),
			string(g.HomeTeamID), string(g.AwayTeamID),
			string(g.Status), g.IsFeatured, g.ServerSeedHash, g.ClientSeed,
		); err != nil {
			return core.NewPersistenceFailureError("game.createBatch.exec", fmt.Errorf("failed to insert game %s: %w", g.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return core.NewPersistenceFailureError("game.createBatch.commit", fmt.Errorf("failed to commit: %w", err))
	}
	return nil
}

// TransitionStatus is a compare-and-set: it only applies if the row is
// still in expectedStatus, which is what makes a tick idempotent under
// concurrent invocation.
func (r *GameRepository) TransitionStatus(ctx context.Context, id core.GameID, expectedStatus, newStatus core.GameStatus) (bool, error) {
	query := `UPDATE games SET status = $1 WHERE id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, string(newStatus), string(id), string(expectedStatus))
	if err != nil {
		return false, core.NewPersistenceFailureError("game.transitionStatus", fmt.Errorf("failed to transition game status: %w", err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, core.NewPersistenceFailureError("game.transitionStatus.rowsAffected", err)
	}
	return n == 1, nil
}

// StartBroadcast persists the fully-simulated outcome atomically with
// the scheduled->broadcasting transition. The server seed is written
// but stays hidden from API consumers until Finalize reveals it.
func (r *GameRepository) StartBroadcast(ctx context.Context, id core.GameID, start core.BroadcastStart) (bool, error) {
	boxScore, err := json.Marshal(start.BoxScore)
	if err != nil {
		return false, core.NewPersistenceFailureError("game.startBroadcast.marshal", fmt.Errorf("failed to marshal box score: %w", err))
	}

	query := `
		UPDATE games SET
			status = $1, server_seed_hash = $2, client_seed = $3,
			broadcast_started_at = to_timestamp($4), server_seed = $5,
			home_score = $6, away_score = $7, total_plays = $8, nonce = $9, box_score = $10
		WHERE id = $11 AND status = $12
	`
	result, err := r.db.ExecContext(ctx, query,
		string(core.GameStatusBroadcasting), start.ServerSeedHash, start.ClientSeed,
		float64(start.StartedAt)/1000, start.ServerSeed,
		start.HomeScore, start.AwayScore, start.TotalPlays, start.FinalNonce, boxScore,
		string(id), string(core.GameStatusScheduled),
	)
	if err != nil {
		return false, core.NewPersistenceFailureError("game.startBroadcast", fmt.Errorf("failed to start broadcast: %w", err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, core.NewPersistenceFailureError("game.startBroadcast.rowsAffected", err)
	}
	return n == 1, nil
}

// Finalize reveals the server seed and stamps completedAt atomically
// with the broadcasting->completed transition. completedAt is a Unix
// millisecond timestamp.
func (r *GameRepository) Finalize(ctx context.Context, id core.GameID, completedAt int64) (bool, error) {
	query := `
		UPDATE games SET status = $1, completed_at = to_timestamp($2)
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		string(core.GameStatusCompleted), float64(completedAt)/1000,
		string(id), string(core.GameStatusBroadcasting),
	)
	if err != nil {
		return false, core.NewPersistenceFailureError("game.finalize", fmt.Errorf("failed to finalize game: %w", err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, core.NewPersistenceFailureError("game.finalize.rowsAffected", err)
	}
	return n == 1, nil
}
