package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gridblitz.dev/platform/internal/core"
)

type StandingsRepository struct {
	db *sql.DB
}

func NewStandingsRepository(db *sql.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

const standingsColumns = `
	season_id, team_id, wins, losses, ties, division_wins, division_losses,
	conference_wins, conference_losses, points_for, points_against, streak, playoff_seed, clinched
`

func scanStandings(row interface{ Scan(...any) error }) (*core.Standings, error) {
	var s core.Standings
	var seed sql.NullInt64
	err := row.Scan(
		&s.SeasonID, &s.TeamID, &s.Wins, &s.Losses, &s.Ties, &s.DivisionWins, &s.DivisionLosses,
		&s.ConferenceWins, &s.ConferenceLosses, &s.PointsFor, &s.PointsAgainst, &s.Streak, &seed, &s.Clinched,
	)
	if err != nil {
		return nil, err
	}
	if seed.Valid {
		v := int(seed.Int64)
		s.PlayoffSeed = &v
	}
	return &s, nil
}

func (r *StandingsRepository) Get(ctx context.Context, seasonID core.SeasonID, teamID core.TeamID) (*core.Standings, error) {
	query := `SELECT ` + standingsColumns + ` FROM standings WHERE season_id = $1 AND team_id = $2`
	s, err := scanStandings(r.db.QueryRowContext(ctx, query, string(seasonID), string(teamID)))
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("standings", fmt.Sprintf("%s/%s", seasonID, teamID))
	}
	if err != nil {
		return nil, core.NewPersistenceFailureError("standings.get", fmt.Errorf("failed to get standings: %w", err))
	}
	return s, nil
}

func (r *StandingsRepository) List(ctx context.Context, seasonID core.SeasonID) ([]core.Standings, error) {
	query := `SELECT ` + standingsColumns + ` FROM standings WHERE season_id = $1
		ORDER BY wins DESC, ties DESC, points_for DESC`
	rows, err := r.db.QueryContext(ctx, query, string(seasonID))
	if err != nil {
		return nil, core.NewPersistenceFailureError("standings.list", fmt.Errorf("failed to list standings: %w", err))
	}
	defer rows.Close()

	var out []core.Standings
	for rows.Next() {
		s, err := scanStandings(rows)
		if err != nil {
			return nil, core.NewPersistenceFailureError("standings.list.scan", fmt.Errorf("failed to scan standings: %w", err))
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *StandingsRepository) InitializeForSeason(ctx context.Context, seasonID core.SeasonID, teamIDs []core.TeamID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.NewPersistenceFailureError("standings.init.begin", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO standings (season_id, team_id) VALUES ($1, $2)
		ON CONFLICT (season_id, team_id) DO NOTHING
	`)
	if err != nil {
		return core.NewPersistenceFailureError("standings.init.prepare", fmt.Errorf("failed to prepare statement: %w", err))
	}
	defer stmt.Close()

	for _, id := range teamIDs {
		if _, err := stmt.ExecContext(ctx, string(seasonID), string(id)); err != nil {
			return core.NewPersistenceFailureError("standings.init.exec", fmt.Errorf("failed to initialize standings for %s: %w", id, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return core.NewPersistenceFailureError("standings.init.commit", fmt.Errorf("failed to commit: %w", err))
	}
	return nil
}

// ApplyResult updates both teams' accumulated records after a game
// completes. Each team's streak is read from its stored row and
// advanced with nextStreak as a "W3"/"L1"-style token.
func (r *StandingsRepository) ApplyResult(ctx context.Context, result core.StandingsUpdate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.NewPersistenceFailureError("standings.applyResult.begin", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	homeWon := result.HomeScore > result.AwayScore
	tie := result.HomeScore == result.AwayScore

	if err := r.applyTeamResult(ctx, tx, result.SeasonID, result.HomeTeamID, result.HomeScore, result.AwayScore,
		homeWon, tie, result.IsDivisionGame, result.IsConferenceGame); err != nil {
		return err
	}
	awayWon := result.AwayScore > result.HomeScore
	if err := r.applyTeamResult(ctx, tx, result.SeasonID, result.AwayTeamID, result.AwayScore, result.HomeScore,
		awayWon, tie, result.IsDivisionGame, result.IsConferenceGame); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return core.NewPersistenceFailureError("standings.applyResult.commit", fmt.Errorf("failed to commit: %w", err))
	}
	return nil
}

func (r *StandingsRepository) applyTeamResult(ctx context.Context, tx *sql.Tx, seasonID core.SeasonID, teamID core.TeamID,
	pointsFor, pointsAgainst int, won, tie, divisionGame, conferenceGame bool) error {

	winDelta, lossDelta, tieDelta := 0, 0, 0
	switch {
	case tie:
		tieDelta = 1
	case won:
		winDelta = 1
	default:
		lossDelta = 1
	}

	divWinDelta, divLossDelta := 0, 0
	if divisionGame {
		if won {
			divWinDelta = 1
		} else if !tie {
			divLossDelta = 1
		}
	}
	confWinDelta, confLossDelta := 0, 0
	if conferenceGame {
		if won {
			confWinDelta = 1
		} else if !tie {
			confLossDelta = 1
		}
	}

	var currentStreak string
	err := tx.QueryRowContext(ctx, `SELECT streak FROM standings WHERE season_id = $1 AND team_id = $2`,
		string(seasonID), string(teamID)).Scan(&currentStreak)
	if err != nil {
		return core.NewPersistenceFailureError("standings.applyResult.streak", fmt.Errorf("failed to read streak for %s: %w", teamID, err))
	}
	newStreak := nextStreak(currentStreak, won, tie)

	query := `
		UPDATE standings SET
			wins = wins + $1, losses = losses + $2, ties = ties + $3,
			division_wins = division_wins + $4, division_losses = division_losses + $5,
			conference_wins = conference_wins + $6, conference_losses = conference_losses + $7,
			points_for = points_for + $8, points_against = points_against + $9, streak = $10
		WHERE season_id = $11 AND team_id = $12
	`
	if _, err := tx.ExecContext(ctx, query,
		winDelta, lossDelta, tieDelta, divWinDelta, divLossDelta, confWinDelta, confLossDelta,
		pointsFor, pointsAgainst, newStreak, string(seasonID), string(teamID),
	); err != nil {
		return core.NewPersistenceFailureError("standings.applyResult.exec", fmt.Errorf("failed to apply result for %s: %w", teamID, err))
	}
	return nil
}

// nextStreak extends a "W3"/"L1"/"T1"-style token, or starts a fresh
// one when the outcome kind changes.
func nextStreak(current string, won, tie bool) string {
	kind := byte('L')
	if tie {
		kind = 'T'
	} else if won {
		kind = 'W'
	}

	if len(current) > 1 && current[0] == kind {
		count := 0
		fmt.Sscanf(current[1:], "%d", &count)
		return fmt.Sprintf("%c%d", kind, count+1)
	}
	return fmt.Sprintf("%c1", kind)
}
