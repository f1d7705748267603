// Package repository implements core's repository interfaces against
// Postgres using plain database/sql: manual queries, no query builder
// or ORM.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gridblitz.dev/platform/internal/core"
)

type TeamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, id core.TeamID) (*core.Team, error) {
	query := `
		SELECT id, abbreviation, city, mascot, conference, division,
			offense_rating, defense_rating, special_teams, play_style,
			primary_color, secondary_color
		FROM teams WHERE id = $1
	`

	var t core.Team
	err := r.db.QueryRowContext(ctx, query, string(id)).Scan(
		&t.ID, &t.Abbreviation, &t.City, &t.Mascot, &t.Conference, &t.Division,
		&t.OffenseRating, &t.DefenseRating, &t.SpecialTeams, &t.PlayStyle,
		&t.PrimaryColor, &t.SecondaryColor,
	)
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("team", string(id))
	}
	if err != nil {
		return nil, core.NewPersistenceFailureError("team.get", fmt.Errorf("failed to get team: %w", err))
	}
	return &t, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]core.Team, error) {
	query := `
		SELECT id, abbreviation, city, mascot, conference, division,
			offense_rating, defense_rating, special_teams, play_style,
			primary_color, secondary_color
		FROM teams ORDER BY conference, division, abbreviation
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, core.NewPersistenceFailureError("team.list", fmt.Errorf("failed to list teams: %w", err))
	}
	defer rows.Close()

	var teams []core.Team
	for rows.Next() {
		var t core.Team
		if err := rows.Scan(
			&t.ID, &t.Abbreviation, &t.City, &t.Mascot, &t.Conference, &t.Division,
			&t.OffenseRating, &t.DefenseRating, &t.SpecialTeams, &t.PlayStyle,
			&t.PrimaryColor, &t.SecondaryColor,
		); err != nil {
			return nil, core.NewPersistenceFailureError("team.list.scan", fmt.Errorf("failed to scan team: %w", err))
		}
		teams = append(teams, t)
	}
	return teams, nil
}

func (r *TeamRepository) Create(ctx context.Context, team *core.Team) error {
	query := `
		INSERT INTO teams (id, abbreviation, city, mascot, conference, division,
			offense_rating, defense_rating, special_teams, play_style,
			primary_color, secondary_color)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		string(team.ID), team.Abbreviation, team.City, team.Mascot, team.Conference, team.Division,
		team.OffenseRating, team.DefenseRating, team.SpecialTeams, team.PlayStyle,
		team.PrimaryColor, team.SecondaryColor,
	)
	if err != nil {
		return core.NewPersistenceFailureError("team.create", fmt.Errorf("failed to create team: %w", err))
	}
	return nil
}
