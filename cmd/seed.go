package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gridblitz.dev/platform/internal/db"
	"gridblitz.dev/platform/internal/echo"
	"gridblitz.dev/platform/internal/repository"
	"gridblitz.dev/platform/internal/seed"
)

// SeedCmd creates the seed command group
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate league data",
		Long:  "Generate the 32 static franchises and their rosters that the season controller requires before it can create a season.",
	}
	cmd.AddCommand(SeedLeagueCmd())
	return cmd
}

// SeedLeagueCmd creates the league subcommand
func SeedLeagueCmd() *cobra.Command {
	var rngSeed string
	var rosterSize int
	cmd := &cobra.Command{
		Use:   "league",
		Short: "Generate 32 teams and their rosters",
		Long:  "Procedurally generates 32 teams (four per conference/division) and a roster of at least 26 players each, then persists them. Re-running does not fail and leaves existing rows untouched, but inserts another set of players and any teams whose IDs are new.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seedLeague(cmd, rngSeed, rosterSize)
		},
	}
	cmd.Flags().StringVar(&rngSeed, "seed", "", "RNG seed for generation (defaults to a fresh random seed)")
	cmd.Flags().IntVar(&rosterSize, "roster-size", 0, "Players per team, minimum 26 (default 28)")
	return cmd
}

func seedLeague(cmd *cobra.Command, rngSeed string, rosterSize int) error {
	echo.Header("Seeding League")
	echo.Info("Connecting to database...")

	database, err := db.Connect("")
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}
	defer database.Close()

	echo.Success("✓ Connected to database")
	echo.Info("Generating teams and rosters...")

	teams := repository.NewTeamRepository(database.DB)
	players := repository.NewPlayerRepository(database.DB)

	ctx := cmd.Context()
	result, err := seed.GenerateLeague(ctx, teams, players, seed.LeagueOptions{Seed: rngSeed, RosterSize: rosterSize})
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}

	echo.Successf("✓ Seeded %d teams and %d players", result.Teams, result.Players)
	return nil
}
