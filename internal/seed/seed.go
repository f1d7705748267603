// Package seed generates the 32 static franchises and their rosters
// that must exist before the season controller can run its first tick
// (it reads teams via core.TeamRepository.List and refuses to create a
// season with none on file). Generation is procedural and RNG-driven
// rather than loaded from a fixture file, since there is no upstream
// NFL dataset to ingest: the league itself is fictional.
package seed

import (
	"context"
	"fmt"

	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/echo"
	"gridblitz.dev/platform/internal/rng"
)

// LeagueOptions controls franchise generation. A zero value generates
// a full 32-team league keyed off a random seed.
type LeagueOptions struct {
	// Seed keys the generator; empty picks a fresh random seed.
	Seed string
	// RosterSize is players generated per team; spec requires >= 26.
	RosterSize int
}

// LeagueResult reports what GenerateLeague built.
type LeagueResult struct {
	Teams   int
	Players int
}

const defaultRosterSize = 28

var cities = []string{
	"Boston", "Hartford", "Albany", "Newark",
	"Pittsburgh", "Cleveland", "Cincinnati", "Columbus",
	"Nashville", "Memphis", "Louisville", "Birmingham",
	"Indianapolis", "Madison", "Springfield", "Peoria",
	"Denver", "Salt Lake", "Boise", "Albuquerque",
	"Portland", "Tacoma", "Spokane", "Eugene",
	"Austin", "San Antonio", "Tulsa", "Shreveport",
	"Sacramento", "Fresno", "Reno", "Bakersfield",
}

var mascots = []string{
	"Harbor", "Ironclads", "Timberwolves", "Marauders",
	"Anchors", "Foundry", "Sentinels", "Vanguard",
	"Rattlers", "Coyotes", "Outlaws", "Drifters",
	"Summit", "Glaciers", "Ridgebacks", "Thunder",
	"Comets", "Wardens", "Stags", "Mustangs",
}

var colorPairs = [][2]string{
	{"#0B3D91", "#FFFFFF"}, {"#8A1538", "#FFB81C"}, {"#002244", "#C8102E"},
	{"#003087", "#A5ACAF"}, {"#203731", "#FFB612"}, {"#4F2683", "#FFC62F"},
	{"#AA0000", "#B0B7BC"}, {"#006778", "#101820"}, {"#0076B6", "#B0B7BC"},
	{"#D50A0A", "#002244"}, {"#125740", "#FFFFFF"}, {"#582C83", "#FFFFFF"},
	{"#FF4F00", "#000000"}, {"#000000", "#C60C30"}, {"#0C2340", "#A5ACAF"},
	{"#046A38", "#A5ACAF"},
}

var playStyles = []core.PlayStyle{
	core.PlayStyleBalanced, core.PlayStylePassHeavy, core.PlayStyleRunHeavy,
	core.PlayStyleAggressive, core.PlayStyleConservative,
}

var conferences = []core.Conference{core.ConferenceAFC, core.ConferenceNFC}
var divisions = []core.Division{core.DivisionNorth, core.DivisionSouth, core.DivisionEast, core.DivisionWest}

// GenerateLeague builds 32 teams (4 per conference/division pair) and a
// roster for each, then persists them through the repository layer.
// Re-running it against a populated database does not error, because
// each repository insert is ON CONFLICT DO NOTHING, but it is not
// idempotent: players get fresh IDs every run, so a new roster is
// always inserted, and a team is skipped only when its ID (city
// letters plus index) repeats one already on file.
func GenerateLeague(ctx context.Context, teams core.TeamRepository, players core.PlayerRepository, opts LeagueOptions) (LeagueResult, error) {
	seed := opts.Seed
	if seed == "" {
		seed = core.NewID()
	}
	rosterSize := opts.RosterSize
	if rosterSize < 26 {
		rosterSize = defaultRosterSize
	}

	gen := rng.New(seed, "league-gen", 0)

	shuffledCities := rng.Shuffle(gen, cities)
	shuffledMascots := rng.Shuffle(gen, mascots)

	result := LeagueResult{}
	idx := 0
	for _, conf := range conferences {
		for _, div := range divisions {
			for slot := 0; slot < 4; slot++ {
				team := buildTeam(gen, conf, div, shuffledCities[idx], shuffledMascots[idx%len(shuffledMascots)], idx)
				if err := teams.Create(ctx, team); err != nil {
					return result, fmt.Errorf("failed to create team %s: %w", team.Abbreviation, err)
				}
				result.Teams++
				echo.Infof("Seeded team %s (%s %s, %s %s)", team.Abbreviation, team.City, team.Mascot, team.Conference, team.Division)

				roster := buildRoster(gen, team.ID, rosterSize)
				if err := players.CreateBatch(ctx, roster); err != nil {
					return result, fmt.Errorf("failed to seed roster for %s: %w", team.Abbreviation, err)
				}
				result.Players += len(roster)

				idx++
			}
		}
	}

	echo.Success(fmt.Sprintf("✓ Seeded %d teams and %d players", result.Teams, result.Players))
	return result, nil
}

func buildTeam(gen *rng.Generator, conf core.Conference, div core.Division, city, mascot string, index int) *core.Team {
	abbrev := abbreviate(city, index)
	colors := colorPairs[index%len(colorPairs)]

	return &core.Team{
		ID:             core.TeamID(abbrev),
		Abbreviation:   abbrev,
		City:           city,
		Mascot:         mascot,
		Conference:     conf,
		Division:       div,
		OffenseRating:  gen.RandomInt(55, 95),
		DefenseRating:  gen.RandomInt(55, 95),
		SpecialTeams:   gen.RandomInt(50, 95),
		PlayStyle:      playStyles[gen.RandomInt(0, len(playStyles)-1)],
		PrimaryColor:   colors[0],
		SecondaryColor: colors[1],
	}
}

// abbreviate derives a 5-char team code: the city's first three
// letters (padded with X) followed by the two-digit team index.
func abbreviate(city string, index int) string {
	letters := make([]byte, 0, 3)
	for i := 0; i < len(city) && len(letters) < 3; i++ {
		c := city[i]
		if c >= 'A' && c <= 'Z' {
			letters = append(letters, c)
		} else if c >= 'a' && c <= 'z' && len(letters) > 0 {
			letters = append(letters, c-32)
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	return fmt.Sprintf("%s%02d", string(letters), index)
}

// rosterPlan is how many players of each position a 28-man roster
// carries; positions scale proportionally for other roster sizes.
var rosterPlan = []struct {
	pos   core.Position
	count int
}{
	{core.PositionQB, 2}, {core.PositionRB, 3}, {core.PositionWR, 4},
	{core.PositionTE, 2}, {core.PositionOL, 6}, {core.PositionDL, 4},
	{core.PositionLB, 3}, {core.PositionCB, 2}, {core.PositionS, 1},
	{core.PositionK, 1},
}

func buildRoster(gen *rng.Generator, teamID core.TeamID, size int) []core.Player {
	planTotal := 0
	for _, slot := range rosterPlan {
		planTotal += slot.count
	}

	roster := make([]core.Player, 0, size)
	jersey := 1
	for _, slot := range rosterPlan {
		count := slot.count * size / planTotal
		if count < 1 {
			count = 1
		}
		for i := 0; i < count && len(roster) < size; i++ {
			roster = append(roster, buildPlayer(gen, teamID, slot.pos, jersey))
			jersey++
		}
	}
	// Fill any remainder left by integer division with punters so the
	// roster always reaches the requested size.
	for len(roster) < size {
		roster = append(roster, buildPlayer(gen, teamID, core.PositionP, jersey))
		jersey++
	}

	return roster
}

func buildPlayer(gen *rng.Generator, teamID core.TeamID, position core.Position, jersey int) core.Player {
	return core.Player{
		ID:           core.PlayerID(core.NewID()),
		TeamID:       teamID,
		Name:         randomName(gen),
		Position:     position,
		JerseyNumber: jersey,
		Rating:       gen.RandomInt(60, 99),
		Speed:        gen.RandomInt(60, 99),
		Strength:     gen.RandomInt(60, 99),
		Awareness:    gen.RandomInt(60, 99),
		ClutchRating: gen.RandomInt(60, 99),
		InjuryProne:  gen.Probability(0.08),
	}
}

var firstNames = []string{
	"Marcus", "Devin", "Jalen", "Trevor", "Cole", "Darius", "Ezra", "Grant",
	"Malik", "Spencer", "Omar", "Tristan", "Isaiah", "Wesley", "Dante", "Reid",
}

var lastNames = []string{
	"Whitfield", "Okafor", "Hargrove", "Delacroix", "Sandoval", "Petrakis",
	"Brennan", "Ualoa", "Castellanos", "Mbeki", "Kowalski", "Renner",
}

func randomName(gen *rng.Generator) string {
	first := firstNames[gen.RandomInt(0, len(firstNames)-1)]
	last := lastNames[gen.RandomInt(0, len(lastNames)-1)]
	return first + " " + last
}
