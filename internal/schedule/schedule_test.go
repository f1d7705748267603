package schedule

import (
	"testing"

	"gridblitz.dev/platform/internal/core"
)

func sampleTeams() []core.Team {
	conferences := []core.Conference{core.ConferenceAFC, core.ConferenceNFC}
	divisions := []core.Division{core.DivisionNorth, core.DivisionSouth, core.DivisionEast, core.DivisionWest}
	var teams []core.Team
	n := 0
	for _, conf := range conferences {
		for _, div := range divisions {
			for i := 0; i < 4; i++ {
				n++
				teams = append(teams, core.Team{
					ID:            core.TeamID(uuidLike(n)),
					Abbreviation:  uuidLike(n),
					Conference:    conf,
					Division:      div,
					OffenseRating: 70,
					DefenseRating: 70,
					SpecialTeams:  70,
				})
			}
		}
	}
	return teams
}

func uuidLike(n int) string {
	return "team-" + string(rune('A'+n%26)) + string(rune('0'+n/26))
}

func TestGenerateProducesFullSchedule(t *testing.T) {
	teams := sampleTeams()
	games, err := Generate("season-1", teams, "deterministic-master-seed")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(games) != 272 {
		t.Fatalf("expected 272 games, got %d", len(games))
	}

	gamesPerTeam := map[core.TeamID]int{}
	weeksSeen := map[core.TeamID]map[int]bool{}
	for _, t := range teams {
		weeksSeen[t.ID] = map[int]bool{}
	}
	for _, g := range games {
		if g.Week < 1 || g.Week > RegularSeasonWeeks {
			t.Fatalf("game week out of range: %d", g.Week)
		}
		if weeksSeen[g.HomeTeamID][g.Week] || weeksSeen[g.AwayTeamID][g.Week] {
			t.Fatalf("team double-booked in week %d", g.Week)
		}
		weeksSeen[g.HomeTeamID][g.Week] = true
		weeksSeen[g.AwayTeamID][g.Week] = true
		gamesPerTeam[g.HomeTeamID]++
		gamesPerTeam[g.AwayTeamID]++
	}

	for _, team := range teams {
		if gamesPerTeam[team.ID] != GamesPerTeam {
			t.Fatalf("team %s played %d games, want %d", team.ID, gamesPerTeam[team.ID], GamesPerTeam)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	teams := sampleTeams()
	a, err := Generate("season-1", teams, "fixed-seed")
	if err != nil {
		t.Fatalf("first generation failed: %v", err)
	}
	b, err := Generate("season-1", teams, "fixed-seed")
	if err != nil {
		t.Fatalf("second generation failed: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("game counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].HomeTeamID != b[i].HomeTeamID || a[i].AwayTeamID != b[i].AwayTeamID || a[i].Week != b[i].Week {
			t.Fatalf("game %d differs between runs", i)
		}
	}
}
