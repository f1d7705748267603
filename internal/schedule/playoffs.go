package schedule

import (
	"sort"

	"github.com/google/uuid"
	"gridblitz.dev/platform/internal/core"
)

// Seed is a conference's resolved playoff seeding (1 through 7).
type Seed struct {
	TeamID core.TeamID
	Seed   int
}

// SeedConference ranks a conference's 16 teams into the standard NFL
// bracket: the four division winners take seeds 1-4 (by record, then
// point differential), the three best remaining records take wildcard
// seeds 5-7.
func SeedConference(standings []core.Standings, teams map[core.TeamID]core.Team, conference core.Conference) []Seed {
	type ranked struct {
		teamID core.TeamID
		pct    float64
		diff   int
		divWinner bool
	}

	divisionBest := map[core.Division]ranked{}
	var all []ranked
	for _, s := range standings {
		team, ok := teams[s.TeamID]
		if !ok || team.Conference != conference {
			continue
		}
		games := s.Wins + s.Losses + s.Ties
		pct := 0.0
		if games > 0 {
			pct = (float64(s.Wins) + 0.5*float64(s.Ties)) / float64(games)
		}
		r := ranked{teamID: s.TeamID, pct: pct, diff: s.PointsFor - s.PointsAgainst}
		all = append(all, r)

		best, exists := divisionBest[team.Division]
		if !exists || r.pct > best.pct || (r.pct == best.pct && r.diff > best.diff) {
			divisionBest[team.Division] = r
		}
	}

	var winners []ranked
	for _, r := range divisionBest {
		r.divWinner = true
		winners = append(winners, r)
	}
	sort.Slice(winners, func(i, j int) bool {
		if winners[i].pct != winners[j].pct {
			return winners[i].pct > winners[j].pct
		}
		return winners[i].diff > winners[j].diff
	})

	winnerSet := map[core.TeamID]bool{}
	for _, w := range winners {
		winnerSet[w.teamID] = true
	}

	var wildcards []ranked
	for _, r := range all {
		if !winnerSet[r.teamID] {
			wildcards = append(wildcards, r)
		}
	}
	sort.Slice(wildcards, func(i, j int) bool {
		if wildcards[i].pct != wildcards[j].pct {
			return wildcards[i].pct > wildcards[j].pct
		}
		return wildcards[i].diff > wildcards[j].diff
	})

	var seeds []Seed
	for i, w := range winners {
		if i >= 4 {
			break
		}
		seeds = append(seeds, Seed{TeamID: w.teamID, Seed: i + 1})
	}
	for i, w := range wildcards {
		if i >= 3 {
			break
		}
		seeds = append(seeds, Seed{TeamID: w.teamID, Seed: 5 + i})
	}
	return seeds
}

func teamIDBySeed(seeds []Seed, n int) core.TeamID {
	for _, s := range seeds {
		if s.Seed == n {
			return s.TeamID
		}
	}
	return ""
}

// GenerateWildCardRound pairs seeds 2v7, 3v6, 4v5 in each conference;
// the 1-seed has a bye and does not appear. Higher seed is always home.
func GenerateWildCardRound(seasonID core.SeasonID, week int, afcSeeds, nfcSeeds []Seed) []core.Game {
	var games []core.Game
	for _, seeds := range [][]Seed{afcSeeds, nfcSeeds} {
		pairs := [][2]int{{2, 7}, {3, 6}, {4, 5}}
		for _, p := range pairs {
			games = append(games, core.Game{
				ID:         core.GameID(uuid.NewString()),
				SeasonID:   seasonID,
				Week:       week,
				GameType:   core.GameTypeWildCard,
				HomeTeamID: teamIDBySeed(seeds, p[0]),
				AwayTeamID: teamIDBySeed(seeds, p[1]),
				Status:     core.GameStatusScheduled,
			})
		}
	}
	return games
}

// ReSeed drops an eliminated team's seed out of the surviving list and
// compacts remaining seeds without changing their relative order,
// matching the NFL's re-seeding rule round over round.
func ReSeed(seeds []Seed, eliminated map[core.TeamID]bool) []Seed {
	var survivors []Seed
	for _, s := range seeds {
		if !eliminated[s.TeamID] {
			survivors = append(survivors, s)
		}
	}
	sort.Slice(survivors, func(i, j int) bool { return survivors[i].Seed < survivors[j].Seed })
	return survivors
}

// GenerateDivisionalRound re-seeds survivors (the 1-seed plus the three
// wild-card-round winners) and pairs 1-vs-lowest, then the remaining
// two against each other. Higher seed is always home.
func GenerateDivisionalRound(seasonID core.SeasonID, week int, afcSurvivors, nfcSurvivors []Seed) []core.Game {
	var games []core.Game
	for _, seeds := range [][]Seed{afcSurvivors, nfcSurvivors} {
		if len(seeds) != 4 {
			continue
		}
		sort.Slice(seeds, func(i, j int) bool { return seeds[i].Seed < seeds[j].Seed })
		games = append(games,
			core.Game{
				ID: core.GameID(uuid.NewString()), SeasonID: seasonID, Week: week,
				GameType: core.GameTypeDivisional, HomeTeamID: seeds[0].TeamID, AwayTeamID: seeds[3].TeamID,
				Status: core.GameStatusScheduled,
			},
			core.Game{
				ID: core.GameID(uuid.NewString()), SeasonID: seasonID, Week: week,
				GameType: core.GameTypeDivisional, HomeTeamID: seeds[1].TeamID, AwayTeamID: seeds[2].TeamID,
				Status: core.GameStatusScheduled,
			},
		)
	}
	return games
}

// GenerateConferenceChampionship pairs the two divisional-round winners
// per conference, higher seed at home.
func GenerateConferenceChampionship(seasonID core.SeasonID, week int, afcSurvivors, nfcSurvivors []Seed) []core.Game {
	var games []core.Game
	for _, seeds := range [][]Seed{afcSurvivors, nfcSurvivors} {
		if len(seeds) != 2 {
			continue
		}
		sort.Slice(seeds, func(i, j int) bool { return seeds[i].Seed < seeds[j].Seed })
		games = append(games, core.Game{
			ID: core.GameID(uuid.NewString()), SeasonID: seasonID, Week: week,
			GameType: core.GameTypeConferenceChampionship, HomeTeamID: seeds[0].TeamID, AwayTeamID: seeds[1].TeamID,
			Status: core.GameStatusScheduled,
		})
	}
	return games
}

// GenerateSuperBowl pairs the AFC and NFC champions on a neutral field;
// home/away is nominal only (no home-field advantage is modeled).
func GenerateSuperBowl(seasonID core.SeasonID, week int, afcChampion, nfcChampion core.TeamID) core.Game {
	return core.Game{
		ID: core.GameID(uuid.NewString()), SeasonID: seasonID, Week: week,
		GameType: core.GameTypeSuperBowl, HomeTeamID: afcChampion, AwayTeamID: nfcChampion,
		Status: core.GameStatusScheduled,
	}
}
