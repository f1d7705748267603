// Package schedule generates the 18-week regular-season slate and, once
// standings are final, the four rounds of the playoff bracket (spec
// §4.2). Generation is deterministic given the league's master seed;
// the RNG is used only to break ties among otherwise-equivalent choices.
package schedule

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/rng"
)

const (
	RegularSeasonWeeks = 18
	GamesPerTeam       = 17
	ByeWindowStart     = 4
	ByeWindowEnd       = 14
)

type pairing struct {
	home core.TeamID
	away core.TeamID
}

// divisionKey groups teams by conference+division.
type divisionKey struct {
	conference core.Conference
	division   core.Division
}

// Generate builds the full 272-game regular-season schedule for the
// given teams (must be exactly 32, 4 per conference/division pair) and
// returns games with Week/HomeTeamID/AwayTeamID/GameType populated and
// Status set to Scheduled. IDs are assigned here so the caller can
// persist the batch directly.
func Generate(seasonID core.SeasonID, teams []core.Team, masterSeed string) ([]core.Game, error) {
	if len(teams) != 32 {
		return nil, fmt.Errorf("schedule: expected 32 teams, got %d", len(teams))
	}

	gen := rng.New(masterSeed, "schedule", 0)

	divisions := groupByDivision(teams)
	for key, members := range divisions {
		if len(members) != 4 {
			return nil, fmt.Errorf("schedule: division %s/%s has %d teams, want 4", key.conference, key.division, len(members))
		}
	}

	divisionPairings := buildDivisionPairings(divisions)
	remainingPairings, err := buildRemainingPairings(teams, divisions, gen)
	if err != nil {
		return nil, err
	}

	allPairings := append(divisionPairings, remainingPairings...)
	balanced := balanceHomeAway(teams, allPairings, gen)

	weeks, err := assignWeeks(teams, balanced, gen)
	if err != nil {
		return nil, err
	}

	games := make([]core.Game, 0, 272)
	for week, pairs := range weeks {
		for _, p := range pairs {
			games = append(games, core.Game{
				ID:         core.GameID(uuid.NewString()),
				SeasonID:   seasonID,
				Week:       week + 1,
				GameType:   core.GameTypeRegular,
				HomeTeamID: p.home,
				AwayTeamID: p.away,
				Status:     core.GameStatusScheduled,
			})
		}
	}
	return games, nil
}

func groupByDivision(teams []core.Team) map[divisionKey][]core.TeamID {
	out := map[divisionKey][]core.TeamID{}
	for _, t := range teams {
		key := divisionKey{t.Conference, t.Division}
		out[key] = append(out[key], t.ID)
	}
	return out
}

// buildDivisionPairings gives every team a home+away game against each
// of its three division rivals: 6 games per team, 96 games total.
func buildDivisionPairings(divisions map[divisionKey][]core.TeamID) []pairing {
	var out []pairing
	keys := make([]divisionKey, 0, len(divisions))
	for k := range divisions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].conference != keys[j].conference {
			return keys[i].conference < keys[j].conference
		}
		return keys[i].division < keys[j].division
	})

	for _, key := range keys {
		members := divisions[key]
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				out = append(out, pairing{home: members[i], away: members[j]})
				out = append(out, pairing{home: members[j], away: members[i]})
			}
		}
	}
	return out
}

// buildRemainingPairings fills out the 11 non-division games per team
// (176 games total) with a randomized-greedy regular-graph
// construction. Teams still short after the greedy pass are paired with
// one another where possible; no pairing already chosen is undone, so a
// team can end the pass short. Division rematches are excluded.
func buildRemainingPairings(teams []core.Team, divisions map[divisionKey][]core.TeamID, gen *rng.Generator) ([]pairing, error) {
	const remainingPerTeam = GamesPerTeam - 6

	divisionOf := map[core.TeamID]divisionKey{}
	for key, members := range divisions {
		for _, id := range members {
			divisionOf[id] = key
		}
	}

	ids := make([]core.TeamID, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}

	type candidate struct{ a, b core.TeamID }
	var candidates []candidate
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if divisionOf[ids[i]] == divisionOf[ids[j]] {
				continue
			}
			candidates = append(candidates, candidate{ids[i], ids[j]})
		}
	}
	candidates = rng.Shuffle(gen, candidates)

	degree := map[core.TeamID]int{}
	connected := map[core.TeamID]map[core.TeamID]bool{}
	for _, id := range ids {
		connected[id] = map[core.TeamID]bool{}
	}

	var selected []candidate
	tryAdd := func(a, b core.TeamID) bool {
		if a == b || connected[a][b] || degree[a] >= remainingPerTeam || degree[b] >= remainingPerTeam {
			return false
		}
		connected[a][b] = true
		connected[b][a] = true
		degree[a]++
		degree[b]++
		selected = append(selected, candidate{a, b})
		return true
	}

	for _, c := range candidates {
		tryAdd(c.a, c.b)
	}

	// Repair pass: connect any teams still short of remainingPerTeam,
	// capped so a pathological seed cannot loop forever within tick's
	// time budget.
	for attempt := 0; attempt < 5000; attempt++ {
		var deficient []core.TeamID
		for _, id := range ids {
			if degree[id] < remainingPerTeam {
				deficient = append(deficient, id)
			}
		}
		if len(deficient) == 0 {
			break
		}
		progressed := false
		for i := 0; i < len(deficient) && !progressed; i++ {
			for j := i + 1; j < len(deficient); j++ {
				if tryAdd(deficient[i], deficient[j]) {
					progressed = true
					break
				}
			}
		}
		if !progressed {
			break
		}
	}

	var out []pairing
	for _, c := range selected {
		out = append(out, pairing{home: c.a, away: c.b})
	}
	return out, nil
}

// balanceHomeAway assigns which side of each remaining (non-division)
// pairing is home, nudging every team toward 8 or 9 home games.
func balanceHomeAway(teams []core.Team, pairings []pairing, gen *rng.Generator) []pairing {
	homeCount := map[core.TeamID]int{}
	targetHome := map[core.TeamID]int{}
	for i, t := range teams {
		if i%2 == 0 {
			targetHome[t.ID] = 9
		} else {
			targetHome[t.ID] = 8
		}
	}

	out := make([]pairing, len(pairings))
	for i, p := range pairings {
		a, b := p.home, p.away
		homeIsA := homeCount[a] < targetHome[a] || (homeCount[b] >= targetHome[b] && gen.Probability(0.5))
		if homeIsA {
			out[i] = pairing{home: a, away: b}
			homeCount[a]++
		} else {
			out[i] = pairing{home: b, away: a}
			homeCount[b]++
		}
	}
	return out
}

// assignWeeks distributes byes across weeks 4-14 and places every
// pairing into a week such that no team appears twice in the same
// week. The first pass keeps every team out of its bye week; the
// fallback pass below may place a leftover pairing in a bye week.
func assignWeeks(teams []core.Team, pairings []pairing, gen *rng.Generator) ([][]pairing, error) {
	ids := make([]core.TeamID, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	shuffledIDs := rng.Shuffle(gen, ids)

	byeWeek := map[core.TeamID]int{}
	byeWindow := ByeWindowEnd - ByeWindowStart + 1
	for i, id := range shuffledIDs {
		byeWeek[id] = ByeWindowStart + (i % byeWindow)
	}

	weeks := make([][]pairing, RegularSeasonWeeks)
	scheduledThisWeek := make([]map[core.TeamID]bool, RegularSeasonWeeks)
	for w := range scheduledThisWeek {
		scheduledThisWeek[w] = map[core.TeamID]bool{}
	}

	pending := rng.Shuffle(gen, pairings)
	var unplaced []pairing

	for _, p := range pending {
		placed := false
		for w := 0; w < RegularSeasonWeeks; w++ {
			weekNumber := w + 1
			if byeWeek[p.home] == weekNumber || byeWeek[p.away] == weekNumber {
				continue
			}
			if scheduledThisWeek[w][p.home] || scheduledThisWeek[w][p.away] {
				continue
			}
			weeks[w] = append(weeks[w], p)
			scheduledThisWeek[w][p.home] = true
			scheduledThisWeek[w][p.away] = true
			placed = true
			break
		}
		if !placed {
			unplaced = append(unplaced, p)
		}
	}

	// Fallback pass for any pairing the first pass couldn't place
	// (can happen near the tail of a greedy fill); scan every week
	// again, now allowed to bump the bye-window restriction if truly
	// stuck, which keeps generation total rather than perfect.
	for _, p := range unplaced {
		placed := false
		for w := 0; w < RegularSeasonWeeks; w++ {
			if scheduledThisWeek[w][p.home] || scheduledThisWeek[w][p.away] {
				continue
			}
			weeks[w] = append(weeks[w], p)
			scheduledThisWeek[w][p.home] = true
			scheduledThisWeek[w][p.away] = true
			placed = true
			break
		}
		if !placed {
			return nil, fmt.Errorf("schedule: could not place game %s @ %s into any week", p.away, p.home)
		}
	}

	return weeks, nil
}
