// Package resolver resolves a single play's outcome given game state,
// both teams' rosters, and an RNG draw stream. Every
// sub-routine here is a normal path — there are no resolver-level
// errors, only outcomes.
package resolver

import (
	"sort"

	"gridblitz.dev/platform/internal/core"
)

// Roster is the resolver's working view of one team: its identity,
// play-calling tendencies, and the specific players eligible to be
// named as participants in a play result.
type Roster struct {
	Team core.Team

	QB *core.Player
	RB *core.Player
	WR []*core.Player
	TE *core.Player
	K  *core.Player
	P  *core.Player

	OLRating int
	DLRating int
	LBRating int
	CBRating int
	SRating  int
}

// BuildRoster selects starters deterministically (best rating per
// position) and averages the ratings of each blocking/coverage group
// so the resolver has matchup numbers to modulate against.
func BuildRoster(team core.Team, players []core.Player) Roster {
	r := Roster{Team: team}
	byPosition := map[core.Position][]*core.Player{}
	for i := range players {
		p := &players[i]
		byPosition[p.Position] = append(byPosition[p.Position], p)
	}
	for _, group := range byPosition {
		sort.Slice(group, func(i, j int) bool { return group[i].Rating > group[j].Rating })
	}

	best := func(pos core.Position) *core.Player {
		g := byPosition[pos]
		if len(g) == 0 {
			return nil
		}
		return g[0]
	}

	r.QB = best(core.PositionQB)
	r.RB = best(core.PositionRB)
	r.TE = best(core.PositionTE)
	r.K = best(core.PositionK)
	r.P = best(core.PositionP)
	for _, w := range byPosition[core.PositionWR] {
		r.WR = append(r.WR, w)
	}

	avg := func(pos core.Position) int {
		g := byPosition[pos]
		if len(g) == 0 {
			return 70
		}
		sum := 0
		for _, p := range g {
			sum += p.Rating
		}
		return sum / len(g)
	}
	r.OLRating = avg(core.PositionOL)
	r.DLRating = avg(core.PositionDL)
	r.LBRating = avg(core.PositionLB)
	r.CBRating = avg(core.PositionCB)
	r.SRating = avg(core.PositionS)

	return r
}

func (r Roster) receiver() *core.Player {
	if len(r.WR) > 0 {
		return r.WR[0]
	}
	return r.TE
}

func playerID(p *core.Player) *core.PlayerID {
	if p == nil {
		return nil
	}
	id := p.ID
	return &id
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
