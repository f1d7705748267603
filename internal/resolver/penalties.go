package resolver

import (
	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/rng"
)

type penaltyTemplate struct {
	name               string
	yards              int
	onOffense          bool
	automaticFirstDown bool
}

var penaltyTemplates = []penaltyTemplate{
	{name: "Holding", yards: 10, onOffense: true},
	{name: "False Start", yards: 5, onOffense: true},
	{name: "Offensive Pass Interference", yards: 10, onOffense: true},
	{name: "Illegal Formation", yards: 5, onOffense: true},
	{name: "Defensive Pass Interference", yards: 15, onOffense: false, automaticFirstDown: true},
	{name: "Defensive Holding", yards: 5, onOffense: false, automaticFirstDown: true},
	{name: "Offside", yards: 5, onOffense: false, automaticFirstDown: false},
	{name: "Roughing the Passer", yards: 15, onOffense: false, automaticFirstDown: true},
}

const penaltyRate = 0.075

// applyPenaltyCheck is a separate sub-module sharing the same RNG
// stream: ~7.5% of non-special plays draw a single penalty, which may
// be declined or (rarely) offsetting.
func applyPenaltyCheck(state core.GameState, result core.PlayResult, offense, defense Roster, gen *rng.Generator) core.PlayResult {
	if isSpecialTeamsPlay(result.Type) {
		return result
	}
	if !gen.Probability(penaltyRate) {
		return result
	}

	idx := gen.RandomInt(0, len(penaltyTemplates)-1)
	tmpl := penaltyTemplates[idx]

	offsetting := gen.Probability(0.06)
	declined := !offsetting && wouldDeclineBenefit(result, tmpl)

	onTeam := state.Possession
	if !tmpl.onOffense {
		onTeam = flip(state.Possession)
	}

	result.Penalty = &core.PenaltyRecord{
		Name:               tmpl.name,
		OnTeam:             onTeam,
		Yards:              tmpl.yards,
		Declined:           declined,
		Offsetting:         offsetting,
		AutomaticFirstDown: tmpl.automaticFirstDown && !declined && !offsetting,
	}

	if declined || offsetting {
		return result
	}

	// Enforcement moves the ball against the offender and consumes no
	// down; half-the-distance applies when the penalty is more than half
	// the distance to the goal line.
	enforced := result
	enforced.IsFirstDown = tmpl.automaticFirstDown
	if tmpl.onOffense {
		enforced.YardsGained = -enforceAgainstOffense(state, tmpl.yards)
	} else {
		enforced.YardsGained = enforceAgainstDefense(state, tmpl.yards)
	}
	enforced.IsTouchdown = false
	enforced.IsSafety = false
	enforced.Scoring = nil
	enforced.Turnover = nil
	return enforced
}

func isSpecialTeamsPlay(t core.EventType) bool {
	switch t {
	case core.EventTypeKickoff, core.EventTypePunt, core.EventTypeFieldGoal,
		core.EventTypeExtraPoint, core.EventTypeTwoPoint, core.EventTypeTouchback:
		return true
	}
	return false
}

func wouldDeclineBenefit(result core.PlayResult, tmpl penaltyTemplate) bool {
	if tmpl.onOffense {
		return false
	}
	return result.YardsGained >= tmpl.yards || result.IsTouchdown
}

func enforceAgainstOffense(state core.GameState, yards int) int {
	distanceToOwnGoal := state.BallPosition
	if yards > distanceToOwnGoal/2 && distanceToOwnGoal < yards*2 {
		return distanceToOwnGoal / 2
	}
	return yards
}

func enforceAgainstDefense(state core.GameState, yards int) int {
	distanceToGoal := 100 - state.BallPosition
	if yards > distanceToGoal/2 && distanceToGoal < yards*2 {
		return distanceToGoal / 2
	}
	return yards
}
