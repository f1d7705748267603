package resolver

import (
	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/rng"
)

// CallKind is the category of play chosen before resolution.
type CallKind string

const (
	CallRunInside  CallKind = "run_inside"
	CallRunOutside CallKind = "run_outside"
	CallPassShort  CallKind = "pass_short"
	CallPassMedium CallKind = "pass_medium"
	CallPassDeep   CallKind = "pass_deep"
	CallPlayActionShort CallKind = "play_action_short"
	CallPlayActionDeep  CallKind = "play_action_deep"
	CallPunt       CallKind = "punt"
	CallFieldGoal  CallKind = "field_goal"
	CallKneel      CallKind = "kneel"
	CallSpike      CallKind = "spike"
)

// MomentumModifier is the narrative package's exposed influence on
// resolution, capped at ±0.03.
type MomentumModifier float64

// SelectCall picks the offensive play call for the current down and
// distance, modulated by the offense's play style. Momentum nudges the
// distribution toward the aggressive end when positive for the
// offense's side.
func SelectCall(state core.GameState, offense Roster, gen *rng.Generator, momentum MomentumModifier) CallKind {
	if isVictoryFormation(state) {
		return CallKneel
	}
	if state.Down == 4 {
		return selectFourthDown(state, offense, gen)
	}

	passBias := 0.0
	switch offense.Team.PlayStyle {
	case core.PlayStylePassHeavy:
		passBias = 0.18
	case core.PlayStyleRunHeavy:
		passBias = -0.18
	case core.PlayStyleAggressive:
		passBias = 0.08
	case core.PlayStyleConservative:
		passBias = -0.08
	}

	if state.YardsToGo >= 7 {
		passBias += 0.20
	} else if state.YardsToGo <= 2 {
		passBias -= 0.20
	}

	trailing := (state.Possession == core.TeamSideHome && state.HomeScore < state.AwayScore) ||
		(state.Possession == core.TeamSideAway && state.AwayScore < state.HomeScore)
	twoMinuteDrill := (state.Quarter == core.Quarter2 || state.Quarter == core.Quarter4) && state.Clock < 120
	if twoMinuteDrill && trailing {
		passBias += 0.25
	}

	passBias += float64(momentum) * 2
	passProb := clampFloat(0.52+passBias, 0.15, 0.85)

	if gen.Probability(passProb) {
		return selectPassDepth(state, gen)
	}
	return selectRunDirection(gen)
}

func selectFourthDown(state core.GameState, offense Roster, gen *rng.Generator) CallKind {
	distanceToGoal := 100 - state.BallPosition
	fgDistance := distanceToGoal + 17

	trailingLate := (state.Quarter == core.Quarter4 || state.Quarter == core.QuarterOT) && state.Clock < 300
	desperate := trailingLate && isTrailing(state)

	if fgDistance <= 55 && (!desperate || fgDistance <= 38) {
		return CallFieldGoal
	}
	if state.YardsToGo <= 1 && (desperate || offense.Team.PlayStyle == core.PlayStyleAggressive) {
		if gen.Probability(0.55) {
			return selectRunDirection(gen)
		}
		return selectPassDepth(state, gen)
	}
	if state.BallPosition < 60 && !desperate {
		return CallPunt
	}
	if desperate {
		return selectPassDepth(state, gen)
	}
	return CallPunt
}

func isTrailing(state core.GameState) bool {
	if state.Possession == core.TeamSideHome {
		return state.HomeScore < state.AwayScore
	}
	return state.AwayScore < state.HomeScore
}

func isVictoryFormation(state core.GameState) bool {
	if state.Quarter != core.Quarter4 || state.Clock > 120 {
		return false
	}
	leading := (state.Possession == core.TeamSideHome && state.HomeScore > state.AwayScore) ||
		(state.Possession == core.TeamSideAway && state.AwayScore > state.HomeScore)
	return leading && state.Down == 1
}

func selectRunDirection(gen *rng.Generator) CallKind {
	if gen.Probability(0.5) {
		return CallRunInside
	}
	return CallRunOutside
}

func selectPassDepth(state core.GameState, gen *rng.Generator) CallKind {
	playAction := gen.Probability(0.18)
	var depth CallKind
	switch {
	case gen.Probability(0.45):
		depth = CallPassShort
	case gen.Probability(0.7):
		depth = CallPassMedium
	default:
		depth = CallPassDeep
	}
	if playAction {
		if depth == CallPassDeep {
			return CallPlayActionDeep
		}
		return CallPlayActionShort
	}
	return depth
}

// Resolve dispatches the selected call to its sub-resolver, then runs
// the resolved play through the penalty check (§4.3's "separate
// sub-module, same RNG").
func Resolve(state core.GameState, call CallKind, offense, defense Roster, gen *rng.Generator, momentum MomentumModifier) core.PlayResult {
	var result core.PlayResult

	switch call {
	case CallRunInside, CallRunOutside:
		result = resolveRun(state, call, offense, defense, gen)
	case CallPassShort, CallPassMedium, CallPassDeep, CallPlayActionShort, CallPlayActionDeep:
		result = resolvePass(state, call, offense, defense, gen, momentum)
	case CallPunt:
		result = resolvePunt(state, offense, gen)
	case CallFieldGoal:
		result = resolveFieldGoal(state, offense, gen)
	case CallKneel:
		result = resolveKneel(offense)
	case CallSpike:
		result = resolveSpike(offense)
	default:
		result = resolveRun(state, CallRunInside, offense, defense, gen)
	}

	return applyPenaltyCheck(state, result, offense, defense, gen)
}

func resolveKneel(offense Roster) core.PlayResult {
	return core.PlayResult{
		Type:         core.EventTypeKneel,
		Call:         string(CallKneel),
		Rusher:       playerID(offense.QB),
		ClockElapsed: 40,
		Description:  "Quarterback takes a knee.",
	}
}

func resolveSpike(offense Roster) core.PlayResult {
	return core.PlayResult{
		Type:           core.EventTypeSpike,
		Call:           string(CallSpike),
		Passer:         playerID(offense.QB),
		ClockElapsed:   3,
		IsClockStopped: true,
		Description:    "Quarterback spikes the ball to stop the clock.",
	}
}
