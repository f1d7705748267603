package resolver

import (
	"fmt"

	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/rng"
)

// ResolveKickoff resolves the opening play of a half/after a score:
// touchback at a 62% base rate, otherwise a return clamped to [10,50].
func ResolveKickoff(receiving Roster, gen *rng.Generator) core.PlayResult {
	if gen.Probability(0.62) {
		return core.PlayResult{
			Type:        core.EventTypeTouchback,
			Call:        "kickoff",
			YardsGained: 0,
			Description: "Touchback.",
		}
	}
	returnYards := clampInt(int(gen.Gaussian(26, 8)), 10, 50)
	return core.PlayResult{
		Type:        core.EventTypeKickoff,
		Call:        "kickoff_return",
		YardsGained: returnYards,
		Rusher:      playerID(receiving.RB),
		Description: fmt.Sprintf("Kickoff returned %d yards.", returnYards),
	}
}

// fieldGoalAccuracy is a monotonically decreasing curve of distance:
// >=90% under 30, ~78% at 45, <45% at 55, 0 at >=70.
func fieldGoalAccuracy(distance, kickerRating int) float64 {
	var base float64
	switch {
	case distance < 30:
		base = 0.96
	case distance < 40:
		base = 0.90 - float64(distance-30)*0.008
	case distance <= 45:
		base = 0.82 - float64(distance-40)*0.008
	case distance < 55:
		base = 0.78 - float64(distance-45)*0.033
	case distance < 70:
		base = 0.44 - float64(distance-55)*0.029
	default:
		return 0
	}
	ratingAdj := float64(kickerRating-75) / 400.0
	return clampFloat(base+ratingAdj, 0, 0.99)
}

func resolveFieldGoal(state core.GameState, offense Roster, gen *rng.Generator) core.PlayResult {
	distance := (100 - state.BallPosition) + 17
	kickerRating := 75
	if offense.K != nil {
		kickerRating = offense.K.Rating
	}
	made := gen.Probability(fieldGoalAccuracy(distance, kickerRating))

	result := core.PlayResult{
		Type:         core.EventTypeFieldGoal,
		Call:         string(CallFieldGoal),
		ClockElapsed: 5,
		IsClockStopped: true,
	}
	if made {
		result.Scoring = &core.ScoringRecord{Team: state.Possession, Points: 3, Kind: "field_goal"}
		result.Description = fmt.Sprintf("%d-yard field goal is good.", distance)
	} else {
		result.Turnover = &core.TurnoverRecord{Kind: "downs", RecoveredBy: flip(state.Possession)}
		result.Description = fmt.Sprintf("%d-yard field goal attempt is no good.", distance)
	}
	return result
}

// ResolveExtraPoint resolves the single-point conversion attempt after
// a touchdown, 94% base success rate.
func ResolveExtraPoint(scoringTeam core.TeamSide, offense Roster, gen *rng.Generator) core.PlayResult {
	kickerRating := 75
	if offense.K != nil {
		kickerRating = offense.K.Rating
	}
	prob := clampFloat(0.94+float64(kickerRating-75)/800.0, 0.8, 0.99)
	made := gen.Probability(prob)

	result := core.PlayResult{
		Type:         core.EventTypeExtraPoint,
		Call:         "extra_point",
		ClockElapsed: 2,
		IsClockStopped: true,
	}
	if made {
		result.Scoring = &core.ScoringRecord{Team: scoringTeam, Points: 1, Kind: "extra_point"}
		result.Description = "Extra point is good."
	} else {
		result.Description = "Extra point attempt is no good."
	}
	return result
}

// ResolveTwoPointAttempt resolves a two-point conversion try, modeled
// as a short-yardage goal-to-go snap.
func ResolveTwoPointAttempt(scoringTeam core.TeamSide, offense, defense Roster, gen *rng.Generator) core.PlayResult {
	success := gen.Probability(0.48)
	result := core.PlayResult{
		Type:         core.EventTypeTwoPoint,
		Call:         "two_point",
		ClockElapsed: 4,
		IsClockStopped: true,
	}
	if success {
		result.Scoring = &core.ScoringRecord{Team: scoringTeam, Points: 2, Kind: "two_point"}
		result.Description = "Two-point conversion is good."
	} else {
		result.Description = "Two-point conversion fails."
	}
	return result
}

// resolvePunt resolves a punt: gaussian around 42 yards net of return.
func resolvePunt(state core.GameState, offense Roster, gen *rng.Generator) core.PlayResult {
	puntYards := int(gen.Gaussian(42, 6, 20, 65))
	returnYards := int(gen.Gaussian(8, 7, 0, 40))
	net := puntYards - returnYards
	maxNet := 100 - state.BallPosition - 1
	if net > maxNet {
		net = maxNet
	}
	if net < 0 {
		net = 0
	}

	return core.PlayResult{
		Type:           core.EventTypePunt,
		Call:           string(CallPunt),
		YardsGained:    net,
		Rusher:         playerID(offense.P),
		ClockElapsed:   8,
		IsClockStopped: true,
		Turnover:       &core.TurnoverRecord{Kind: "punt", RecoveredBy: flip(state.Possession)},
		Description:    fmt.Sprintf("Punts for a net of %d yards.", net),
	}
}
