package resolver

import (
	"fmt"

	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/rng"
)

// resolveRun resolves a handoff: yardage is gaussian around a base of
// ~4 yards, modulated by the offensive line vs. defensive line rating
// gap.
func resolveRun(state core.GameState, call CallKind, offense, defense Roster, gen *rng.Generator) core.PlayResult {
	ratingGap := float64(offense.OLRating-defense.DLRating) / 100.0
	mu := 4.0 + ratingGap*3.0
	if call == CallRunOutside {
		mu += 0.5
	}
	sigma := 4.0

	yards := int(gen.Gaussian(mu, sigma, -5, 100))
	maxGain := 100 - state.BallPosition
	if yards > maxGain {
		yards = maxGain
	}

	result := core.PlayResult{
		Type:        core.EventTypeRun,
		Call:        string(call),
		YardsGained: yards,
		Rusher:      playerID(offense.RB),
		Defender:    playerID(defense.bestFront()),
	}

	applyFumble(state.Possession, &result, offense.RB, defense, gen)
	finalizeClockAndDescription(state, &result, offense, defense)
	return result
}

func (r Roster) bestFront() *core.Player {
	best := r.QB
	if best == nil {
		return nil
	}
	return best
}

func applyFumble(possession core.TeamSide, result *core.PlayResult, ballCarrier *core.Player, defense Roster, gen *rng.Generator) {
	if result.Turnover != nil || result.IsSafety {
		return
	}
	base := 0.012
	if ballCarrier != nil {
		strengthGap := float64(defense.LBRating-ballCarrier.Strength) / 200.0
		base += clampFloat(strengthGap, -0.005, 0.02)
	}
	if !gen.Probability(base) {
		return
	}

	returnYards := int(gen.Gaussian(5, 6, 0, 40))
	result.Turnover = &core.TurnoverRecord{
		Kind:        "fumble",
		RecoveredBy: flip(possession),
		ReturnYards: returnYards,
	}
	if returnYards > 60 {
		result.Turnover.ReturnedForTouchdown = true
	}
}

func flip(side core.TeamSide) core.TeamSide {
	if side == core.TeamSideHome {
		return core.TeamSideAway
	}
	return core.TeamSideHome
}

func finalizeClockAndDescription(state core.GameState, result *core.PlayResult, offense, defense Roster) {
	endPosition := state.BallPosition + result.YardsGained
	if result.Type == core.EventTypeRun || result.Type == core.EventTypePassComplete || result.Type == core.EventTypeScramble {
		if endPosition >= 100 {
			result.IsTouchdown = true
			result.Scoring = &core.ScoringRecord{Team: state.Possession, Points: 6, Kind: "touchdown"}
		}
		if endPosition <= 0 && result.Turnover == nil {
			result.IsSafety = true
			result.Scoring = &core.ScoringRecord{Team: flip(state.Possession), Points: 2, Kind: "safety"}
		}
	}

	if result.ClockElapsed == 0 {
		result.ClockElapsed = 28
	}
	result.IsFirstDown = result.YardsGained >= state.YardsToGo && result.Turnover == nil && !result.IsTouchdown

	if result.Description == "" {
		result.Description = describe(result, offense, defense)
	}
}

func describe(result *core.PlayResult, offense, defense Roster) string {
	switch result.Type {
	case core.EventTypeRun:
		name := "The running back"
		if offense.RB != nil {
			name = offense.RB.Name
		}
		return fmt.Sprintf("%s runs for %d yards.", name, result.YardsGained)
	case core.EventTypePassComplete:
		return fmt.Sprintf("Pass complete for %d yards.", result.YardsGained)
	case core.EventTypePassIncomplete:
		return "Pass incomplete."
	case core.EventTypeSack:
		return fmt.Sprintf("Quarterback sacked for a loss of %d.", -result.YardsGained)
	default:
		return "Play resolved."
	}
}
