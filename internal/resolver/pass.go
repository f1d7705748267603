package resolver

import (
	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/rng"
)

type depthProfile struct {
	baseCompletion float64
	baseYards      float64
	sigma          float64
	sackBase       float64
	interceptBase  float64
}

func depthProfileFor(call CallKind) depthProfile {
	switch call {
	case CallPassShort, CallPlayActionShort:
		return depthProfile{baseCompletion: 0.72, baseYards: 6, sigma: 3, sackBase: 0.04, interceptBase: 0.015}
	case CallPassMedium:
		return depthProfile{baseCompletion: 0.58, baseYards: 11, sigma: 5, sackBase: 0.06, interceptBase: 0.025}
	case CallPassDeep, CallPlayActionDeep:
		return depthProfile{baseCompletion: 0.38, baseYards: 22, sigma: 9, sackBase: 0.09, interceptBase: 0.04}
	default:
		return depthProfile{baseCompletion: 0.6, baseYards: 8, sigma: 4, sackBase: 0.05, interceptBase: 0.02}
	}
}

// resolvePass resolves a drop-back: first the sack check, then the
// interception check, then completion, with yardage gaussian around a
// depth-dependent base.
func resolvePass(state core.GameState, call CallKind, offense, defense Roster, gen *rng.Generator, momentum MomentumModifier) core.PlayResult {
	profile := depthProfileFor(call)

	sackProb := clampFloat(profile.sackBase+float64(defense.DLRating-offense.OLRating)/500.0, 0.01, 0.22)
	if gen.Probability(sackProb) {
		return resolveSack(state, call, offense, defense, gen)
	}

	qbAwareness := 75
	if offense.QB != nil {
		qbAwareness = offense.QB.Awareness
	}
	coverage := (defense.CBRating + defense.SRating) / 2

	interceptProb := clampFloat(profile.interceptBase+float64(coverage-qbAwareness)/800.0-float64(momentum)*0.01, 0.005, 0.12)
	if gen.Probability(interceptProb) {
		return resolveInterception(state, call, offense, defense, gen)
	}

	completionMod := float64(qbAwareness-coverage) / 300.0
	receiverBoost := 0.0
	receiver := offense.receiver()
	if receiver != nil {
		receiverBoost = float64(receiver.Rating-70) / 400.0
	}
	completionProb := clampFloat(profile.baseCompletion+completionMod+receiverBoost, 0.2, 0.95)

	if !gen.Probability(completionProb) {
		return core.PlayResult{
			Type:         core.EventTypePassIncomplete,
			Call:         string(call),
			Passer:       playerID(offense.QB),
			Receiver:     playerID(receiver),
			Defender:     playerID(defense.bestCoverage()),
			ClockElapsed: 5,
			IsClockStopped: true,
			Description:  "Pass incomplete.",
		}
	}

	yards := int(gen.Gaussian(profile.baseYards, profile.sigma, -3, 100))
	maxGain := 100 - state.BallPosition
	if yards > maxGain {
		yards = maxGain
	}

	result := core.PlayResult{
		Type:        core.EventTypePassComplete,
		Call:        string(call),
		YardsGained: yards,
		Passer:      playerID(offense.QB),
		Receiver:    playerID(receiver),
		Defender:    playerID(defense.bestCoverage()),
	}
	applyFumble(state.Possession, &result, receiver, defense, gen)
	finalizeClockAndDescription(state, &result, offense, defense)
	return result
}

func (r Roster) bestCoverage() *core.Player {
	for _, w := range r.WR {
		return w
	}
	return nil
}

func resolveSack(state core.GameState, call CallKind, offense, defense Roster, gen *rng.Generator) core.PlayResult {
	loss := int(gen.Gaussian(6.5, 2.5, 1, 15))
	endPosition := state.BallPosition - loss
	safety := endPosition <= 0

	result := core.PlayResult{
		Type:           core.EventTypeSack,
		Call:           string(call),
		YardsGained:    -loss,
		Passer:         playerID(offense.QB),
		Defender:       playerID(defense.bestFront()),
		ClockElapsed:   6,
		IsSafety:       safety,
	}
	if safety {
		result.Scoring = &core.ScoringRecord{Team: flip(state.Possession), Points: 2, Kind: "safety"}
	}
	finalizeClockAndDescription(state, &result, offense, defense)
	return result
}

func resolveInterception(state core.GameState, call CallKind, offense, defense Roster, gen *rng.Generator) core.PlayResult {
	returnYards := int(gen.Gaussian(8, 10, 0, 60))
	returnedForTD := returnYards >= state.BallPosition

	result := core.PlayResult{
		Type:         core.EventTypePassIncomplete,
		Call:         string(call),
		Passer:       playerID(offense.QB),
		Defender:     playerID(defense.bestCoverage()),
		ClockElapsed: 6,
		Turnover: &core.TurnoverRecord{
			Kind:                 "interception",
			RecoveredBy:          flip(state.Possession),
			ReturnYards:          returnYards,
			ReturnedForTouchdown: returnedForTD,
		},
	}
	if returnedForTD {
		result.IsTouchdown = true
		result.Scoring = &core.ScoringRecord{Team: flip(state.Possession), Points: 6, Kind: "touchdown"}
	}
	result.Description = "Pass intercepted!"
	return result
}
