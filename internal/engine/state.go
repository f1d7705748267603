// Package engine owns GameState and the play-by-play loop that drives
// it to completion: clock, downs, drives, overtime, special teams, and
// penalties.
package engine

import "gridblitz.dev/platform/internal/core"

const (
	regulationQuarterSeconds = 900
	overtimeSeconds          = 600
	twoMinuteThreshold       = 120
)

// NewInitialState returns the state immediately after the opening
// coin toss, before the opening kickoff has been resolved.
func NewInitialState(receivingSide core.TeamSide) core.GameState {
	return core.GameState{
		Quarter:        core.Quarter1,
		Clock:          regulationQuarterSeconds,
		PlayClock:      40,
		Possession:     receivingSide,
		Down:           1,
		YardsToGo:      10,
		BallPosition:   25,
		HomeTimeouts:   3,
		AwayTimeouts:   3,
		IsClockRunning: true,
		IsKickoff:      true,
	}
}

// AdvanceClock applies clockElapsed seconds to the state, firing the
// one-shot two-minute warning when the clock first crosses below 120 s
// in Q2 or Q4, and handling quarter transitions. isPlayoff
// controls whether an overtime period that ends tied is followed by
// another overtime period or ends the game in a tie.
func AdvanceClock(state *core.GameState, clockElapsed int, isPlayoff bool) {
	prev := state.Clock
	state.Clock -= clockElapsed
	if state.Clock < 0 {
		state.Clock = 0
	}

	if prev > twoMinuteThreshold && state.Clock <= twoMinuteThreshold {
		switch state.Quarter {
		case core.Quarter2:
			if !state.TwoMinuteWarningQ2 {
				state.TwoMinuteWarningQ2 = true
				state.IsClockRunning = false
			}
		case core.Quarter4:
			if !state.TwoMinuteWarningQ4 {
				state.TwoMinuteWarningQ4 = true
				state.IsClockRunning = false
			}
		}
	}

	if state.Clock <= 0 {
		transitionQuarter(state, isPlayoff)
	}
}

func transitionQuarter(state *core.GameState, isPlayoff bool) {
	switch state.Quarter {
	case core.Quarter1:
		state.Quarter = core.Quarter2
		state.Clock = regulationQuarterSeconds
	case core.Quarter2:
		state.Quarter = core.Quarter3
		state.Clock = regulationQuarterSeconds
		state.IsHalftime = true
		state.HomeTimeouts = 3
		state.AwayTimeouts = 3
	case core.Quarter3:
		state.Quarter = core.Quarter4
		state.Clock = regulationQuarterSeconds
	case core.Quarter4:
		if state.HomeScore == state.AwayScore {
			state.Quarter = core.QuarterOT
			state.Clock = overtimeSeconds
			state.HomeTimeouts = 2
			state.AwayTimeouts = 2
			state.HomePossessedOT = false
			state.AwayPossessedOT = false
		} else {
			state.IsGameOver = true
		}
	case core.QuarterOT:
		if state.HomeScore == state.AwayScore {
			if isPlayoff {
				state.Clock = overtimeSeconds
				state.HomePossessedOT = false
				state.AwayPossessedOT = false
			} else {
				state.IsGameOver = true
			}
		} else {
			state.IsGameOver = true
		}
	}
}

// RecordPossession marks that side's overtime possession as
// completed (its drive ended in a score, turnover, turnover-on-downs,
// or punt) so the sudden-death check requires both sides to have had
// their shot before a score can end the game. result describes how
// the drive ended and is kept as FirstPossessionResult the first time
// either side's OT drive concludes.
func RecordPossession(state *core.GameState, side core.TeamSide, result string) {
	if state.Quarter != core.QuarterOT {
		return
	}
	if state.FirstPossessionResult == "" {
		state.FirstPossessionResult = result
	}
	if side == core.TeamSideHome {
		state.HomePossessedOT = true
	} else {
		state.AwayPossessedOT = true
	}
}

func flip(side core.TeamSide) core.TeamSide {
	if side == core.TeamSideHome {
		return core.TeamSideAway
	}
	return core.TeamSideHome
}
