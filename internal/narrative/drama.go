package narrative

import "gridblitz.dev/platform/internal/core"

// Snapshot builds the NarrativeSnapshot attached to an event once its
// GameState is known.
func Snapshot(events []core.GameEvent, state core.GameState, momentum int) core.NarrativeSnapshot {
	scoreDiff := state.HomeScore - state.AwayScore
	absDiff := scoreDiff
	if absDiff < 0 {
		absDiff = -absDiff
	}

	clutch := (state.Quarter == core.Quarter4 || state.Quarter == core.QuarterOT) &&
		state.Clock <= 120 && absDiff <= 8

	blowout := absDiff >= 21

	comeback := comebackBrewing(events, scoreDiff)

	dramaLevel := computeDramaLevel(state, absDiff, clutch, comeback, momentum)
	if blowout && dramaLevel > 20 {
		dramaLevel = 20
	}

	var threads []string
	if clutch {
		threads = append(threads, "clutch_moment")
	}
	if comeback {
		threads = append(threads, "comeback_brewing")
	}
	if blowout {
		threads = append(threads, "blowout")
	}
	if isTwoMinuteDrill(state) {
		threads = append(threads, "two_minute_drill")
	}
	if state.BallPosition >= 80 {
		threads = append(threads, "red_zone")
	}

	return core.NarrativeSnapshot{
		ActiveThreads:           threads,
		IsClutchMoment:          clutch,
		IsComebackBrewing:       comeback,
		IsBlowout:               blowout,
		IsDominatingPerformance: isDominatingPerformance(events, blowout, scoreDiff),
		DramaLevel:              dramaLevel,
		Momentum:                momentum,
	}
}

// isDominatingPerformance fires on a blowout where the leader has been
// ahead or tied for the entire game so far, distinguishing wire-to-wire
// dominance from a blowout that only opened up late.
func isDominatingPerformance(events []core.GameEvent, blowout bool, scoreDiff int) bool {
	if !blowout || scoreDiff == 0 {
		return false
	}
	leaderIsHome := scoreDiff > 0
	for _, e := range events {
		d := e.GameState.HomeScore - e.GameState.AwayScore
		if leaderIsHome && d < 0 {
			return false
		}
		if !leaderIsHome && d > 0 {
			return false
		}
	}
	return true
}

// comebackBrewing fires when some earlier snapshot had a deficit of at
// least 14 for the side that is now within 7.
func comebackBrewing(events []core.GameEvent, currentDiff int) bool {
	absCurrent := currentDiff
	if absCurrent < 0 {
		absCurrent = -absCurrent
	}
	if absCurrent > 7 {
		return false
	}

	// At a tie either side may be the one that came back.
	for _, e := range events {
		d := e.GameState.HomeScore - e.GameState.AwayScore
		if currentDiff >= 0 && -d >= 14 {
			return true
		}
		if currentDiff <= 0 && d >= 14 {
			return true
		}
	}
	return false
}

func isTwoMinuteDrill(state core.GameState) bool {
	if state.Quarter != core.Quarter4 || state.Clock >= 120 {
		return false
	}
	trailing := (state.Possession == core.TeamSideHome && state.HomeScore < state.AwayScore) ||
		(state.Possession == core.TeamSideAway && state.AwayScore < state.HomeScore)
	return trailing
}

func computeDramaLevel(state core.GameState, absDiff int, clutch, comeback bool, momentum int) int {
	level := 20
	if clutch {
		level += 35
	}
	if comeback {
		level += 20
	}
	if absDiff <= 3 {
		level += 15
	} else if absDiff >= 21 {
		level -= 15
	}
	if state.BallPosition >= 80 {
		level += 10
	}
	absMomentum := momentum
	if absMomentum < 0 {
		absMomentum = -absMomentum
	}
	level += absMomentum / 10

	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	return level
}
