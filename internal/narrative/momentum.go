// Package narrative derives drama flags and a momentum scalar from a
// game's append-only event history. It never mutates
// GameState; it only reads the event list built so far.
package narrative

import "gridblitz.dev/platform/internal/core"

const (
	trailingWindow  = 12
	resolverCap     = 0.03
)

// eventShift is the raw, unweighted momentum contribution of a single
// resolved play, positive meaning "toward home".
func eventShift(e core.GameEvent) float64 {
	r := e.PlayResult
	sideSign := func(side core.TeamSide) float64 {
		if side == core.TeamSideHome {
			return 1
		}
		return -1
	}

	switch {
	case r.IsTouchdown && r.Scoring != nil:
		return 30 * sideSign(r.Scoring.Team)
	case r.Scoring != nil && r.Scoring.Kind == "field_goal":
		return 15 * sideSign(r.Scoring.Team)
	case r.Scoring != nil && r.Scoring.Kind == "safety":
		return 20 * sideSign(r.Scoring.Team)
	case r.Turnover != nil:
		shift := 25.0
		if r.Turnover.ReturnedForTouchdown {
			shift *= 1.5
		}
		return shift * sideSign(r.Turnover.RecoveredBy)
	case r.Type == core.EventTypeSack:
		// In favor of the defense, i.e. against whichever side has
		// possession in the recorded state.
		return -12 * sideSign(e.GameState.Possession)
	case r.YardsGained >= 20 && r.Turnover == nil:
		shift := 8 + minFloat(float64(r.YardsGained)/5, 10)
		return shift * sideSign(e.GameState.Possession)
	case r.YardsGained >= 8:
		return 4 * sideSign(e.GameState.Possession)
	case r.YardsGained > 0:
		return 1 * sideSign(e.GameState.Possession)
	case r.Type == core.EventTypeRun && r.YardsGained < 0:
		return -5 * sideSign(e.GameState.Possession)
	case r.Type == core.EventTypePassIncomplete && r.Turnover == nil:
		return -2 * sideSign(e.GameState.Possession)
	case r.Penalty != nil && !r.Penalty.Declined && !r.Penalty.Offsetting:
		shift := minFloat(float64(r.Penalty.Yards)/3, 8)
		if r.Penalty.OnTeam == core.TeamSideHome {
			return -shift
		}
		return shift
	}

	if r.IsFirstDown {
		return 4 * sideSign(e.GameState.Possession)
	}
	return 0
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// ComputeMomentum folds the trailing window of events (most recent
// weighted toward 1.0, oldest in the window toward 0.5), applies a
// mild bias toward the leader, and clamps to [-100,100].
func ComputeMomentum(events []core.GameEvent) int {
	if len(events) == 0 {
		return 0
	}

	start := 0
	if len(events) > trailingWindow {
		start = len(events) - trailingWindow
	}
	window := events[start:]

	total := 0.0
	n := len(window)
	for i, e := range window {
		weight := 0.5
		if n > 1 {
			weight = 0.5 + 0.5*float64(i)/float64(n-1)
		}
		total += eventShift(e) * weight
	}

	last := events[len(events)-1].GameState
	scoreDiff := last.HomeScore - last.AwayScore
	bias := minFloat(absFloat(float64(scoreDiff))*0.5, 8)
	if scoreDiff < 0 {
		bias = -bias
	}
	total += bias

	if total > 100 {
		total = 100
	}
	if total < -100 {
		total = -100
	}
	return int(total)
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ModifierFor converts a momentum scalar into the bounded influence
// exposed to the resolver, capped at ±0.03.
func ModifierFor(momentum int) float64 {
	v := float64(momentum) / 100 * resolverCap
	if v > resolverCap {
		return resolverCap
	}
	if v < -resolverCap {
		return -resolverCap
	}
	return v
}
