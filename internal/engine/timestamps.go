package engine

import "gridblitz.dev/platform/internal/core"

const minPacingMs = 1200

// pacingMs computes the result-dependent pacing gap (in milliseconds)
// that separates this event's displayTimestamp from the previous one.
// The gap is a fixed value per result kind; no jitter is applied.
func pacingMs(result core.PlayResult) int64 {
	pacing := minPacingMs
	switch {
	case result.IsTouchdown:
		pacing = 3500
	case result.Turnover != nil:
		pacing = 3000
	case result.Scoring != nil:
		pacing = 2500
	case result.YardsGained >= 20:
		pacing = 2000
	case result.Type == core.EventTypeSack || (result.Penalty != nil && !result.Penalty.Declined && !result.Penalty.Offsetting):
		pacing = 1800
	}
	return int64(pacing)
}

// nextTimestamp returns the displayTimestamp (ms) for the next event
// given the previous event's timestamp and this event's play result.
func nextTimestamp(prev int64, result core.PlayResult) int64 {
	return prev + pacingMs(result)
}
