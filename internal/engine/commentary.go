package engine

import (
	"fmt"

	"gridblitz.dev/platform/internal/core"
)

// commentaryFor derives flavor text and an excitement score from a
// resolved play and its narrative snapshot.
func commentaryFor(result core.PlayResult, snapshot core.NarrativeSnapshot) core.Commentary {
	text := result.Description
	excitement := snapshot.DramaLevel

	switch {
	case result.IsTouchdown:
		excitement = clampInt(excitement+30, 0, 100)
		text = fmt.Sprintf("Touchdown! %s", text)
	case result.Turnover != nil:
		excitement = clampInt(excitement+20, 0, 100)
		text = fmt.Sprintf("Turnover! %s", text)
	case result.YardsGained >= 20:
		excitement = clampInt(excitement+15, 0, 100)
	}

	return core.Commentary{Text: text, Excitement: excitement}
}
