package engine

import "gridblitz.dev/platform/internal/core"

// buildBoxScore aggregates team and player totals from the final
// event log plus the drives recorded during simulation.
func buildBoxScore(events []core.GameEvent, drives []core.DriveSummary, home, away core.TeamID) core.BoxScore {
	box := core.BoxScore{Drives: drives}
	playerYards := map[core.PlayerID]int{}
	playerTDs := map[core.PlayerID]int{}
	playerCompletions := map[core.PlayerID]int{}
	playerAttempts := map[core.PlayerID]int{}
	playerReceptions := map[core.PlayerID]int{}
	playerTackles := map[core.PlayerID]int{}
	playerSacks := map[core.PlayerID]int{}
	playerInts := map[core.PlayerID]int{}
	playerPosition := map[core.PlayerID]core.Position{}

	offenseSide := func(possession core.TeamSide) *core.TeamTotals {
		if possession == core.TeamSideHome {
			return &box.HomeTotals
		}
		return &box.AwayTotals
	}
	for _, e := range events {
		r := e.PlayResult
		off := offenseSide(e.GameState.Possession)

		switch r.Type {
		case core.EventTypeRun, core.EventTypeScramble:
			off.RushingYards += max0(r.YardsGained)
			off.TotalYards += max0(r.YardsGained)
			if r.Rusher != nil {
				playerYards[*r.Rusher] += r.YardsGained
				playerPosition[*r.Rusher] = core.PositionRB
				if r.IsTouchdown {
					playerTDs[*r.Rusher]++
				}
			}
		case core.EventTypePassComplete:
			off.PassingYards += max0(r.YardsGained)
			off.TotalYards += max0(r.YardsGained)
			if r.Passer != nil {
				playerCompletions[*r.Passer]++
				playerAttempts[*r.Passer]++
				playerPosition[*r.Passer] = core.PositionQB
				if r.IsTouchdown {
					playerTDs[*r.Passer]++
				}
			}
			if r.Receiver != nil {
				playerYards[*r.Receiver] += r.YardsGained
				playerReceptions[*r.Receiver]++
				playerPosition[*r.Receiver] = core.PositionWR
			}
		case core.EventTypePassIncomplete:
			if r.Passer != nil {
				playerAttempts[*r.Passer]++
				playerPosition[*r.Passer] = core.PositionQB
			}
			if r.Turnover != nil && r.Turnover.Kind == "interception" && r.Defender != nil {
				playerInts[*r.Defender]++
				playerPosition[*r.Defender] = core.PositionCB
			}
		case core.EventTypeSack:
			off.PassingYards += r.YardsGained
			off.TotalYards += r.YardsGained
			if r.Defender != nil {
				playerSacks[*r.Defender]++
				playerPosition[*r.Defender] = core.PositionDL
			}
		}

		if r.Turnover != nil {
			off.Turnovers++
		}
		if r.Penalty != nil && !r.Penalty.Declined && !r.Penalty.Offsetting {
			var side *core.TeamTotals
			if r.Penalty.OnTeam == core.TeamSideHome {
				side = &box.HomeTotals
			} else {
				side = &box.AwayTotals
			}
			side.Penalties++
			side.PenaltyYards += r.Penalty.Yards
		}
	}

	for id, yards := range playerYards {
		box.PlayerStats = append(box.PlayerStats, core.PlayerBoxLine{
			PlayerID:      id,
			Position:      playerPosition[id],
			Yards:         yards,
			Touchdowns:    playerTDs[id],
			Receptions:    playerReceptions[id],
			Completions:   playerCompletions[id],
			Attempts:      playerAttempts[id],
			Tackles:       playerTackles[id],
			Sacks:         playerSacks[id],
			Interceptions: playerInts[id],
		})
	}

	box.MVP = determineMVP(box.PlayerStats)
	return box
}

func determineMVP(lines []core.PlayerBoxLine) core.PlayerID {
	var best core.PlayerID
	bestScore := -1
	for _, l := range lines {
		score := l.Yards + l.Touchdowns*20 + l.Interceptions*15 + l.Sacks*10
		if score > bestScore {
			bestScore = score
			best = l.PlayerID
		}
	}
	return best
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
