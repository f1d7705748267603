package engine

import (
	"fmt"

	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/narrative"
	"gridblitz.dev/platform/internal/resolver"
	"gridblitz.dev/platform/internal/rng"
)

const (
	minTotalPlays = 100
	maxTotalPlays = 250
)

// Config carries everything Simulate needs to run one game end to end.
type Config struct {
	HomeTeam   core.Team
	AwayTeam   core.Team
	HomeRoster []core.Player
	AwayRoster []core.Player
	ServerSeed string
	ClientSeed string
	StartNonce int
	IsPlayoff  bool
}

// SimulatedGame is the full output of one Simulate call: the complete
// event log, final state, and derived box score.
type SimulatedGame struct {
	Events     []core.GameEvent
	FinalState core.GameState
	TotalPlays int
	FinalNonce int
	BoxScore   core.BoxScore
}

type sides struct {
	home core.TeamID
	away core.TeamID
}

// Simulate drives one game from opening kickoff to final whistle.
// Identical (serverSeed, clientSeed) reproduces the event sequence
// byte-exactly, since the generator's nonce is the only state that
// advances.
func Simulate(cfg Config) SimulatedGame {
	gen := rng.New(cfg.ServerSeed, cfg.ClientSeed, cfg.StartNonce)
	home := resolver.BuildRoster(cfg.HomeTeam, cfg.HomeRoster)
	away := resolver.BuildRoster(cfg.AwayTeam, cfg.AwayRoster)
	teamIDs := sides{home: cfg.HomeTeam.ID, away: cfg.AwayTeam.ID}

	receiving := core.TeamSideAway
	if gen.Probability(0.5) {
		receiving = core.TeamSideHome
	}
	state := NewInitialState(receiving)

	var events []core.GameEvent
	var drives []core.DriveSummary
	var ts int64
	driveStart := state.BallPosition
	drivePlays := 0
	driveYards := 0

	appendEvent := func(result core.PlayResult) {
		momentum := narrative.ComputeMomentum(events)
		snapshot := narrative.Snapshot(events, state, momentum)
		events = append(events, core.GameEvent{
			GameID:           "",
			EventNumber:      len(events) + 1,
			EventType:        result.Type,
			PlayResult:       result,
			Commentary:       commentaryFor(result, snapshot),
			GameState:        state,
			NarrativeContext: &snapshot,
			DisplayTimestamp: ts,
		})
		ts = nextTimestamp(ts, result)
	}

	endDrive := func(resultDesc string, possession core.TeamSide) {
		if drivePlays == 0 {
			return
		}
		RecordPossession(&state, possession, resultDesc)
		drives = append(drives, core.DriveSummary{
			Possession: possession,
			StartedAt:  driveStart,
			Plays:      drivePlays,
			Yards:      driveYards,
			Result:     resultDesc,
		})
		drivePlays = 0
		driveYards = 0
	}

	for !state.IsGameOver && len(events) < maxTotalPlays {
		var result core.PlayResult

		if state.IsKickoff {
			receivingRoster := rosterFor(state.Possession, home, away)
			result = resolver.ResolveKickoff(receivingRoster, gen)
			state.IsKickoff = false
			applyKickoffResult(&state, result)
			driveStart = state.BallPosition
			drivePlays, driveYards = 0, 0
			appendEvent(result)
			continue
		}

		momentum := narrative.ComputeMomentum(events)
		// Momentum is home-positive; the resolver reads it from the offense's side.
		modifier := resolver.MomentumModifier(narrative.ModifierFor(momentum))
		if state.Possession == core.TeamSideAway {
			modifier = -modifier
		}
		offense, defense := rostersFor(state.Possession, home, away)
		call := resolver.SelectCall(state, offense, gen, modifier)
		result = resolver.Resolve(state, call, offense, defense, gen, modifier)

		priorPossession := state.Possession
		changedPossession := applyPlayResult(&state, teamIDs, result)
		drivePlays++
		driveYards += result.YardsGained

		if changedPossession {
			reason := "punt"
			switch {
			case result.Turnover != nil && result.Turnover.Kind == "interception":
				reason = "interception"
			case result.Turnover != nil && result.Turnover.Kind == "fumble":
				reason = "fumble"
			case result.Turnover != nil && result.Turnover.Kind == "downs":
				reason = "turnover_on_downs"
			}
			endDrive(reason, priorPossession)
			driveStart = state.BallPosition
		}

		AdvanceClock(&state, result.ClockElapsed, cfg.IsPlayoff)
		appendEvent(result)

		if result.IsTouchdown {
			endDrive("touchdown", priorPossession)
			scoringTeam := priorPossession
			if result.Scoring != nil {
				scoringTeam = result.Scoring.Team
			}
			patOffense, patDefense := rostersFor(scoringTeam, home, away)
			var patResult core.PlayResult
			if shouldGoForTwo(state, scoringTeam) {
				patResult = resolver.ResolveTwoPointAttempt(scoringTeam, patOffense, patDefense, gen)
			} else {
				patResult = resolver.ResolveExtraPoint(scoringTeam, patOffense, gen)
			}
			applyScoring(&state, teamIDs, patResult.Scoring)
			appendEvent(patResult)

			state.Possession = flip(scoringTeam)
			state.IsKickoff = true
			state.BallPosition = 25
			state.Down = 1
			state.YardsToGo = 10
		} else if result.IsSafety {
			endDrive("safety", priorPossession)
			conceding := priorPossession
			scoringTeam := flip(conceding)
			state.Possession = scoringTeam
			state.IsKickoff = true
			state.BallPosition = 25
			state.Down = 1
			state.YardsToGo = 10
		}

		if isOvertimeSuddenDeathOver(state) {
			state.IsGameOver = true
		}

		if !state.IsClockRunning && !result.IsClockStopped {
			state.IsClockRunning = true
		}
	}

	endDrive("end_of_game", state.Possession)

	totalPlays := len(events)
	if totalPlays < minTotalPlays {
		totalPlays = minTotalPlays
	}

	box := buildBoxScore(events, drives, teamIDs.home, teamIDs.away)
	box.HomeTotals.TimeOfPossession = estimateTimeOfPossession(events, core.TeamSideHome)
	box.AwayTotals.TimeOfPossession = estimateTimeOfPossession(events, core.TeamSideAway)
	box.ScoringPlays = scoringPlaysFrom(events)

	return SimulatedGame{
		Events:     events,
		FinalState: state,
		TotalPlays: totalPlays,
		FinalNonce: gen.Nonce(),
		BoxScore:   box,
	}
}

func rosterFor(side core.TeamSide, home, away resolver.Roster) resolver.Roster {
	if side == core.TeamSideHome {
		return home
	}
	return away
}

func rostersFor(possession core.TeamSide, home, away resolver.Roster) (offense, defense resolver.Roster) {
	if possession == core.TeamSideHome {
		return home, away
	}
	return away, home
}

func applyKickoffResult(state *core.GameState, result core.PlayResult) {
	pos := 25 + result.YardsGained
	state.BallPosition = clampInt(pos, 1, 99)
	state.Down = 1
	state.YardsToGo = 10
	state.IsClockRunning = true
}

// applyPlayResult mutates state in place for a resolved scrimmage play
// and reports whether possession changed hands.
func applyPlayResult(state *core.GameState, teamIDs sides, result core.PlayResult) bool {
	changedPossession := false

	if result.Turnover != nil {
		spot := clampInt(state.BallPosition+result.YardsGained, 0, 100)
		newPos := 100 - spot
		if result.Turnover.Kind == "interception" || result.Turnover.Kind == "fumble" {
			newPos = clampInt(newPos+result.Turnover.ReturnYards, 0, 100)
		}
		if result.Turnover.ReturnedForTouchdown {
			newPos = 100
		}
		state.Possession = result.Turnover.RecoveredBy
		state.BallPosition = newPos
		state.Down = 1
		state.YardsToGo = 10
		changedPossession = true
	} else {
		newPos := clampInt(state.BallPosition+result.YardsGained, 0, 100)
		state.BallPosition = newPos

		switch {
		case result.IsTouchdown, result.IsSafety:
			// Scoring ends the down sequence; possession is reset by
			// the caller after the PAT/free-kick.
		case result.IsFirstDown:
			state.Down = 1
			state.YardsToGo = minInt(10, 100-newPos)
			if state.YardsToGo <= 0 {
				state.YardsToGo = 1
			}
		default:
			// An enforced penalty moves the ball but replays the down.
			if result.Penalty == nil || result.Penalty.Declined || result.Penalty.Offsetting {
				state.Down++
			}
			remaining := state.YardsToGo - result.YardsGained
			if remaining < 1 {
				remaining = 1
			}
			state.YardsToGo = remaining
			if state.Down > 4 {
				state.Possession = flip(state.Possession)
				state.BallPosition = 100 - newPos
				state.Down = 1
				state.YardsToGo = 10
				changedPossession = true
			}
		}
	}

	applyScoring(state, teamIDs, result.Scoring)
	return changedPossession
}

func applyScoring(state *core.GameState, teamIDs sides, scoring *core.ScoringRecord) {
	if scoring == nil {
		return
	}
	if scoring.Team == core.TeamSideHome {
		state.HomeScore += scoring.Points
	} else {
		state.AwayScore += scoring.Points
	}
}

// shouldGoForTwo is a late-game desperation heuristic: go for two only
// when trailing by exactly 2 or 10 points with little time left, the
// situations where two points changes the win condition.
func shouldGoForTwo(state core.GameState, scoringTeam core.TeamSide) bool {
	if state.Quarter != core.Quarter4 || state.Clock > 300 {
		return false
	}
	diff := state.HomeScore - state.AwayScore
	if scoringTeam == core.TeamSideAway {
		diff = -diff
	}
	return diff == -2 || diff == -10
}

// isOvertimeSuddenDeathOver ends the game immediately on any score
// once both sides have had a possession.
func isOvertimeSuddenDeathOver(state core.GameState) bool {
	if state.Quarter != core.QuarterOT {
		return false
	}
	if state.HomeScore == state.AwayScore {
		return false
	}
	return state.HomePossessedOT && state.AwayPossessedOT
}

func scoringPlaysFrom(events []core.GameEvent) []core.ScoringPlay {
	var plays []core.ScoringPlay
	for _, e := range events {
		if e.PlayResult.Scoring == nil {
			continue
		}
		plays = append(plays, core.ScoringPlay{
			EventNumber: e.EventNumber,
			Team:        e.PlayResult.Scoring.Team,
			Points:      e.PlayResult.Scoring.Points,
			Description: fmt.Sprintf("%s (%d points)", e.PlayResult.Scoring.Kind, e.PlayResult.Scoring.Points),
		})
	}
	return plays
}

func estimateTimeOfPossession(events []core.GameEvent, side core.TeamSide) int {
	total := 0
	for _, e := range events {
		if e.GameState.Possession == side {
			total += e.PlayResult.ClockElapsed
		}
	}
	return total
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
