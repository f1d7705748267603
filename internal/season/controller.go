// Package season implements the tick state machine that is the sole
// mutator of season, game, and standings state. Exactly one
// action runs per invocation; idempotency under concurrent invocation
// comes from compare-and-set updates on status fields, not from
// read-then-write logic.
package season

import (
	"context"
	"time"

	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/engine"
	"gridblitz.dev/platform/internal/rng"
	"gridblitz.dev/platform/internal/schedule"
)

// ActionTag names the single action a tick invocation performed.
type ActionTag string

const (
	ActionIdle         ActionTag = "idle"
	ActionCreateSeason ActionTag = "create_season"
	ActionStartGame    ActionTag = "start_game"
	ActionAdvanceWeek  ActionTag = "advance_week"
	ActionFinalize     ActionTag = "finalize"
)

// Result is what a single tick invocation returns to its caller (the
// /api/simulate handler).
type Result struct {
	Action   ActionTag `json:"action"`
	SeasonID core.SeasonID `json:"seasonId,omitempty"`
	GameID   core.GameID   `json:"gameId,omitempty"`
	Week     int           `json:"week,omitempty"`
}

// Clock abstracts wall-clock time so tests can control pacing.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Gaps are the configurable pacing windows the controller respects.
type Gaps struct {
	InterGame      time.Duration
	InterWeek      time.Duration
	Offseason      time.Duration
	ActionBudget   time.Duration
}

// Controller wires the repositories the tick state machine mutates.
type Controller struct {
	Seasons    core.SeasonRepository
	Games      core.GameRepository
	Teams      core.TeamRepository
	Players    core.PlayerRepository
	Standings  core.StandingsRepository
	Events     core.EventStore
	Clock      Clock
	Gaps       Gaps
}

// New builds a Controller with a system clock and default gaps; callers
// override Gaps from config before use.
func New(seasons core.SeasonRepository, games core.GameRepository, teams core.TeamRepository, players core.PlayerRepository, standings core.StandingsRepository, events core.EventStore) *Controller {
	return &Controller{
		Seasons:   seasons,
		Games:     games,
		Teams:     teams,
		Players:   players,
		Standings: standings,
		Events:    events,
		Clock:     systemClock{},
		Gaps: Gaps{
			InterGame:    15 * time.Minute,
			InterWeek:    30 * time.Minute,
			Offseason:    30 * time.Minute,
			ActionBudget: 60 * time.Second,
		},
	}
}

// Tick selects at most one action and runs it to completion
// steps 1-6). It never blocks on anything but the chosen action's own
// work. Only start_game runs under a Gaps.ActionBudget deadline, and
// that deadline reaches its repository calls, not the simulation
// itself; the other actions run on the caller's context.
func (c *Controller) Tick(ctx context.Context) (Result, error) {
	return WithLock(func() (Result, error) { return c.tick(ctx) })
}

func (c *Controller) tick(ctx context.Context) (Result, error) {
	active, err := c.Seasons.GetActive(ctx)
	if err != nil {
		return Result{}, err
	}
	if active == nil {
		return c.createSeason(ctx)
	}

	games, err := c.Games.List(ctx, core.GameFilter{SeasonID: active.ID, Week: active.CurrentWeek})
	if err != nil {
		return Result{}, err
	}

	if broadcasting, ok := findStatus(games, core.GameStatusBroadcasting); ok {
		done, err := c.isBroadcastDone(ctx, broadcasting)
		if err != nil {
			return Result{}, err
		}
		if done {
			return c.finalize(ctx, active.ID, broadcasting)
		}
		return Result{Action: ActionIdle}, nil
	}

	if next, ok := c.nextStartable(games); ok {
		return c.startGame(ctx, active, next)
	}

	if allCompleted(games) && len(games) > 0 {
		return c.advance(ctx, active)
	}

	return Result{Action: ActionIdle}, nil
}

func findStatus(games []core.Game, status core.GameStatus) (core.Game, bool) {
	for _, g := range games {
		if g.Status == status {
			return g, true
		}
	}
	return core.Game{}, false
}

func allCompleted(games []core.Game) bool {
	for _, g := range games {
		if g.Status != core.GameStatusCompleted {
			return false
		}
	}
	return true
}

// nextStartable finds the first scheduled game in the current week whose
// inter-game gate has elapsed relative to the previous game's completion.
// With no prior completed game this week, the gate is considered open.
func (c *Controller) nextStartable(games []core.Game) (core.Game, bool) {
	var lastCompletedAt *time.Time
	for _, g := range games {
		if g.Status == core.GameStatusCompleted && g.CompletedAt != nil {
			if lastCompletedAt == nil || g.CompletedAt.After(*lastCompletedAt) {
				lastCompletedAt = g.CompletedAt
			}
		}
	}

	for _, g := range games {
		if g.Status != core.GameStatusScheduled {
			continue
		}
		if lastCompletedAt == nil {
			return g, true
		}
		if c.Clock.Now().After(lastCompletedAt.Add(c.Gaps.InterGame)) {
			return g, true
		}
		return core.Game{}, false
	}
	return core.Game{}, false
}

func (c *Controller) createSeason(ctx context.Context) (Result, error) {
	teams, err := c.Teams.List(ctx)
	if err != nil {
		return Result{}, err
	}

	number, err := c.Seasons.LatestSeasonNumber(ctx)
	if err != nil {
		return Result{}, err
	}
	number++

	masterSeed := rng.CommitHash(c.Clock.Now().UTC().Format(time.RFC3339Nano) + core.NewID())
	seasonID := core.SeasonID(core.NewID())

	games, err := schedule.Generate(seasonID, teams, masterSeed)
	if err != nil {
		return Result{}, err
	}

	newSeason := &core.Season{
		ID:           seasonID,
		SeasonNumber: number,
		CurrentWeek:  1,
		TotalWeeks:   core.TotalWeeks,
		Status:       core.SeasonStatusRegular,
		MasterSeed:   masterSeed,
		CreatedAt:    c.Clock.Now(),
	}
	if err := c.Seasons.Create(ctx, newSeason); err != nil {
		return Result{}, err
	}
	if err := c.Games.CreateBatch(ctx, games); err != nil {
		return Result{}, err
	}

	teamIDs := make([]core.TeamID, len(teams))
	for i, t := range teams {
		teamIDs[i] = t.ID
	}
	if err := c.Standings.InitializeForSeason(ctx, seasonID, teamIDs); err != nil {
		return Result{}, err
	}

	return Result{Action: ActionCreateSeason, SeasonID: seasonID, Week: 1}, nil
}

// startGame runs the engine end to end for one matchup and persists the
// full event log, per-game seed commitment, and broadcasting status
// atomically.
func (c *Controller) startGame(ctx context.Context, active *core.Season, g core.Game) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Gaps.ActionBudget)
	defer cancel()

	homeRoster, err := c.Players.Roster(ctx, g.HomeTeamID)
	if err != nil {
		return Result{}, err
	}
	awayRoster, err := c.Players.Roster(ctx, g.AwayTeamID)
	if err != nil {
		return Result{}, err
	}
	homeTeam, err := c.Teams.GetByID(ctx, g.HomeTeamID)
	if err != nil {
		return Result{}, err
	}
	awayTeam, err := c.Teams.GetByID(ctx, g.AwayTeamID)
	if err != nil {
		return Result{}, err
	}

	serverSeed := core.NewID()
	clientSeed := string(active.MasterSeed[:min(16, len(active.MasterSeed))]) + "-" + string(g.ID)
	commitHash := rng.CommitHash(serverSeed)

	sim := engine.Simulate(engine.Config{
		HomeTeam:   *homeTeam,
		AwayTeam:   *awayTeam,
		HomeRoster: homeRoster,
		AwayRoster: awayRoster,
		ServerSeed: serverSeed,
		ClientSeed: clientSeed,
		StartNonce: 0,
		IsPlayoff:  g.GameType != core.GameTypeRegular,
	})

	now := c.Clock.Now()
	ok, err := c.Games.StartBroadcast(ctx, g.ID, core.BroadcastStart{
		ServerSeedHash: commitHash,
		ClientSeed:     clientSeed,
		StartedAt:      now.Unix(),
		ServerSeed:     serverSeed,
		HomeScore:      sim.FinalState.HomeScore,
		AwayScore:      sim.FinalState.AwayScore,
		TotalPlays:     sim.TotalPlays,
		FinalNonce:     sim.FinalNonce,
		BoxScore:       sim.BoxScore,
	})
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Action: ActionIdle}, nil
	}

	for i := range sim.Events {
		sim.Events[i].GameID = g.ID
	}
	if err := c.Events.AppendEvents(ctx, g.ID, sim.Events); err != nil {
		return Result{}, err
	}

	return Result{Action: ActionStartGame, SeasonID: active.ID, GameID: g.ID, Week: g.Week}, nil
}

// isBroadcastDone reports whether enough wall-clock time has elapsed
// since broadcast_started_at to have played every event
// 3: now >= broadcastStartedAt + totalDuration(events)).
func (c *Controller) isBroadcastDone(ctx context.Context, g core.Game) (bool, error) {
	if g.BroadcastStartedAt == nil {
		return false, nil
	}
	events, err := c.Events.ListEvents(ctx, g.ID)
	if err != nil {
		return false, err
	}
	if len(events) == 0 {
		return false, nil
	}
	last := events[len(events)-1]
	totalDuration := time.Duration(last.DisplayTimestamp) * time.Millisecond
	return c.Clock.Now().After(g.BroadcastStartedAt.Add(totalDuration)), nil
}

// finalize reveals the server seed already stored on the row and
// applies the result to standings. The score and box
// score were persisted at start time; only the reveal is time-gated.
func (c *Controller) finalize(ctx context.Context, seasonID core.SeasonID, g core.Game) (Result, error) {
	if g.HomeScore == nil || g.AwayScore == nil {
		return Result{Action: ActionIdle}, nil
	}

	ok, err := c.Games.Finalize(ctx, g.ID, c.Clock.Now().Unix())
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Action: ActionIdle}, nil
	}

	update := core.StandingsUpdate{
		SeasonID:   seasonID,
		HomeTeamID: g.HomeTeamID,
		AwayTeamID: g.AwayTeamID,
		HomeScore:  *g.HomeScore,
		AwayScore:  *g.AwayScore,
	}
	if err := c.Standings.ApplyResult(ctx, update); err != nil {
		return Result{}, err
	}

	return Result{Action: ActionFinalize, SeasonID: seasonID, GameID: g.ID}, nil
}
