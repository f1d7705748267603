package season

import (
	"context"

	"gridblitz.dev/platform/internal/core"
	"gridblitz.dev/platform/internal/schedule"
)

const (
	weekWildCard   = schedule.RegularSeasonWeeks + 1
	weekDivisional = schedule.RegularSeasonWeeks + 2
	weekConference = schedule.RegularSeasonWeeks + 3
	weekSuperBowl  = schedule.RegularSeasonWeeks + 4
)

// advance respects the inter-week gap, then either moves to the next
// regular-season week, generates the next playoff round from completed
// standings, or (after the Super Bowl) retires the season to offseason
// and creates the next one.
func (c *Controller) advance(ctx context.Context, active *core.Season) (Result, error) {
	gate, err := c.weekGateElapsed(ctx, active)
	if err != nil {
		return Result{}, err
	}
	if !gate {
		return Result{Action: ActionIdle}, nil
	}

	switch {
	case active.CurrentWeek < schedule.RegularSeasonWeeks:
		return c.advanceWeek(ctx, active, active.CurrentWeek+1)
	case active.CurrentWeek == schedule.RegularSeasonWeeks:
		return c.startPlayoffRound(ctx, active, weekWildCard, core.SeasonStatusWildCard, c.generateWildCard)
	case active.CurrentWeek == weekWildCard:
		return c.startPlayoffRound(ctx, active, weekDivisional, core.SeasonStatusDivisional, c.generateDivisional)
	case active.CurrentWeek == weekDivisional:
		return c.startPlayoffRound(ctx, active, weekConference, core.SeasonStatusConferenceChampionship, c.generateConference)
	case active.CurrentWeek == weekConference:
		return c.startPlayoffRound(ctx, active, weekSuperBowl, core.SeasonStatusSuperBowl, c.generateSuperBowl)
	default:
		return c.retireSeason(ctx, active)
	}
}

// weekGateElapsed reports whether the inter-week (or offseason) gap has
// passed since the last game in the current week completed.
func (c *Controller) weekGateElapsed(ctx context.Context, active *core.Season) (bool, error) {
	games, err := c.Games.List(ctx, core.GameFilter{SeasonID: active.ID, Week: active.CurrentWeek})
	if err != nil {
		return false, err
	}
	var lastCompletedAt *int64
	for _, g := range games {
		if g.CompletedAt == nil {
			continue
		}
		ts := g.CompletedAt.Unix()
		if lastCompletedAt == nil || ts > *lastCompletedAt {
			lastCompletedAt = &ts
		}
	}
	if lastCompletedAt == nil {
		return true, nil
	}
	gap := c.Gaps.InterWeek
	if active.CurrentWeek >= schedule.RegularSeasonWeeks {
		gap = c.Gaps.Offseason
	}
	return c.Clock.Now().Unix() >= *lastCompletedAt+int64(gap.Seconds()), nil
}

func (c *Controller) advanceWeek(ctx context.Context, active *core.Season, newWeek int) (Result, error) {
	ok, err := c.Seasons.AdvanceWeek(ctx, active.ID, active.CurrentWeek, newWeek)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Action: ActionIdle}, nil
	}
	return Result{Action: ActionAdvanceWeek, SeasonID: active.ID, Week: newWeek}, nil
}

type roundGenerator func(ctx context.Context, active *core.Season, week int) ([]core.Game, error)

// startPlayoffRound generates the next round's games from current
// standings and CAS-transitions the season's status; only the
// invocation that wins that CAS inserts the games and then advances the
// week, as two further writes outside any transaction.
func (c *Controller) startPlayoffRound(ctx context.Context, active *core.Season, week int, status core.SeasonStatus, gen roundGenerator) (Result, error) {
	games, err := gen(ctx, active, week)
	if err != nil {
		return Result{}, err
	}

	ok, err := c.Seasons.TransitionStatus(ctx, active.ID, active.Status, status)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Action: ActionIdle}, nil
	}

	if len(games) > 0 {
		if err := c.Games.CreateBatch(ctx, games); err != nil {
			return Result{}, err
		}
	}
	if _, err := c.Seasons.AdvanceWeek(ctx, active.ID, active.CurrentWeek, week); err != nil {
		return Result{}, err
	}

	return Result{Action: ActionAdvanceWeek, SeasonID: active.ID, Week: week}, nil
}

// conferenceContext loads the team roster (indexed by ID) and the
// current standings-derived seeding for both conferences; used at the
// start of every playoff round.
func (c *Controller) conferenceContext(ctx context.Context, active *core.Season) (teamsByID map[core.TeamID]core.Team, afc, nfc []schedule.Seed, err error) {
	standings, err := c.Standings.List(ctx, active.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	teams, err := c.Teams.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	teamsByID = make(map[core.TeamID]core.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
	}
	afc = schedule.SeedConference(standings, teamsByID, core.ConferenceAFC)
	nfc = schedule.SeedConference(standings, teamsByID, core.ConferenceNFC)
	return teamsByID, afc, nfc, nil
}

func (c *Controller) generateWildCard(ctx context.Context, active *core.Season, week int) ([]core.Game, error) {
	_, afc, nfc, err := c.conferenceContext(ctx, active)
	if err != nil {
		return nil, err
	}
	return schedule.GenerateWildCardRound(active.ID, week, afc, nfc), nil
}

// survivingSeeds loads the prior round's results and re-seeds each
// conference by dropping whichever of its teams lost.
func (c *Controller) survivingSeeds(ctx context.Context, active *core.Season, roundWeek int) (afcSurvivors, nfcSurvivors []schedule.Seed, err error) {
	games, err := c.Games.List(ctx, core.GameFilter{SeasonID: active.ID, Week: roundWeek})
	if err != nil {
		return nil, nil, err
	}
	_, afc, nfc, err := c.conferenceContext(ctx, active)
	if err != nil {
		return nil, nil, err
	}

	eliminated := map[core.TeamID]bool{}
	for _, g := range games {
		if g.HomeScore == nil || g.AwayScore == nil {
			continue
		}
		if *g.HomeScore > *g.AwayScore {
			eliminated[g.AwayTeamID] = true
		} else {
			eliminated[g.HomeTeamID] = true
		}
	}

	return schedule.ReSeed(afc, eliminated), schedule.ReSeed(nfc, eliminated), nil
}

func (c *Controller) generateDivisional(ctx context.Context, active *core.Season, week int) ([]core.Game, error) {
	afc, nfc, err := c.survivingSeeds(ctx, active, weekWildCard)
	if err != nil {
		return nil, err
	}
	return schedule.GenerateDivisionalRound(active.ID, week, afc, nfc), nil
}

func (c *Controller) generateConference(ctx context.Context, active *core.Season, week int) ([]core.Game, error) {
	afc, nfc, err := c.survivingSeeds(ctx, active, weekDivisional)
	if err != nil {
		return nil, err
	}
	return schedule.GenerateConferenceChampionship(active.ID, week, afc, nfc), nil
}

func (c *Controller) generateSuperBowl(ctx context.Context, active *core.Season, week int) ([]core.Game, error) {
	afc, nfc, err := c.survivingSeeds(ctx, active, weekConference)
	if err != nil {
		return nil, err
	}
	if len(afc) != 1 || len(nfc) != 1 {
		return nil, nil
	}
	return []core.Game{schedule.GenerateSuperBowl(active.ID, week, afc[0].TeamID, nfc[0].TeamID)}, nil
}

// retireSeason closes out the season after the Super Bowl and
// immediately creates the next one; the offseason gap is enforced by
// weekGateElapsed before this is ever called.
func (c *Controller) retireSeason(ctx context.Context, active *core.Season) (Result, error) {
	ok, err := c.Seasons.TransitionStatus(ctx, active.ID, active.Status, core.SeasonStatusOffseason)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Action: ActionIdle}, nil
	}
	return c.createSeason(ctx)
}
