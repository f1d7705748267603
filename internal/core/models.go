// Package core defines the domain model shared by every GridBlitz
// subsystem: teams, rosters, seasons, games, and the append-only event
// log that the broadcast layer replays.
package core

import (
	"time"
)

// TeamID identifies a franchise (e.g., "DAL").
// @Description Team identifier
type TeamID string

// PlayerID identifies a roster player.
// @Description Player identifier
type PlayerID string

// SeasonID identifies a season.
// @Description Season identifier
type SeasonID string

// GameID identifies a single game.
// @Description Game identifier
type GameID string

// Conference is one of the two NFL conferences.
type Conference string

const (
	ConferenceAFC Conference = "AFC"
	ConferenceNFC Conference = "NFC"
)

// Division is one of the four divisions within a conference.
type Division string

const (
	DivisionNorth Division = "N"
	DivisionSouth Division = "S"
	DivisionEast  Division = "E"
	DivisionWest  Division = "W"
)

// PlayStyle biases a team's play-calling tendencies.
type PlayStyle string

const (
	PlayStyleBalanced    PlayStyle = "balanced"
	PlayStylePassHeavy   PlayStyle = "pass_heavy"
	PlayStyleRunHeavy    PlayStyle = "run_heavy"
	PlayStyleAggressive  PlayStyle = "aggressive"
	PlayStyleConservative PlayStyle = "conservative"
)

// Team is static once seeded: ratings and identity never change mid-season.
// @Description An NFL franchise
type Team struct {
	ID            TeamID     `json:"id"`
	Abbreviation  string     `json:"abbreviation"`
	City          string     `json:"city"`
	Mascot        string     `json:"mascot"`
	Conference    Conference `json:"conference"`
	Division      Division   `json:"division"`
	OffenseRating int        `json:"offenseRating"`
	DefenseRating int        `json:"defenseRating"`
	SpecialTeams  int        `json:"specialTeamsRating"`
	PlayStyle     PlayStyle  `json:"playStyle"`
	PrimaryColor  string     `json:"primaryColor"`
	SecondaryColor string    `json:"secondaryColor"`
}

// Position is a roster slot.
type Position string

const (
	PositionQB Position = "QB"
	PositionRB Position = "RB"
	PositionWR Position = "WR"
	PositionTE Position = "TE"
	PositionOL Position = "OL"
	PositionDL Position = "DL"
	PositionLB Position = "LB"
	PositionCB Position = "CB"
	PositionS  Position = "S"
	PositionK  Position = "K"
	PositionP  Position = "P"
)

// Player is a roster member belonging to exactly one team.
// @Description A roster player
type Player struct {
	ID            PlayerID `json:"id"`
	TeamID        TeamID   `json:"teamId"`
	Name          string   `json:"name"`
	Position      Position `json:"position"`
	JerseyNumber  int      `json:"jerseyNumber"`
	Rating        int      `json:"rating"`
	Speed         int      `json:"speed"`
	Strength      int      `json:"strength"`
	Awareness     int      `json:"awareness"`
	ClutchRating  int      `json:"clutchRating"`
	InjuryProne   bool     `json:"injuryProne"`
}

// SeasonStatus tracks the league's progress through a season.
type SeasonStatus string

const (
	SeasonStatusRegular               SeasonStatus = "regular_season"
	SeasonStatusWildCard              SeasonStatus = "wild_card"
	SeasonStatusDivisional            SeasonStatus = "divisional"
	SeasonStatusConferenceChampionship SeasonStatus = "conference_championship"
	SeasonStatusSuperBowl             SeasonStatus = "super_bowl"
	SeasonStatusOffseason             SeasonStatus = "offseason"
)

// seasonStatusOrder encodes the forward-only transition order the
// controller enforces; a status never regresses to an earlier index.
var seasonStatusOrder = map[SeasonStatus]int{
	SeasonStatusRegular:               0,
	SeasonStatusWildCard:              1,
	SeasonStatusDivisional:            2,
	SeasonStatusConferenceChampionship: 3,
	SeasonStatusSuperBowl:             4,
	SeasonStatusOffseason:             5,
}

// CanTransitionTo reports whether moving from s to next respects the
// declared forward-only order.
func (s SeasonStatus) CanTransitionTo(next SeasonStatus) bool {
	cur, ok1 := seasonStatusOrder[s]
	nxt, ok2 := seasonStatusOrder[next]
	if !ok1 || !ok2 {
		return false
	}
	return nxt >= cur
}

const TotalWeeks = 22

// Season is the top-level league-progress record. One league, one
// active season at a time.
// @Description A league season
type Season struct {
	ID          SeasonID     `json:"id"`
	SeasonNumber int         `json:"seasonNumber"`
	CurrentWeek int          `json:"currentWeek"`
	TotalWeeks  int          `json:"totalWeeks"`
	Status      SeasonStatus `json:"status"`
	MasterSeed  string       `json:"masterSeed"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// GameType distinguishes regular-season from playoff rounds.
type GameType string

const (
	GameTypeRegular               GameType = "regular"
	GameTypeWildCard              GameType = "wild_card"
	GameTypeDivisional            GameType = "divisional"
	GameTypeConferenceChampionship GameType = "conference_championship"
	GameTypeSuperBowl             GameType = "super_bowl"
)

// GameStatus is the lifecycle stage of a single game.
type GameStatus string

const (
	GameStatusScheduled   GameStatus = "scheduled"
	GameStatusSimulating  GameStatus = "simulating"
	GameStatusBroadcasting GameStatus = "broadcasting"
	GameStatusCompleted   GameStatus = "completed"
)

var gameStatusOrder = map[GameStatus]int{
	GameStatusScheduled:    0,
	GameStatusSimulating:   1,
	GameStatusBroadcasting: 2,
	GameStatusCompleted:    3,
}

// CanTransitionTo reports whether moving from s to next respects the
// declared forward-only order (no regressions).
func (s GameStatus) CanTransitionTo(next GameStatus) bool {
	cur, ok1 := gameStatusOrder[s]
	nxt, ok2 := gameStatusOrder[next]
	if !ok1 || !ok2 {
		return false
	}
	return nxt > cur
}

// BoxScore is an opaque, schema-agnostic aggregate the engine produces
// once a game finishes. Stored as JSON; never migrated.
type BoxScore struct {
	HomeTotals  TeamTotals        `json:"homeTotals"`
	AwayTotals  TeamTotals        `json:"awayTotals"`
	PlayerStats []PlayerBoxLine   `json:"playerStats"`
	Drives      []DriveSummary    `json:"drives"`
	ScoringPlays []ScoringPlay    `json:"scoringPlays"`
	MVP         PlayerID          `json:"mvp"`
}

// TeamTotals aggregates a team's game-level statistics.
type TeamTotals struct {
	TotalYards   int `json:"totalYards"`
	PassingYards int `json:"passingYards"`
	RushingYards int `json:"rushingYards"`
	Turnovers    int `json:"turnovers"`
	Penalties    int `json:"penalties"`
	PenaltyYards int `json:"penaltyYards"`
	TimeOfPossession int `json:"timeOfPossessionSeconds"`
}

// PlayerBoxLine aggregates one player's contribution.
type PlayerBoxLine struct {
	PlayerID    PlayerID `json:"playerId"`
	Position    Position `json:"position"`
	Yards       int      `json:"yards"`
	Touchdowns  int      `json:"touchdowns"`
	Receptions  int      `json:"receptions,omitempty"`
	Completions int      `json:"completions,omitempty"`
	Attempts    int      `json:"attempts,omitempty"`
	Tackles     int      `json:"tackles,omitempty"`
	Sacks       int      `json:"sacks,omitempty"`
	Interceptions int    `json:"interceptions,omitempty"`
}

// DriveSummary records one possession's outcome.
type DriveSummary struct {
	Possession TeamSide `json:"possession"`
	StartedAt  int      `json:"startedAtBallPosition"`
	Plays      int      `json:"plays"`
	Yards      int      `json:"yards"`
	Result     string   `json:"result"`
}

// ScoringPlay is a single score event projected into the box score.
type ScoringPlay struct {
	EventNumber int      `json:"eventNumber"`
	Team        TeamSide `json:"team"`
	Points      int      `json:"points"`
	Description string   `json:"description"`
}

// TeamSide is which side of a game a value refers to.
type TeamSide string

const (
	TeamSideHome TeamSide = "home"
	TeamSideAway TeamSide = "away"
)

// Game is one matchup; scores and the server seed stay hidden from API
// consumers until status reaches Completed.
// @Description A scheduled or in-progress game
type Game struct {
	ID               GameID     `json:"id"`
	SeasonID         SeasonID   `json:"seasonId"`
	Week             int        `json:"week"`
	GameType         GameType   `json:"gameType"`
	HomeTeamID       TeamID     `json:"homeTeamId"`
	AwayTeamID       TeamID     `json:"awayTeamId"`
	HomeScore        *int       `json:"homeScore"`
	AwayScore        *int       `json:"awayScore"`
	Status           GameStatus `json:"status"`
	IsFeatured       bool       `json:"isFeatured"`
	ServerSeedHash   string     `json:"serverSeedHash"`
	ServerSeed       *string    `json:"serverSeed"`
	ClientSeed       string     `json:"clientSeed"`
	Nonce            int        `json:"nonce"`
	TotalPlays       int        `json:"totalPlays"`
	BoxScore         *BoxScore  `json:"boxScore"`
	BroadcastStartedAt *time.Time `json:"broadcastStartedAt"`
	CompletedAt      *time.Time `json:"completedAt"`
}

// EventType tags the kind of play a GameEvent records.
type EventType string

const (
	EventTypeRun           EventType = "run"
	EventTypePassComplete  EventType = "pass_complete"
	EventTypePassIncomplete EventType = "pass_incomplete"
	EventTypeSack          EventType = "sack"
	EventTypeScramble      EventType = "scramble"
	EventTypeKickoff       EventType = "kickoff"
	EventTypePunt          EventType = "punt"
	EventTypeFieldGoal     EventType = "field_goal"
	EventTypeExtraPoint    EventType = "extra_point"
	EventTypeTwoPoint      EventType = "two_point"
	EventTypeTouchback     EventType = "touchback"
	EventTypeKneel         EventType = "kneel"
	EventTypeSpike         EventType = "spike"
)

// Quarter identifies the current period of play.
type Quarter string

const (
	Quarter1 Quarter = "1"
	Quarter2 Quarter = "2"
	Quarter3 Quarter = "3"
	Quarter4 Quarter = "4"
	QuarterOT Quarter = "OT"
)

// GameState is the full mutable state of an in-progress game.
// @Description Live game state snapshot
type GameState struct {
	HomeScore        int      `json:"homeScore"`
	AwayScore        int      `json:"awayScore"`
	Quarter          Quarter  `json:"quarter"`
	Clock            int      `json:"clock"`
	PlayClock        int      `json:"playClock"`
	Possession       TeamSide `json:"possession"`
	Down             int      `json:"down"`
	YardsToGo        int      `json:"yardsToGo"`
	BallPosition     int      `json:"ballPosition"`
	HomeTimeouts     int      `json:"homeTimeouts"`
	AwayTimeouts     int      `json:"awayTimeouts"`
	IsClockRunning   bool     `json:"isClockRunning"`
	TwoMinuteWarningQ2 bool   `json:"twoMinuteWarningQ2"`
	TwoMinuteWarningQ4 bool   `json:"twoMinuteWarningQ4"`
	IsHalftime       bool     `json:"isHalftime"`
	IsKickoff        bool     `json:"isKickoff"`
	IsPATAttempt     bool     `json:"isPatAttempt"`
	IsGameOver       bool     `json:"isGameOver"`

	// Overtime bookkeeping: sudden death once both sides possessed.
	HomePossessedOT        bool `json:"homePossessedOT"`
	AwayPossessedOT        bool `json:"awayPossessedOT"`
	FirstPossessionResult  string `json:"firstPossessionResult,omitempty"`
}

// ScoringRecord is a nullable sub-record describing points scored on a play.
type ScoringRecord struct {
	Team   TeamSide `json:"team"`
	Points int      `json:"points"`
	Kind   string   `json:"kind"` // touchdown, field_goal, extra_point, two_point, safety
}

// TurnoverRecord is a nullable sub-record describing a possession change.
type TurnoverRecord struct {
	Kind         string `json:"kind"` // interception, fumble
	RecoveredBy  TeamSide `json:"recoveredBy"`
	ReturnYards  int    `json:"returnYards"`
	ReturnedForTouchdown bool `json:"returnedForTouchdown"`
}

// PenaltyRecord is a nullable sub-record describing a flagged infraction.
type PenaltyRecord struct {
	Name       string   `json:"name"`
	OnTeam     TeamSide `json:"onTeam"`
	Yards      int      `json:"yards"`
	Declined   bool     `json:"declined"`
	Offsetting bool     `json:"offsetting"`
	AutomaticFirstDown bool `json:"automaticFirstDown"`
}

// InjuryRecord is a nullable sub-record describing an injury on a play.
type InjuryRecord struct {
	PlayerID PlayerID `json:"playerId"`
	Severity string   `json:"severity"`
}

// PlayResult is the full outcome of resolving one play.
// @Description Outcome of a single resolved play
type PlayResult struct {
	Type           EventType       `json:"type"`
	Call           string          `json:"call"`
	YardsGained    int             `json:"yardsGained"`
	Passer         *PlayerID       `json:"passer,omitempty"`
	Rusher         *PlayerID       `json:"rusher,omitempty"`
	Receiver       *PlayerID       `json:"receiver,omitempty"`
	Defender       *PlayerID       `json:"defender,omitempty"`
	Scoring        *ScoringRecord  `json:"scoring,omitempty"`
	Turnover       *TurnoverRecord `json:"turnover,omitempty"`
	Penalty        *PenaltyRecord  `json:"penalty,omitempty"`
	Injury         *InjuryRecord   `json:"injury,omitempty"`
	ClockElapsed   int             `json:"clockElapsed"`
	IsClockStopped bool            `json:"isClockStopped"`
	IsFirstDown    bool            `json:"isFirstDown"`
	IsTouchdown    bool            `json:"isTouchdown"`
	IsSafety       bool            `json:"isSafety"`
	Description    string          `json:"description"`
}

// Commentary pairs generated flavor text with an excitement score.
type Commentary struct {
	Text       string `json:"text"`
	Excitement int    `json:"excitement"`
}

// NarrativeSnapshot is the per-event narrative/momentum context.
type NarrativeSnapshot struct {
	ActiveThreads       []string `json:"activeThreads"`
	IsClutchMoment      bool     `json:"isClutchMoment"`
	IsComebackBrewing   bool     `json:"isComebackBrewing"`
	IsBlowout           bool     `json:"isBlowout"`
	IsDominatingPerformance bool `json:"isDominatingPerformance,omitempty"`
	DramaLevel          int      `json:"dramaLevel"`
	Momentum            int      `json:"momentum"`
}

// GameEvent is one append-only row in a game's event log.
// @Description A single recorded play
type GameEvent struct {
	GameID            GameID             `json:"gameId"`
	EventNumber       int                `json:"eventNumber"`
	EventType         EventType          `json:"eventType"`
	PlayResult        PlayResult         `json:"playResult"`
	Commentary        Commentary         `json:"commentary"`
	GameState         GameState          `json:"gameState"`
	NarrativeContext  *NarrativeSnapshot `json:"narrativeContext,omitempty"`
	DisplayTimestamp  int64              `json:"displayTimestamp"`
}

// Standings is the per-(season,team) accumulated record.
// @Description A team's standing within a season
type Standings struct {
	SeasonID          SeasonID `json:"seasonId"`
	TeamID            TeamID   `json:"teamId"`
	Wins              int      `json:"wins"`
	Losses            int      `json:"losses"`
	Ties              int      `json:"ties"`
	DivisionWins      int      `json:"divisionWins"`
	DivisionLosses    int      `json:"divisionLosses"`
	ConferenceWins    int      `json:"conferenceWins"`
	ConferenceLosses  int      `json:"conferenceLosses"`
	PointsFor         int      `json:"pointsFor"`
	PointsAgainst     int      `json:"pointsAgainst"`
	Streak            string   `json:"streak"`
	PlayoffSeed       *int     `json:"playoffSeed"`
	Clinched          string   `json:"clinched,omitempty"`
}
