// Package types contains the JSON shapes exchanged by the HTTP API, the live
// feed and the CLI.
package types

import (
	"time"

	"github.com/okian/dynasty/internal/domain/model"
)

// GameRequest is the body of POST /games.
type GameRequest struct {
	ReportID string `json:"report_id,omitempty"`
	TeamA    string `json:"team_a"`
	ScoreA   *int   `json:"score_a"`
	TeamB    string `json:"team_b"`
	ScoreB   *int   `json:"score_b"`
}

// RecruitRequest is the body of POST /recruits.
type RecruitRequest struct {
	Team     string `json:"team"`
	Prospect string `json:"prospect"`
	Stars    int    `json:"stars"`
	Position string `json:"position"`
	Status   string `json:"status"`
}

// Record is a team record with its differential.
type Record struct {
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	PointsFor     int `json:"points_for"`
	PointsAgainst int `json:"points_against"`
	Diff          int `json:"diff"`
}

// NewRecord converts a domain record.
func NewRecord(r model.TeamRecord) Record {
	return Record{
		Wins:          r.Wins,
		Losses:        r.Losses,
		PointsFor:     r.PointsFor,
		PointsAgainst: r.PointsAgainst,
		Diff:          r.Diff(),
	}
}

// GameSide is one participant of a finalized game.
type GameSide struct {
	Team       string `json:"team"`
	Score      int    `json:"score"`
	Record     Record `json:"record"`
	Streak     int    `json:"streak"`
	StreakText string `json:"streak_text"`
}

// GameOutcome is the response of POST /games and the game_final feed event.
type GameOutcome struct {
	ReportID  string   `json:"report_id,omitempty"`
	Winner    GameSide `json:"winner"`
	Loser     GameSide `json:"loser"`
	Margin    int      `json:"margin"`
	Label     string   `json:"label"`
	LabelText string   `json:"label_text"`
	Rivalry   bool     `json:"rivalry"`
	// WinnerHot and LoserCold flag runs of two or more games.
	WinnerHot bool   `json:"winner_hot"`
	LoserCold bool   `json:"loser_cold"`
	Recap     string `json:"recap,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// NewGameOutcome converts a domain outcome.
func NewGameOutcome(o *model.GameOutcome) GameOutcome {
	return GameOutcome{
		Winner: GameSide{
			Team:       o.Winner.Name,
			Score:      o.WinningScore,
			Record:     NewRecord(o.WinnerRecord),
			Streak:     int(o.WinnerStreak),
			StreakText: o.WinnerStreak.Text(),
		},
		Loser: GameSide{
			Team:       o.Loser.Name,
			Score:      o.LosingScore,
			Record:     NewRecord(o.LoserRecord),
			Streak:     int(o.LoserStreak),
			StreakText: o.LoserStreak.Text(),
		},
		Margin:    o.Margin,
		Label:     string(o.Label),
		LabelText: o.Label.Display(),
		Rivalry:   o.Rivalry,
		WinnerHot: o.WinnerStreak.Hot(),
		LoserCold: o.LoserStreak.Cold(),
	}
}

// Standing is one row of GET /standings.
type Standing struct {
	Rank       int    `json:"rank"`
	Team       string `json:"team"`
	Division   string `json:"division"`
	Coach      string `json:"coach,omitempty"`
	Record     Record `json:"record"`
	Streak     int    `json:"streak"`
	StreakText string `json:"streak_text"`
}

// NewStanding converts a ranked row; division and coach decorate it.
func NewStanding(s model.Standing, division, coach string) Standing {
	return Standing{
		Rank:       s.Rank,
		Team:       s.Team.Name,
		Division:   division,
		Coach:      coach,
		Record:     NewRecord(s.Record),
		Streak:     int(s.Streak),
		StreakText: s.Streak.Text(),
	}
}

// StreakEntry is one team's active run.
type StreakEntry struct {
	Team   string `json:"team"`
	Streak int    `json:"streak"`
	Text   string `json:"text"`
}

// Streaks is the response of GET /streaks.
type Streaks struct {
	Streaks map[string]int `json:"streaks"`
	// Ordered lists the same runs, hottest first.
	Ordered []StreakEntry `json:"ordered"`
}

// Rivalry is the response of GET /rivalry.
type Rivalry struct {
	PrimaryA string `json:"primary_a"`
	PrimaryB string `json:"primary_b"`
	AWins    int    `json:"a_wins"`
	BWins    int    `json:"b_wins"`
	Total    int    `json:"total"`
	Leader   string `json:"leader"`
}

// RecruitEntry is the response of POST /recruits and the recruit_logged event.
type RecruitEntry struct {
	ID       string    `json:"id"`
	Team     string    `json:"team"`
	Prospect string    `json:"prospect"`
	Stars    int       `json:"stars"`
	Position string    `json:"position"`
	Status   string    `json:"status"`
	LoggedAt time.Time `json:"logged_at"`
}

// NewRecruitEntry converts a ledger entry.
func NewRecruitEntry(e *model.RecruitEntry) RecruitEntry {
	return RecruitEntry{
		ID:       e.ID,
		Team:     e.Team,
		Prospect: e.Prospect,
		Stars:    e.Stars,
		Position: e.Position,
		Status:   string(e.Status),
		LoggedAt: e.LoggedAt,
	}
}

// Battle is one contested prospect.
type Battle struct {
	Prospect string `json:"prospect"`
	Stars    int    `json:"stars"`
	Position string `json:"position"`
	Winner   string `json:"winner"`
	// WinnerTeam names the winning party for A and B outcomes.
	WinnerTeam string `json:"winner_team,omitempty"`
	StatusA    string `json:"status_a"`
	StatusB    string `json:"status_b"`
}

// Battles is the response of GET /recruits/battles.
type Battles struct {
	PrimaryA string   `json:"primary_a"`
	PrimaryB string   `json:"primary_b"`
	Battles  []Battle `json:"battles"`
}

// NewBattle converts a reconciled battle; a and b are the party names.
func NewBattle(b model.BattleResult, a, bName string) Battle {
	out := Battle{
		Prospect: b.Prospect,
		Stars:    b.Stars,
		Position: b.Position,
		Winner:   string(b.Winner),
		StatusA:  string(b.StatusA),
		StatusB:  string(b.StatusB),
	}
	switch b.Winner {
	case model.BattleA:
		out.WinnerTeam = a
	case model.BattleB:
		out.WinnerTeam = bName
	}
	return out
}

// Feed event types.
const (
	EventGameFinal     = "game_final"
	EventRecruitLogged = "recruit_logged"
)

// FeedEvent is a message pushed to live feed subscribers.
type FeedEvent struct {
	Type    string        `json:"type"`
	At      time.Time     `json:"at"`
	Game    *GameOutcome  `json:"game,omitempty"`
	Recruit *RecruitEntry `json:"recruit,omitempty"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
