package model

import "github.com/okian/dynasty/internal/domain/team"

// Label is the narrative category of a finalized game.
type Label string

// Game labels.
const (
	LabelBlowout         Label = "Blowout"
	LabelClassic         Label = "Classic"
	LabelSolidWin        Label = "SolidWin"
	LabelUpset           Label = "Upset"
	LabelRivalryBeatdown Label = "RivalryBeatdown"
)

// Display returns the human-readable label.
func (l Label) Display() string {
	switch l {
	case LabelSolidWin:
		return "Solid Win"
	case LabelRivalryBeatdown:
		return "Rivalry Beatdown"
	default:
		return string(l)
	}
}

// GameOutcome is the result of applying a reported final score.
type GameOutcome struct {
	Winner       team.Party
	Loser        team.Party
	WinningScore int
	LosingScore  int
	Margin       int
	Label        Label
	// Rivalry is set when both participants are primary parties.
	Rivalry      bool
	WinnerRecord TeamRecord
	LoserRecord  TeamRecord
	WinnerStreak Streak
	LoserStreak  Streak
}

// Standing is one row of the league table.
type Standing struct {
	Rank   int
	Team   team.Party
	Record TeamRecord
	Streak Streak
}
