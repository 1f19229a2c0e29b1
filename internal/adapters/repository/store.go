// Package repository holds the league state: team records, streaks, the
// rivalry tally and the recruiting ledger.
package repository

import (
	"context"

	"github.com/okian/dynasty/internal/domain/model"
	"github.com/okian/dynasty/internal/domain/team"
)

// GameUpdate is a validated, classified game ready to be applied.
type GameUpdate struct {
	Winner       team.Party
	Loser        team.Party
	WinningScore int
	LosingScore  int
}

// Applied is the post-game state of both participants.
type Applied struct {
	WinnerRecord model.TeamRecord
	LoserRecord  model.TeamRecord
	WinnerStreak model.Streak
	LoserStreak  model.Streak
	Rivalry      model.Rivalry
}

// Store provides read/write access to the league state. Each write is atomic
// with respect to every read.
type Store interface {
	// Record returns a team's record and whether the team has played.
	Record(ctx context.Context, name string) (model.TeamRecord, bool)

	// ApplyGame updates both records, both streaks and, when both teams are
	// primary parties, the rivalry tally.
	ApplyGame(ctx context.Context, g GameUpdate) Applied

	// AppendRecruit adds an entry to the ledger and returns it with its
	// sequence number set.
	AppendRecruit(ctx context.Context, e model.RecruitEntry) model.RecruitEntry

	// Standings returns every team in first-seen order, unranked.
	Standings(ctx context.Context) []model.Standing

	// Streaks returns the non-zero streak of every team.
	Streaks(ctx context.Context) map[string]model.Streak

	Rivalry(ctx context.Context) model.Rivalry

	// Recruits returns a copy of the ledger in append order.
	Recruits(ctx context.Context) []model.RecruitEntry

	// Count returns the number of teams tracked.
	Count(ctx context.Context) int

	// Games returns the number of games applied.
	Games(ctx context.Context) int
}
