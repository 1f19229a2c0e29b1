// Package model contains domain models passed between layers.
package model

import (
	"fmt"

	"github.com/okian/dynasty/internal/domain/team"
)

// TeamRecord is a team's cumulative season record.
type TeamRecord struct {
	Wins          int
	Losses        int
	PointsFor     int
	PointsAgainst int
}

// Games is the number of finalized games the team appeared in.
func (r TeamRecord) Games() int { return r.Wins + r.Losses }

// Diff is the point differential.
func (r TeamRecord) Diff() int { return r.PointsFor - r.PointsAgainst }

// String renders the record as "W-L".
func (r TeamRecord) String() string { return fmt.Sprintf("%d-%d", r.Wins, r.Losses) }

// After returns the record once a game with the given score is added.
func (r TeamRecord) After(scored, allowed int, won bool) TeamRecord {
	if won {
		r.Wins++
	} else {
		r.Losses++
	}
	r.PointsFor += scored
	r.PointsAgainst += allowed
	return r
}

// Streak is a signed run length: positive for consecutive wins, negative for
// consecutive losses, zero for no games.
type Streak int

// AfterWin extends a winning run or starts a new one at 1.
func (s Streak) AfterWin() Streak {
	if s < 0 {
		return 1
	}
	return s + 1
}

// AfterLoss extends a losing run or starts a new one at -1.
func (s Streak) AfterLoss() Streak {
	if s > 0 {
		return -1
	}
	return s - 1
}

// Hot reports a winning run of at least two games.
func (s Streak) Hot() bool { return s >= 2 }

// Cold reports a losing run of at least two games.
func (s Streak) Cold() bool { return s <= -2 }

// Text renders the streak as W3, L2 or "-".
func (s Streak) Text() string {
	switch {
	case s > 0:
		return fmt.Sprintf("W%d", s)
	case s < 0:
		return fmt.Sprintf("L%d", -s)
	default:
		return "-"
	}
}

// RivalryLeader names who leads the head-to-head series.
type RivalryLeader string

// Rivalry leaders.
const (
	LeaderA    RivalryLeader = "A"
	LeaderB    RivalryLeader = "B"
	LeaderTied RivalryLeader = "Tied"
)

// Rivalry is the head-to-head tally between the two primary parties.
type Rivalry struct {
	AWins int
	BWins int
}

// Total is the number of head-to-head games played.
func (r Rivalry) Total() int { return r.AWins + r.BWins }

// Leader reports which side leads the series.
func (r Rivalry) Leader() RivalryLeader {
	switch {
	case r.AWins > r.BWins:
		return LeaderA
	case r.BWins > r.AWins:
		return LeaderB
	default:
		return LeaderTied
	}
}

// After returns the tally with a win credited to side. Non-primary sides
// leave it unchanged.
func (r Rivalry) After(winner team.Side) Rivalry {
	switch winner {
	case team.PrimaryA:
		r.AWins++
	case team.PrimaryB:
		r.BWins++
	}
	return r
}
