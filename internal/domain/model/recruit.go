package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/dynasty/internal/domain/team"
)

// RecruitStatus is a team's standing with a prospect.
type RecruitStatus string

// Recruit statuses.
const (
	StatusCommit   RecruitStatus = "commit"
	StatusInterest RecruitStatus = "interest"
	StatusLost     RecruitStatus = "lost"
)

// ParseRecruitStatus accepts a status in any case with surrounding spaces.
func ParseRecruitStatus(s string) (RecruitStatus, error) {
	st := RecruitStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// Valid reports whether s is a known status.
func (s RecruitStatus) Valid() bool { return s.Precedence() > 0 }

// Precedence orders statuses by how strongly they indicate the final outcome:
// commit > interest > lost. Unknown statuses rank 0.
func (s RecruitStatus) Precedence() int {
	switch s {
	case StatusCommit:
		return 3
	case StatusInterest:
		return 2
	case StatusLost:
		return 1
	default:
		return 0
	}
}

// RecruitEntry is an immutable recruiting report.
type RecruitEntry struct {
	ID       string
	Seq      uint64
	Team     string
	Side     team.Side
	Prospect string
	Stars    int
	Position string
	Status   RecruitStatus
	LoggedAt time.Time
}

// ProspectKey groups entries naming the same prospect.
func ProspectKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BattleWinner is the reconciled outcome of a recruiting battle.
type BattleWinner string

// Battle outcomes.
const (
	BattleA     BattleWinner = "A"
	BattleB     BattleWinner = "B"
	BattleChaos BattleWinner = "Chaos"
	BattleNone  BattleWinner = "None"
)

// BattleResult is one prospect contested by both primary parties.
type BattleResult struct {
	Prospect string
	Stars    int
	Position string
	Winner   BattleWinner
	StatusA  RecruitStatus
	StatusB  RecruitStatus
}
