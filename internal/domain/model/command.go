package model

import "time"

// GameReport is a final score as submitted by a client.
type GameReport struct {
	// ReportID optionally makes the submission idempotent.
	ReportID string
	TeamA    string
	ScoreA   int
	TeamB    string
	ScoreB   int
}

// RecruitReport is a recruiting report as submitted by a client.
type RecruitReport struct {
	Team     string
	Prospect string
	Stars    int
	Position string
	Status   RecruitStatus
}

// Command is a single mutation handed to the writer. Exactly one of Game and
// Recruit is set.
type Command struct {
	ID       string
	Game     *GameReport
	Recruit  *RecruitReport
	Enqueued time.Time

	// Reply receives exactly one result. It must be buffered so the writer
	// never blocks on an abandoned caller.
	Reply chan CommandResult
}

// Kind names the command for logs and metrics.
func (c *Command) Kind() string {
	switch {
	case c.Game != nil:
		return "report_game"
	case c.Recruit != nil:
		return "log_recruit"
	default:
		return "unknown"
	}
}

// CommandResult is the writer's answer to a Command.
type CommandResult struct {
	Outcome *GameOutcome
	// Recap is the story line chosen for Outcome.
	Recap string
	// Duplicate is set when Outcome was answered from the idempotency cache.
	Duplicate bool
	Entry     *RecruitEntry
	Err       error
}
