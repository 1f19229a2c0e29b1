package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/okian/dynasty/internal/domain/types"
)

var (
	hot     = color.New(color.FgRed, color.Bold)
	cold    = color.New(color.FgBlue)
	winner  = color.New(color.FgGreen, color.Bold)
	label   = color.New(color.FgYellow)
	muted   = color.New(color.Faint)
	warning = color.New(color.FgMagenta, color.Bold)
)

func streak(n int, text string) string {
	switch {
	case n >= 2:
		return hot.Sprint(text)
	case n <= -2:
		return cold.Sprint(text)
	default:
		return text
	}
}

// RenderOutcome prints a finalized game.
func RenderOutcome(w io.Writer, o types.GameOutcome) {
	fmt.Fprintf(w, "FINAL: %s %d, %s %d  %s\n",
		winner.Sprint(o.Winner.Team), o.Winner.Score, o.Loser.Team, o.Loser.Score, label.Sprintf("[%s]", o.LabelText))
	if o.Duplicate {
		fmt.Fprintln(w, muted.Sprint("  (already reported; nothing changed)"))
	}
	if o.Recap != "" {
		fmt.Fprintf(w, "  %s\n", o.Recap)
	}
	fmt.Fprintf(w, "  %s %d-%d (%s)  |  %s %d-%d (%s)\n",
		o.Winner.Team, o.Winner.Record.Wins, o.Winner.Record.Losses, streak(o.Winner.Streak, o.Winner.StreakText),
		o.Loser.Team, o.Loser.Record.Wins, o.Loser.Record.Losses, streak(o.Loser.Streak, o.Loser.StreakText))
	if o.WinnerHot {
		fmt.Fprintf(w, "  %s is on fire: %s\n", o.Winner.Team, hot.Sprint(o.Winner.StreakText))
	}
	if o.LoserCold {
		fmt.Fprintf(w, "  %s can't buy a win: %s\n", o.Loser.Team, cold.Sprint(o.Loser.StreakText))
	}
}

// RenderStandings prints the league table.
func RenderStandings(w io.Writer, rows []types.Standing) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No games reported yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTEAM\tDIVISION\tW-L\tPF\tPA\tDIFF\tSTREAK")
	for _, s := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d-%d\t%d\t%d\t%+d\t%s\n",
			s.Rank, s.Team, s.Division, s.Record.Wins, s.Record.Losses,
			s.Record.PointsFor, s.Record.PointsAgainst, s.Record.Diff, streak(s.Streak, s.StreakText))
	}
	_ = tw.Flush()
}

// RenderStreaks prints active streaks, hottest first.
func RenderStreaks(w io.Writer, s types.Streaks) {
	if len(s.Ordered) == 0 {
		fmt.Fprintln(w, "No active streaks.")
		return
	}
	for _, e := range s.Ordered {
		fmt.Fprintf(w, "%-24s %s\n", e.Team, streak(e.Streak, e.Text))
	}
}

// RenderRivalry prints the head-to-head tally.
func RenderRivalry(w io.Writer, r types.Rivalry) {
	fmt.Fprintf(w, "%s %d - %d %s", r.PrimaryA, r.AWins, r.BWins, r.PrimaryB)
	switch r.Leader {
	case "A":
		fmt.Fprintf(w, "  %s leads\n", winner.Sprint(r.PrimaryA))
	case "B":
		fmt.Fprintf(w, "  %s leads\n", winner.Sprint(r.PrimaryB))
	default:
		if r.Total == 0 {
			fmt.Fprintln(w, muted.Sprint("  no games yet"))
			return
		}
		fmt.Fprintln(w, "  all square")
	}
}

// RenderRecruit prints a logged recruiting entry.
func RenderRecruit(w io.Writer, e types.RecruitEntry) {
	fmt.Fprintf(w, "Logged: %s  %s %d* %s  %s\n", e.Team, e.Prospect, e.Stars, e.Position, label.Sprint(e.Status))
}

// RenderBattles prints reconciled recruiting battles.
func RenderBattles(w io.Writer, b types.Battles) {
	if len(b.Battles) == 0 {
		fmt.Fprintln(w, "No recruiting battles.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "PROSPECT\tSTARS\tPOS\t%s\t%s\tOUTCOME\n", b.PrimaryA, b.PrimaryB)
	for _, br := range b.Battles {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			br.Prospect, br.Stars, br.Position, br.StatusA, br.StatusB, battleOutcome(br))
	}
	_ = tw.Flush()
}

func battleOutcome(b types.Battle) string {
	switch b.Winner {
	case "A", "B":
		return winner.Sprint(b.WinnerTeam)
	case "Chaos":
		return warning.Sprint("CHAOS (both committed)")
	default:
		return muted.Sprint("undecided")
	}
}
