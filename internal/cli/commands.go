// Package cli implements the dynasty command line client.
package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/okian/dynasty/internal/domain/types"
	"github.com/spf13/cobra"
)

const (
	defaultServer  = "http://localhost:9080"
	defaultTimeout = 5 * time.Second
)

// RootCmd returns the dynasty command tree.
func RootCmd() *cobra.Command {
	var (
		server  string
		timeout time.Duration
		noColor bool
	)
	if env := os.Getenv("DYNASTY_SERVER"); env != "" {
		server = env
	}

	root := &cobra.Command{
		Use:   "dynasty",
		Short: "Report games and recruits to a dynasty league server",
		Long: `dynasty talks to a running league server.

Examples:
  dynasty final Zips 35 "Kent State" 38
  dynasty standings
  dynasty recruit Akron "John Doe" --stars 4 --position qb --status commit
  dynasty battles
  dynasty simulate --games 20 --seed 7`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVar(&server, "server", server, "league server base URL (env DYNASTY_SERVER)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "request timeout")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	client := func() *Client { return NewClient(server, timeout) }

	root.AddCommand(
		finalCmd(client),
		standingsCmd(client),
		streaksCmd(client),
		rivalryCmd(client),
		recruitCmd(client),
		battlesCmd(client),
		simulateCmd(client),
	)
	return root
}

func finalCmd(client func() *Client) *cobra.Command {
	var reportID string
	cmd := &cobra.Command{
		Use:   "final TEAM_A SCORE_A TEAM_B SCORE_B",
		Short: "Report a final score",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			sa, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid score %q: %w", args[1], err)
			}
			sb, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("invalid score %q: %w", args[3], err)
			}
			out, err := client().ReportGame(cmd.Context(), types.GameRequest{
				ReportID: reportID,
				TeamA:    args[0],
				ScoreA:   &sa,
				TeamB:    args[2],
				ScoreB:   &sb,
			})
			if err != nil {
				return err
			}
			RenderOutcome(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&reportID, "report-id", "", "idempotency key; a repeat is acknowledged, not applied")
	return cmd
}

func standingsCmd(client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "standings",
		Short: "Show the league table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rows, err := client().Standings(cmd.Context())
			if err != nil {
				return err
			}
			RenderStandings(cmd.OutOrStdout(), rows)
			return nil
		},
	}
}

func streaksCmd(client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "streaks",
		Short: "Show active win and loss streaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := client().Streaks(cmd.Context())
			if err != nil {
				return err
			}
			RenderStreaks(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func rivalryCmd(client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "rivalry",
		Short: "Show the head-to-head tally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := client().Rivalry(cmd.Context())
			if err != nil {
				return err
			}
			RenderRivalry(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

func recruitCmd(client func() *Client) *cobra.Command {
	var (
		stars    int
		position string
		status   string
	)
	cmd := &cobra.Command{
		Use:   "recruit TEAM PROSPECT",
		Short: "Log a recruiting report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := client().LogRecruit(cmd.Context(), types.RecruitRequest{
				Team:     args[0],
				Prospect: args[1],
				Stars:    stars,
				Position: position,
				Status:   status,
			})
			if err != nil {
				return err
			}
			RenderRecruit(cmd.OutOrStdout(), e)
			return nil
		},
	}
	cmd.Flags().IntVar(&stars, "stars", 3, "star rating")
	cmd.Flags().StringVar(&position, "position", "", "position, e.g. qb")
	cmd.Flags().StringVar(&status, "status", "", "commit, interest or lost")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func battlesCmd(client func() *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "battles",
		Short: "Show prospects both primary teams are chasing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := client().Battles(cmd.Context())
			if err != nil {
				return err
			}
			RenderBattles(cmd.OutOrStdout(), b)
			return nil
		},
	}
}

func simulateCmd(client func() *Client) *cobra.Command {
	opts := SimOptions{}
	var opponents string
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a random season against the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opponents != "" {
				for _, o := range strings.Split(opponents, ",") {
					if o = strings.TrimSpace(o); o != "" {
						opts.Opponents = append(opts.Opponents, o)
					}
				}
			}
			if opts.Seed == 0 {
				opts.Seed = time.Now().UnixNano()
			}

			c := client()
			sum, err := Simulate(cmd.Context(), c, opts)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Simulated season (seed %d): %d applied, %d duplicates, %d rejected\n",
				opts.Seed, sum.Applied, sum.Duplicates, sum.Failed)
			names := make([]string, 0, len(sum.Labels))
			for name := range sum.Labels {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(w, "  %-18s %d\n", name, sum.Labels[name])
			}

			rows, err := c.Standings(cmd.Context())
			if err != nil {
				return err
			}
			RenderStandings(w, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Games, "games", defaultSimGames, "number of games")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", defaultSimConcurrency, "concurrent reporters")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "schedule seed; 0 picks one from the clock")
	cmd.Flags().Float64Var(&opts.RetryRate, "retry-rate", 0.1, "share of reports re-sent with the same report id")
	cmd.Flags().StringVar(&opts.PrimaryA, "primary-a", "Akron", "first primary team")
	cmd.Flags().StringVar(&opts.PrimaryB, "primary-b", "Kent State", "second primary team")
	cmd.Flags().StringVar(&opponents, "opponents", "", "comma separated CPU opponents")
	return cmd
}
