package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	service "github.com/okian/dynasty/internal/app"
	"github.com/okian/dynasty/internal/domain/classify"
	"github.com/okian/dynasty/internal/domain/model"
	"github.com/okian/dynasty/internal/domain/team"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEngine_ReportResult(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh engine", t, func() {
		e := service.NewEngine()

		Convey("When Kent State beats Akron 38-35", func() {
			out, err := e.ReportResult(ctx, "Akron", 35, "Kent State", 38)

			Convey("Then it is a rivalry classic", func() {
				So(err, ShouldBeNil)
				So(out.Winner.Name, ShouldEqual, "Kent State")
				So(out.Loser.Name, ShouldEqual, "Akron")
				So(out.Margin, ShouldEqual, 3)
				So(out.Label, ShouldEqual, model.LabelClassic)
				So(out.Rivalry, ShouldBeTrue)
			})

			Convey("Then the rivalry tally credits Kent State", func() {
				So(e.Rivalry(ctx), ShouldResemble, model.Rivalry{AWins: 0, BWins: 1})
			})

			Convey("Then both records reflect the game", func() {
				So(out.WinnerRecord, ShouldResemble, model.TeamRecord{Wins: 1, PointsFor: 38, PointsAgainst: 35})
				So(out.LoserRecord, ShouldResemble, model.TeamRecord{Losses: 1, PointsFor: 35, PointsAgainst: 38})
				So(out.WinnerStreak, ShouldEqual, 1)
				So(out.LoserStreak, ShouldEqual, -1)
			})
		})

		Convey("When names arrive under different spellings", func() {
			_, err := e.ReportResult(ctx, "zips", 24, "  toledo  rockets ", 10)
			So(err, ShouldBeNil)
			_, err = e.ReportResult(ctx, "AKRON ", 17, "Toledo Rockets", 14)
			So(err, ShouldBeNil)

			Convey("Then they share one record", func() {
				rows := e.Standings(ctx)
				So(rows, ShouldHaveLength, 2)
				So(rows[0].Team, ShouldResemble, team.Party{Side: team.PrimaryA, Name: "Akron"})
				So(rows[0].Record.Wins, ShouldEqual, 2)
				So(rows[1].Team.Name, ShouldEqual, "Toledo Rockets")
				So(rows[1].Streak, ShouldEqual, -2)
			})

			Convey("Then third-party games leave the rivalry alone", func() {
				So(e.Rivalry(ctx).Total(), ShouldEqual, 0)
			})
		})

		Convey("When the loser had more wins and both are primary parties", func() {
			for i := 0; i < 2; i++ {
				_, err := e.ReportResult(ctx, "Akron", 30, fmt.Sprintf("Cpu %d", i), 0)
				So(err, ShouldBeNil)
			}
			_, err := e.ReportResult(ctx, "Kent", 10, "Cpu 9", 7)
			So(err, ShouldBeNil)

			out, err := e.ReportResult(ctx, "Kent State", 35, "Akron", 10)

			Convey("Then the rivalry beatdown wins over upset and blowout", func() {
				So(err, ShouldBeNil)
				So(out.Margin, ShouldEqual, 25)
				So(out.Label, ShouldEqual, model.LabelRivalryBeatdown)
			})
		})

		Convey("When the underdog wins by a touchdown against a third party", func() {
			_, _ = e.ReportResult(ctx, "Ohio", 20, "Buffalo", 10)
			_, _ = e.ReportResult(ctx, "Ohio", 20, "Miami", 10)
			_, _ = e.ReportResult(ctx, "Buffalo", 20, "Miami", 17)

			out, err := e.ReportResult(ctx, "Buffalo", 27, "Ohio", 20)

			Convey("Then it is an upset", func() {
				So(err, ShouldBeNil)
				So(out.Label, ShouldEqual, model.LabelUpset)
			})
		})

		Convey("When a team without a record beats a winning team", func() {
			_, _ = e.ReportResult(ctx, "Ohio", 20, "Buffalo", 10)
			out, err := e.ReportResult(ctx, "Newcomer", 30, "Ohio", 20)

			Convey("Then it is not an upset", func() {
				So(err, ShouldBeNil)
				So(out.Label, ShouldEqual, model.LabelSolidWin)
			})
		})
	})
}

func TestEngine_WithRules(t *testing.T) {
	ctx := context.Background()

	Convey("Given an engine with tighter thresholds", t, func() {
		e := service.NewEngine(service.WithRules(classify.New(
			classify.WithBlowoutMargin(10),
			classify.WithClassicMargin(1),
			classify.WithBeatdownMargin(30),
		)))

		Convey("Then a 14-point third-party win is a blowout", func() {
			out, err := e.ReportResult(ctx, "Toledo", 28, "Ohio", 14)
			So(err, ShouldBeNil)
			So(out.Label, ShouldEqual, model.LabelBlowout)
		})

		Convey("Then a 3-point game is no longer a classic", func() {
			out, err := e.ReportResult(ctx, "Toledo", 17, "Ohio", 14)
			So(err, ShouldBeNil)
			So(out.Label, ShouldEqual, model.LabelSolidWin)
		})

		Convey("Then a 25-point rivalry win stops short of a beatdown", func() {
			out, err := e.ReportResult(ctx, "Kent State", 35, "Akron", 10)
			So(err, ShouldBeNil)
			So(out.Label, ShouldEqual, model.LabelBlowout)
		})
	})

	Convey("A nil rule set keeps the defaults", t, func() {
		e := service.NewEngine(service.WithRules(nil))
		out, err := e.ReportResult(ctx, "Toledo", 28, "Ohio", 14)
		So(err, ShouldBeNil)
		So(out.Label, ShouldEqual, model.LabelSolidWin)
	})
}

func TestEngine_Validation(t *testing.T) {
	ctx := context.Background()

	Convey("Given an engine with one game played", t, func() {
		e := service.NewEngine()
		_, err := e.ReportResult(ctx, "Akron", 21, "Ohio", 14)
		So(err, ShouldBeNil)
		before := e.Standings(ctx)

		Convey("When a tied score is reported", func() {
			out, err := e.ReportResult(ctx, "x", 10, "y", 10)

			Convey("Then it fails with ErrTiedScore and nothing changes", func() {
				So(out, ShouldBeNil)
				So(errors.Is(err, model.ErrTiedScore), ShouldBeTrue)
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				So(cmp.Diff(before, e.Standings(ctx)), ShouldBeEmpty)
			})
		})

		Convey("When a negative score is reported", func() {
			_, err := e.ReportResult(ctx, "Akron", -3, "Ohio", 7)

			Convey("Then it fails with ErrInvalidScore", func() {
				So(errors.Is(err, model.ErrInvalidScore), ShouldBeTrue)
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				So(cmp.Diff(before, e.Standings(ctx)), ShouldBeEmpty)
			})
		})

		Convey("When a negative tie is reported", func() {
			_, err := e.ReportResult(ctx, "Akron", -1, "Ohio", -1)

			Convey("Then the score check comes first", func() {
				So(errors.Is(err, model.ErrInvalidScore), ShouldBeTrue)
			})
		})

		Convey("When a team is reported against itself", func() {
			_, err := e.ReportResult(ctx, "zips", 10, "Akron", 7)

			Convey("Then it fails with ErrSameTeam", func() {
				So(errors.Is(err, model.ErrSameTeam), ShouldBeTrue)
				So(cmp.Diff(before, e.Standings(ctx)), ShouldBeEmpty)
			})
		})
	})
}

func TestEngine_Invariants(t *testing.T) {
	ctx := context.Background()

	Convey("Given a sequence of results", t, func() {
		e := service.NewEngine()
		games := []struct {
			a      string
			sa     int
			b      string
			sb     int
			winner string
		}{
			{"Akron", 28, "Kent", 21, "Akron"},
			{"Akron", 14, "Toledo", 17, "Toledo"},
			{"Toledo", 35, "Kent", 10, "Toledo"},
			{"Kent", 24, "Ohio", 20, "Kent State"},
			{"Akron", 3, "Ohio", 0, "Akron"},
			{"Ohio", 44, "Toledo", 41, "Ohio"},
			{"Akron", 31, "Kent", 30, "Akron"},
		}
		lastResult := map[string]bool{}
		run := map[string]int{}
		totalA, totalB := 0, 0
		for _, g := range games {
			out, err := e.ReportResult(ctx, g.a, g.sa, g.b, g.sb)
			So(err, ShouldBeNil)
			So(out.Winner.Name, ShouldEqual, g.winner)
			for name, won := range map[string]bool{out.Winner.Name: true, out.Loser.Name: false} {
				if prev, ok := lastResult[name]; ok && prev == won {
					run[name]++
				} else {
					run[name] = 1
				}
				lastResult[name] = won
			}
			totalA += g.sa
			totalB += g.sb
		}

		Convey("Then wins, losses and points add up", func() {
			wins, losses, pf, pa := 0, 0, 0, 0
			for _, row := range e.Standings(ctx) {
				wins += row.Record.Wins
				losses += row.Record.Losses
				pf += row.Record.PointsFor
				pa += row.Record.PointsAgainst
			}
			So(wins, ShouldEqual, len(games))
			So(losses, ShouldEqual, len(games))
			So(pf, ShouldEqual, totalA+totalB)
			So(pa, ShouldEqual, totalA+totalB)
		})

		Convey("Then each streak's sign and size match the latest run", func() {
			streaks := e.Streaks(ctx)
			So(streaks, ShouldHaveLength, len(lastResult))
			for name, won := range lastResult {
				if won {
					So(int(streaks[name]), ShouldEqual, run[name])
				} else {
					So(int(streaks[name]), ShouldEqual, -run[name])
				}
			}
		})

		Convey("Then the rivalry counts only head-to-head games", func() {
			So(e.Rivalry(ctx), ShouldResemble, model.Rivalry{AWins: 2, BWins: 0})
		})

		Convey("Then the standings are ranked by wins then differential", func() {
			rows := e.Standings(ctx)
			for i := 1; i < len(rows); i++ {
				prev, cur := rows[i-1].Record, rows[i].Record
				So(prev.Wins > cur.Wins || (prev.Wins == cur.Wins && prev.Diff() >= cur.Diff()), ShouldBeTrue)
				So(rows[i].Rank, ShouldEqual, i+1)
			}
		})
	})

	Convey("Given teams tied on wins and differential", t, func() {
		e := service.NewEngine()
		_, _ = e.ReportResult(ctx, "Buffalo", 20, "Ohio", 10)
		_, _ = e.ReportResult(ctx, "Miami", 20, "Toledo", 10)
		_, _ = e.ReportResult(ctx, "Akron", 20, "Ball State", 10)

		Convey("Then repeated calls keep insertion order", func() {
			want := []string{"Buffalo", "Miami", "Akron", "Ohio", "Toledo", "Ball State"}
			for i := 0; i < 3; i++ {
				var got []string
				for _, row := range e.Standings(ctx) {
					got = append(got, row.Team.Name)
				}
				So(cmp.Diff(want, got), ShouldBeEmpty)
			}
		})
	})
}

func TestEngine_Recruiting(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC)

	Convey("Given an engine with a fixed clock", t, func() {
		ids := 0
		e := service.NewEngine(
			service.WithClock(func() time.Time { return fixed }),
			service.WithIDGenerator(func() string { ids++; return fmt.Sprintf("r-%d", ids) }),
		)

		Convey("When Akron commits and Kent shows interest in John Doe", func() {
			first, err := e.LogRecruit(ctx, "Akron", "John Doe", 4, "qb", model.StatusCommit)
			So(err, ShouldBeNil)
			_, err = e.LogRecruit(ctx, "Kent", "john doe", 5, "QB", model.StatusInterest)
			So(err, ShouldBeNil)

			Convey("Then the entry is normalized", func() {
				So(first.ID, ShouldEqual, "r-1")
				So(first.Team, ShouldEqual, "Akron")
				So(first.Side, ShouldEqual, team.PrimaryA)
				So(first.Position, ShouldEqual, "QB")
				So(first.LoggedAt, ShouldEqual, fixed)
			})

			Convey("Then Akron wins the battle at five stars", func() {
				battles := e.RecruitBattles(ctx)
				So(battles, ShouldHaveLength, 1)
				So(battles[0].Prospect, ShouldEqual, "John Doe")
				So(battles[0].Winner, ShouldEqual, model.BattleA)
				So(battles[0].Stars, ShouldEqual, 5)
				So(battles[0].Position, ShouldEqual, "QB")
			})
		})

		Convey("When both parties log a commit", func() {
			_, _ = e.LogRecruit(ctx, "zips", "Jay Smith", 3, "wr", model.StatusCommit)
			_, _ = e.LogRecruit(ctx, "golden flashes", "JAY SMITH", 3, "", model.StatusCommit)

			Convey("Then the battle is chaos", func() {
				battles := e.RecruitBattles(ctx)
				So(battles, ShouldHaveLength, 1)
				So(battles[0].Winner, ShouldEqual, model.BattleChaos)
			})
		})

		Convey("When only one party or a third party is involved", func() {
			_, _ = e.LogRecruit(ctx, "Akron", "Solo", 3, "te", model.StatusInterest)
			_, _ = e.LogRecruit(ctx, "Toledo", "Solo", 3, "te", model.StatusCommit)

			Convey("Then there is no battle", func() {
				So(e.RecruitBattles(ctx), ShouldBeEmpty)
			})
		})

		Convey("When the status is not known", func() {
			_, err := e.LogRecruit(ctx, "Akron", "Ghost", 2, "k", model.RecruitStatus("visit"))

			Convey("Then it is rejected without touching the ledger", func() {
				So(errors.Is(err, model.ErrUnknownStatus), ShouldBeTrue)
				_, _, recruits := e.Totals(ctx)
				So(recruits, ShouldEqual, 0)
			})
		})
	})
}
