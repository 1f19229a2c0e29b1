package team_test

import (
	"testing"

	"github.com/okian/dynasty/internal/domain/team"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalizer(t *testing.T) {
	Convey("Given the default normalizer", t, func() {
		n := team.DefaultNormalizer()

		Convey("When resolving aliases of the primary parties", func() {
			Convey("Then every spelling maps to the canonical name", func() {
				for _, raw := range []string{"akron", "Zips", "AKRON ", "  zips"} {
					So(n.Normalize(raw), ShouldEqual, "Akron")
				}
				for _, raw := range []string{"kent", "Kent State", "GOLDEN FLASHES", "golden   flashes", "kent\tstate"} {
					So(n.Normalize(raw), ShouldEqual, "Kent State")
				}
			})

			Convey("Then the side is tagged", func() {
				So(n.Resolve("zips"), ShouldResemble, team.Party{Side: team.PrimaryA, Name: "Akron"})
				So(n.Resolve("kent").Side, ShouldEqual, team.PrimaryB)
				So(n.Resolve("kent").IsPrimary(), ShouldBeTrue)
			})
		})

		Convey("When resolving an unknown team", func() {
			p := n.Resolve("  bowling   green falcons ")

			Convey("Then it is title-cased with collapsed whitespace", func() {
				So(p.Name, ShouldEqual, "Bowling Green Falcons")
				So(p.Side, ShouldEqual, team.Other)
				So(p.IsPrimary(), ShouldBeFalse)
			})

			Convey("Then only the first letter of each word changes", func() {
				So(n.Normalize("mIAMI (oh)"), ShouldEqual, "MIAMI (oh)")
				So(n.Normalize("ucf"), ShouldEqual, "Ucf")
				So(n.Normalize("école normale"), ShouldEqual, "École Normale")
			})
		})

		Convey("When normalizing twice", func() {
			inputs := []string{
				"", "   ", "akron", "ZIPS", "kent  state", "golden  flashes",
				"toledo rockets", "  ball   state ", "a", "ohio\tu", "UMass",
			}

			Convey("Then the result is stable", func() {
				for _, in := range inputs {
					once := n.Normalize(in)
					So(n.Normalize(once), ShouldEqual, once)
				}
			})
		})

		Convey("When looking up decoration", func() {
			So(n.Division(n.Resolve("akron")), ShouldEqual, "MAC East")
			So(n.Division(n.Resolve("kent")), ShouldEqual, "MAC West")
			So(n.Division(n.Resolve("toledo")), ShouldEqual, "CPU Land")
			So(n.Coach(n.Resolve("zips")), ShouldEqual, "Kyle")
			So(n.Coach(n.Resolve("golden flashes")), ShouldEqual, "Nick")
			So(n.Coach(n.Resolve("toledo")), ShouldEqual, "")
		})
	})

	Convey("Given custom profiles", t, func() {
		n := team.NewNormalizer(
			team.Profile{Name: "  Ohio  ", Aliases: []string{"Bobcats"}},
			team.Profile{Name: "Miami", Aliases: []string{"redhawks"}},
			team.WithOtherDivision("FCS"),
		)

		Convey("Then the canonical name is always an alias", func() {
			So(n.Normalize("ohio"), ShouldEqual, "Ohio")
			So(n.Normalize("BOBCATS"), ShouldEqual, "Ohio")
			So(n.Normalize("miami"), ShouldEqual, "Miami")
			So(n.Resolve("akron").Side, ShouldEqual, team.Other)
			So(n.Division(n.Resolve("akron")), ShouldEqual, "FCS")
			So(n.Profile(team.PrimaryB).Name, ShouldEqual, "Miami")
		})
	})

	Convey("Given parties whose spellings overlap", t, func() {
		akron := team.Profile{Name: "Akron", Aliases: []string{"akron", "mac"}}
		kent := team.Profile{Name: "Kent State", Aliases: []string{"kent", "MAC", "akron"}}

		Convey("Then a shared alias always resolves to the first party", func() {
			for i := 0; i < 200; i++ {
				n := team.NewNormalizer(akron, kent)
				So(n.Resolve("mac"), ShouldResemble, team.Party{Side: team.PrimaryA, Name: "Akron"})
			}
		})

		Convey("Then a party's own name beats the other party's alias", func() {
			n := team.NewNormalizer(
				team.Profile{Name: "Ohio", Aliases: []string{"kent state"}},
				kent,
			)
			So(n.Normalize("Kent  State"), ShouldEqual, "Kent State")
			So(n.Resolve("kent state").Side, ShouldEqual, team.PrimaryB)
		})
	})

	Convey("Given lookup keys", t, func() {
		So(team.Key("  Golden   FLASHES "), ShouldEqual, "golden flashes")
		So(team.Key(" \t"), ShouldEqual, "")
	})

	Convey("Given side values", t, func() {
		So(team.PrimaryA.String(), ShouldEqual, "A")
		So(team.PrimaryB.String(), ShouldEqual, "B")
		So(team.Other.String(), ShouldEqual, "Other")
	})
}
