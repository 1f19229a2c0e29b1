package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/dynasty/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.SubmitTimeout(), convey.ShouldEqual, 2*time.Second)
			convey.So(cfg.PrimaryA.Name, convey.ShouldEqual, "Akron")
			convey.So(cfg.PrimaryA.Aliases, convey.ShouldResemble, []string{"akron", "zips"})
			convey.So(cfg.PrimaryB.Name, convey.ShouldEqual, "Kent State")
			convey.So(cfg.PrimaryB.Division, convey.ShouldEqual, "MAC West")
			convey.So(cfg.OtherDivision, convey.ShouldEqual, "CPU Land")
			convey.So(cfg.Classify, convey.ShouldResemble, config.Classify{
				BlowoutMargin: 21, ClassicMargin: 3, UpsetMargin: 7, BeatdownMargin: 17,
			})
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When the primary parties share a name", func() {
			cfg.PrimaryB.Name = "akron"
			err := cfg.Validate()

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "primary parties must differ")
			})
		})

		convey.Convey("When a primary name is blank", func() {
			cfg.PrimaryA.Name = "  "
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the queue has no capacity", func() {
			cfg.QueueSize = 0
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When both parties claim the same alias", func() {
			cfg.PrimaryA.Aliases = append(cfg.PrimaryA.Aliases, "MAC")
			cfg.PrimaryB.Aliases = append(cfg.PrimaryB.Aliases, "  mac ")
			err := cfg.Validate()

			convey.Convey("Then validation fails naming the shared spelling", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, `"mac" names both primary parties`)
			})
		})

		convey.Convey("When an alias of one party is the other party's name", func() {
			cfg.PrimaryB.Aliases = []string{"kent", "Golden  Flashes", "akron"}
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, `"akron"`)
		})

		convey.Convey("When whitespace-only aliases appear on both sides", func() {
			cfg.PrimaryA.Aliases = append(cfg.PrimaryA.Aliases, " ")
			cfg.PrimaryB.Aliases = append(cfg.PrimaryB.Aliases, "")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When a classify margin is not positive", func() {
			cfg.Classify.UpsetMargin = 0
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "classify.upset_margin")
		})

		convey.Convey("When the classic margin reaches the blowout margin", func() {
			cfg.Classify.ClassicMargin = 21
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "classic_margin")
		})
	})
}
