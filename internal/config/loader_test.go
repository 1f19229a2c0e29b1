package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/dynasty/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		_ = os.Setenv("DYNASTY_ENV_FILE", "does-not-exist.env")
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.PrimaryA.Name, convey.ShouldEqual, "Akron")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DYNASTY_ADDR", ":8080")
			_ = os.Setenv("DYNASTY_QUEUE_SIZE", "16")
			_ = os.Setenv("DYNASTY_RECAP_SEED", "42")
			_ = os.Setenv("DYNASTY_PRIMARY_B_COACH", "Dana")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 16)
				convey.So(cfg.RecapSeed, convey.ShouldEqual, 42)
				convey.So(cfg.PrimaryB.Coach, convey.ShouldEqual, "Dana")
				convey.So(cfg.PrimaryB.Name, convey.ShouldEqual, "Kent State")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
queue_size: 300
dedupe_size: 50
primary_a:
  name: "Ohio"
  aliases: ["ohio", "bobcats"]
  division: "MAC East"
  coach: "Tim"
other_division: "FCS"
`
			tmpFile := createTempFile(yamlContent, "dynasty-config-*.yaml")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("DYNASTY_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50)
				convey.So(cfg.PrimaryA.Name, convey.ShouldEqual, "Ohio")
				convey.So(cfg.PrimaryA.Aliases, convey.ShouldResemble, []string{"ohio", "bobcats"})
				convey.So(cfg.OtherDivision, convey.ShouldEqual, "FCS")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempFile("addr: \":9090\"\nqueue_size: 300\n", "dynasty-config-*.yaml")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("DYNASTY_CONFIG", tmpFile)
			_ = os.Setenv("DYNASTY_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
			})
		})

		convey.Convey("When loading a .env file", func() {
			envFile := createTempFile("DYNASTY_LOG_LEVEL=debug\nDYNASTY_FEED_BUFFER=8\n", "dynasty-*.env")
			defer func() { _ = os.Remove(envFile) }()
			_ = os.Setenv("DYNASTY_ENV_FILE", envFile)
			_ = os.Setenv("DYNASTY_FEED_BUFFER", "4")

			cfg, err := config.Load(ctx)

			convey.Convey("Then its values apply without overriding the real environment", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.FeedBuffer, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempFile(`invalid: yaml: content: [`, "dynasty-config-*.yaml")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("DYNASTY_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("DYNASTY_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the environment gives both parties an alias", func() {
			_ = os.Setenv("DYNASTY_PRIMARY_B_ALIASES", "kent,akron")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When classify thresholds come from the environment", func() {
			_ = os.Setenv("DYNASTY_CLASSIFY_UPSET_MARGIN", "10")
			_ = os.Setenv("DYNASTY_CLASSIFY_BLOWOUT_MARGIN", "28")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Classify.UpsetMargin, convey.ShouldEqual, 10)
				convey.So(cfg.Classify.BlowoutMargin, convey.ShouldEqual, 28)
				convey.So(cfg.Classify.ClassicMargin, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the configured primary parties collide", func() {
			_ = os.Setenv("DYNASTY_PRIMARY_B_NAME", "Akron")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"DYNASTY_CONFIG",
		"DYNASTY_ENV_FILE",
		"DYNASTY_ADDR",
		"DYNASTY_LOG_LEVEL",
		"DYNASTY_QUEUE_SIZE",
		"DYNASTY_FEED_BUFFER",
		"DYNASTY_RECAP_SEED",
		"DYNASTY_PRIMARY_B_NAME",
		"DYNASTY_PRIMARY_B_COACH",
		"DYNASTY_PRIMARY_B_ALIASES",
		"DYNASTY_CLASSIFY_UPSET_MARGIN",
		"DYNASTY_CLASSIFY_BLOWOUT_MARGIN",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempFile(content, pattern string) string {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
