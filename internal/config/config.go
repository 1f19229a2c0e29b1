// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file, a .env file and the environment on top of them.
// - Errors are wrapped with ErrInvalidConfig or ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/dynasty/internal/domain/team"
)

// Party describes one of the two primary league parties.
type Party struct {
	// Name is the canonical display name, e.g. "Kent State".
	Name string `koanf:"name"`

	// Aliases are lower-case spellings that resolve to Name.
	Aliases []string `koanf:"aliases"`

	// Division and Coach decorate standings rows.
	Division string `koanf:"division"`
	Coach    string `koanf:"coach"`
}

// Classify holds the game label thresholds, all in points of margin.
type Classify struct {
	// BlowoutMargin is the smallest margin labelled a blowout.
	BlowoutMargin int `koanf:"blowout_margin"`
	// ClassicMargin is the largest margin labelled a classic.
	ClassicMargin int `koanf:"classic_margin"`
	UpsetMargin   int `koanf:"upset_margin"`
	// BeatdownMargin is the smallest rivalry margin labelled a beatdown.
	BeatdownMargin int `koanf:"beatdown_margin"`
}

func (c Classify) validate() error {
	margins := [...]struct {
		name string
		v    int
	}{
		{"blowout_margin", c.BlowoutMargin},
		{"classic_margin", c.ClassicMargin},
		{"upset_margin", c.UpsetMargin},
		{"beatdown_margin", c.BeatdownMargin},
	}
	for _, m := range margins {
		if m.v <= 0 {
			return fmt.Errorf("%w: classify.%s must be positive, got %d", ErrInvalidConfig, m.name, m.v)
		}
	}
	if c.ClassicMargin >= c.BlowoutMargin {
		return fmt.Errorf("%w: classify.classic_margin (%d) must be below blowout_margin (%d)",
			ErrInvalidConfig, c.ClassicMargin, c.BlowoutMargin)
	}
	return nil
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the writer command queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize caps the number of remembered report ids.
	DedupeSize int `koanf:"dedupe_size"`

	// SubmitTimeoutMS bounds how long an HTTP mutation waits for the writer.
	SubmitTimeoutMS int `koanf:"submit_timeout_ms"`

	// FeedBuffer is the per-client send buffer of the live feed.
	FeedBuffer int `koanf:"feed_buffer"`

	// RecapSeed seeds recap selection. Zero seeds from the clock.
	RecapSeed int64 `koanf:"recap_seed"`

	PrimaryA Party `koanf:"primary_a"`
	PrimaryB Party `koanf:"primary_b"`

	// OtherDivision labels every non-primary team.
	OtherDivision string `koanf:"other_division"`

	Classify Classify `koanf:"classify"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		QueueSize:       1024,
		DedupeSize:      10_000,
		SubmitTimeoutMS: 2000,
		FeedBuffer:      64,
		RecapSeed:       0,
		PrimaryA: Party{
			Name:     "Akron",
			Aliases:  []string{"akron", "zips"},
			Division: "MAC East",
			Coach:    "Kyle",
		},
		PrimaryB: Party{
			Name:     "Kent State",
			Aliases:  []string{"kent", "kent state", "golden flashes"},
			Division: "MAC West",
			Coach:    "Nick",
		},
		OtherDivision: "CPU Land",
		Classify: Classify{
			BlowoutMargin:  21,
			ClassicMargin:  3,
			UpsetMargin:    7,
			BeatdownMargin: 17,
		},
	}
}

// SubmitTimeout returns SubmitTimeoutMS as a duration.
func (c *Config) SubmitTimeout() time.Duration {
	return time.Duration(c.SubmitTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	}
	a := strings.TrimSpace(c.PrimaryA.Name)
	b := strings.TrimSpace(c.PrimaryB.Name)
	if a == "" || b == "" {
		return fmt.Errorf("%w: primary party names must not be empty", ErrInvalidConfig)
	}
	if strings.EqualFold(a, b) {
		return fmt.Errorf("%w: primary parties must differ, both are %q", ErrInvalidConfig, a)
	}
	claimed := spellings(c.PrimaryA)
	for key := range spellings(c.PrimaryB) {
		if _, ok := claimed[key]; ok {
			return fmt.Errorf("%w: %q names both primary parties", ErrInvalidConfig, key)
		}
	}
	if err := c.Classify.validate(); err != nil {
		return err
	}
	return nil
}

// spellings returns the lookup keys a party answers to.
func spellings(p Party) map[string]struct{} {
	out := make(map[string]struct{}, len(p.Aliases)+1)
	for _, s := range append([]string{p.Name}, p.Aliases...) {
		if key := team.Key(s); key != "" {
			out[key] = struct{}{}
		}
	}
	return out
}
