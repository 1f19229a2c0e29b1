// Package classify assigns a narrative label to a finalized game.
package classify

import "github.com/okian/dynasty/internal/domain/model"

// Default thresholds, all in points of margin.
const (
	defaultBlowoutMargin  = 21
	defaultClassicMargin  = 3
	defaultUpsetMargin    = 7
	defaultBeatdownMargin = 17
)

// Input is everything the classification depends on.
type Input struct {
	Margin int
	// Rivalry is set when both participants are primary parties.
	Rivalry bool
	// PrevWinner and PrevLoser are the pre-game records; nil when the team
	// had never played.
	PrevWinner *model.TeamRecord
	PrevLoser  *model.TeamRecord
}

// Rules holds the margin thresholds.
type Rules struct {
	blowout  int
	classic  int
	upset    int
	beatdown int
}

// Option applies a configuration option to Rules.
type Option func(*Rules)

// WithBlowoutMargin sets the minimum margin of a blowout.
func WithBlowoutMargin(m int) Option {
	return func(r *Rules) {
		if m > 0 {
			r.blowout = m
		}
	}
}

// WithClassicMargin sets the maximum margin of a classic.
func WithClassicMargin(m int) Option {
	return func(r *Rules) {
		if m > 0 {
			r.classic = m
		}
	}
}

// WithUpsetMargin sets the minimum margin for an upset.
func WithUpsetMargin(m int) Option {
	return func(r *Rules) {
		if m > 0 {
			r.upset = m
		}
	}
}

// WithBeatdownMargin sets the minimum margin of a rivalry beatdown.
func WithBeatdownMargin(m int) Option {
	return func(r *Rules) {
		if m > 0 {
			r.beatdown = m
		}
	}
}

// New creates Rules with the league defaults.
func New(opts ...Option) *Rules {
	r := &Rules{
		blowout:  defaultBlowoutMargin,
		classic:  defaultClassicMargin,
		upset:    defaultUpsetMargin,
		beatdown: defaultBeatdownMargin,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Classify labels a game. The checks run base, then upset, then rivalry, and
// each later check overwrites the earlier label when it applies.
func (r *Rules) Classify(in Input) model.Label {
	var label model.Label
	switch {
	case in.Margin >= r.blowout:
		label = model.LabelBlowout
	case in.Margin <= r.classic:
		label = model.LabelClassic
	default:
		label = model.LabelSolidWin
	}

	// A team without a record can neither be upset nor pull one off.
	if in.PrevWinner != nil && in.PrevLoser != nil &&
		in.PrevLoser.Wins > in.PrevWinner.Wins && in.Margin >= r.upset {
		label = model.LabelUpset
	}

	if in.Rivalry && in.Margin >= r.beatdown {
		label = model.LabelRivalryBeatdown
	}
	return label
}
