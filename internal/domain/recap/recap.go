// Package recap produces the one-line story told about a finalized game.
// Candidates is deterministic; only Picker involves randomness, and its
// source is injected.
package recap

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/dynasty/internal/domain/model"
)

// Input describes the game being recapped.
type Input struct {
	Label   model.Label
	Rivalry bool
	Margin  int
	Winner  string
	Loser   string
	// Coaches are empty for non-primary teams.
	WinnerCoach string
	LoserCoach  string
}

const (
	rivalryRoutMargin = 21
	rivalryCloseCall  = 3
	commandingMargin  = 10
)

// Candidates returns every line that fits the game, never empty.
func Candidates(in Input) []string {
	w, l := in.Winner, in.Loser
	wc, lc := coach(in.WinnerCoach, w), coach(in.LoserCoach, l)

	if in.Rivalry {
		switch {
		case in.Margin >= rivalryRoutMargin:
			return []string{
				fmt.Sprintf("%s ran %s off the field. That was not a rivalry game, that was a demonstration.", w, l),
				fmt.Sprintf("%s had no answers. %s's boosters are asking hard questions tonight.", lc, l),
			}
		case in.Margin <= rivalryCloseCall:
			return []string{
				fmt.Sprintf("%s survives a nail-biter. %s had it right there and let it slip.", w, l),
				fmt.Sprintf("One possession decided it. %s gets bragging rights, %s gets a long film session.", wc, lc),
			}
		default:
			return []string{
				fmt.Sprintf("%s handled business and keeps the rivalry trophy in the building.", w),
				fmt.Sprintf("%s outcoached %s when it mattered. The rebuild in %s continues.", wc, lc, l),
			}
		}
	}

	switch in.Label {
	case model.LabelBlowout:
		return []string{
			fmt.Sprintf("%s turned %s into a highlight reel for the other side.", w, l),
			fmt.Sprintf("Four quarters of %s dominance. %s will want to burn this tape.", w, l),
		}
	case model.LabelClassic:
		return []string{
			"Instant classic. One sideline is celebrating, the other is staring at the ceiling.",
			fmt.Sprintf("%s and %s went down to the wire. Late-night replay material.", w, l),
		}
	case model.LabelUpset:
		return []string{
			fmt.Sprintf("%s just rewrote %s's season narrative. Nobody saw that coming.", w, l),
			fmt.Sprintf("Upset alert! %s came in with the better record and leaves with questions.", l),
		}
	case model.LabelRivalryBeatdown:
		return []string{
			"That rivalry game was never competitive.",
		}
	}

	if in.Margin >= commandingMargin {
		return []string{
			fmt.Sprintf("%s controlled it from whistle to whistle.", w),
			fmt.Sprintf("%s can talk about adjustments all week. The scoreboard disagrees.", l),
		}
	}
	return []string{
		fmt.Sprintf("%s did just enough to close it out.", w),
		fmt.Sprintf("%s will call it a coin flip. The record will not.", l),
	}
}

func coach(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// Picker chooses among candidates. It is safe for concurrent use.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker returns a Picker drawing from rng. A nil rng is seeded from the
// clock.
func NewPicker(rng *rand.Rand) *Picker {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // narrative text, not security
	}
	return &Picker{rng: rng}
}

// NewSeededPicker returns a Picker with a fixed seed; zero seeds from the clock.
func NewSeededPicker(seed int64) *Picker {
	if seed == 0 {
		return NewPicker(nil)
	}
	return NewPicker(rand.New(rand.NewSource(seed))) //nolint:gosec // reproducible recaps
}

// Pick returns one candidate, or "" when there are none.
func (p *Picker) Pick(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	p.mu.Lock()
	i := p.rng.Intn(len(candidates))
	p.mu.Unlock()
	return candidates[i]
}

// Recap picks a line for in.
func (p *Picker) Recap(in Input) string {
	return p.Pick(Candidates(in))
}
