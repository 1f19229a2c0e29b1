// Package standings orders teams into a league table.
package standings

import (
	"sort"

	"github.com/okian/dynasty/internal/domain/model"
)

// Rank sorts rows by wins descending, then point differential descending.
// Rows equal on both keys keep their input order. Ranks are assigned 1..n
// in the resulting order. The input slice is not modified.
func Rank(rows []model.Standing) []model.Standing {
	out := make([]model.Standing, len(rows))
	copy(out, rows)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Record.Wins != out[j].Record.Wins {
			return out[i].Record.Wins > out[j].Record.Wins
		}
		return out[i].Record.Diff() > out[j].Record.Diff()
	})

	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
