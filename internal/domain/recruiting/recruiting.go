// Package recruiting reconciles the recruiting ledger into battles between
// the two primary parties.
package recruiting

import (
	"strings"

	"github.com/okian/dynasty/internal/domain/model"
	"github.com/okian/dynasty/internal/domain/team"
)

type contest struct {
	prospect string
	a, b     *model.RecruitEntry
}

// Reconcile groups entries by prospect (trimmed, case-insensitive) and
// returns one battle per prospect that both primary parties logged.
// Battles are ordered by the prospect's first appearance in the ledger,
// counting entries from any team, third parties included.
//
// The ledger keeps every report, so a party may have several entries for one
// prospect. Its representative is the entry with the strongest status
// (commit > interest > lost); among equals the earliest entry wins.
func Reconcile(entries []model.RecruitEntry) []model.BattleResult {
	byKey := make(map[string]*contest)
	var order []*contest

	for i := range entries {
		e := &entries[i]
		key := model.ProspectKey(e.Prospect)
		c, ok := byKey[key]
		if !ok {
			c = &contest{}
			byKey[key] = c
			order = append(order, c)
		}
		switch e.Side {
		case team.PrimaryA:
			c.a = stronger(c.a, e)
		case team.PrimaryB:
			c.b = stronger(c.b, e)
		}
	}

	battles := make([]model.BattleResult, 0, len(order))
	for _, c := range order {
		if c.a == nil || c.b == nil {
			continue
		}
		battles = append(battles, model.BattleResult{
			Prospect: displayName(c.a, c.b),
			Stars:    max(c.a.Stars, c.b.Stars),
			Position: position(c.a, c.b),
			Winner:   Resolve(c.a.Status, c.b.Status),
			StatusA:  c.a.Status,
			StatusB:  c.b.Status,
		})
	}
	return battles
}

// Resolve decides a battle from each side's status.
func Resolve(a, b model.RecruitStatus) model.BattleWinner {
	switch {
	case a == model.StatusCommit && b == model.StatusCommit:
		return model.BattleChaos
	case a == model.StatusCommit:
		return model.BattleA
	case b == model.StatusCommit:
		return model.BattleB
	case a == model.StatusInterest && b == model.StatusLost:
		return model.BattleA
	case b == model.StatusInterest && a == model.StatusLost:
		return model.BattleB
	default:
		return model.BattleNone
	}
}

func stronger(cur, next *model.RecruitEntry) *model.RecruitEntry {
	if cur == nil || next.Status.Precedence() > cur.Status.Precedence() {
		return next
	}
	return cur
}

func displayName(a, b *model.RecruitEntry) string {
	if name := strings.TrimSpace(a.Prospect); name != "" {
		return name
	}
	return strings.TrimSpace(b.Prospect)
}

func position(a, b *model.RecruitEntry) string {
	if a.Position != "" {
		return strings.ToUpper(a.Position)
	}
	return strings.ToUpper(b.Position)
}
