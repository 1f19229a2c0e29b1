package repository

import (
	"context"
	"sync"

	"github.com/okian/dynasty/internal/domain/model"
	"github.com/okian/dynasty/internal/domain/team"
	"github.com/okian/dynasty/pkg/metrics"
)

type teamState struct {
	party  team.Party
	record model.TeamRecord
	streak model.Streak
}

// MemoryStore is an in-memory Store. Teams are created lazily on their first
// game and never removed.
type MemoryStore struct {
	mu       sync.RWMutex
	teams    map[string]*teamState
	order    []*teamState
	rivalry  model.Rivalry
	recruits []model.RecruitEntry
	seq      uint64
	games    int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{teams: make(map[string]*teamState)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Record(_ context.Context, name string) (model.TeamRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.teams[name]; ok {
		return t.record, true
	}
	return model.TeamRecord{}, false
}

func (s *MemoryStore) ApplyGame(_ context.Context, g GameUpdate) Applied {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.team(g.Winner)
	l := s.team(g.Loser)

	w.record = w.record.After(g.WinningScore, g.LosingScore, true)
	l.record = l.record.After(g.LosingScore, g.WinningScore, false)
	w.streak = w.streak.AfterWin()
	l.streak = l.streak.AfterLoss()

	if g.Winner.IsPrimary() && g.Loser.IsPrimary() {
		s.rivalry = s.rivalry.After(g.Winner.Side)
		metrics.UpdateRivalryGames(s.rivalry.Total())
	}
	s.games++
	metrics.UpdateTeamsTracked(len(s.order))

	return Applied{
		WinnerRecord: w.record,
		LoserRecord:  l.record,
		WinnerStreak: w.streak,
		LoserStreak:  l.streak,
		Rivalry:      s.rivalry,
	}
}

// team must be called with s.mu held for writing.
func (s *MemoryStore) team(p team.Party) *teamState {
	t, ok := s.teams[p.Name]
	if !ok {
		t = &teamState{party: p}
		s.teams[p.Name] = t
		s.order = append(s.order, t)
	}
	return t
}

func (s *MemoryStore) AppendRecruit(_ context.Context, e model.RecruitEntry) model.RecruitEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	e.Seq = s.seq
	s.recruits = append(s.recruits, e)
	return e
}

func (s *MemoryStore) Standings(_ context.Context) []model.Standing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Standing, len(s.order))
	for i, t := range s.order {
		out[i] = model.Standing{Team: t.party, Record: t.record, Streak: t.streak}
	}
	return out
}

func (s *MemoryStore) Streaks(_ context.Context) map[string]model.Streak {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.Streak, len(s.order))
	for _, t := range s.order {
		if t.streak != 0 {
			out[t.party.Name] = t.streak
		}
	}
	return out
}

func (s *MemoryStore) Rivalry(_ context.Context) model.Rivalry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rivalry
}

func (s *MemoryStore) Recruits(_ context.Context) []model.RecruitEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.RecruitEntry, len(s.recruits))
	copy(out, s.recruits)
	return out
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *MemoryStore) Games(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.games
}
