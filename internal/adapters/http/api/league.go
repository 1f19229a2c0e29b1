package api

import (
	"net/http"
	"sort"

	"github.com/okian/dynasty/internal/domain/team"
	"github.com/okian/dynasty/internal/domain/types"
)

// LeagueHandler serves the standings, streak and rivalry read views.
type LeagueHandler struct {
	deps  Dependencies
	names *team.Normalizer
}

// NewLeagueHandler creates a new league handler.
func NewLeagueHandler(deps Dependencies, names *team.Normalizer) *LeagueHandler {
	return &LeagueHandler{deps: deps, names: names}
}

// HandleStandings handles GET /standings requests.
func (h *LeagueHandler) HandleStandings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rows := h.deps.Standings(r.Context())
	out := make([]types.Standing, 0, len(rows))
	for _, s := range rows {
		out = append(out, types.NewStanding(s, h.names.Division(s.Team), h.names.Coach(s.Team)))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleStreaks handles GET /streaks requests.
func (h *LeagueHandler) HandleStreaks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	streaks := h.deps.Streaks(r.Context())
	out := types.Streaks{
		Streaks: make(map[string]int, len(streaks)),
		Ordered: make([]types.StreakEntry, 0, len(streaks)),
	}
	for name, s := range streaks {
		out.Streaks[name] = int(s)
		out.Ordered = append(out.Ordered, types.StreakEntry{Team: name, Streak: int(s), Text: s.Text()})
	}
	sort.Slice(out.Ordered, func(i, j int) bool {
		if out.Ordered[i].Streak != out.Ordered[j].Streak {
			return out.Ordered[i].Streak > out.Ordered[j].Streak
		}
		return out.Ordered[i].Team < out.Ordered[j].Team
	})
	writeJSON(w, http.StatusOK, out)
}

// HandleRivalry handles GET /rivalry requests.
func (h *LeagueHandler) HandleRivalry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rv := h.deps.Rivalry(r.Context())
	writeJSON(w, http.StatusOK, types.Rivalry{
		PrimaryA: h.names.Profile(team.PrimaryA).Name,
		PrimaryB: h.names.Profile(team.PrimaryB).Name,
		AWins:    rv.AWins,
		BWins:    rv.BWins,
		Total:    rv.Total(),
		Leader:   string(rv.Leader()),
	})
}
