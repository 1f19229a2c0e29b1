package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/dynasty/internal/domain/model"
	"github.com/okian/dynasty/internal/domain/team"
	"github.com/okian/dynasty/internal/domain/types"
)

// RecruitHandler handles the recruiting ledger endpoints.
type RecruitHandler struct {
	deps  Dependencies
	names *team.Normalizer
}

// NewRecruitHandler creates a new recruit handler.
func NewRecruitHandler(deps Dependencies, names *team.Normalizer) *RecruitHandler {
	return &RecruitHandler{deps: deps, names: names}
}

// HandlePostRecruit handles POST /recruits requests.
func (h *RecruitHandler) HandlePostRecruit(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_recruit"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.RecruitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	switch {
	case strings.TrimSpace(req.Team) == "":
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing team")))
		return
	case strings.TrimSpace(req.Prospect) == "":
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing prospect")))
		return
	}
	status, err := model.ParseRecruitStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.LogRecruit(r.Context(), model.RecruitReport{
		Team:     req.Team,
		Prospect: req.Prospect,
		Stars:    req.Stars,
		Position: req.Position,
		Status:   status,
	})
	if err != nil {
		writeSubmitError(w, op, err)
		return
	}
	if res.Entry == nil {
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, errors.New("writer returned no entry")))
		return
	}
	writeJSON(w, http.StatusCreated, types.NewRecruitEntry(res.Entry))
}

// HandleBattles handles GET /recruits/battles requests.
func (h *RecruitHandler) HandleBattles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	a := h.names.Profile(team.PrimaryA).Name
	b := h.names.Profile(team.PrimaryB).Name
	battles := h.deps.RecruitBattles(r.Context())
	out := types.Battles{PrimaryA: a, PrimaryB: b, Battles: make([]types.Battle, 0, len(battles))}
	for _, br := range battles {
		out.Battles = append(out.Battles, types.NewBattle(br, a, b))
	}
	writeJSON(w, http.StatusOK, out)
}
