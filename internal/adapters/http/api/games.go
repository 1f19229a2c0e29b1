package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/dynasty/internal/domain/model"
	"github.com/okian/dynasty/internal/domain/types"
)

// GamesHandler handles final score submissions.
type GamesHandler struct {
	deps Dependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps Dependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// HandlePostGame handles POST /games requests.
func (h *GamesHandler) HandlePostGame(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_game"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req types.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validateGame(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.ReportGame(r.Context(), model.GameReport{
		ReportID: strings.TrimSpace(req.ReportID),
		TeamA:    req.TeamA,
		ScoreA:   *req.ScoreA,
		TeamB:    req.TeamB,
		ScoreB:   *req.ScoreB,
	})
	if err != nil {
		writeSubmitError(w, op, err)
		return
	}
	if res.Outcome == nil {
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, errors.New("writer returned no outcome")))
		return
	}

	out := types.NewGameOutcome(res.Outcome)
	out.ReportID = strings.TrimSpace(req.ReportID)
	out.Recap = res.Recap
	out.Duplicate = res.Duplicate
	writeJSON(w, http.StatusOK, out)
}

func validateGame(req types.GameRequest) error {
	switch {
	case strings.TrimSpace(req.TeamA) == "":
		return errors.New("missing team_a")
	case strings.TrimSpace(req.TeamB) == "":
		return errors.New("missing team_b")
	case req.ScoreA == nil:
		return errors.New("missing score_a")
	case req.ScoreB == nil:
		return errors.New("missing score_b")
	}
	return nil
}
