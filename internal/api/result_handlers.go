package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/mathflash/internal/errors"
	"github.com/vytor/mathflash/internal/models"
)

type resultListResponse struct {
	Results []models.PracticeResult `json:"results"`
	Total   int                     `json:"total"`
	Limit   int                     `json:"limit"`
	Offset  int                     `json:"offset"`
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ResultFilter{
		PlayerName: q.Get("player"),
		OrderDir:   q.Get("order"),
	}

	if v := q.Get("difficulty"); v != "" {
		d, err := models.ParseDifficulty(v)
		if err != nil {
			handleError(w, r, errors.NewValidationError("difficulty", err))
			return
		}
		filter.FinalDifficulty = &d
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit"), 20); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid limit"))
		return
	}
	if filter.Offset, err = intParam(q.Get("offset"), 0); err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid offset"))
		return
	}

	results, total, err := s.ResultService.ListResults(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if results == nil {
		results = []models.PracticeResult{}
	}
	writeJSON(w, r, http.StatusOK, resultListResponse{Results: results, Total: total, Limit: filter.Limit, Offset: filter.Offset})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		handleError(w, r, errors.NewBadRequestError("invalid result id"))
		return
	}

	res, err := s.ResultService.GetResult(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handlePlayerBests(w http.ResponseWriter, r *http.Request) {
	bests, err := s.ResultService.PlayerBests(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	if bests == nil {
		bests = []models.BestResult{}
	}
	writeJSON(w, r, http.StatusOK, bests)
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
