package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vigenere-search/internal/errors"
	"github.com/vigenere-search/internal/key"
)

const defaultPageSize = 50

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	snap := s.progress.Snapshot()
	if snap.Running || snap.Checked > 0 {
		snap.CurrentKey = key.FromIdentity(snap.Current).String()
	}
	RespondSuccess(w, snap)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	if s.candidates == nil {
		RespondError(w, errors.NewNotFound("candidates are not persisted"))
		return
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		RespondError(w, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil {
		RespondError(w, err)
		return
	}

	items, total, err := s.candidates.List(offset, limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondSuccess(w, map[string]interface{}{
		"total": total,
		"items": items,
	})
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	if s.candidates == nil {
		RespondError(w, errors.NewNotFound("candidates are not persisted"))
		return
	}

	// Accept a decimal identity or the key letters.
	k, err := key.Parse(chi.URLParam(r, "identity"))
	if err != nil {
		RespondError(w, err)
		return
	}
	c, err := s.candidates.Get(k.Identity())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondSuccess(w, c)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		RespondError(w, errors.NewNotFound("runs are not persisted"))
		return
	}
	runs, err := s.runs.List()
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondSuccess(w, runs)
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.NewBadRequest("invalid " + name + " parameter")
	}
	return v, nil
}
