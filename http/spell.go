package http

import (
	"net/http"

	"github.com/fwojciec/spellrule"
	"github.com/go-chi/chi/v5"
)

func (s *Server) registerSpellRoutes(r chi.Router) {
	r.Route("/api/spell", func(r chi.Router) {
		r.Get("/errors", s.handleSpellErrors)
		r.Get("/errorscount", s.handleSpellErrorsCount)
		r.Get("/details", s.handleSpellDetails)
	})
}

// handleSpellErrors handles "GET /api/spell/errors?page=" and responds with
// the misspelled words as a JSON array.
func (s *Server) handleSpellErrors(w http.ResponseWriter, r *http.Request) {
	result, ok := s.checkSpelling(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, result.Words())
}

// handleSpellErrorsCount handles "GET /api/spell/errorscount?page=" and
// responds with the number of misspellings as a JSON integer.
func (s *Server) handleSpellErrorsCount(w http.ResponseWriter, r *http.Request) {
	result, ok := s.checkSpelling(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, result.Count())
}

// handleSpellDetails handles "GET /api/spell/details?page=" and responds with
// the full error records.
func (s *Server) handleSpellDetails(w http.ResponseWriter, r *http.Request) {
	result, ok := s.checkSpelling(w, r)
	if !ok {
		return
	}
	errs := []spellrule.SpellError{}
	if result != nil && result.Errors != nil {
		errs = result.Errors
	}
	s.writeJSON(w, http.StatusOK, errs)
}

// checkSpelling runs the pipeline for the request and writes the error
// response on failure.
func (s *Server) checkSpelling(w http.ResponseWriter, r *http.Request) (*spellrule.SpellCheckResult, bool) {
	page, override, err := pageParams(r)
	if err != nil {
		s.Error(w, r, err)
		return nil, false
	}

	result, err := s.PageService.CheckSpelling(r.Context(), page, override)
	if err != nil {
		s.Error(w, r, err)
		return nil, false
	}
	return result, true
}
