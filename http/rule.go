package http

import (
	"net/http"

	"github.com/fwojciec/spellrule"
	"github.com/go-chi/chi/v5"
)

func (s *Server) registerRuleRoutes(r chi.Router) {
	r.Route("/api/rules", func(r chi.Router) {
		r.Get("/", s.handleRuleList)
		r.Get("/add", s.handleRuleAdd)
		r.Post("/add", s.handleRuleAdd)
		r.Get("/get", s.handleRuleGet)
		r.Get("/test", s.handleRuleTest)
		r.Get("/delete", s.handleRuleDelete)
		r.Delete("/delete", s.handleRuleDelete)
	})
}

// handleRuleList handles "GET /api/rules".
func (s *Server) handleRuleList(w http.ResponseWriter, r *http.Request) {
	rules, err := s.RuleService.FindRules(r.Context())
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rules)
}

// handleRuleAdd handles "/api/rules/add?site=&rule=". The rule may be empty
// but must be present.
func (s *Server) handleRuleAdd(w http.ResponseWriter, r *http.Request) {
	site, err := requiredParam(r, "site")
	if err != nil {
		s.Error(w, r, err)
		return
	}
	selector, ok, err := param(r, "rule")
	if err != nil {
		s.Error(w, r, err)
		return
	} else if !ok {
		s.Error(w, r, spellrule.Errorf(spellrule.EINVALID, "rule parameter required"))
		return
	}

	if err := s.RuleService.SetRule(r.Context(), &spellrule.Rule{Site: site, Selector: selector}); err != nil {
		s.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRuleGet handles "GET /api/rules/get?site=".
func (s *Server) handleRuleGet(w http.ResponseWriter, r *http.Request) {
	site, err := requiredParam(r, "site")
	if err != nil {
		s.Error(w, r, err)
		return
	}

	rule, err := s.RuleService.FindRule(r.Context(), site)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeText(w, rule.Selector)
}

// handleRuleTest handles "GET /api/rules/test?page=[&rule=]". A present rule
// parameter, even an empty one, overrides the registered rule.
func (s *Server) handleRuleTest(w http.ResponseWriter, r *http.Request) {
	page, override, err := pageParams(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	text, err := s.PageService.ExtractText(r.Context(), page, override)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.writeText(w, text)
}

// handleRuleDelete handles "/api/rules/delete?site=".
func (s *Server) handleRuleDelete(w http.ResponseWriter, r *http.Request) {
	site, err := requiredParam(r, "site")
	if err != nil {
		s.Error(w, r, err)
		return
	}

	if err := s.RuleService.DeleteRule(r.Context(), site); err != nil {
		s.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pageParams reads the page parameter and the optional rule override.
func pageParams(r *http.Request) (page string, override *string, err error) {
	if page, err = requiredParam(r, "page"); err != nil {
		return "", nil, err
	}
	selector, ok, err := param(r, "rule")
	if err != nil {
		return "", nil, err
	} else if ok {
		override = &selector
	}
	return page, override, nil
}
