package mock

import "github.com/fwojciec/spellrule"

var _ spellrule.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of spellrule.Extractor.
type Extractor struct {
	ExtractFn func(html string, expr string) (string, error)
}

func (e *Extractor) Extract(html string, expr string) (string, error) {
	return e.ExtractFn(html, expr)
}
