package mock

import (
	"context"

	"github.com/fwojciec/spellrule"
)

var _ spellrule.PageService = (*PageService)(nil)

// PageService is a mock implementation of spellrule.PageService.
type PageService struct {
	ExtractTextFn   func(ctx context.Context, page string, override *string) (string, error)
	CheckSpellingFn func(ctx context.Context, page string, override *string) (*spellrule.SpellCheckResult, error)
}

func (s *PageService) ExtractText(ctx context.Context, page string, override *string) (string, error) {
	return s.ExtractTextFn(ctx, page, override)
}

func (s *PageService) CheckSpelling(ctx context.Context, page string, override *string) (*spellrule.SpellCheckResult, error) {
	return s.CheckSpellingFn(ctx, page, override)
}
