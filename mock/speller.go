package mock

import (
	"context"

	"github.com/fwojciec/spellrule"
)

var _ spellrule.Speller = (*Speller)(nil)

// Speller is a mock implementation of spellrule.Speller.
type Speller struct {
	CheckFn func(ctx context.Context, text string) (*spellrule.SpellCheckResult, error)
}

func (s *Speller) Check(ctx context.Context, text string) (*spellrule.SpellCheckResult, error) {
	return s.CheckFn(ctx, text)
}
