package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/spellrule"
)

var _ spellrule.Speller = (*LoggingSpeller)(nil)

// LoggingSpeller wraps a Speller with logging.
type LoggingSpeller struct {
	next   spellrule.Speller
	logger *slog.Logger
}

// NewLoggingSpeller creates a new LoggingSpeller.
func NewLoggingSpeller(next spellrule.Speller, logger *slog.Logger) *LoggingSpeller {
	return &LoggingSpeller{next: next, logger: logger}
}

// Check logs the size of the checked text and the number of errors found.
func (s *LoggingSpeller) Check(ctx context.Context, text string) (result *spellrule.SpellCheckResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("spell check",
			"text_bytes", len(text),
			"errors", result.Count(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Check(ctx, text)
}
