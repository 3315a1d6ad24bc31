package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/spellrule"
)

var _ spellrule.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next    spellrule.Extractor
	dialect spellrule.Dialect
	logger  *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor for the given dialect.
func NewLoggingExtractor(next spellrule.Extractor, dialect spellrule.Dialect, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, dialect: dialect, logger: logger}
}

func (e *LoggingExtractor) Extract(html string, expr string) (text string, err error) {
	defer func(begin time.Time) {
		e.logger.Info("extract",
			"dialect", string(e.dialect),
			"expr", expr,
			"html_bytes", len(html),
			"text_bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html, expr)
}
