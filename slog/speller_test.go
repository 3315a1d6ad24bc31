package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/spellrule"
	"github.com/fwojciec/spellrule/mock"
	spellslog "github.com/fwojciec/spellrule/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSpeller_Check(t *testing.T) {
	t.Parallel()

	t.Run("logs text size and error count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Speller{
			CheckFn: func(context.Context, string) (*spellrule.SpellCheckResult, error) {
				return &spellrule.SpellCheckResult{Errors: []spellrule.SpellError{{Word: "Helo"}, {Word: "wrold"}}}, nil
			},
		}

		s := spellslog.NewLoggingSpeller(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		result, err := s.Check(context.Background(), "Helo wrold")

		require.NoError(t, err)
		assert.Equal(t, 2, result.Count())
		assert.Contains(t, buf.String(), `msg="spell check" text_bytes=10 errors=2`)
	})

	t.Run("logs zero errors on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Speller{
			CheckFn: func(context.Context, string) (*spellrule.SpellCheckResult, error) {
				return nil, spellrule.Errorf(spellrule.ESPELL, "spell service returned HTTP 503")
			},
		}

		s := spellslog.NewLoggingSpeller(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := s.Check(context.Background(), "text")

		assert.Equal(t, spellrule.ESPELL, spellrule.ErrorCode(err))
		output := buf.String()
		assert.Contains(t, output, "errors=0")
		assert.Contains(t, output, "message=spell service returned HTTP 503")
	})
}
