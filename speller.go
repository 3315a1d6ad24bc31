package spellrule

import "context"

// SpellError is a single misspelling reported by a spell service.
// Repeated misspellings of a word are reported once per occurrence.
type SpellError struct {
	Code        int      `json:"code"`
	Position    int      `json:"pos"`
	Row         int      `json:"row"`
	Column      int      `json:"col"`
	Length      int      `json:"len"`
	Word        string   `json:"word"`
	Suggestions []string `json:"s,omitempty"`
}

// SpellCheckResult holds the misspellings found in a text, in the order the
// spell service reported them.
type SpellCheckResult struct {
	Errors []SpellError
}

// Count returns the number of misspellings.
func (r *SpellCheckResult) Count() int {
	if r == nil {
		return 0
	}
	return len(r.Errors)
}

// Words returns the misspelled words in order. Never nil.
func (r *SpellCheckResult) Words() []string {
	words := make([]string, 0, r.Count())
	if r == nil {
		return words
	}
	for _, e := range r.Errors {
		words = append(words, e.Word)
	}
	return words
}

// Speller checks text using an external spell-checking service.
type Speller interface {
	// Check returns the misspellings in text. An empty service response is
	// a valid result with no errors. Any transport, status or decoding
	// failure is reported as ESPELL.
	Check(ctx context.Context, text string) (*SpellCheckResult, error)
}
