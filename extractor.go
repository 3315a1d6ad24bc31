package spellrule

// Extractor evaluates a selector expression of a single dialect against HTML.
type Extractor interface {
	// Extract parses html leniently and returns the visible text of every
	// matched node in document order, joined by "\n".
	// Returns ESELECTOR if expr is not a valid expression and ESELECTORMISS
	// if it matches no nodes.
	Extract(html string, expr string) (string, error)
}
