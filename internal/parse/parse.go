// Package parse turns free text into transaction drafts. The real NLP
// extractor is an external collaborator; this package holds the local
// fallback chain used when no extractor is wired in.
package parse

import (
	"strings"

	"github.com/tally-dev/tally/internal/ledger"
)

// Parser converts free text into transaction drafts. A parser that does not
// understand the text returns an empty slice and no error.
type Parser interface {
	Parse(text string) ([]ledger.Draft, error)
	Name() string
}

// Registry tries parsers in registration order and returns the first
// non-empty result.
type Registry struct {
	parsers []Parser
}

// NewRegistry creates a registry with the given parsers.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: parsers}
}

// Register appends a parser to the chain.
func (r *Registry) Register(p Parser) {
	r.parsers = append(r.parsers, p)
}

// Parse runs the chain over the text.
func (r *Registry) Parse(text string) ([]ledger.Draft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	for _, p := range r.parsers {
		drafts, err := p.Parse(text)
		if err != nil {
			return nil, err
		}
		if len(drafts) > 0 {
			return drafts, nil
		}
	}
	return nil, nil
}
