// Package facts asks the model for the factual content worth preserving
// across a rewrite: numbers, dates, names, protocols, claims, constraints.
// Extraction is a best-effort hint mechanism. It never fails the pipeline;
// the worst case is an all-empty record.
package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shred-cli/shred/internal/llm"
	"github.com/shred-cli/shred/internal/model"
)

const extractionPrompt = `Extract the factual content from the text below.
Respond with ONLY a JSON object, no explanation, no code fences, with exactly
these keys, each holding an array of strings:
"numbers", "dates", "names", "protocols", "claims", "constraints".
Use an empty array for anything absent.

TEXT:
"""%s"""`

// Extractor runs the fact-extraction pass against a provider.
type Extractor struct {
	provider llm.Provider
	model    string
	verbose  bool
}

// NewExtractor creates an extractor. A nil provider disables extraction.
func NewExtractor(provider llm.Provider, modelName string, verbose bool) *Extractor {
	return &Extractor{
		provider: provider,
		model:    modelName,
		verbose:  verbose,
	}
}

// Extract returns the facts record for the given text. Temperature is
// pinned to 0. Any failure (network, malformed output) degrades to an
// all-empty record; it never returns an error.
func (e *Extractor) Extract(ctx context.Context, text string) model.Facts {
	if e.provider == nil {
		return model.EmptyFacts()
	}

	resp, err := e.provider.Generate(ctx, llm.GenerateRequest{
		Prompt:      fmt.Sprintf(extractionPrompt, strings.TrimSpace(text)),
		Model:       e.model,
		Temperature: 0,
	})
	if err != nil {
		if e.verbose {
			fmt.Fprintf(os.Stderr, "fact extraction failed, continuing without facts: %v\n", err)
		}
		return model.EmptyFacts()
	}

	return Parse(resp.Text)
}

// Parse pulls a JSON object out of raw model output. Models wrap JSON in
// prose or code fences often enough that unmarshalling the whole response
// is a losing game, so only the substring between the first "{" and the
// last "}" is parsed. Malformed output yields an all-empty record.
func Parse(raw string) model.Facts {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return model.EmptyFacts()
	}

	var f model.Facts
	if err := json.Unmarshal([]byte(raw[start:end+1]), &f); err != nil {
		return model.EmptyFacts()
	}

	// Missing keys decode to nil; extra keys were already ignored.
	f.Normalize()
	return f
}
