// Package pipeline wires the stages together: sweep, fact extraction,
// prompt assembly, rewrite. Data flows strictly one way and the worst
// case output is always the deterministic preclean text.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/shred-cli/shred/internal/cache"
	"github.com/shred-cli/shred/internal/facts"
	"github.com/shred-cli/shred/internal/llm"
	"github.com/shred-cli/shred/internal/model"
	"github.com/shred-cli/shred/internal/prompt"
	"github.com/shred-cli/shred/internal/sweep"
)

// Pipeline runs the complete rewrite for one input.
type Pipeline struct {
	provider  llm.Provider // nil in rules-only mode
	extractor *facts.Extractor
	responses cache.Cache // nil when caching is disabled
	fetcher   *Fetcher
	cfg       *model.Config
}

// New creates a pipeline from configuration. A provider that cannot be
// constructed (unknown provider name, missing API key) is a
// configuration error and fails here, before any input is read or any
// network activity happens.
func New(cfg *model.Config) (*Pipeline, error) {
	var provider llm.Provider
	if !cfg.Rewrite.RulesOnly && cfg.LLM.Provider != "" {
		p, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			return nil, err
		}
		provider = p
	}

	var responses cache.Cache
	if provider != nil && cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		responses = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		provider:  provider,
		extractor: facts.NewExtractor(provider, cfg.LLM.Model, cfg.Output.Verbose),
		responses: responses,
		fetcher:   NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, cfg.HTTP.MaxBodyBytes),
		cfg:       cfg,
	}, nil
}

// Result contains everything one invocation produced.
type Result struct {
	// Output is the final text: the model's rewrite, or the preclean
	// text when the model was skipped or unreachable.
	Output string

	// Preclean is the rule-based substitution output.
	Preclean string

	// Prompt is the assembled rewrite prompt (empty in rules-only mode).
	Prompt string

	// Facts is the extracted facts record; all six keys always present.
	Facts model.Facts

	// FromModel reports whether Output came from the model.
	FromModel bool

	// CacheHit reports whether the model response came from the cache.
	CacheHit bool
}

// Run rewrites one text. The only error condition is a configuration
// error (unknown style or mode), raised before any network activity;
// model failures degrade to the preclean output with a diagnostic on
// stderr.
func (p *Pipeline) Run(ctx context.Context, original string) (*Result, error) {
	preclean := sweep.Sweep(original)

	res := &Result{
		Output:   preclean,
		Preclean: preclean,
		Facts:    model.EmptyFacts(),
	}

	if p.provider == nil {
		return res, nil
	}

	// Configuration errors surface before any network activity.
	style, err := model.ParseStyle(p.cfg.Rewrite.Style)
	if err != nil {
		return nil, err
	}
	mode, err := model.ParseMode(p.cfg.Rewrite.Mode)
	if err != nil {
		return nil, err
	}

	if !p.cfg.Rewrite.SkipFacts {
		res.Facts = p.extractor.Extract(ctx, original)
	}

	promptText, err := prompt.Build(model.Request{
		Style:     style,
		Mode:      mode,
		MaxWords:  p.cfg.Rewrite.MaxWords,
		KeepTerms: p.cfg.Rewrite.KeepTerms,
		Original:  original,
		Preclean:  preclean,
		Facts:     res.Facts,
	})
	if err != nil {
		return nil, err
	}
	res.Prompt = promptText

	key := cache.ResponseKey(p.provider.Name(), p.cfg.LLM.Model, promptText)
	if p.responses != nil {
		if data, ok := p.responses.Get(key); ok {
			res.Output = string(data)
			res.FromModel = true
			res.CacheHit = true
			return res, nil
		}
	}

	resp, err := p.provider.Generate(ctx, llm.GenerateRequest{
		Prompt:      promptText,
		System:      prompt.System,
		Model:       p.cfg.LLM.Model,
		Temperature: p.cfg.LLM.Temperature,
		MaxTokens:   p.cfg.LLM.MaxTokens,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERR] rewrite request failed: %v\nFalling back to rule-based output.\n", err)
		return res, nil
	}
	if resp.Text == "" {
		// Nothing usable came back; the preclean text still stands.
		return res, nil
	}

	res.Output = resp.Text
	res.FromModel = true
	if p.responses != nil {
		_ = p.responses.Set(key, []byte(resp.Text), 0)
	}

	return res, nil
}

// RunURL fetches the visible text of a web page and rewrites it.
func (p *Pipeline) RunURL(ctx context.Context, rawURL string) (*Result, error) {
	text, err := p.fetcher.FetchText(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return p.Run(ctx, text)
}
