package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shred-cli/shred/internal/pipeline"
)

// Rewriter runs the shred pipeline over one text input.
type Rewriter interface {
	Run(ctx context.Context, text string) (*pipeline.Result, error)
}

// ShredJob rewrites the contents of one file.
type ShredJob struct {
	Path     string
	Rewriter Rewriter
	Limiter  *Limiter
	Endpoint string
}

// Execute executes the job
func (j *ShredJob) Execute(ctx context.Context) Result {
	data, err := os.ReadFile(j.Path)
	if err != nil {
		return &ShredResult{Path: j.Path, Error: fmt.Errorf("read input: %w", err)}
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return &ShredResult{Path: j.Path, Error: fmt.Errorf("empty input file")}
	}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.Endpoint); err != nil {
			return &ShredResult{Path: j.Path, Error: err}
		}
	}

	result, err := j.Rewriter.Run(ctx, text)
	if err != nil {
		return &ShredResult{Path: j.Path, Error: err}
	}

	return &ShredResult{Path: j.Path, Result: result}
}

// ShredResult represents the result of one batch item
type ShredResult struct {
	Path   string
	Result *pipeline.Result
	Error  error
}

// GetError returns the error from the result
func (r *ShredResult) GetError() error {
	return r.Error
}

// BatchProcessor rewrites multiple input files concurrently
type BatchProcessor struct {
	rewriter    Rewriter
	concurrency int
	limiter     *Limiter
	endpoint    string
}

// NewBatchProcessor creates a new batch processor. The endpoint key is
// what the rate limiter paces on (the model base URL).
func NewBatchProcessor(rewriter Rewriter, concurrency int, requestsPerSecond float64, burst int, endpoint string) *BatchProcessor {
	var limiter *Limiter
	if requestsPerSecond > 0 {
		limiter = NewLimiter(requestsPerSecond, burst)
	}

	return &BatchProcessor{
		rewriter:    rewriter,
		concurrency: concurrency,
		limiter:     limiter,
		endpoint:    endpoint,
	}
}

// ProcessFile reads input paths from a list file (one per line, blank
// lines and #-comments skipped) and rewrites them all.
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*ShredResult, error) {
	paths, err := readPaths(listPath)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input paths in %s", listPath)
	}

	return b.Process(ctx, paths), nil
}

// Process rewrites the given input files with the configured concurrency.
// Per-file failures land in the corresponding result; they never abort
// the batch.
func (b *BatchProcessor) Process(ctx context.Context, paths []string) []*ShredResult {
	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&ShredJob{
			Path:     path,
			Rewriter: b.rewriter,
			Limiter:  b.limiter,
			Endpoint: b.endpoint,
		})
	}

	raw := pool.Wait()

	results := make([]*ShredResult, 0, len(raw))
	for _, r := range raw {
		if sr, ok := r.(*ShredResult); ok {
			results = append(results, sr)
		}
	}

	return results
}

func readPaths(listPath string) ([]string, error) {
	f, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open list file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read list file: %w", err)
	}

	return paths, nil
}
