package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shred-cli/shred/internal/model"
	"github.com/shred-cli/shred/internal/pipeline"
	"github.com/shred-cli/shred/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	requestsPS   float64
	burstSize    int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Rewrite multiple text files in parallel",
	Long: `Batch rewrites many inputs at once:
- Read input file paths from a list file (one per line, # comments allowed)
- Process files in parallel with a configurable worker count
- Rate-limit model calls so a local Ollama is not hammered
- Write each rewrite next to its input or into --output-dir

A failed file is reported and skipped; the batch never aborts on one input.

Example:
  shred batch inputs.txt
  shred batch inputs.txt --concurrency 4 --output-dir ./plain
  shred batch inputs.txt --rules-only --style exec`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory (default: next to each input)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().Float64Var(&requestsPS, "rps", 2, "model requests per second across all workers")
	batchCmd.Flags().IntVar(&burstSize, "burst", 2, "rate limiter burst size")

	// Rewrite flags shared with the root command
	batchCmd.Flags().StringVar(&providerName, "provider", "ollama", "LLM provider (ollama, openai)")
	batchCmd.Flags().StringVarP(&modelName, "model", "m", "gemma:2b", "model name")
	batchCmd.Flags().StringVarP(&styleName, "style", "s", "plain", "output style (plain, peasant, grandma, exec)")
	batchCmd.Flags().StringVar(&modeName, "mode", "faithful", "fidelity mode (faithful, summary)")
	batchCmd.Flags().IntVarP(&maxWords, "max-words", "w", model.DefaultMaxWords, "target word budget for each rewrite")
	batchCmd.Flags().StringVar(&keepList, "keep", "", "comma-separated terms to keep verbatim if present")
	batchCmd.Flags().BoolVar(&rulesOnly, "rules-only", false, "only run the rule-based sweep (no model calls)")
	batchCmd.Flags().BoolVar(&noFacts, "no-facts", false, "skip the fact-extraction pass")
	batchCmd.Flags().Float64Var(&temperature, "temperature", 0.2, "sampling temperature for the rewrite calls")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the model-response cache")
}

func runBatch(cmd *cobra.Command, args []string) error {
	listFile := args[0]

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Shred batch\n")
	fmt.Fprintf(os.Stderr, "  List file:   %s\n", listFile)
	fmt.Fprintf(os.Stderr, "  Workers:     %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Style/mode:  %s/%s\n", cfg.Rewrite.Style, cfg.Rewrite.Mode)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  Model:       %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	} else {
		fmt.Fprintf(os.Stderr, "  Model:       disabled (rules only)\n")
	}
	fmt.Fprintf(os.Stderr, "\n")

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	endpoint := cfg.LLM.BaseURL
	if endpoint == "" {
		endpoint = cfg.LLM.Provider
	}

	processor := worker.NewBatchProcessor(p, concurrency, requestsPS, burstSize, endpoint)
	results, err := processor.ProcessFile(ctx, listFile)
	if err != nil {
		return fmt.Errorf("process list: %w", err)
	}

	successCount := 0
	failureCount := 0
	usedPaths := make(map[string]bool)

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		outPath := outputPath(result.Path, usedPaths)
		if err := os.WriteFile(outPath, []byte(result.Result.Output+"\n"), 0644); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: write output: %v\n", result.Path, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s → %s\n", result.Path, outPath)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d files\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// outputPath places the rewrite next to the input (name.plain.txt), or
// under --output-dir when set. Inputs whose names collide after the
// extension is stripped (a.txt and a.md, or same basename from two
// directories under --output-dir) get a numeric suffix instead of
// overwriting each other.
func outputPath(inPath string, used map[string]bool) string {
	base := filepath.Base(inPath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}

	dir := filepath.Dir(inPath)
	if outputDir != "" {
		dir = outputDir
	}

	path := filepath.Join(dir, base+".plain.txt")
	for n := 2; used[path]; n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s-%d.plain.txt", base, n))
	}
	used[path] = true

	return path
}
