package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shred-cli/shred/internal/model"
	"github.com/shred-cli/shred/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	providerName string
	modelName    string
	styleName    string
	modeName     string
	maxWords     int
	keepList     string
	rulesOnly    bool
	noFacts      bool
	temperature  float64
	timeout      time.Duration
	inFile       string
	inURL        string
	noCache      bool
)

func init() {
	rootCmd.Flags().StringVar(&providerName, "provider", "ollama", "LLM provider (ollama, openai)")
	rootCmd.Flags().StringVarP(&modelName, "model", "m", "gemma:2b", "model name")
	rootCmd.Flags().StringVarP(&styleName, "style", "s", "plain", "output style (plain, peasant, grandma, exec)")
	rootCmd.Flags().StringVar(&modeName, "mode", "faithful", "fidelity mode (faithful, summary)")
	rootCmd.Flags().IntVarP(&maxWords, "max-words", "w", model.DefaultMaxWords, "target word budget for the rewrite")
	rootCmd.Flags().StringVar(&keepList, "keep", "", "comma-separated terms to keep verbatim if present")
	rootCmd.Flags().BoolVar(&rulesOnly, "rules-only", false, "only run the rule-based sweep (no model calls)")
	rootCmd.Flags().BoolVar(&noFacts, "no-facts", false, "skip the fact-extraction pass")
	rootCmd.Flags().Float64Var(&temperature, "temperature", 0.2, "sampling temperature for the rewrite call")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall timeout for one invocation")
	rootCmd.Flags().StringVarP(&inFile, "file", "f", "", "read input text from file")
	rootCmd.Flags().StringVarP(&inURL, "url", "u", "", "read input text from a web page")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the model-response cache")
}

func runShred(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	var result *pipeline.Result
	if inFile == "" && inURL != "" {
		if verbose {
			fmt.Fprintf(os.Stderr, "Fetching: %s\n", inURL)
		}
		result, err = p.RunURL(ctx, inURL)
	} else {
		original, readErr := readInput(inFile, args)
		if readErr != nil {
			return readErr
		}
		result, err = p.Run(ctx, original)
	}
	if err != nil {
		return err
	}

	if verbose {
		if !result.Facts.IsEmpty() {
			fmt.Fprintf(os.Stderr, "✓ Extracted facts: %d numbers, %d dates, %d names, %d protocols, %d claims, %d constraints\n",
				len(result.Facts.Numbers), len(result.Facts.Dates), len(result.Facts.Names),
				len(result.Facts.Protocols), len(result.Facts.Claims), len(result.Facts.Constraints))
		}
		switch {
		case result.CacheHit:
			fmt.Fprintf(os.Stderr, "✓ Rewrite served from cache\n")
		case result.FromModel:
			fmt.Fprintf(os.Stderr, "✓ Rewrite generated by %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		default:
			fmt.Fprintf(os.Stderr, "✓ Rule-based output\n")
		}
	}

	fmt.Println(result.Output)
	return nil
}

// buildConfig assembles the run configuration from flags and environment.
// Style and mode are validated here, before any network activity.
func buildConfig() (*model.Config, error) {
	style, err := model.ParseStyle(styleName)
	if err != nil {
		return nil, err
	}
	mode, err := model.ParseMode(modeName)
	if err != nil {
		return nil, err
	}

	cfg := model.DefaultConfig()
	cfg.LLM.Provider = providerName
	cfg.LLM.Model = modelName
	cfg.LLM.Temperature = temperature
	cfg.Rewrite.Style = string(style)
	cfg.Rewrite.Mode = string(mode)
	cfg.Rewrite.MaxWords = maxWords
	cfg.Rewrite.KeepTerms = splitKeepTerms(keepList)
	cfg.Rewrite.RulesOnly = rulesOnly
	cfg.Rewrite.SkipFacts = noFacts
	cfg.Output.Verbose = verbose
	cfg.Cache.Enabled = !noCache

	if rulesOnly {
		cfg.LLM.Provider = ""
		return cfg, nil
	}

	switch providerName {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	case "":
		// model calls disabled, same as --rules-only
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: ollama, openai)", providerName)
	}

	if cfg.Cache.Enabled && cfg.Cache.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Cache.Dir = filepath.Join(home, ".shred", "cache")
		} else {
			cfg.Cache.Enabled = false
		}
	}

	return cfg, nil
}

// readInput resolves the input text: file, then args, then stdin.
func readInput(file string, args []string) (string, error) {
	var original string

	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		original = string(data)
	case len(args) > 0:
		original = strings.Join(args, " ")
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		original = string(data)
	}

	if strings.TrimSpace(original) == "" {
		return "", fmt.Errorf("no input text (pass text, --file, --url, or pipe stdin)")
	}

	return original, nil
}

func splitKeepTerms(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}

	var terms []string
	for _, t := range strings.Split(list, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
