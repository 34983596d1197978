package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shred-cli/shred/internal/model"
)

const buzzInput = "Our platform leverages federated embeddings for seamless, scalable AI-powered intelligence at scale."
const buzzPreclean = "Our platform use spread across different places a way to compare meaning in text for smooth, can grow without breaking uses AI information for lots of users."

// testConfig points the pipeline at a mock Ollama server.
func testConfig(baseURL string) *model.Config {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "ollama"
	cfg.LLM.Model = "test-model"
	cfg.LLM.BaseURL = baseURL
	cfg.LLM.Timeout = 5
	cfg.Cache.Enabled = false
	return cfg
}

// ollamaStub answers /api/generate with fixed response text and counts calls.
func ollamaStub(t *testing.T, responses ...string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		idx := int(n) - 1
		if idx >= len(responses) {
			idx = len(responses) - 1
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model":    "test-model",
			"response": responses[idx],
			"done":     true,
		})
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestNew_UnknownProviderRejected(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "opnai"

	_, err := New(cfg)
	if err == nil {
		t.Fatal("expected configuration error for unknown provider")
	}
	if !strings.Contains(err.Error(), "opnai") {
		t.Errorf("error should name the unknown provider: %v", err)
	}
}

func TestNew_RulesOnlyIgnoresProvider(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "opnai"
	cfg.Rewrite.RulesOnly = true
	cfg.Cache.Enabled = false

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := p.Run(context.Background(), buzzInput)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Output != buzzPreclean {
		t.Errorf("unexpected rules-only output: %q", res.Output)
	}
}

func TestRun_RulesOnly(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Rewrite.RulesOnly = true
	cfg.Cache.Enabled = false

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := p.Run(context.Background(), buzzInput)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Output != buzzPreclean {
		t.Errorf("rules-only output mismatch\n got:  %q\n want: %q", res.Output, buzzPreclean)
	}
	if res.FromModel {
		t.Error("rules-only output must not be attributed to the model")
	}
	if res.Output == "" {
		t.Error("rules-only mode must still produce output")
	}
}

func TestRun_ModelFailureFallsBackToPreclean(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "boom"}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Rewrite.SkipFacts = true

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := p.Run(context.Background(), buzzInput)
	if err != nil {
		t.Fatalf("Run must not fail on model errors, got: %v", err)
	}

	if res.Output != buzzPreclean {
		t.Errorf("expected preclean fallback, got %q", res.Output)
	}
	if res.FromModel {
		t.Error("fallback output must not be attributed to the model")
	}
}

func TestRun_UnreachableEndpointFallsBack(t *testing.T) {
	// Nothing listens here; connection is refused immediately
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Rewrite.SkipFacts = true

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := p.Run(context.Background(), buzzInput)
	if err != nil {
		t.Fatalf("Run must not fail when the endpoint is unreachable, got: %v", err)
	}
	if res.Output != buzzPreclean {
		t.Errorf("expected preclean fallback, got %q", res.Output)
	}
}

func TestRun_ModelSuccess(t *testing.T) {
	server, calls := ollamaStub(t, "Plain and simple.")

	cfg := testConfig(server.URL)
	cfg.Rewrite.SkipFacts = true

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := p.Run(context.Background(), buzzInput)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.Output != "Plain and simple." {
		t.Errorf("unexpected output: %q", res.Output)
	}
	if !res.FromModel {
		t.Error("model output should be attributed to the model")
	}
	if res.Preclean != buzzPreclean {
		t.Errorf("preclean not preserved in result: %q", res.Preclean)
	}
	if *calls != 1 {
		t.Errorf("expected exactly 1 model call with facts skipped, got %d", *calls)
	}
}

func TestRun_FactsFeedThePrompt(t *testing.T) {
	var prompts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		prompts = append(prompts, req.Prompt)

		text := "Plain and simple."
		if len(prompts) == 1 {
			// First call is fact extraction
			text = `{"numbers":["42 ms"],"dates":[],"names":[],"protocols":["MQTT"],"claims":[],"constraints":[]}`
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"response": text, "done": true})
	}))
	defer server.Close()

	cfg := testConfig(server.URL)

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := p.Run(context.Background(), "Round trips take 42 ms over MQTT.")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(prompts) != 2 {
		t.Fatalf("expected 2 model calls (extract + rewrite), got %d", len(prompts))
	}
	if !strings.Contains(prompts[1], "42 ms") {
		t.Errorf("rewrite prompt should embed extracted facts:\n%s", prompts[1])
	}
	if len(res.Facts.Protocols) != 1 || res.Facts.Protocols[0] != "MQTT" {
		t.Errorf("unexpected facts: %+v", res.Facts)
	}
	if res.Output != "Plain and simple." {
		t.Errorf("unexpected output: %q", res.Output)
	}
}

func TestRun_MalformedFactsDegradeToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"response": "not json at all", "done": true})
	}))
	defer server.Close()

	cfg := testConfig(server.URL)

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := p.Run(context.Background(), buzzInput)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !res.Facts.IsEmpty() {
		t.Errorf("malformed extraction should yield empty facts, got %+v", res.Facts)
	}
	if res.Facts.Numbers == nil || res.Facts.Constraints == nil {
		t.Error("facts record must keep all six keys even on failure")
	}
}

func TestRun_UnknownStyleRejectedBeforeNetwork(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"response": "ok", "done": true})
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Rewrite.Style = "pirate"

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = p.Run(context.Background(), buzzInput)
	if err == nil {
		t.Fatal("expected configuration error for unknown style")
	}
	if !errors.Is(err, model.ErrUnknownStyle) {
		t.Errorf("expected ErrUnknownStyle, got %v", err)
	}
	if calls != 0 {
		t.Errorf("unknown style must be rejected before any network call, saw %d calls", calls)
	}
}

func TestRun_CacheShortCircuitsSecondCall(t *testing.T) {
	server, calls := ollamaStub(t, "Plain and simple.")

	cfg := testConfig(server.URL)
	cfg.Rewrite.SkipFacts = true
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = t.TempDir()

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	first, err := p.Run(context.Background(), buzzInput)
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	second, err := p.Run(context.Background(), buzzInput)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}

	if first.CacheHit {
		t.Error("first run should not hit the cache")
	}
	if !second.CacheHit {
		t.Error("second identical run should hit the cache")
	}
	if second.Output != first.Output {
		t.Errorf("cache changed the output: %q vs %q", second.Output, first.Output)
	}
	if *calls != 1 {
		t.Errorf("expected 1 model call across both runs, got %d", *calls)
	}
}

func TestRun_EmptyModelResponseKeepsPreclean(t *testing.T) {
	server, _ := ollamaStub(t, "")

	cfg := testConfig(server.URL)
	cfg.Rewrite.SkipFacts = true

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := p.Run(context.Background(), buzzInput)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Output != buzzPreclean {
		t.Errorf("empty model response should keep preclean, got %q", res.Output)
	}
	if res.FromModel {
		t.Error("empty response must not be attributed to the model")
	}
}
