package facts

import (
	"context"
	"fmt"
	"testing"

	"github.com/shred-cli/shred/internal/llm"
	"github.com/shred-cli/shred/internal/model"
)

// stubProvider lets tests control exactly what the model "says".
type stubProvider struct {
	text  string
	err   error
	last  llm.GenerateRequest
	calls int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.GenerateResponse{Text: s.text}, nil
}

func (s *stubProvider) IsAvailable(ctx context.Context) bool { return true }

func assertWellShaped(t *testing.T, f model.Facts) {
	t.Helper()
	if f.Numbers == nil || f.Dates == nil || f.Names == nil || f.Protocols == nil || f.Claims == nil || f.Constraints == nil {
		t.Fatalf("facts record has nil fields: %+v", f)
	}
}

func TestExtract_WrappedJSON(t *testing.T) {
	// Models love wrapping JSON in prose and code fences
	stub := &stubProvider{text: "Sure! Here are the facts:\n```json\n" +
		`{"numbers":["42","7%"],"dates":["2024-01-01"],"names":[],"protocols":["MQTT"],"claims":[],"constraints":[]}` +
		"\n```\nLet me know if you need anything else."}

	e := NewExtractor(stub, "test-model", false)
	f := e.Extract(context.Background(), "some text")

	assertWellShaped(t, f)
	if len(f.Numbers) != 2 || f.Numbers[0] != "42" {
		t.Errorf("unexpected numbers: %v", f.Numbers)
	}
	if len(f.Protocols) != 1 || f.Protocols[0] != "MQTT" {
		t.Errorf("unexpected protocols: %v", f.Protocols)
	}
	if len(f.Dates) != 1 || f.Dates[0] != "2024-01-01" {
		t.Errorf("unexpected dates: %v", f.Dates)
	}
}

func TestExtract_MalformedOutput(t *testing.T) {
	for _, text := range []string{
		"I could not find any facts.",
		"{not json at all",
		"{{{",
		"",
		`["an", "array", "not", "an", "object"]`,
	} {
		stub := &stubProvider{text: text}
		e := NewExtractor(stub, "test-model", false)

		f := e.Extract(context.Background(), "some text")

		assertWellShaped(t, f)
		if !f.IsEmpty() {
			t.Errorf("Extract(%q) should yield an empty record, got %+v", text, f)
		}
	}
}

func TestExtract_ProviderError(t *testing.T) {
	stub := &stubProvider{err: fmt.Errorf("connection refused")}
	e := NewExtractor(stub, "test-model", false)

	f := e.Extract(context.Background(), "some text")

	assertWellShaped(t, f)
	if !f.IsEmpty() {
		t.Errorf("expected empty record on provider error, got %+v", f)
	}
}

func TestExtract_NilProvider(t *testing.T) {
	e := NewExtractor(nil, "test-model", false)

	f := e.Extract(context.Background(), "some text")

	assertWellShaped(t, f)
	if !f.IsEmpty() {
		t.Errorf("expected empty record with nil provider, got %+v", f)
	}
}

func TestExtract_TemperaturePinnedToZero(t *testing.T) {
	stub := &stubProvider{text: "{}"}
	e := NewExtractor(stub, "test-model", false)

	e.Extract(context.Background(), "some text")

	if stub.calls != 1 {
		t.Fatalf("expected 1 call, got %d", stub.calls)
	}
	if stub.last.Temperature != 0 {
		t.Errorf("extraction temperature = %v, want 0", stub.last.Temperature)
	}
	if stub.last.Model != "test-model" {
		t.Errorf("extraction model = %q, want test-model", stub.last.Model)
	}
}

func TestParse_MissingFieldsDefaulted(t *testing.T) {
	f := Parse(`{"numbers":["1"]}`)

	assertWellShaped(t, f)
	if len(f.Numbers) != 1 {
		t.Errorf("unexpected numbers: %v", f.Numbers)
	}
	if len(f.Dates) != 0 || len(f.Claims) != 0 {
		t.Errorf("missing fields should default empty, got %+v", f)
	}
}

func TestParse_ExtraFieldsIgnored(t *testing.T) {
	f := Parse(`{"numbers":["1"],"mood":"optimistic","vibes":["good"]}`)

	assertWellShaped(t, f)
	if len(f.Numbers) != 1 || f.Numbers[0] != "1" {
		t.Errorf("unexpected numbers: %v", f.Numbers)
	}
}

func TestParse_FirstToLastBrace(t *testing.T) {
	// Nested braces inside string values survive the slice
	f := Parse(`noise {"claims":["uses {braces} internally"]} trailing`)

	assertWellShaped(t, f)
	if len(f.Claims) != 1 || f.Claims[0] != "uses {braces} internally" {
		t.Errorf("unexpected claims: %v", f.Claims)
	}
}
