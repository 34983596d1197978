package model

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration errors are rejected before any network activity.
var (
	ErrUnknownStyle = errors.New("unknown style")
	ErrUnknownMode  = errors.New("unknown mode")
)

// Style selects the voice of the rewrite.
type Style string

const (
	StylePlain   Style = "plain"
	StylePeasant Style = "peasant"
	StyleGrandma Style = "grandma"
	StyleExec    Style = "exec"
)

// Styles lists the supported styles in display order.
func Styles() []Style {
	return []Style{StylePlain, StylePeasant, StyleGrandma, StyleExec}
}

// ParseStyle validates a style identifier
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StylePlain:
		return StylePlain, nil
	case StylePeasant:
		return StylePeasant, nil
	case StyleGrandma:
		return StyleGrandma, nil
	case StyleExec:
		return StyleExec, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: plain, peasant, grandma, exec)", ErrUnknownStyle, s)
	}
}

// Mode selects the fidelity policy of the rewrite.
type Mode string

const (
	// ModeFaithful keeps every fact, even unclear ones, at the cost of brevity.
	ModeFaithful Mode = "faithful"
	// ModeSummary prioritizes outcomes but still keeps critical numbers,
	// dates, and constraints.
	ModeSummary Mode = "summary"
)

// ParseMode validates a mode identifier. Empty means faithful.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFaithful, "":
		return ModeFaithful, nil
	case ModeSummary:
		return ModeSummary, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: faithful, summary)", ErrUnknownMode, s)
	}
}

// Facts is the structured extraction of factual content worth preserving
// across a rewrite. All six fields are always present; a failed extraction
// yields an all-empty record, never a partial one.
type Facts struct {
	Numbers     []string `json:"numbers"`
	Dates       []string `json:"dates"`
	Names       []string `json:"names"`
	Protocols   []string `json:"protocols"`
	Claims      []string `json:"claims"`
	Constraints []string `json:"constraints"`
}

// EmptyFacts returns a record with all six fields set to empty slices,
// so JSON serialization always shows all six keys.
func EmptyFacts() Facts {
	return Facts{
		Numbers:     []string{},
		Dates:       []string{},
		Names:       []string{},
		Protocols:   []string{},
		Claims:      []string{},
		Constraints: []string{},
	}
}

// Normalize replaces nil fields with empty slices. Model output routinely
// omits fields; absent keys default to empty, extra keys are ignored by
// the decoder.
func (f *Facts) Normalize() {
	if f.Numbers == nil {
		f.Numbers = []string{}
	}
	if f.Dates == nil {
		f.Dates = []string{}
	}
	if f.Names == nil {
		f.Names = []string{}
	}
	if f.Protocols == nil {
		f.Protocols = []string{}
	}
	if f.Claims == nil {
		f.Claims = []string{}
	}
	if f.Constraints == nil {
		f.Constraints = []string{}
	}
}

// IsEmpty reports whether no facts were extracted.
func (f Facts) IsEmpty() bool {
	return len(f.Numbers) == 0 && len(f.Dates) == 0 && len(f.Names) == 0 &&
		len(f.Protocols) == 0 && len(f.Claims) == 0 && len(f.Constraints) == 0
}

// Request is a single rewrite request. Immutable once built; consumed
// exactly once by the rewrite call.
type Request struct {
	Style     Style
	Mode      Mode
	MaxWords  int
	KeepTerms []string
	Original  string
	Preclean  string
	Facts     Facts
}
