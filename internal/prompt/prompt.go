// Package prompt renders the single textual prompt sent to the model for
// the rewrite call.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shred-cli/shred/internal/model"
)

// System is the system instruction sent alongside every rewrite prompt.
const System = "You are a jargon translator. You turn buzzword-laden text into plain language without losing facts."

var styleInstructions = map[model.Style]string{
	model.StylePlain:   "Rewrite in clear, plain English for a general audience. No jargon. Keep it brief but accurate.",
	model.StylePeasant: "Rewrite like you're explaining to a medieval peasant, playful but still accurate. Short, simple sentences.",
	model.StyleGrandma: "Rewrite in warm, simple language as if explaining to a grandparent. No buzzwords. Friendly and clear.",
	model.StyleExec:    "Rewrite as crisp executive summary bullets. No fluff, no jargon, focus on outcome and why it matters.",
}

// StyleInstruction returns the instruction text for a style.
func StyleInstruction(s model.Style) (string, bool) {
	instruct, ok := styleInstructions[s]
	return instruct, ok
}

// Build renders the rewrite prompt from a request. An unrecognized style
// or mode is a configuration error and is rejected here, before any
// network activity.
func Build(req model.Request) (string, error) {
	instruct, ok := styleInstructions[req.Style]
	if !ok {
		return "", fmt.Errorf("%w: %q (supported: plain, peasant, grandma, exec)", model.ErrUnknownStyle, req.Style)
	}

	policy, err := policyBlock(req)
	if err != nil {
		return "", err
	}

	facts := req.Facts
	facts.Normalize()
	factsJSON, err := json.Marshal(facts)
	if err != nil {
		return "", fmt.Errorf("marshal facts: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", instruct)
	b.WriteString(policy)
	b.WriteString("\nDo not invent features. Preserve the true meaning.\n")
	fmt.Fprintf(&b, "\nORIGINAL (ground truth):\n\"\"\"%s\"\"\"\n", strings.TrimSpace(req.Original))
	fmt.Fprintf(&b, "\nPRECLEAN (hints only, use just for definitions, the ORIGINAL is the ground truth):\n\"\"\"%s\"\"\"\n", strings.TrimSpace(req.Preclean))
	fmt.Fprintf(&b, "\nFACTS extracted from the original (preserve per the rules above):\n%s\n", factsJSON)

	return strings.TrimSpace(b.String()), nil
}

// policyBlock renders the fidelity policy. Empty mode means faithful.
func policyBlock(req model.Request) (string, error) {
	maxWords := req.MaxWords
	if maxWords <= 0 {
		maxWords = model.DefaultMaxWords
	}

	var b strings.Builder
	b.WriteString("Rules:\n")

	switch req.Mode {
	case model.ModeFaithful, "":
		fmt.Fprintf(&b, "- Preserve every fact: numbers, dates, names, protocols, claims, constraints.\n")
		fmt.Fprintf(&b, "- If a fact is unclear, include it verbatim rather than dropping it.\n")
		fmt.Fprintf(&b, "- Prefer short sentences. Avoid buzzwords.\n")
		fmt.Fprintf(&b, "- Target about %d words, but never at the cost of a fact.\n", maxWords)
	case model.ModeSummary:
		fmt.Fprintf(&b, "- Prioritize outcomes over completeness.\n")
		fmt.Fprintf(&b, "- Still keep critical numbers, dates, and constraints from the facts list.\n")
		fmt.Fprintf(&b, "- Target about %d words.\n", maxWords)
	default:
		return "", fmt.Errorf("%w: %q (supported: faithful, summary)", model.ErrUnknownMode, req.Mode)
	}

	if len(req.KeepTerms) > 0 {
		fmt.Fprintf(&b, "- If these terms appear in the ORIGINAL, keep them verbatim: %s.\n", strings.Join(req.KeepTerms, ", "))
	}

	return b.String(), nil
}
