// Package sweep implements the deterministic buzzword substitution pass.
// It runs before any model involvement and its output (the "preclean"
// text) is also the fallback output when the model is unreachable.
package sweep

import (
	"regexp"
	"strings"
)

// Rule pairs a case-insensitive, word-boundary-anchored pattern with a
// literal plain-English replacement.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

func rule(pattern, replacement string) Rule {
	return Rule{
		Pattern:     regexp.MustCompile(`(?i)` + pattern),
		Replacement: replacement,
	}
}

// rules is applied top to bottom over the same evolving string. Several
// patterns overlap (e.g. "embeddings" inside "vector embeddings", "LLM"
// vs "large language model"); the order below decides which rule wins on
// overlapping matches and must not be re-sorted.
var rules = []Rule{
	rule(`\bfederated\b`, "spread across different places"),
	rule(`\bembeddings?\b`, "a way to compare meaning in text"),
	rule(`\blatency\b`, "delay"),
	rule(`\bthroughput\b`, "how much it can handle"),
	rule(`\bscalable\b`, "can grow without breaking"),
	rule(`\brobust\b`, "hard to break"),
	rule(`\bresilient\b`, "recovers from problems"),
	rule(`\bseamless\b`, "smooth"),
	rule(`\bactionable\b`, "useful and ready to use"),
	rule(`\bintelligence\b`, "information"),
	rule(`\bdata enrichment\b`, "adding extra info to data"),
	rule(`\bdisrupt(ion|ive)\b`, "a big change in how things are done"),
	rule(`\bparadigm\b`, "approach"),
	rule(`\bleverages?\b`, "use"),
	rule(`\bat scale\b`, "for lots of users"),
	rule(`\bAI[- ]powered\b`, "uses AI"),
	rule(`\bgenerative AI\b`, "an AI that writes or makes things"),
	rule(`\blarge language model(s)?\b`, "a text AI"),
	rule(`\bmicroservices?\b`, "many small services"),
	rule(`\bserverless\b`, "you don't manage the servers"),
	rule(`\bedge computing\b`, "processing on the device"),
	rule(`\bobservability\b`, "seeing what the system is doing"),
	rule(`\bzero[- ]trust\b`, "verify everything, always"),
	rule(`\bblockchain\b`, "a shared ledger"),
	rule(`\bsmart contracts?\b`, "programs on a blockchain"),
	rule(`\bvector database\b`, "a database for comparing meanings"),
	rule(`\bmulti[- ]tenant\b`, "many customers on one system"),
	rule(`\bETL\b`, "extract, transform, load data"),
	rule(`\bRTOS\b`, "a real-time operating system"),
	rule(`\bHIL\b`, "hardware-in-the-loop testing"),
	rule(`\bDevOps\b`, "dev + ops practices"),
	rule(`\bSRE\b`, "site reliability engineering"),
	rule(`\bSDK\b`, "software toolkit"),
	rule(`\bKPI(s)?\b`, "key metrics"),
	rule(`\bOKR(s)?\b`, "goals and results"),
	rule(`\bIoT\b`, "internet-connected devices"),
	rule(`\bMQTT\b`, "a pub-sub message protocol"),
	rule(`\bLLM(s)?\b`, "text AI models"),
	rule(`\bvector embeddings?\b`, "numeric meaning of text"),
	rule(`\bknowledge graph\b`, "a map of linked facts"),
	rule(`\bdata lake\b`, "a big raw data pool"),
	rule(`\btime[- ]to[- ]value\b`, "how fast it helps you"),
	rule(`\bincremental(ly)?\b`, "step by step"),
	rule(`\bgreenfield\b`, "built from scratch"),
	rule(`\bbrownfield\b`, "built on existing systems"),
}

var spaceRun = regexp.MustCompile(`\s{2,}`)

// Sweep replaces every known buzzword with its plain-English equivalent,
// collapses runs of whitespace left behind by the replacements, and trims.
// Pure and side-effect-free; with no matches the output equals the
// whitespace-normalized input.
func Sweep(text string) string {
	out := text
	for _, r := range rules {
		out = r.Pattern.ReplaceAllString(out, r.Replacement)
	}
	out = spaceRun.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// RuleCount returns the size of the substitution table.
func RuleCount() int {
	return len(rules)
}
