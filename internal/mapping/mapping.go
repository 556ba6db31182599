// Package mapping holds the result model of the engine: one entry per
// signal, merge of AI suggestions onto the deterministic baseline, and the
// aggregate statistics reported to the stylesheet-generation collaborator.
package mapping

import (
	"strings"

	"github.com/jmylchreest/webtint/internal/palette"
	"github.com/jmylchreest/webtint/internal/signal"
)

// Purpose is the inferred role a signal plays on the site.
type Purpose string

const (
	PurposeBackground Purpose = "background"
	PurposeText       Purpose = "text"
	PurposeAccent     Purpose = "accent"
	PurposeBorder     Purpose = "border"
	PurposeHover      Purpose = "hover"
	PurposeOther      Purpose = "other"
)

// Priority is advisory metadata for the stylesheet generator; it never
// influences classification.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Entry assigns one palette token to one signal.
type Entry struct {
	Key        string            `json:"key"`
	Token      palette.TokenName `json:"token"`
	Purpose    Purpose           `json:"purpose"`
	Reason     string            `json:"reason"`
	Priority   Priority          `json:"priority"`
	Confidence float64           `json:"confidence"`
	Accent     bool              `json:"accent"`

	// Properties carries the per-property token map for selector signals;
	// Token remains the entry's primary assignment.
	Properties map[string]palette.TokenName `json:"properties,omitempty"`
}

// Stats aggregates accent usage and coverage for one category.
type Stats struct {
	MainCount      int     `json:"mainCount"`
	BiAccent1Count int     `json:"biAccent1Count"`
	BiAccent2Count int     `json:"biAccent2Count"`
	Mapped         int     `json:"mapped"`
	Total          int     `json:"total"`
	Coverage       float64 `json:"coverage"`
}

// Result is the finished mapping for one category. It is constructed once
// per request and not modified afterwards.
type Result struct {
	Category signal.Category `json:"category"`
	Entries  []Entry         `json:"entries"`
	Stats    Stats           `json:"stats"`

	// Degraded is set when AI assistance was requested but the result had to
	// fall back to the deterministic baseline. A degraded result is complete
	// and fully usable.
	Degraded bool `json:"degraded"`
}

// Suggestion is one AI-proposed assignment, not yet validated against the
// palette. Nothing downstream trusts a Suggestion until Merge has checked
// its token.
type Suggestion struct {
	Key        string  `json:"key"`
	Token      string  `json:"token"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// Merge reconciles AI suggestions onto the fallback baseline. A suggestion
// whose token is a palette member overrides the baseline entry for that key;
// the baseline's reason and priority are preserved unless the suggestion
// carries its own trimmed, non-empty reason. Suggestions with unknown tokens
// or unknown keys are dropped; the baseline entry is kept unchanged, so the
// merged set always covers exactly the baseline's keys.
func Merge(fallback []Entry, suggestions []Suggestion, flavour *palette.Flavour) []Entry {
	byKey := make(map[string]Suggestion, len(suggestions))
	for _, s := range suggestions {
		byKey[s.Key] = s
	}

	merged := make([]Entry, len(fallback))
	for i, entry := range fallback {
		merged[i] = entry

		sugg, ok := byKey[entry.Key]
		if !ok {
			continue
		}
		tok, ok := flavour.Lookup(sugg.Token)
		if !ok {
			// Illegal token: the suggestion is discarded, never substituted
			// with a guess.
			continue
		}

		merged[i].Token = tok.Name
		merged[i].Accent = tok.IsAccent()
		if reason := strings.TrimSpace(sugg.Reason); reason != "" {
			merged[i].Reason = reason
		}
		if sugg.Confidence > 0 {
			merged[i].Confidence = clamp01(sugg.Confidence)
		}
	}

	return merged
}

// NewResult assembles an immutable result with its statistics.
func NewResult(category signal.Category, entries []Entry, accents palette.AccentSet, degraded bool) Result {
	stats := Stats{Total: len(entries)}
	for _, e := range entries {
		if e.Token == "" {
			continue
		}
		stats.Mapped++
		switch e.Token {
		case accents.Main.Name:
			stats.MainCount++
		case accents.BiAccent1.Name:
			stats.BiAccent1Count++
		case accents.BiAccent2.Name:
			stats.BiAccent2Count++
		}
	}
	if stats.Total > 0 {
		stats.Coverage = float64(stats.Mapped) / float64(stats.Total)
	}

	return Result{
		Category: category,
		Entries:  entries,
		Stats:    stats,
		Degraded: degraded,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
