// Package signal defines the units of extracted site styling data the
// mapping engine classifies: CSS custom properties, icon colour usages and
// selector colour-property bundles. Signals are produced by the crawling
// collaborator and are read-only inside the engine.
package signal

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jmylchreest/webtint/internal/palette"
)

// Category identifies one of the three independent mapping pipelines.
type Category string

const (
	CategoryVariables Category = "variables"
	CategoryIcons     Category = "icons"
	CategorySelectors Category = "selectors"
)

// Categories returns all categories in pipeline order.
func Categories() []Category {
	return []Category{CategoryVariables, CategoryIcons, CategorySelectors}
}

// Variable is a CSS custom property discovered on the site.
type Variable struct {
	Name          string `json:"name"`
	RawValue      string `json:"rawValue"`
	ComputedValue string `json:"computedValue"`
	Scope         string `json:"scope"`
	Frequency     int    `json:"frequency"`
}

// Key returns the stable identity used by mapping entries.
func (v Variable) Key() string { return v.Name }

// IconColour is one fill or stroke colour used by an icon.
type IconColour struct {
	Value    string `json:"value"`
	Selector string `json:"selector"`
}

// Key returns the stable identity used by mapping entries.
func (i IconColour) Key() string { return i.Selector + "::" + i.Value }

// Selector is a selector's colour-bearing property bundle together with the
// structural flags the crawler derived for it.
type Selector struct {
	Selector      string            `json:"selector"`
	Specificity   int               `json:"specificity"`
	Frequency     int               `json:"frequency"`
	Interactive   bool              `json:"interactive"`
	HasBackground bool              `json:"hasBackground"`
	HasBorder     bool              `json:"hasBorder"`
	TextOnly      bool              `json:"textOnly"`
	Category      string            `json:"category,omitempty"`
	Properties    map[string]string `json:"properties,omitempty"`
}

// Key returns the stable identity used by mapping entries.
func (s Selector) Key() string { return s.Selector }

// Session carries the per-request parameters chosen by the user and detected
// by the crawler.
type Session struct {
	Flavour    *palette.Flavour
	MainAccent palette.TokenName
	Accents    palette.AccentSet
	SiteDark   bool
}

// NewSession resolves flavour and accent names and derives the accent set.
func NewSession(flavourName, mainAccent string, siteDark bool) (Session, error) {
	f, err := palette.Get(flavourName)
	if err != nil {
		return Session{}, err
	}

	tok, ok := f.Lookup(mainAccent)
	if !ok {
		return Session{}, fmt.Errorf("unknown accent: %q", mainAccent)
	}

	set, err := palette.DeriveAccentSet(f, tok.Name)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Flavour:    f,
		MainAccent: tok.Name,
		Accents:    set,
		SiteDark:   siteDark,
	}, nil
}

// Document is the JSON interchange format produced by the crawling
// collaborator: the three signal sets plus what it detected about the site.
type Document struct {
	URL       string       `json:"url,omitempty"`
	SiteDark  bool         `json:"siteDark"`
	Variables []Variable   `json:"variables"`
	Icons     []IconColour `json:"icons"`
	Selectors []Selector   `json:"selectors"`
}

// Load reads and validates a signal document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signal document: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a signal document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse signal document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks structural requirements: every signal needs a non-empty
// key, and keys must be unique within their category.
func (d *Document) Validate() error {
	seen := make(map[string]bool)
	for i, v := range d.Variables {
		if strings.TrimSpace(v.Name) == "" {
			return fmt.Errorf("variable %d: missing name", i)
		}
		if seen[v.Key()] {
			return fmt.Errorf("duplicate variable: %s", v.Name)
		}
		seen[v.Key()] = true
	}

	seen = make(map[string]bool)
	for i, ic := range d.Icons {
		if strings.TrimSpace(ic.Value) == "" {
			return fmt.Errorf("icon colour %d: missing value", i)
		}
		if seen[ic.Key()] {
			return fmt.Errorf("duplicate icon colour: %s", ic.Key())
		}
		seen[ic.Key()] = true
	}

	seen = make(map[string]bool)
	for i, s := range d.Selectors {
		if strings.TrimSpace(s.Selector) == "" {
			return fmt.Errorf("selector %d: missing selector", i)
		}
		if seen[s.Key()] {
			return fmt.Errorf("duplicate selector: %s", s.Selector)
		}
		seen[s.Key()] = true
	}

	return nil
}

// Count returns the total number of signals across all categories.
func (d *Document) Count() int {
	return len(d.Variables) + len(d.Icons) + len(d.Selectors)
}
