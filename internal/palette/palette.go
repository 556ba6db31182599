// Package palette models the fixed Catppuccin target palette: four flavours,
// each with 26 named tokens, and the colour-theory lookups the classifier
// and orchestrator rely on (nearest token, accent-set derivation).
//
// Tokens are immutable and never invented at runtime: anything that is not a
// member of the catalogue is a rejection, not a guess.
package palette

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/webtint/internal/colour"
)

// TokenName identifies a palette token within a flavour.
type TokenName string

// Accent tokens, in catalogue order.
const (
	Rosewater TokenName = "rosewater"
	Flamingo  TokenName = "flamingo"
	Pink      TokenName = "pink"
	Mauve     TokenName = "mauve"
	Red       TokenName = "red"
	Maroon    TokenName = "maroon"
	Peach     TokenName = "peach"
	Yellow    TokenName = "yellow"
	Green     TokenName = "green"
	Teal      TokenName = "teal"
	Sky       TokenName = "sky"
	Sapphire  TokenName = "sapphire"
	Blue      TokenName = "blue"
	Lavender  TokenName = "lavender"
)

// Neutral tokens, in catalogue order.
const (
	Text     TokenName = "text"
	Subtext1 TokenName = "subtext1"
	Subtext0 TokenName = "subtext0"
	Overlay2 TokenName = "overlay2"
	Overlay1 TokenName = "overlay1"
	Overlay0 TokenName = "overlay0"
	Surface2 TokenName = "surface2"
	Surface1 TokenName = "surface1"
	Surface0 TokenName = "surface0"
	Base     TokenName = "base"
	Mantle   TokenName = "mantle"
	Crust    TokenName = "crust"
)

// tokenOrder is the catalogue declaration order, used for tie-breaks.
var tokenOrder = []TokenName{
	Rosewater, Flamingo, Pink, Mauve, Red, Maroon, Peach, Yellow,
	Green, Teal, Sky, Sapphire, Blue, Lavender,
	Text, Subtext1, Subtext0,
	Overlay2, Overlay1, Overlay0,
	Surface2, Surface1, Surface0,
	Base, Mantle, Crust,
}

// accentCount is the number of accent tokens at the head of tokenOrder.
const accentCount = 14

// Token is one immutable palette member with its precomputed reference hue.
type Token struct {
	Name TokenName  `json:"name"`
	RGB  colour.RGB `json:"rgb"`
	Hex  string     `json:"hex"`
	Hue  float64    `json:"hue"`
}

// IsAccent reports whether the token is one of the fourteen accent hues.
func (t Token) IsAccent() bool {
	for _, name := range tokenOrder[:accentCount] {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Flavour is one complete flavour of the palette.
type Flavour struct {
	Name   string
	Dark   bool
	tokens []Token
	byName map[TokenName]int
}

// Published Catppuccin hex values, per flavour, in catalogue order.
var flavourHex = map[string][]string{
	"latte": {
		"#dc8a78", "#dd7878", "#ea76cb", "#8839ef", "#d20f39", "#e64553",
		"#fe640b", "#df8e1d", "#40a02b", "#179299", "#04a5e5", "#209fb5",
		"#1e66f5", "#7287fd",
		"#4c4f69", "#5c5f77", "#6c6f85",
		"#7c7f93", "#8c8fa1", "#9ca0b0",
		"#acb0be", "#bcc0cc", "#ccd0da",
		"#eff1f5", "#e6e9ef", "#dce0e8",
	},
	"frappe": {
		"#f2d5cf", "#eebebe", "#f4b8e4", "#ca9ee6", "#e78284", "#ea999c",
		"#ef9f76", "#e5c890", "#a6d189", "#81c8be", "#99d1db", "#85c1dc",
		"#8caaee", "#babbf1",
		"#c6d0f5", "#b5bfe2", "#a5adce",
		"#949cbb", "#838ba7", "#737994",
		"#626880", "#51576d", "#414559",
		"#303446", "#292c3c", "#232634",
	},
	"macchiato": {
		"#f4dbd6", "#f0c6c6", "#f5bde6", "#c6a0f6", "#ed8796", "#ee99a0",
		"#f5a97f", "#eed49f", "#a6da95", "#8bd5ca", "#91d7e3", "#7dc4e4",
		"#8aadf4", "#b7bdf8",
		"#cad3f5", "#b8c0e0", "#a5adcb",
		"#939ab7", "#8087a2", "#6e738d",
		"#5b6078", "#494d64", "#363a4f",
		"#24273a", "#1e2030", "#181926",
	},
	"mocha": {
		"#f5e0dc", "#f2cdcd", "#f5c2e7", "#cba6f7", "#f38ba8", "#eba0ac",
		"#fab387", "#f9e2af", "#a6e3a1", "#94e2d5", "#89dceb", "#74c7ec",
		"#89b4fa", "#b4befe",
		"#cdd6f4", "#bac2de", "#a6adc8",
		"#9399b2", "#7f849c", "#6c7086",
		"#585b70", "#45475a", "#313244",
		"#1e1e2e", "#181825", "#11111b",
	},
}

// flavourOrder lists flavours from lightest to darkest.
var flavourOrder = []string{"latte", "frappe", "macchiato", "mocha"}

var flavours = buildFlavours()

func buildFlavours() map[string]*Flavour {
	out := make(map[string]*Flavour, len(flavourHex))
	for name, hexes := range flavourHex {
		f := &Flavour{
			Name:   name,
			Dark:   name != "latte",
			tokens: make([]Token, len(tokenOrder)),
			byName: make(map[TokenName]int, len(tokenOrder)),
		}
		for i, hex := range hexes {
			rgb, err := colour.ParseHex(hex)
			if err != nil {
				// The catalogue is compiled in; a parse failure is a defect.
				panic(fmt.Sprintf("palette: bad catalogue entry %s/%s: %v", name, tokenOrder[i], err))
			}
			f.tokens[i] = Token{
				Name: tokenOrder[i],
				RGB:  rgb,
				Hex:  hex,
				Hue:  colour.Hue(rgb),
			}
			f.byName[tokenOrder[i]] = i
		}
		out[name] = f
	}
	return out
}

// Flavours returns the flavour names from lightest to darkest.
func Flavours() []string {
	out := make([]string, len(flavourOrder))
	copy(out, flavourOrder)
	return out
}

// Get returns the flavour with the given name (case-insensitive).
func Get(name string) (*Flavour, error) {
	f, ok := flavours[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown flavour: %q (available: %s)", name, strings.Join(flavourOrder, ", "))
	}
	return f, nil
}

// Tokens returns all tokens in catalogue order.
func (f *Flavour) Tokens() []Token {
	out := make([]Token, len(f.tokens))
	copy(out, f.tokens)
	return out
}

// Accents returns the fourteen accent tokens in catalogue order.
func (f *Flavour) Accents() []Token {
	out := make([]Token, accentCount)
	copy(out, f.tokens[:accentCount])
	return out
}

// Token returns the token with the given name.
func (f *Flavour) Token(name TokenName) (Token, bool) {
	i, ok := f.byName[name]
	if !ok {
		return Token{}, false
	}
	return f.tokens[i], true
}

// Lookup validates an arbitrary string against the catalogue. Matching is
// trimmed and case-insensitive; unknown names fail rather than being mapped
// to a best guess.
func (f *Flavour) Lookup(s string) (Token, bool) {
	return f.Token(TokenName(strings.ToLower(strings.TrimSpace(s))))
}

// NearestToken returns the catalogue token whose reference hue is closest to
// the hue of rgb. Ties are broken by smaller RGB distance to rgb, then by
// catalogue order.
func (f *Flavour) NearestToken(rgb colour.RGB) Token {
	hue := colour.Hue(rgb)

	best := f.tokens[0]
	bestHue := colour.HueDistance(hue, best.Hue)
	bestRGB := colour.RGBDistance(rgb, best.RGB)

	for _, t := range f.tokens[1:] {
		dh := colour.HueDistance(hue, t.Hue)
		if dh > bestHue {
			continue
		}
		dr := colour.RGBDistance(rgb, t.RGB)
		if dh < bestHue || dr < bestRGB {
			best, bestHue, bestRGB = t, dh, dr
		}
	}
	return best
}

// NearestAccent returns the accent token whose reference hue is closest to
// hue, skipping exclude. Ties are broken by lexical token name.
func (f *Flavour) NearestAccent(hue float64, exclude TokenName) Token {
	var best Token
	bestDist := -1.0
	for _, t := range f.tokens[:accentCount] {
		if t.Name == exclude {
			continue
		}
		d := colour.HueDistance(hue, t.Hue)
		if bestDist < 0 || d < bestDist || (d == bestDist && t.Name < best.Name) {
			best, bestDist = t, d
		}
	}
	return best
}

// AccentSet is the session's accent trio: the user-chosen main accent and
// the two bi-accents derived from it by ±72° hue rotation.
type AccentSet struct {
	Main      Token `json:"main"`
	BiAccent1 Token `json:"biAccent1"`
	BiAccent2 Token `json:"biAccent2"`
}

// DeriveAccentSet derives the accent set for a flavour and chosen main
// accent. The derivation is a pure function of its inputs: biAccent1 is the
// nearest accent to hue(main)+72°, biAccent2 the nearest to hue(main)−72°,
// both excluding main itself.
func DeriveAccentSet(f *Flavour, main TokenName) (AccentSet, error) {
	tok, ok := f.Token(main)
	if !ok || !tok.IsAccent() {
		return AccentSet{}, fmt.Errorf("main accent must be one of the accent tokens, got %q", main)
	}

	return AccentSet{
		Main:      tok,
		BiAccent1: f.NearestAccent(colour.RotateHue(tok.Hue, 72), main),
		BiAccent2: f.NearestAccent(colour.RotateHue(tok.Hue, -72), main),
	}, nil
}
