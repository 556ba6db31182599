// Package classifier implements the deterministic fallback classifier: a
// total function from signals to palette tokens. It performs no I/O, cannot
// fail, and is always computed — it is both the baseline the AI refines and
// the safety net every degraded request lands on.
package classifier

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/webtint/internal/colour"
	"github.com/jmylchreest/webtint/internal/mapping"
	"github.com/jmylchreest/webtint/internal/palette"
	"github.com/jmylchreest/webtint/internal/signal"
)

// Frequency thresholds for token-tier and priority decisions.
const (
	baseFrequency = 10 // background signals at or above this map to base
	textFrequency = 5  // text signals at or above this map to text
	highFrequency = 10
	midFrequency  = 3
)

// neutralSaturation is the HSL saturation below which an icon colour is
// treated as neutral rather than hue-bearing.
const neutralSaturation = 0.12

// purposeRule associates a purpose with the name fragments that imply it.
type purposeRule struct {
	purpose  mapping.Purpose
	keywords []string
}

// purposeRules is ordered: the first matching rule wins, so background-like
// names beat interactive-like ones (e.g. "--bg-primary" is a background).
var purposeRules = []purposeRule{
	{mapping.PurposeBackground, []string{"bg", "background", "surface", "base"}},
	{mapping.PurposeText, []string{"text", "font", "fg", "foreground"}},
	{mapping.PurposeAccent, []string{"accent", "primary", "link", "button", "brand"}},
	{mapping.PurposeBorder, []string{"border", "outline", "divider"}},
	{mapping.PurposeHover, []string{"hover", "focus", "active"}},
}

// InferPurpose scans a signal name or selector against the ordered keyword
// table. Names that match no rule are PurposeOther, never unclassified.
func InferPurpose(name string) mapping.Purpose {
	tokens := splitName(name)
	for _, rule := range purposeRules {
		for _, tok := range tokens {
			for _, kw := range rule.keywords {
				if tok == kw || (len(kw) >= 4 && strings.Contains(tok, kw)) {
					return rule.purpose
				}
			}
		}
	}
	return mapping.PurposeOther
}

// splitName lowercases a name and splits it on separators and camelCase
// boundaries, so "--mainBgColor" yields [main, bg, color].
func splitName(name string) []string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r + 32)
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}
	return strings.Fields(b.String())
}

// Variables classifies every CSS variable signal. Exactly one entry is
// produced per signal.
func Variables(sess signal.Session, vars []signal.Variable) []mapping.Entry {
	entries := make([]mapping.Entry, len(vars))
	for i, v := range vars {
		purpose := InferPurpose(v.Name)
		tok := tokenForPurpose(sess, purpose, v.Frequency)
		entries[i] = mapping.Entry{
			Key:        v.Key(),
			Token:      tok.Name,
			Purpose:    purpose,
			Reason:     fmt.Sprintf("name suggests %s", purpose),
			Priority:   priorityFor(v.Scope, v.Frequency),
			Confidence: 0.5,
			Accent:     tok.IsAccent(),
		}
	}
	return entries
}

// Icons classifies every icon colour signal. The owning selector's keywords
// are consulted first; hue-bearing values with no keyword signal map to the
// nearest accent, neutral ones to the text tier.
func Icons(sess signal.Session, icons []signal.IconColour) []mapping.Entry {
	entries := make([]mapping.Entry, len(icons))
	for i, ic := range icons {
		purpose := InferPurpose(ic.Selector)
		var tok palette.Token
		reason := fmt.Sprintf("selector suggests %s", purpose)

		if purpose == mapping.PurposeOther {
			tok, reason = iconTokenFromValue(sess, ic.Value)
		} else {
			// Icons carry no frequency; use the text-tier threshold so
			// keyword-derived text icons land on text, not subtext0.
			tok = tokenForPurpose(sess, purpose, textFrequency)
		}

		entries[i] = mapping.Entry{
			Key:        ic.Key(),
			Token:      tok.Name,
			Purpose:    purpose,
			Reason:     reason,
			Priority:   mapping.PriorityLow,
			Confidence: 0.5,
			Accent:     tok.IsAccent(),
		}
	}
	return entries
}

// iconTokenFromValue picks a token from the icon's colour value alone.
func iconTokenFromValue(sess signal.Session, value string) (palette.Token, string) {
	rgb, err := colour.ParseHex(value)
	if err != nil {
		// Unparseable values (gradients, keywords) still get a total
		// assignment: the session's main accent.
		return sess.Accents.Main, "unparseable value, using main accent"
	}

	h, s, _ := colour.RGBToHSL(rgb)
	if s < neutralSaturation {
		tok, _ := sess.Flavour.Token(palette.Text)
		return tok, "neutral icon colour"
	}
	return sess.Flavour.NearestAccent(h, ""), "nearest accent to icon hue"
}

// Selectors classifies every selector bundle through the decision table.
func Selectors(sess signal.Session, selectors []signal.Selector) []mapping.Entry {
	entries := make([]mapping.Entry, len(selectors))
	for i, sel := range selectors {
		entries[i] = classifySelector(sess, sel)
	}
	return entries
}

// classifySelector applies the decision table keyed on the crawler's
// structural flags. The entry's primary token follows the most salient
// property: background before text before border.
func classifySelector(sess signal.Session, sel signal.Selector) mapping.Entry {
	props := make(map[string]palette.TokenName)
	purpose := selectorPurpose(sel)

	textTok, _ := sess.Flavour.Token(palette.Text)
	overlayTok, _ := sess.Flavour.Token(palette.Overlay0)

	switch {
	case sel.Interactive && sel.HasBackground:
		// Buttons and similar: accent surface with readable text.
		props["background-color"] = sess.Accents.Main.Name
		props["color"] = textTok.Name
		if sel.HasBorder {
			props["border-color"] = sess.Accents.Main.Name
		}
	case sel.Interactive:
		// Links: accent text only.
		props["color"] = sess.Accents.Main.Name
		if sel.HasBorder {
			props["border-color"] = sess.Accents.Main.Name
		}
	case sel.TextOnly:
		props["color"] = textTok.Name
	default:
		if sel.HasBackground {
			props["background-color"] = backgroundToken(sess, sel.Frequency).Name
			props["color"] = textTok.Name
		}
		if sel.HasBorder {
			props["border-color"] = overlayTok.Name
		}
		if len(props) == 0 {
			// Nothing structural to go on: keyword inference on the
			// selector text, falling through to the main accent.
			tok := tokenForPurpose(sess, purpose, sel.Frequency)
			props["color"] = tok.Name
		}
	}

	primary := primaryToken(props)
	tok, _ := sess.Flavour.Token(primary)

	return mapping.Entry{
		Key:        sel.Key(),
		Token:      primary,
		Purpose:    purpose,
		Reason:     selectorReason(sel),
		Priority:   priorityFor("", sel.Frequency),
		Confidence: 0.5,
		Accent:     tok.IsAccent(),
		Properties: props,
	}
}

// selectorPurpose derives a purpose from structural flags, with keyword
// inference as the fallback.
func selectorPurpose(sel signal.Selector) mapping.Purpose {
	switch {
	case sel.Interactive:
		return mapping.PurposeAccent
	case sel.TextOnly:
		return mapping.PurposeText
	case sel.HasBackground:
		return mapping.PurposeBackground
	case sel.HasBorder:
		return mapping.PurposeBorder
	}
	if p := InferPurpose(sel.Selector); p != mapping.PurposeOther {
		return p
	}
	if p := InferPurpose(sel.Category); p != mapping.PurposeOther {
		return p
	}
	return mapping.PurposeOther
}

func selectorReason(sel signal.Selector) string {
	var flags []string
	if sel.Interactive {
		flags = append(flags, "interactive")
	}
	if sel.HasBackground {
		flags = append(flags, "background")
	}
	if sel.HasBorder {
		flags = append(flags, "border")
	}
	if sel.TextOnly {
		flags = append(flags, "text-only")
	}
	if len(flags) == 0 {
		return "no structural flags, keyword heuristics"
	}
	return "structural flags: " + strings.Join(flags, ", ")
}

// primaryToken picks the entry's single token from a property map.
func primaryToken(props map[string]palette.TokenName) palette.TokenName {
	for _, prop := range []string{"background-color", "color", "border-color"} {
		if tok, ok := props[prop]; ok {
			return tok
		}
	}
	// Unreachable for table-produced maps, but keep totality airtight.
	for _, tok := range props {
		return tok
	}
	return palette.Text
}

// tokenForPurpose maps an inferred purpose to a token, applying the
// frequency tiering.
func tokenForPurpose(sess signal.Session, purpose mapping.Purpose, frequency int) palette.Token {
	switch purpose {
	case mapping.PurposeBackground:
		return backgroundToken(sess, frequency)
	case mapping.PurposeText:
		name := palette.Text
		if frequency < textFrequency {
			name = palette.Subtext0
		}
		tok, _ := sess.Flavour.Token(name)
		return tok
	case mapping.PurposeBorder:
		tok, _ := sess.Flavour.Token(palette.Overlay0)
		return tok
	case mapping.PurposeAccent, mapping.PurposeHover:
		return sess.Accents.Main
	default:
		// "other" is still mapped: the main accent, never unknown.
		return sess.Accents.Main
	}
}

// backgroundToken picks base for dominant backgrounds and a surface tier
// otherwise; dark flavours sit one tier lower than light ones so light
// surfaces keep visible separation from base.
func backgroundToken(sess signal.Session, frequency int) palette.Token {
	name := palette.Base
	if frequency < baseFrequency {
		if sess.Flavour.Dark {
			name = palette.Surface0
		} else {
			name = palette.Surface1
		}
	}
	tok, _ := sess.Flavour.Token(name)
	return tok
}

// priorityFor derives advisory priority from scope and frequency. It is
// metadata only and never feeds back into classification.
func priorityFor(scope string, frequency int) mapping.Priority {
	root := strings.TrimSpace(scope) == ":root"
	switch {
	case root && frequency >= highFrequency:
		return mapping.PriorityCritical
	case root || frequency >= highFrequency:
		return mapping.PriorityHigh
	case frequency >= midFrequency:
		return mapping.PriorityMedium
	default:
		return mapping.PriorityLow
	}
}

// Classify runs the category's fallback classification. It is total: the
// returned slice always has exactly one entry per input signal.
func Classify(sess signal.Session, category signal.Category, doc *signal.Document) []mapping.Entry {
	switch category {
	case signal.CategoryVariables:
		return Variables(sess, doc.Variables)
	case signal.CategoryIcons:
		return Icons(sess, doc.Icons)
	case signal.CategorySelectors:
		return Selectors(sess, doc.Selectors)
	}
	return nil
}
