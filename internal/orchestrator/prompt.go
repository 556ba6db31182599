package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmylchreest/webtint/internal/signal"
)

// strictInstruction is appended on the second attempt when the first
// response could not be parsed.
const strictInstruction = "\n\nOutput only the JSON object. No prose, no markdown fences, no reasoning."

// buildSystemPrompt describes the task, the legal token vocabulary and the
// required response shape. Everything the model may output is constrained to
// the flavour's catalogue; anything else is discarded downstream.
func buildSystemPrompt(sess signal.Session, category signal.Category) string {
	var sb strings.Builder

	sb.WriteString("You map website colour signals onto the Catppuccin palette.\n")
	fmt.Fprintf(&sb, "Flavour: %s. Main accent: %s. Bi-accents: %s and %s (use them for variety on secondary elements).\n",
		sess.Flavour.Name, sess.Accents.Main.Name, sess.Accents.BiAccent1.Name, sess.Accents.BiAccent2.Name)

	sb.WriteString("Legal tokens (use these names exactly, nothing else):\n")
	for _, tok := range sess.Flavour.Tokens() {
		fmt.Fprintf(&sb, "  %s %s\n", tok.Name, tok.Hex)
	}

	fmt.Fprintf(&sb, "\nYou are mapping the %s category. ", category)
	switch category {
	case signal.CategoryVariables:
		sb.WriteString("Each signal is a CSS custom property; judge its purpose from its name and value.\n")
	case signal.CategoryIcons:
		sb.WriteString("Each signal is an icon fill or stroke colour; prefer accent tokens for hue-bearing icons and text tiers for neutral ones.\n")
	case signal.CategorySelectors:
		sb.WriteString("Each signal is a selector's colour properties; judge its role from the selector and flags.\n")
	}

	sb.WriteString(`
Respond with a single JSON object of this exact shape:
{"mappings":[{"key":"<signal key>","token":"<palette token>","reason":"<short reason>","confidence":0.0}],"summary":"<one sentence>"}
Include one mapping per signal key. Confidence is between 0 and 1.`)

	return sb.String()
}

// buildUserPrompt serialises the category's signal set.
func buildUserPrompt(category signal.Category, doc *signal.Document) (string, error) {
	var payload any
	switch category {
	case signal.CategoryVariables:
		payload = doc.Variables
	case signal.CategoryIcons:
		payload = doc.Icons
	case signal.CategorySelectors:
		payload = doc.Selectors
	default:
		return "", fmt.Errorf("unknown category: %s", category)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode signals: %w", err)
	}

	return "Signals:\n" + string(data), nil
}
