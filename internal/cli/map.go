// Package cli provides the command-line interface for Webtint.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/webtint/internal/mapping"
	"github.com/jmylchreest/webtint/internal/orchestrator"
	"github.com/jmylchreest/webtint/internal/palette"
	"github.com/jmylchreest/webtint/internal/provider"
	"github.com/jmylchreest/webtint/internal/signal"
)

// mapOptions collects the map command's flag values.
type mapOptions struct {
	input       string
	flavour     string
	accent      string
	theme       string
	ai          bool
	providerID  string
	model       string
	simpleModel string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	output      string
	format      string
}

// mapOutput is the JSON document the map command emits.
type mapOutput struct {
	URL      string                             `json:"url,omitempty"`
	Flavour  string                             `json:"flavour"`
	Accents  palette.AccentSet                  `json:"accents"`
	SiteDark bool                               `json:"siteDark"`
	Degraded bool                               `json:"degraded"`
	Results  map[signal.Category]mapping.Result `json:"results"`
}

func newMapCmd() *cobra.Command {
	opts := &mapOptions{}

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Map a signal document onto the Catppuccin palette",
		Long: `Map reads a signal document (the JSON produced by the site crawler) and
assigns a Catppuccin token to every signal in it.

The deterministic classifier always produces a complete mapping. With --ai an
LLM provider refines the assignment; if the provider fails for a category,
that category silently falls back to the deterministic result and the output
is marked degraded.

Examples:
  # Deterministic mapping only
  webtint map -i signals.json --flavour mocha --accent blue

  # AI-refined via Gemini (GEMINI_API_KEY)
  webtint map -i signals.json --ai --provider gemini --model gemini-2.5-flash

  # AI-refined via an OpenAI-compatible endpoint (WEBTINT_OPENAI_KEY/URL)
  webtint map -i signals.json --ai --provider openai --model gpt-4o-mini

  # Human-readable table on a light flavour
  webtint map -i signals.json --flavour latte --accent mauve --format table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "signal document to map (JSON, required)")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().StringVarP(&opts.flavour, "flavour", "f", "mocha", "Catppuccin flavour (latte, frappe, macchiato, mocha)")
	cmd.Flags().StringVarP(&opts.accent, "accent", "a", "blue", "main accent token")
	cmd.Flags().StringVarP(&opts.theme, "theme", "t", "auto", "site theme override (auto, dark, light)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write result to file instead of stdout")
	cmd.Flags().StringVar(&opts.format, "format", "json", "output format (json, table)")
	addProviderFlags(cmd.Flags(), opts)

	return cmd
}

// addProviderFlags registers the AI-side flags shared by commands that can
// invoke a completion provider.
func addProviderFlags(fs *pflag.FlagSet, opts *mapOptions) {
	fs.BoolVar(&opts.ai, "ai", false, "enable AI-refined mapping")
	fs.StringVar(&opts.providerID, "provider", "gemini", "completion provider (gemini, openai)")
	fs.StringVar(&opts.model, "model", "", "completion model id")
	fs.StringVar(&opts.simpleModel, "simple-model", "", "fallback model for the strict retry")
	fs.Float64Var(&opts.temperature, "temperature", 0.2, "completion temperature")
	fs.IntVar(&opts.maxTokens, "max-tokens", 0, "completion token limit (0 = provider default)")
	fs.DurationVar(&opts.timeout, "timeout", 60*time.Second, "per-completion timeout")
}

func runMap(cmd *cobra.Command, opts *mapOptions) error {
	log := newLogger(cmd)

	doc, err := signal.Load(opts.input)
	if err != nil {
		return err
	}

	siteDark, err := resolveSiteDark(opts.theme, doc)
	if err != nil {
		return err
	}

	sess, err := signal.NewSession(opts.flavour, opts.accent, siteDark)
	if err != nil {
		return err
	}

	var prov provider.Provider
	if opts.ai {
		prov, err = buildProvider(cmd.Context(), opts.providerID)
		if err != nil {
			return err
		}
		log.Debug("AI refinement enabled", "provider", prov.Name(), "model", opts.model)
	}

	engine, err := orchestrator.New(prov, orchestrator.Config{
		Model:       opts.model,
		SimpleModel: opts.simpleModel,
		Temperature: opts.temperature,
		MaxTokens:   opts.maxTokens,
		Timeout:     opts.timeout,
	}, log.Named("engine"))
	if err != nil {
		return err
	}

	results := engine.MapAll(cmd.Context(), sess, doc)

	out := mapOutput{
		URL:      doc.URL,
		Flavour:  sess.Flavour.Name,
		Accents:  sess.Accents,
		SiteDark: siteDark,
		Results:  results,
	}
	for _, res := range results {
		if res.Degraded {
			out.Degraded = true
		}
	}
	if out.Degraded {
		log.Warn("one or more categories degraded to the deterministic fallback")
	}

	return emitMapOutput(out, opts)
}

// resolveSiteDark applies the --theme override on top of the document's
// detected darkness.
func resolveSiteDark(theme string, doc *signal.Document) (bool, error) {
	switch strings.ToLower(theme) {
	case "auto", "":
		return doc.SiteDark, nil
	case "dark":
		return true, nil
	case "light":
		return false, nil
	}
	return false, fmt.Errorf("invalid theme %q (expected auto, dark or light)", theme)
}

// buildProvider resolves the --provider flag to a configured adapter.
func buildProvider(ctx context.Context, id string) (provider.Provider, error) {
	switch strings.ToLower(id) {
	case "gemini":
		return provider.NewGeminiProvider(ctx)
	case "openai":
		return provider.NewOpenAIProvider("", "")
	}
	return nil, fmt.Errorf("unknown provider %q (expected gemini or openai)", id)
}

func emitMapOutput(out mapOutput, opts *mapOptions) error {
	var rendered []byte
	switch opts.format {
	case "json":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		rendered = append(data, '\n')
	case "table":
		rendered = []byte(renderMapTables(out))
	default:
		return fmt.Errorf("invalid format %q (expected json or table)", opts.format)
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(rendered)
		return err
	}
	if err := os.WriteFile(opts.output, rendered, 0o644); err != nil { // #nosec G306 - Mapping output is not sensitive
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// renderMapTables renders one table per category, reason column clamped to
// the terminal width.
func renderMapTables(out mapOutput) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Flavour: %s  Accents: %s / %s / %s\n",
		out.Flavour, out.Accents.Main.Name, out.Accents.BiAccent1.Name, out.Accents.BiAccent2.Name)

	for _, cat := range signal.Categories() {
		res, ok := out.Results[cat]
		if !ok || len(res.Entries) == 0 {
			continue
		}

		header := strings.ToUpper(string(cat))
		if res.Degraded {
			header += " (degraded)"
		}
		fmt.Fprintf(&sb, "\n%s\n", header)

		table := NewTable([]string{"KEY", "TOKEN", "PURPOSE", "PRIORITY", "REASON"})
		table.ClampToTerminal(4, 60)
		for _, e := range res.Entries {
			table.AddRow([]string{e.Key, string(e.Token), string(e.Purpose), string(e.Priority), e.Reason})
		}
		sb.WriteString(table.Render())

		fmt.Fprintf(&sb, "coverage: %.0f%%  main: %d  bi1: %d  bi2: %d\n",
			res.Stats.Coverage*100, res.Stats.MainCount, res.Stats.BiAccent1Count, res.Stats.BiAccent2Count)
	}

	return sb.String()
}
