// Package cli provides the command-line interface for Webtint.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/webtint/internal/palette"
)

func newPaletteCmd() *cobra.Command {
	var showAccents bool

	cmd := &cobra.Command{
		Use:   "palette [flavour]",
		Short: "Print the token catalogue for a flavour",
		Long: `Print the full Catppuccin token catalogue for a flavour, or only its
fourteen accent tokens with --accents.

Examples:
  webtint palette
  webtint palette latte
  webtint palette mocha --accents`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "mocha"
			if len(args) == 1 {
				name = args[0]
			}
			f, err := palette.Get(name)
			if err != nil {
				return err
			}

			tokens := f.Tokens()
			if showAccents {
				tokens = f.Accents()
			}

			kind := "dark"
			if !f.Dark {
				kind = "light"
			}
			fmt.Printf("%s (%s, %d tokens)\n\n", f.Name, kind, len(tokens))

			table := NewTable([]string{"TOKEN", "HEX", "HUE", "ROLE"})
			for _, tok := range tokens {
				role := "neutral"
				if tok.IsAccent() {
					role = "accent"
				}
				table.AddRow([]string{string(tok.Name), tok.Hex, fmt.Sprintf("%.0f", tok.Hue), role})
			}
			fmt.Print(table.Render())

			if !showAccents {
				fmt.Printf("\nflavours: %s\n", strings.Join(palette.Flavours(), ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showAccents, "accents", false, "show only accent tokens")

	return cmd
}
