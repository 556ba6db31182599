// Package cli provides the command-line interface for Webtint.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/webtint/internal/colour"
	imageutil "github.com/jmylchreest/webtint/internal/image"
	"github.com/jmylchreest/webtint/internal/palette"
	"github.com/jmylchreest/webtint/internal/util/imagecache"
)

func newSuggestAccentCmd() *cobra.Command {
	var (
		flavourName string
		clusters    int
		useCache    bool
	)

	cmd := &cobra.Command{
		Use:   "suggest-accent <screenshot>",
		Short: "Propose main accent candidates from a site screenshot",
		Long: `Suggest-accent extracts the dominant colours from a site screenshot and
maps each one to its nearest Catppuccin accent, giving you candidate values
for the map command's --accent flag.

The screenshot can be a local file (JPEG, PNG, GIF, WebP) or an HTTP(S) URL.
With --cache, remote screenshots are downloaded once into the user cache
directory and reused on subsequent runs.

Examples:
  webtint suggest-accent screenshot.png
  webtint suggest-accent https://example.com/shot.png --cache
  webtint suggest-accent screenshot.png --flavour latte --clusters 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggestAccent(cmd, args[0], flavourName, clusters, useCache)
		},
	}

	cmd.Flags().StringVarP(&flavourName, "flavour", "f", "mocha", "Catppuccin flavour to suggest accents from")
	cmd.Flags().IntVarP(&clusters, "clusters", "k", 6, "number of dominant colours to extract")
	cmd.Flags().BoolVar(&useCache, "cache", false, "cache remote screenshots on disk")

	return cmd
}

func runSuggestAccent(cmd *cobra.Command, path, flavourName string, clusters int, useCache bool) error {
	log := newLogger(cmd)

	f, err := palette.Get(flavourName)
	if err != nil {
		return err
	}

	if useCache && (strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")) {
		cached, err := imagecache.DownloadAndCache(cmd.Context(), path, imagecache.CacheOptions{})
		if err != nil {
			return err
		}
		log.Debug("using cached screenshot", "path", cached)
		path = cached
	}

	img, err := imageutil.NewSmartLoader().Load(path)
	if err != nil {
		return err
	}

	dominant, err := colour.DominantColours(img, clusters)
	if err != nil {
		return err
	}

	table := NewTable([]string{"ACCENT", "HEX", "SOURCE", "WEIGHT"})
	seen := make(map[palette.TokenName]bool)
	var best palette.Token

	for _, wc := range dominant {
		h, s, _ := colour.RGBToHSL(wc.RGB)
		if s < 0.12 {
			// Neutral cluster: backgrounds and text dominate most
			// screenshots and suggest nothing about the accent.
			continue
		}

		accent := f.NearestAccent(h, "")
		if seen[accent.Name] {
			continue
		}
		seen[accent.Name] = true
		if best.Name == "" {
			best = accent
		}

		table.AddRow([]string{
			string(accent.Name),
			accent.Hex,
			wc.RGB.Hex(),
			fmt.Sprintf("%.1f%%", wc.Weight*100),
		})
	}

	if len(seen) == 0 {
		fmt.Println("no hue-bearing clusters found; the screenshot looks monochrome")
		return nil
	}

	fmt.Print(table.Render())

	set, err := palette.DeriveAccentSet(f, best.Name)
	if err != nil {
		return err
	}
	fmt.Printf("\nsuggested: --flavour %s --accent %s (bi-accents: %s, %s)\n",
		f.Name, set.Main.Name, set.BiAccent1.Name, set.BiAccent2.Name)

	return nil
}
