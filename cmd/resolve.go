package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
)

var resolveFlags struct {
	title      string
	blobs      []string
	panels     []string
	originHint string
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <brand>",
	Short: "Resolve a brand's origin through the fallback chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		origin := env.Resolver.Resolve(cmd.Context(), model.Evidence{
			BrandKey:   args[0],
			Title:      resolveFlags.title,
			TextBlobs:  resolveFlags.blobs,
			PanelTexts: resolveFlags.panels,
			OriginHint: resolveFlags.originHint,
		})

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(origin)
	},
}

func init() {
	f := resolveCmd.Flags()
	f.StringVar(&resolveFlags.title, "title", "", "product title for the heuristic tiers")
	f.StringArrayVar(&resolveFlags.blobs, "blob", nil, "text evidence blob (repeatable)")
	f.StringArrayVar(&resolveFlags.panels, "panel", nil, "ships-from / sold-by panel text (repeatable)")
	f.StringVar(&resolveFlags.originHint, "origin-hint", "", "declared origin country")
	rootCmd.AddCommand(resolveCmd)
}
