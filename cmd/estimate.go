package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/JamieAtGit/shipping-emissions-project/internal/pipeline"
)

var estimateFlags struct {
	url           string
	title         string
	brand         string
	blobs         []string
	panels        []string
	originHint    string
	weightKG      float64
	material      string
	recyclability string
	transport     string
	noPackaging   bool
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate origin and shipping emissions for one product",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		product := env.Pipeline.Estimate(cmd.Context(), pipeline.Request{
			URL:               estimateFlags.url,
			Title:             estimateFlags.title,
			Brand:             estimateFlags.brand,
			TextBlobs:         estimateFlags.blobs,
			PanelTexts:        estimateFlags.panels,
			OriginHint:        estimateFlags.originHint,
			WeightKG:          estimateFlags.weightKG,
			Material:          estimateFlags.material,
			Recyclability:     estimateFlags.recyclability,
			TransportOverride: estimateFlags.transport,
			IncludePackaging:  cfg.Pipeline.IncludePackaging && !estimateFlags.noPackaging,
			Destination:       destination(),
		})

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(product)
	},
}

func init() {
	f := estimateCmd.Flags()
	f.StringVar(&estimateFlags.url, "url", "", "product listing URL")
	f.StringVar(&estimateFlags.title, "title", "", "product title")
	f.StringVar(&estimateFlags.brand, "brand", "", "brand as scraped")
	f.StringArrayVar(&estimateFlags.blobs, "blob", nil, "text evidence blob (repeatable)")
	f.StringArrayVar(&estimateFlags.panels, "panel", nil, "ships-from / sold-by panel text (repeatable)")
	f.StringVar(&estimateFlags.originHint, "origin-hint", "", "declared origin country, if the page stated one")
	f.Float64Var(&estimateFlags.weightKG, "weight", 0, "weight in kg (0 = extract from blobs)")
	f.StringVar(&estimateFlags.material, "material", "", "primary material")
	f.StringVar(&estimateFlags.recyclability, "recyclability", "", "recyclability class (High/Medium/Low)")
	f.StringVar(&estimateFlags.transport, "transport", "", "transport override (Air/Ship/Truck)")
	f.BoolVar(&estimateFlags.noPackaging, "no-packaging", false, "skip the packaging weight uplift")
	rootCmd.AddCommand(estimateCmd)
}
