package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/JamieAtGit/shipping-emissions-project/internal/brands"
	"github.com/JamieAtGit/shipping-emissions-project/internal/geo"
	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
	"github.com/JamieAtGit/shipping-emissions-project/internal/resolver"
	"github.com/JamieAtGit/shipping-emissions-project/internal/store"
)

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "Curate the learned brand-origin store",
}

var brandsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List learned brand-origin mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStore(cmd)
		defer st.Close()

		records, err := st.ListBrandOrigins(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "list brand origins")
		}
		for _, rec := range records {
			fmt.Printf("%-30s %-15s %-20s %s\n", rec.BrandKey, rec.Country, rec.City, rec.Tier)
		}
		fmt.Printf("%d brand(s)\n", len(records))
		return nil
	},
}

var brandsSetCmd = &cobra.Command{
	Use:   "set <brand> <country> [city]",
	Short: "Set or correct a brand's origin",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStore(cmd)
		defer st.Close()

		key := resolver.NormalizeBrandKey(args[0])
		country := resolver.DefaultRules().CanonicalCountry(args[1])
		city := geo.OriginCity(country)
		if len(args) == 3 {
			city = args[2]
		}

		err := st.UpsertBrandOrigin(cmd.Context(), model.BrandOriginRecord{
			BrandKey: key,
			Country:  country,
			City:     city,
			Tier:     model.TierCurated,
		})
		if err != nil {
			return eris.Wrap(err, "upsert brand origin")
		}
		fmt.Printf("%s -> %s, %s\n", key, country, city)
		return nil
	},
}

var brandsRmCmd = &cobra.Command{
	Use:   "rm <brand>",
	Short: "Remove a learned brand-origin mapping",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStore(cmd)
		defer st.Close()

		key := resolver.NormalizeBrandKey(args[0])
		if err := st.DeleteBrandOrigin(cmd.Context(), key); err != nil {
			return eris.Wrap(err, "delete brand origin")
		}
		fmt.Printf("removed %s\n", key)
		return nil
	},
}

var brandsImportCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Import brand origins from a curated CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStore(cmd)
		defer st.Close()

		table, err := brands.LoadCurated(args[0])
		if err != nil {
			return err
		}
		imported := 0
		for _, key := range table.Brands() {
			rec, _ := table.Lookup(key)
			err := st.UpsertBrandOrigin(cmd.Context(), model.BrandOriginRecord{
				BrandKey: key,
				Country:  rec.Country,
				City:     rec.City,
				Tier:     model.TierCurated,
			})
			if err != nil {
				return eris.Wrapf(err, "import %s", key)
			}
			imported++
		}
		fmt.Printf("imported %d brand(s)\n", imported)
		return nil
	},
}

var brandsExportFlags struct {
	out      string
	format   string
	priority bool
}

var brandsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the brand-origin store to CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		st := openStore(cmd)
		defer st.Close()

		records, err := st.ListBrandOrigins(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "list brand origins")
		}

		var priority []model.Product
		if brandsExportFlags.priority {
			priority, err = st.ListPriorityProducts(cmd.Context())
			if err != nil {
				return eris.Wrap(err, "list priority products")
			}
		}

		switch strings.ToLower(brandsExportFlags.format) {
		case "csv":
			return exportCSV(brandsExportFlags.out, records)
		case "xlsx":
			return exportXLSX(brandsExportFlags.out, records, priority)
		default:
			return eris.Errorf("unknown export format %q", brandsExportFlags.format)
		}
	},
}

func exportCSV(path string, records []model.BrandOriginRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"brand", "hq_country", "hq_city", "tier"}); err != nil {
		return eris.Wrap(err, "write csv header")
	}
	for _, rec := range records {
		if err := w.Write([]string{rec.BrandKey, rec.Country, rec.City, string(rec.Tier)}); err != nil {
			return eris.Wrap(err, "write csv row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "flush csv")
}

func exportXLSX(path string, records []model.BrandOriginRecord, priority []model.Product) error {
	wb := xlsx.NewFile()
	sheet, err := wb.AddSheet("Brand Origins")
	if err != nil {
		return eris.Wrap(err, "add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Brand", "Country", "City", "Tier"} {
		header.AddCell().SetString(h)
	}
	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(rec.BrandKey)
		row.AddCell().SetString(rec.Country)
		row.AddCell().SetString(rec.City)
		row.AddCell().SetString(string(rec.Tier))
	}

	if priority != nil {
		ps, err := wb.AddSheet("Priority Products")
		if err != nil {
			return eris.Wrap(err, "add priority sheet")
		}
		header := ps.AddRow()
		for _, h := range []string{"Identifier", "Title", "Origin", "Carbon kg", "Eco Score"} {
			header.AddCell().SetString(h)
		}
		for _, p := range priority {
			row := ps.AddRow()
			row.AddCell().SetString(p.Identifier)
			row.AddCell().SetString(p.Title)
			row.AddCell().SetString(p.OriginCountry)
			row.AddCell().SetString(strconv.FormatFloat(p.CarbonKG, 'f', 2, 64))
			row.AddCell().SetString(p.EcoScore)
		}
	}

	return eris.Wrapf(wb.Save(path), "save %s", path)
}

// openStore opens the configured store for the admin commands. Failures
// degrade to the in-memory store inside Open, which for admin use is still
// visible (a warning is logged).
func openStore(cmd *cobra.Command) store.Store {
	st := store.Open(cmd.Context(), store.Config{
		Driver:      cfg.Store.Driver,
		DatabaseURL: cfg.Store.DatabaseURL,
	})
	zap.L().Debug("brands: store opened", zap.String("driver", cfg.Store.Driver))
	return st
}

func init() {
	f := brandsExportCmd.Flags()
	f.StringVar(&brandsExportFlags.out, "out", "brand_origins.csv", "output path")
	f.StringVar(&brandsExportFlags.format, "format", "csv", "export format: csv or xlsx")
	f.BoolVar(&brandsExportFlags.priority, "priority", false, "include the priority product cache (xlsx only)")

	brandsCmd.AddCommand(brandsListCmd, brandsSetCmd, brandsRmCmd, brandsImportCmd, brandsExportCmd)
	rootCmd.AddCommand(brandsCmd)
}
