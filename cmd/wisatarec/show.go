package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/aditsuu/wisatarec/internal/app"
	"github.com/aditsuu/wisatarec/internal/catalog"
	"github.com/aditsuu/wisatarec/internal/dataset"
	"github.com/aditsuu/wisatarec/internal/preprocess"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// printStrings renders a flat string list as lines or a JSON array.
func printStrings(cmd *cobra.Command, values []string) error {
	jsonFlag, _ := cmd.Flags().GetBool("json")
	if jsonFlag {
		b, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode list: %w", err)
		}
		fmt.Println(string(b))
		return nil
	}
	for _, v := range values {
		fmt.Println(v)
	}
	return nil
}

type attractionJSON struct {
	ID           int      `json:"id"`
	Nama         string   `json:"nama"`
	Provinsi     string   `json:"provinsi,omitempty"`
	Alamat       string   `json:"alamat,omitempty"`
	Rating       *float64 `json:"rating"`
	JumlahReview *float64 `json:"jumlah_review"`
	Deskripsi    string   `json:"deskripsi,omitempty"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Kategori     []string `json:"kategori,omitempty"`
	Foto         []string `json:"foto,omitempty"`
	URL          string   `json:"url,omitempty"`
}

func toAttractionJSON(a dataset.Attraction) attractionJSON {
	return attractionJSON{
		ID:           a.ID,
		Nama:         a.Nama,
		Provinsi:     a.Provinsi,
		Alamat:       a.Alamat,
		Rating:       floatOrNil(a.Rating, 1),
		JumlahReview: floatOrNil(a.JumlahReview, 0),
		Deskripsi:    a.Deskripsi,
		Latitude:     floatOrNil(a.Latitude, 6),
		Longitude:    floatOrNil(a.Longitude, 6),
		Kategori:     a.Kategori,
		Foto:         a.Foto,
		URL:          a.URL,
	}
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Explore the fitted catalog",
	Long: `Show lists catalog facets or individual records from the fitted dataset:
distinct categories, distinct provinces, one attraction in full, or a
filtered attraction listing.`,
}

var showCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List all distinct categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, ctx, stop, err := commandContext(cmd)
		if err != nil {
			return err
		}
		defer stop()

		eng, err := app.AcquireEngine(ctx, config)
		if err != nil {
			return err
		}
		return printStrings(cmd, catalog.Categories(eng.Rows()))
	},
}

var showProvincesCmd = &cobra.Command{
	Use:   "provinces",
	Short: "List all distinct provinces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, ctx, stop, err := commandContext(cmd)
		if err != nil {
			return err
		}
		defer stop()

		eng, err := app.AcquireEngine(ctx, config)
		if err != nil {
			return err
		}
		return printStrings(cmd, catalog.Provinces(eng.Rows()))
	},
}

var showAttractionCmd = &cobra.Command{
	Use:   "attraction <name>",
	Short: "Show one attraction in full detail",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, ctx, stop, err := commandContext(cmd)
		if err != nil {
			return err
		}
		defer stop()

		eng, err := app.AcquireEngine(ctx, config)
		if err != nil {
			return err
		}

		attr, found := catalog.Details(eng.Rows(), strings.Join(args, " "))
		if !found {
			fmt.Println("tempat wisata tidak ditemukan, coba nama lain")
			return nil
		}

		jsonFlag, _ := cmd.Flags().GetBool("json")
		if jsonFlag {
			b, err := json.MarshalIndent(toAttractionJSON(attr), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode attraction: %w", err)
			}
			fmt.Println(string(b))
			return nil
		}

		fmt.Println(attr.Nama)
		if attr.Provinsi != "" {
			fmt.Printf("Provinsi:  %s\n", attr.Provinsi)
		}
		if attr.Alamat != "" {
			fmt.Printf("Alamat:    %s\n", attr.Alamat)
		}
		if !math.IsNaN(attr.Rating) {
			fmt.Printf("Rating:    %.1f", attr.Rating)
			if !math.IsNaN(attr.JumlahReview) {
				fmt.Printf(" (%.0f ulasan)", attr.JumlahReview)
			}
			fmt.Println()
		}
		if len(attr.Kategori) > 0 {
			fmt.Printf("Kategori:  %s\n", strings.Join(attr.Kategori, ", "))
		}
		if attr.HasCoordinates() {
			fmt.Printf("Koordinat: %.6f, %.6f\n", attr.Latitude, attr.Longitude)
		}
		if attr.URL != "" {
			fmt.Printf("URL:       %s\n", attr.URL)
		}
		if attr.Deskripsi != "" {
			fmt.Printf("\n%s\n", attr.Deskripsi)
		}
		return nil
	},
}

var showAttractionsCmd = &cobra.Command{
	Use:   "attractions",
	Short: "List attractions, optionally filtered",
	Long: `List attractions matching the given filters. All filters are optional and
combine with AND semantics.

Examples:
  wisatarec show attractions --province Bali
  wisatarec show attractions --category Pantai --min-rating 4.5
  wisatarec show attractions --query pasir`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, ctx, stop, err := commandContext(cmd)
		if err != nil {
			return err
		}
		defer stop()

		eng, err := app.AcquireEngine(ctx, config)
		if err != nil {
			return err
		}

		opts := catalog.NewFilterOptions()
		opts.Category, _ = cmd.Flags().GetString("category")
		opts.Province, _ = cmd.Flags().GetString("province")
		opts.MinRating, _ = cmd.Flags().GetFloat64("min-rating")
		opts.Query, _ = cmd.Flags().GetString("query")
		if cmd.Flags().Changed("max-rating") {
			opts.MaxRating, _ = cmd.Flags().GetFloat64("max-rating")
		}

		rows := catalog.Filter(eng.Rows(), opts)

		jsonFlag, _ := cmd.Flags().GetBool("json")
		if jsonFlag {
			out := make([]attractionJSON, 0, len(rows))
			for _, row := range rows {
				out = append(out, toAttractionJSON(row.Attraction))
			}
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode attractions: %w", err)
			}
			fmt.Println(string(b))
			return nil
		}

		if len(rows) == 0 {
			fmt.Println("tidak ada tempat wisata yang cocok dengan kriteria tersebut")
			return nil
		}
		printRows(rows)
		return nil
	},
}

func printRows(rows []preprocess.Row) {
	for i, row := range rows {
		fmt.Printf("%2d. %s", i+1, row.Nama)
		if row.Provinsi != "" {
			fmt.Printf(" (%s)", row.Provinsi)
		}
		if !math.IsNaN(row.Rating) {
			fmt.Printf("  rating %.1f", row.Rating)
		}
		if len(row.Kategori) > 0 {
			fmt.Printf("  [%s]", strings.Join(row.Kategori, ", "))
		}
		fmt.Println()
	}
}

func init() {
	showCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	showAttractionsCmd.Flags().StringP("category", "c", "", "Restrict to a category (case-insensitive exact match)")
	showAttractionsCmd.Flags().StringP("province", "p", "", "Restrict to a province")
	showAttractionsCmd.Flags().Float64("min-rating", 0, "Minimum rating (inclusive)")
	showAttractionsCmd.Flags().Float64("max-rating", 0, "Maximum rating (inclusive)")
	showAttractionsCmd.Flags().String("query", "", "Substring match over name and description")

	showCmd.AddCommand(showCategoriesCmd)
	showCmd.AddCommand(showProvincesCmd)
	showCmd.AddCommand(showAttractionCmd)
	showCmd.AddCommand(showAttractionsCmd)
	rootCmd.AddCommand(showCmd)
}
