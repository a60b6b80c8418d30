package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/aditsuu/wisatarec/internal/app"
	"github.com/aditsuu/wisatarec/internal/catalog"
	"github.com/aditsuu/wisatarec/internal/spinner"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type searchHitJSON struct {
	Nama           string   `json:"nama"`
	Provinsi       string   `json:"provinsi,omitempty"`
	Rating         *float64 `json:"rating"`
	WeightedRating *float64 `json:"weighted_rating"`
	Score          float64  `json:"score"`
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over attraction names and descriptions",
	Long: `Search ranks attractions against a free-text query, weighting name matches
above description matches.

Examples:
  wisatarec search "candi di jawa"
  wisatarec search pantai --top 5 --json`,
	Args: cobra.MinimumNArgs(1),
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

		topN, _ := cmd.Flags().GetInt("top")
		query := strings.Join(args, " ")

		// display spinner for longer operations
		var sp *spinner.Spinner
		if !config.Quiet {
			sp = spinner.New(ctx, os.Stderr, "Searching attractions...")
			sp.Start()
		}
		rows := eng.Rows()
		hits := catalog.Search(rows, query, topN)
		if sp != nil {
			sp.Stop()
		}

		popScores := eng.PopularityScores()
		jsonFlag, _ := cmd.Flags().GetBool("json")
		if jsonFlag {
			out := make([]searchHitJSON, 0, len(hits))
			for _, hit := range hits {
				row := rows[hit.Row]
				out = append(out, searchHitJSON{
					Nama:           row.Nama,
					Provinsi:       row.Provinsi,
					Rating:         floatOrNil(row.Rating, 1),
					WeightedRating: floatOrNil(popScores[hit.Row], 3),
					Score:          roundFloat(hit.Score, 3),
				})
			}
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode results: %w", err)
			}
			fmt.Println(string(b))
			return nil
		}

		if len(hits) == 0 {
			fmt.Println("tidak ada tempat wisata yang cocok dengan kriteria tersebut")
			return nil
		}
		for i, hit := range hits {
			row := rows[hit.Row]
			fmt.Printf("%2d. %s", i+1, row.Nama)
			if row.Provinsi != "" {
				fmt.Printf(" (%s)", row.Provinsi)
			}
			if !math.IsNaN(row.Rating) {
				fmt.Printf("  rating %.1f", row.Rating)
			}
			if !math.IsNaN(popScores[hit.Row]) {
				fmt.Printf("  weighted %.3f", popScores[hit.Row])
			}
			fmt.Printf("  score %.3f\n", hit.Score)
		}
		return nil
	},
}

// roundFloat rounds to the given number of decimals.
func roundFloat(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// floatOrNil rounds a value, mapping NaN to nil for JSON output.
func floatOrNil(v float64, decimals int) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	r := roundFloat(v, decimals)
	return &r
}

func init() {
	searchCmd.Flags().IntP("top", "n", 10, "Number of results to return")
	searchCmd.Flags().Bool("json", false, "Output in JSON format")
	rootCmd.AddCommand(searchCmd)
}
