package main

import (
	"fmt"
	"strings"

	"github.com/aditsuu/wisatarec/internal/app"
	"github.com/aditsuu/wisatarec/internal/recommender"

	"github.com/spf13/cobra"
)

// printResult renders a query result per the output flags.
func printResult(cmd *cobra.Command, res recommender.Result, mode app.QueryMode) error {
	jsonFlag, _ := cmd.Flags().GetBool("json")
	if jsonFlag {
		out, err := app.RenderResultJSON(res, mode)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}
	fmt.Print(app.RenderResultText(res, mode))
	return nil
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Query the fitted engine for recommendations",
	Long: `Recommend ranks attractions by one of four modes: content similarity to a
named attraction, popularity (review-weighted rating), proximity to a
coordinate, or a hybrid blend of all three.`,
}

var recommendContentCmd = &cobra.Command{
	Use:   "content <name>",
	Short: "Attractions with descriptions similar to the named one",
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

		topN, _ := cmd.Flags().GetInt("top")
		res, err := eng.ContentBased(strings.Join(args, " "), topN)
		if err != nil {
			return err
		}
		return printResult(cmd, res, app.ModeContent)
	},
}

var recommendPopularityCmd = &cobra.Command{
	Use:   "popularity",
	Short: "Most popular attractions by review-weighted rating",
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

		topN, _ := cmd.Flags().GetInt("top")
		category, _ := cmd.Flags().GetString("category")
		province, _ := cmd.Flags().GetString("province")

		res, err := eng.PopularityBased(category, province, topN)
		if err != nil {
			return err
		}
		return printResult(cmd, res, app.ModePopularity)
	},
}

var recommendLocationCmd = &cobra.Command{
	Use:   "location",
	Short: "Attractions nearest to a coordinate",
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

		topN, _ := cmd.Flags().GetInt("top")
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")
		maxDistance, _ := cmd.Flags().GetFloat64("max-distance")

		res, err := eng.LocationBased(lat, lon, maxDistance, topN)
		if err != nil {
			return err
		}
		return printResult(cmd, res, app.ModeLocation)
	},
}

var recommendHybridCmd = &cobra.Command{
	Use:   "hybrid [name]",
	Short: "Blend content, location, and popularity into one ranking",
	Long: `Hybrid fuses up to three signals into a single weighted score. Every
criterion is optional: give a name for content similarity, coordinates for
proximity, and a category or province to narrow popularity. Signals without
input simply contribute nothing.`,
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

		q := recommender.NewHybridQuery()
		if len(args) > 0 {
			q.Name = strings.Join(args, " ")
		}
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
			q.Lat, _ = cmd.Flags().GetFloat64("lat")
			q.Lon, _ = cmd.Flags().GetFloat64("lon")
		}
		q.Category, _ = cmd.Flags().GetString("category")
		q.Province, _ = cmd.Flags().GetString("province")
		q.MaxDistanceKm, _ = cmd.Flags().GetFloat64("max-distance")
		q.TopN, _ = cmd.Flags().GetInt("top")

		res, err := eng.Hybrid(q)
		if err != nil {
			return err
		}
		return printResult(cmd, res, app.ModeHybrid)
	},
}

func init() {
	recommendCmd.PersistentFlags().IntP("top", "n", recommender.DefaultTopN, "Number of results to return")
	recommendCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	recommendPopularityCmd.Flags().StringP("category", "c", "", "Restrict to a category (case-insensitive exact match)")
	recommendPopularityCmd.Flags().StringP("province", "p", "", "Restrict to a province")

	recommendLocationCmd.Flags().Float64("lat", 0, "Latitude of the reference point")
	recommendLocationCmd.Flags().Float64("lon", 0, "Longitude of the reference point")
	recommendLocationCmd.Flags().Float64("max-distance", recommender.DefaultMaxDistanceKm, "Search radius in kilometers")
	_ = recommendLocationCmd.MarkFlagRequired("lat")
	_ = recommendLocationCmd.MarkFlagRequired("lon")

	recommendHybridCmd.Flags().Float64("lat", 0, "Latitude of the reference point")
	recommendHybridCmd.Flags().Float64("lon", 0, "Longitude of the reference point")
	recommendHybridCmd.Flags().Float64("max-distance", recommender.DefaultMaxDistanceKm, "Search radius in kilometers")
	recommendHybridCmd.Flags().StringP("category", "c", "", "Restrict to a category (case-insensitive exact match)")
	recommendHybridCmd.Flags().StringP("province", "p", "", "Restrict to a province")
	recommendHybridCmd.MarkFlagsRequiredTogether("lat", "lon")

	recommendCmd.AddCommand(recommendContentCmd)
	recommendCmd.AddCommand(recommendPopularityCmd)
	recommendCmd.AddCommand(recommendLocationCmd)
	recommendCmd.AddCommand(recommendHybridCmd)
	rootCmd.AddCommand(recommendCmd)
}
