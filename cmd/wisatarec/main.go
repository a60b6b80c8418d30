package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/aditsuu/wisatarec/internal/app"
	"github.com/aditsuu/wisatarec/internal/textnorm"

	"github.com/spf13/cobra"
)

// buildConfig constructs an app.Config from the persistent flags.
func buildConfig(cmd *cobra.Command) (app.Config, error) {
	snapshot, _ := cmd.Flags().GetString("snapshot")
	data, _ := cmd.Flags().GetString("data")
	format, _ := cmd.Flags().GetString("format")
	stemmer, _ := cmd.Flags().GetString("stemmer")
	quiet, _ := cmd.Flags().GetBool("quiet")
	debug, _ := cmd.Flags().GetBool("debug")

	dataFormat, err := app.ParseFormat(format)
	if err != nil {
		return app.Config{}, err
	}

	var kind textnorm.StemmerKind
	switch stemmer {
	case "", "sastrawi":
		kind = textnorm.StemmerSastrawi
	case "snowball":
		kind = textnorm.StemmerSnowball
	default:
		return app.Config{}, fmt.Errorf("unknown stemmer %q (want sastrawi or snowball)", stemmer)
	}

	return app.Config{
		DataSource:   data,
		DataFormat:   dataFormat,
		SnapshotPath: snapshot,
		Stemmer:      kind,
		Quiet:        quiet,
		Debug:        debug,
	}, nil
}

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	var level slog.Level
	if debug {
		level = slog.LevelDebug
	} else {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// commandContext prepares the app config and a signal-aware context for a
// command run. The returned stop function must be deferred.
func commandContext(cmd *cobra.Command) (app.Config, context.Context, context.CancelFunc, error) {
	config, err := buildConfig(cmd)
	if err != nil {
		return app.Config{}, nil, nil, fmt.Errorf("configuration error: %w", err)
	}

	// configure logging pending debug flag
	setupLogger(config.Debug)

	// create context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	return config, ctx, stop, nil
}

var rootCmd = &cobra.Command{
	Use:   "wisatarec",
	Short: "A recommendation engine for Indonesian tourist attractions",
	Long: `Wisatarec recommends Indonesian tourist attractions by content similarity,
popularity, and location, or a weighted blend of all three. Fit once from a
scraped dataset, then query the saved snapshot.

Examples:
  wisatarec fit --data wisata.csv
  wisatarec recommend content "Pantai Kuta"
  wisatarec recommend hybrid "Pantai Kuta" --lat -8.65 --lon 115.22 --category Pantai
  wisatarec search "candi di jawa"`,
}

func init() {
	rootCmd.PersistentFlags().StringP("snapshot", "s", "wisatarec.gob", "Path to the fitted engine snapshot")
	rootCmd.PersistentFlags().StringP("data", "d", "", "Dataset source: URL, file path, or - for stdin")
	rootCmd.PersistentFlags().String("format", "csv", "Dataset format (csv or json)")
	rootCmd.PersistentFlags().String("stemmer", "sastrawi", "Stemmer for text normalization (sastrawi or snowball)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress and warning messages")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "Enable debug logging")
	_ = rootCmd.PersistentFlags().MarkHidden("debug")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
