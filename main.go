package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fretelab/mlfrete/internal/server"
	"github.com/fretelab/mlfrete/internal/telemetry"
	"github.com/fretelab/mlfrete/pkg/quote"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "mlfrete",
	Short:   "Mercado Livre shipping-cost extractor - batch quote CLI and service",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP quoting server",
	RunE:  runServe,
}

var quoteZip string

var quoteCmd = &cobra.Command{
	Use:   "quote [ad-ids...]",
	Short: "Fetch shipping costs for a batch of ad IDs",
	Long: `Fetch shipping costs for a batch of Mercado Livre ad IDs.

Ad IDs are taken from the arguments, or from stdin when no arguments are
given; commas and newlines both separate IDs. Results are printed in the
order the IDs first appear in the input.`,
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVarP(&quoteZip, "zip", "z", "", "origin ZIP code (8 digits, e.g. 01001000 or 01.001-000)")
	quoteCmd.MarkFlagRequired("zip")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(ctx)
	}

	// Wire the provider and the batch coordinator
	fetcher := initFetcher(cfg, logger)
	coord := quote.NewCoordinator(fetcher, logger)

	logger.Info("Starting mlfrete",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.Bool("mock", cfg.MeliUseMock),
	)

	// Start HTTP server
	srv := server.New(server.Config{Port: cfg.Port}, coord, logger, telemetry.NewMetrics())
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Results go to stdout; logs go to stderr.
	logger, err := initCLILogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	zipCode, ok := quote.NormalizeZipCode(quoteZip)
	if !ok {
		return fmt.Errorf("invalid ZIP code %q: must be 8 digits (e.g. 01001000)", quoteZip)
	}

	blob := strings.Join(args, ",")
	if blob == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading ad IDs from stdin: %w", err)
		}
		blob = string(data)
	}
	if len(quote.SplitAdIDs(blob)) == 0 {
		return fmt.Errorf("at least one ad ID is required")
	}

	fetcher := initFetcher(cfg, logger)
	coord := quote.NewCoordinator(fetcher, logger)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Note: shipping costs cover Mercado Livre listings only, not Mercado Shops.")

	entries := coord.ProcessBatch(cmd.Context(), blob, zipCode)
	for _, e := range entries {
		switch {
		case e.Invalid():
			fmt.Fprintf(out, "Skipping invalid ad ID: %s\n", e.Raw)
		case e.OK():
			fmt.Fprintf(out, "%s: R$ %.2f\n", e.AdID, e.Cost.Amount)
		default:
			fmt.Fprintf(out, "%s: Failed to retrieve cost (%s)\n", e.AdID, quote.Reason(e.Err))
		}
	}
	return nil
}
