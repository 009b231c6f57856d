package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pkordes/prenoms/internal/importer"
	"github.com/pkordes/prenoms/internal/storage"
)

// seedConfig is read from the environment, like the API server's config.
type seedConfig struct {
	DatabaseURL string     `env:"DATABASE_URL,required,notEmpty"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"info"`
}

type seedFlags struct {
	csvPath   string
	delimiter string
	encoding  string
	batchSize int
	migrate   bool
	quiet     bool
}

func newRootCmd() *cobra.Command {
	var f seedFlags
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the INSEE given-name file into the name store",
		Long: `Seed reads the INSEE given-name file (columns sexe, preusuel, annais,
nombre), drops the rare-names aggregate and unusable rows, clears the
name_stats table and inserts the remaining rows in batches.

The target database is taken from DATABASE_URL.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), f, cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "path of the source file (required)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", ",", `field delimiter; raw INSEE files use ";"`)
	cmd.Flags().StringVar(&f.encoding, "encoding", "utf-8", "character encoding of the file, e.g. windows-1252")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", importer.DefaultBatchSize, "rows per insert")
	cmd.Flags().BoolVar(&f.migrate, "migrate", false, "apply pending migrations first")
	cmd.Flags().BoolVar(&f.quiet, "quiet", false, "hide the progress bar")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func runSeed(ctx context.Context, f seedFlags, stderr io.Writer) error {
	var cfg seedConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("configuration: %w", err)
	}
	delim, err := parseDelimiter(f.delimiter)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel})).
		With("run_id", uuid.NewString())
	start := time.Now()

	// --- Source -----------------------------------------------------------
	src, err := os.Open(f.csvPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	res, err := importer.Read(src, importer.Format{Delimiter: delim, Encoding: f.encoding})
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "source read", "path", f.csvPath, "records", len(res.Records), "skipped", res.Skipped)

	// --- Store ------------------------------------------------------------
	store, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("connect to name store: %w", err)
	}
	if f.migrate {
		applied, err := store.Migrate(ctx)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "migrations applied", "count", applied)
	}

	// --- Import -----------------------------------------------------------
	opts := []importer.Option{importer.WithBatchSize(f.batchSize), importer.WithLogger(logger)}
	var bar *progressbar.ProgressBar
	if !f.quiet {
		bar = progressbar.NewOptions(len(res.Records),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("Importing names"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		opts = append(opts, importer.WithProgress(bar))
	}

	st, err := importer.New(store.Importer(), opts...).Run(ctx, res.Records)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		logger.ErrorContext(ctx, "import failed", "inserted", st.Inserted, "error", err)
		return err
	}

	logger.InfoContext(ctx, "import complete",
		"dialect", store.Dialect(),
		"inserted", st.Inserted,
		"batches", st.Batches,
		"skipped", res.Skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// parseDelimiter accepts a single character, or `\t` for tab.
func parseDelimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
