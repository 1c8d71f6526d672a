package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pfrederiksen/lotto-analyzer/internal/config"
	"github.com/pfrederiksen/lotto-analyzer/internal/draw"
	"github.com/pfrederiksen/lotto-analyzer/internal/generator"
	"github.com/pfrederiksen/lotto-analyzer/internal/logger"
	"github.com/pfrederiksen/lotto-analyzer/internal/report"
	"github.com/pfrederiksen/lotto-analyzer/internal/sample"
	"github.com/pfrederiksen/lotto-analyzer/internal/scraper"
	"github.com/pfrederiksen/lotto-analyzer/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagDB      string
	flagVerbose bool
	flagLottery string
	flagFormat  string
	flagEntries int
	flagTop     int
	flagSeed    uint64
	flagYears   int
	flagDelay   time.Duration
)

// app carries what PersistentPreRunE resolved for the subcommands
type app struct {
	cfg      *config.Config
	profiles *draw.Registry
}

var current app

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lotto-analyzer",
		Short: "Frequency statistics and candidate entries for Lotto 6/49 and LottoMax",
		Long: `A CLI tool that collects past Lotto 6/49 and LottoMax results, counts how
often each number has been drawn, and proposes entries using hot, cold,
balanced and random strategies.

Draws are independent random events. The statistics describe the past and
do not change the odds of any entry.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	cmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default $LOTTO_DB_PATH or ~/.local/share/lotto-analyzer/lottery_results.db)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flagLottery, "lottery", "all", "Lottery id (lotto649, lottomax) or 'all'")

	cmd.AddCommand(
		newAnalyzeCmd(),
		newScrapeCmd(),
		newSampleCmd(),
		newCountCmd(),
	)

	return cmd
}

// setup loads configuration and the logger before any subcommand runs
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	profiles := draw.DefaultRegistry()
	if cfg.ProfilesFile != "" {
		f, err := os.Open(cfg.ProfilesFile)
		if err != nil {
			return fmt.Errorf("opening profiles: %w", err)
		}
		defer f.Close()

		profiles, err = draw.LoadRegistry(f)
		if err != nil {
			return fmt.Errorf("loading profiles: %w", err)
		}
	}

	current = app{cfg: cfg, profiles: profiles}

	logger.Debug("Configuration loaded", logger.Fields{
		"db_path":   cfg.DBPath,
		"log_level": string(level),
		"profiles":  profiles.IDs(),
	})
	return nil
}

// resolveLotteries expands --lottery into the ids to process
func resolveLotteries(value string) ([]string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" || value == "all" {
		return storage.Lotteries(), nil
	}

	for _, id := range storage.Lotteries() {
		if id == value {
			return []string{id}, nil
		}
	}
	return nil, fmt.Errorf("invalid lottery: %s (must be one of %s or 'all')",
		value, strings.Join(storage.Lotteries(), ", "))
}

func openStore() (*storage.Store, error) {
	store, err := storage.Open(current.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return store, nil
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Show number frequencies and candidate entries",
		RunE:  runAnalyze,
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().IntVar(&flagEntries, "entries", report.DefaultOptions.Entries, "Number of candidate entries per lottery")
	cmd.Flags().IntVar(&flagTop, "top", report.DefaultOptions.Top, "Numbers to list in each ranking")
	cmd.Flags().Uint64Var(&flagSeed, "seed", 0, "Random seed for entry generation (0 picks one)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	lotteries, err := resolveLotteries(flagLottery)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	seed := flagSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	gen := generator.NewSeeded(seed)
	opts := report.Options{Top: flagTop, Entries: flagEntries}

	analyses := make([]*report.Analysis, 0, len(lotteries))
	totalDraws := 0
	for _, id := range lotteries {
		start := time.Now()

		// The history is read once and held as a local snapshot for this run
		draws, err := store.ListDraws(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("loading %s draws: %w", id, err)
		}
		totalDraws += len(draws)

		analyses = append(analyses, report.Build(current.profiles.ProfileFor(id), draws, gen, opts))

		logger.RecordTiming("analysis."+id, time.Since(start))
		logger.SetGauge("draws."+id, float64(len(draws)))
		logger.Debug("Analyzed lottery", logger.Fields{
			"lottery": id,
			"draws":   len(draws),
			"seed":    seed,
		})
	}

	if totalDraws == 0 && format == report.FormatText {
		fmt.Fprintln(cmd.OutOrStdout(), "No lottery data found in database.")
		fmt.Fprintln(cmd.OutOrStdout(), "Run 'lotto-analyzer scrape' or 'lotto-analyzer sample' first.")
		return nil
	}

	if err := report.Write(cmd.OutOrStdout(), analyses, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	logger.Debug("Run metrics", logger.Fields{"metrics": logger.GetMetricsSnapshot()})
	return nil
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch past results and store new draws",
		RunE:  runScrape,
	}

	cmd.Flags().DurationVar(&flagDelay, "delay", 2*time.Second, "Pause between results pages")

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	lotteries, err := resolveLotteries(flagLottery)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sc := scraper.New(
		scraper.WithTimeout(current.cfg.HTTPTimeout),
		scraper.WithUserAgent(current.cfg.UserAgent),
		scraper.WithRegistry(current.profiles),
	)

	ctx := cmd.Context()
	failures := 0
	for i, id := range lotteries {
		if i > 0 && flagDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(flagDelay):
			}
		}

		draws, err := sc.FetchDraws(ctx, id)
		if err != nil {
			failures++
			logger.Error("Fetching past results failed", logger.Fields{"lottery": id}, err)
			continue
		}

		inserted, err := store.SaveDraws(ctx, id, draws)
		if err != nil {
			return fmt.Errorf("saving %s draws: %w", id, err)
		}
		logger.AddCounter("draws.inserted", int64(inserted))

		fmt.Fprintf(cmd.OutOrStdout(), "Stored %d new %s draws (%d fetched)\n",
			inserted, current.profiles.ProfileFor(id).Name, len(draws))
	}

	if failures == len(lotteries) {
		return fmt.Errorf("fetching past results failed for every lottery")
	}
	return nil
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Load a synthetic draw history for testing",
		RunE:  runSample,
	}

	cmd.Flags().IntVar(&flagYears, "years", 20, "Years of history to generate")
	cmd.Flags().Uint64Var(&flagSeed, "seed", 0, "Random seed (0 picks one)")

	return cmd
}

func runSample(cmd *cobra.Command, args []string) error {
	if flagYears < 0 {
		return fmt.Errorf("--years must not be negative")
	}

	lotteries, err := resolveLotteries(flagLottery)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	seed := flagSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	gen := sample.NewSeeded(seed)
	now := time.Now().UTC()

	for _, id := range lotteries {
		profile := current.profiles.ProfileFor(id)
		draws := gen.Generate(profile, flagYears, now)

		inserted, err := store.SaveDraws(cmd.Context(), id, draws)
		if err != nil {
			return fmt.Errorf("saving %s sample draws: %w", id, err)
		}
		logger.AddCounter("draws.inserted", int64(inserted))

		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d sample %s draws\n", inserted, profile.Name)
	}

	logger.Info("Sample data loaded", logger.Fields{"years": flagYears, "seed": seed})
	return nil
}

func newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show how many draws are stored",
		RunE:  runCount,
	}
}

func runCount(cmd *cobra.Command, args []string) error {
	lotteries, err := resolveLotteries(flagLottery)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "Database contains:")
	for _, id := range lotteries {
		count, err := store.CountDraws(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("counting %s draws: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s draws: %d\n", current.profiles.ProfileFor(id).Name, count)
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
