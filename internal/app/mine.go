package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketminer/internal/mining"
	"github.com/blackwell-systems/basketminer/internal/output"
	"github.com/blackwell-systems/basketminer/internal/transactions"
	"github.com/blackwell-systems/basketminer/internal/watcher"
)

var (
	mineFile          string
	mineMinSupport    float64
	mineMinConfidence float64
	mineTop           int
	mineRules         int
	mineWorkers       int
	mineExport        string
	mineWatch         bool
	mineQuiet         bool

	mineCmd = &cobra.Command{
		Use:   "mine [NAME]",
		Short: "Find frequent itemsets and association rules",
		Long: `Mine a transaction database for frequent itemsets and association rules.

The database is either a stored catalogue entry (NAME) or a CSV file (--file).
Every k-combination of the distinct items is checked against every
transaction, level by level, until a level has no frequent itemset. Rules are
derived from every frequent itemset of size 2 or more and ranked by
confidence, then support.

Support thresholds:
  --min-support 0.2   fraction: an itemset needs 20% of the transactions
  --min-support 3     absolute: an itemset needs 3 transactions

Flags override the values in config.yaml.`,
		Example: `  # Mine a stored database with the default thresholds
  basketminer mine Amazon

  # Mine a CSV file and export the results
  basketminer mine --file data/Walmart_transactions.csv --export walmart

  # Re-mine whenever the file changes
  basketminer mine --file baskets.csv --watch

  # Use four workers for large levels
  basketminer mine Costco --workers 4`,
		Args: cobra.MaximumNArgs(1),
		RunE: runMine,
	}
)

func init() {
	defaults := mining.DefaultThresholds()
	mineCmd.Flags().StringVarP(&mineFile, "file", "f", "", "mine a CSV file instead of a stored database")
	mineCmd.Flags().Float64VarP(&mineMinSupport, "min-support", "s", defaults.MinSupport, "minimum support (fraction below 1, count otherwise)")
	mineCmd.Flags().Float64VarP(&mineMinConfidence, "min-confidence", "c", defaults.MinConfidence, "minimum rule confidence in [0, 1]")
	mineCmd.Flags().IntVar(&mineTop, "top", 10, "frequent itemsets shown per size (0 shows all)")
	mineCmd.Flags().IntVar(&mineRules, "rules", 15, "association rules shown (0 shows all)")
	mineCmd.Flags().IntVarP(&mineWorkers, "workers", "w", 1, "goroutines counting candidates per level")
	mineCmd.Flags().StringVar(&mineExport, "export", "", "write <prefix>_frequent_itemsets.txt, <prefix>_association_rules.txt and .csv")
	mineCmd.Flags().BoolVar(&mineWatch, "watch", false, "re-mine when --file changes (Ctrl+C to stop)")
	mineCmd.Flags().BoolVarP(&mineQuiet, "quiet", "q", false, "hide per-level progress")

	RootCmd.AddCommand(mineCmd)
}

// mineParams is the resolved configuration of one mine invocation.
type mineParams struct {
	thresholds  mining.Thresholds
	topItemsets int
	topRules    int
	workers     int
}

// resolveMineParams merges config file settings with explicitly set flags.
func resolveMineParams(cmd *cobra.Command) (mineParams, error) {
	p := mineParams{
		thresholds:  settings.Thresholds(),
		topItemsets: settings.TopItemsets,
		topRules:    settings.TopRules,
		workers:     settings.Workers,
	}

	flags := cmd.Flags()
	if flags.Changed("min-support") {
		p.thresholds.MinSupport = mineMinSupport
	}
	if flags.Changed("min-confidence") {
		p.thresholds.MinConfidence = mineMinConfidence
	}
	if flags.Changed("top") {
		p.topItemsets = mineTop
	}
	if flags.Changed("rules") {
		p.topRules = mineRules
	}
	if flags.Changed("workers") {
		p.workers = mineWorkers
	}

	if err := p.thresholds.Validate(); err != nil {
		return p, err
	}
	if p.topItemsets < 0 || p.topRules < 0 {
		return p, fmt.Errorf("invalid display limits: --top %d, --rules %d (must not be negative)", p.topItemsets, p.topRules)
	}
	if p.workers < 1 {
		return p, fmt.Errorf("invalid workers: %d (must be at least 1)", p.workers)
	}
	return p, nil
}

func runMine(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 1 && mineFile != "":
		return errors.New("give either a database NAME or --file, not both")
	case len(args) == 0 && mineFile == "":
		return errors.New("no database given: pass a NAME from 'basketminer list' or --file FILE.csv")
	case mineWatch && mineFile == "":
		return errors.New("--watch requires --file")
	}

	p, err := resolveMineParams(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if mineFile == "" {
		db, err := loadStoredDatabase(args[0])
		if err != nil {
			return err
		}
		_, err = mineAndReport(cmd.Context(), out, db, p)
		return err
	}

	if err := mineFileOnce(cmd.Context(), out, mineFile, p); err != nil {
		return err
	}
	if !mineWatch {
		return nil
	}
	return watchAndMine(cmd.Context(), out, mineFile, p)
}

// loadStoredDatabase reads a named database from the catalogue.
func loadStoredDatabase(name string) (*transactions.Database, error) {
	st, err := openStore(false)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	return st.LoadDatabase(name)
}

func mineFileOnce(ctx context.Context, out io.Writer, path string, p mineParams) error {
	db, err := transactions.LoadCSVFile(path)
	if err != nil {
		return err
	}
	_, err = mineAndReport(ctx, out, db, p)
	return err
}

// mineAndReport runs one mining pass and sends the result to the terminal
// and, with --export, to the export files.
func mineAndReport(ctx context.Context, out io.Writer, db *transactions.Database, p mineParams) (*mining.Result, error) {
	opts := []mining.Option{
		mining.WithWorkers(p.workers),
		mining.WithLogger(slog.Default()),
	}
	if !mineQuiet {
		opts = append(opts, mining.WithObserver(output.NewLevelProgress(out)))
	}

	slog.Debug("mining database",
		"database", db.Name(),
		"transactions", db.Len(),
		"items", db.UniverseSize(),
		"min_support", p.thresholds.MinSupport,
		"min_confidence", p.thresholds.MinConfidence,
	)

	res, err := mining.RunContext(ctx, db, p.thresholds, opts...)
	if err != nil {
		return nil, err
	}

	reporters := []mining.Reporter{
		&output.TerminalReporter{W: out, TopItemsets: p.topItemsets, TopRules: p.topRules},
	}
	var files *output.FileReporter
	if mineExport != "" {
		files = &output.FileReporter{Prefix: mineExport}
		reporters = append(reporters, files)
	}

	if err := mining.MultiReporter(reporters...).Report(res); err != nil {
		return nil, fmt.Errorf("failed to report results: %w", err)
	}

	if files != nil {
		for _, path := range files.Written {
			fmt.Fprintf(out, "Exported %s\n", path)
		}
	}

	return res, nil
}

// watchAndMine re-mines path on every change until interrupted.
func watchAndMine(ctx context.Context, out io.Writer, path string, p mineParams) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(path, func(changed string) {
		fmt.Fprintf(out, "\n%s changed, mining again...\n", changed)
		if err := mineFileOnce(ctx, out, changed, p); err != nil {
			slog.Error("re-mining failed", "path", changed, "error", err)
		}
	}, watcher.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	if err := w.Start(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nWatching %s for changes (Ctrl+C to stop)\n", w.Path())
	<-ctx.Done()
	slog.Debug("stopping watcher", "path", w.Path())

	return w.Stop()
}
