package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/basketminer/internal/mining"
	"github.com/blackwell-systems/basketminer/internal/output"
)

var (
	summaryMinSupport    float64
	summaryMinConfidence float64

	summaryCmd = &cobra.Command{
		Use:   "summary",
		Short: "Mine every stored database and compare the results",
		Long: `Mine every database in the catalogue with the same thresholds and show
one row per database: transactions, unique items, frequent itemsets, rules
and the time taken.`,
		Example: `  basketminer summary
  basketminer summary --min-support 0.3 --min-confidence 0.7`,
		Args: cobra.NoArgs,
		RunE: runSummary,
	}
)

func init() {
	defaults := mining.DefaultThresholds()
	summaryCmd.Flags().Float64VarP(&summaryMinSupport, "min-support", "s", defaults.MinSupport, "minimum support (fraction below 1, count otherwise)")
	summaryCmd.Flags().Float64VarP(&summaryMinConfidence, "min-confidence", "c", defaults.MinConfidence, "minimum rule confidence in [0, 1]")

	RootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	th := settings.Thresholds()
	if cmd.Flags().Changed("min-support") {
		th.MinSupport = summaryMinSupport
	}
	if cmd.Flags().Changed("min-confidence") {
		th.MinConfidence = summaryMinConfidence
	}
	if err := th.Validate(); err != nil {
		return err
	}

	st, err := openStore(false)
	if err != nil {
		return err
	}
	defer st.Close()

	infos, err := st.ListDatabases()
	if err != nil {
		return err
	}

	rows := make([]output.SummaryRow, 0, len(infos))
	for _, info := range infos {
		db, err := st.LoadDatabase(info.Name)
		if err != nil {
			return err
		}

		res, err := mining.RunContext(cmd.Context(), db, th,
			mining.WithWorkers(settings.Workers),
			mining.WithLogger(slog.Default()))
		if err != nil {
			return fmt.Errorf("failed to mine %s: %w", info.Name, err)
		}
		rows = append(rows, output.SummaryRowFor(res))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Minimum Support: %v · Minimum Confidence: %v\n", th.MinSupport, th.MinConfidence)
	fmt.Fprintln(out)
	fmt.Fprint(out, output.RenderSummaryTable(rows))
	return nil
}
