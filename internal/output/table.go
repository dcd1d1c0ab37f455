// Package output provides terminal output utilities for basketminer.
//
// This package includes:
//   - Table rendering for frequent itemsets, association rules, catalogue
//     databases and cross-database summaries
//   - A progress reporter for long mining levels
//   - Text and CSV export of mining results
//   - A mining.Reporter that writes the standard terminal report
//
// All table rendering functions use ASCII characters and ANSI color codes for terminal output.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/basketminer/internal/mining"
	"github.com/blackwell-systems/basketminer/internal/store"
)

// ANSI color codes for lift display
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderItemsetTable renders the frequent itemsets of one size.
// Note: Does not sort - expects records in ranked order.
func RenderItemsetTable(k int, records []mining.FrequentItemset, numTransactions int) string {
	if len(records) == 0 {
		return fmt.Sprintf("No frequent %d-itemsets.\n", k)
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("%-50s %8s %9s\n", "Itemset", "Count", "Support"))
	sb.WriteString(strings.Repeat("─", 69))
	sb.WriteString("\n")

	// Rows
	for _, rec := range records {
		sb.WriteString(fmt.Sprintf("%-50s %8d %9.3f\n",
			truncate(rec.Itemset.String(), 50),
			rec.Count,
			rec.Support(numTransactions)))
	}

	return sb.String()
}

// RenderRuleTable renders association rules with support, confidence and
// lift. Lift above 1 is green, below 1 red.
// Note: Does not sort - expects rules in ranked order.
func RenderRuleTable(rules []mining.Rule) string {
	if len(rules) == 0 {
		return "No association rules found.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("%-50s %8s %8s %8s\n", "Rule", "Supp", "Conf", "Lift"))
	sb.WriteString(strings.Repeat("─", 77))
	sb.WriteString("\n")

	// Rows
	for _, r := range rules {
		lift := fmt.Sprintf("%8.3f", r.Lift)
		if IsColorEnabled() {
			lift = getLiftColor(r.Lift) + lift + colorReset
		}
		sb.WriteString(fmt.Sprintf("%-50s %8.3f %8.3f %s\n",
			truncate(r.String(), 50),
			r.Support,
			r.Confidence,
			lift))
	}

	return sb.String()
}

// getLiftColor returns the ANSI color code for a lift value.
func getLiftColor(lift float64) string {
	switch {
	case lift > 1:
		return colorGreen
	case lift == 1:
		return colorYellow
	default:
		return colorRed
	}
}

// RenderDatabaseTable renders the catalogue of stored transaction databases.
func RenderDatabaseTable(infos []*store.DatabaseInfo) string {
	if len(infos) == 0 {
		return "No transaction databases found.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("%-15s %-13s %-7s %-16s %s\n",
		"Database", "Transactions", "Items", "Imported", "Source"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	// Rows
	for _, info := range infos {
		sb.WriteString(fmt.Sprintf("%-15s %-13s %-7d %-16s %s\n",
			truncate(info.Name, 15),
			humanize.Comma(int64(info.TransactionCount)),
			info.ItemCount,
			formatRelativeTime(info.ImportedAt),
			truncate(info.Source, 30)))
	}

	return sb.String()
}

// SummaryRow is one line of the cross-database summary.
type SummaryRow struct {
	Database     string
	Transactions int
	Items        int
	Itemsets     int
	Rules        int
	Elapsed      time.Duration
}

// SummaryRowFor extracts a summary row from a mining result.
func SummaryRowFor(res *mining.Result) SummaryRow {
	return SummaryRow{
		Database:     res.Database,
		Transactions: res.NumTransactions(),
		Items:        res.UniverseSize(),
		Itemsets:     res.TotalItemsets(),
		Rules:        res.RuleCount(),
		Elapsed:      res.Elapsed(),
	}
}

// RenderSummaryTable renders one row per mined database.
// Note: Does not sort - rows are shown in the order given.
func RenderSummaryTable(rows []SummaryRow) string {
	if len(rows) == 0 {
		return "No databases mined.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("%-15s %-15s %-10s %-12s %-10s %s\n",
		"Database", "Transactions", "Items", "Freq Sets", "Rules", "Time"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-15s %-15s %-10d %-12s %-10s %s\n",
			truncate(r.Database, 15),
			humanize.Comma(int64(r.Transactions)),
			r.Items,
			humanize.Comma(int64(r.Itemsets)),
			humanize.Comma(int64(r.Rules)),
			formatDuration(r.Elapsed)))
	}

	return sb.String()
}

// RenderThresholds renders the one-line parameter header of a run, spelling
// out how the support value is read.
func RenderThresholds(th mining.Thresholds, numTransactions int) string {
	mode := "absolute count"
	if mining.IsRelativeSupport(th.MinSupport) {
		mode = fmt.Sprintf("fraction, >= %.2f transactions", mining.SupportThreshold(th.MinSupport, numTransactions))
	}
	return fmt.Sprintf("Minimum Support: %v (%s) · Minimum Confidence: %v", th.MinSupport, mode, th.MinConfidence)
}

// formatDuration renders a duration with millisecond precision.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return "<1ms"
	}
	return d.Round(time.Millisecond).String()
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
