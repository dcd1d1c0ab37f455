package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/blackwell-systems/basketminer/internal/mining"
)

// TerminalReporter prints the standard mining report: parameters, the top
// itemsets of every size and the top rules.
type TerminalReporter struct {
	W           io.Writer
	TopItemsets int // per size, 0 shows all
	TopRules    int // 0 shows all
}

// Report writes the report for res to r.W.
func (r *TerminalReporter) Report(res *mining.Result) error {
	var sb strings.Builder

	sb.WriteString("\n" + strings.Repeat("=", 70) + "\n")
	sb.WriteString(colorize(colorBold, fmt.Sprintf("DATABASE: %s", res.Database)) + "\n")
	sb.WriteString(strings.Repeat("=", 70) + "\n")
	sb.WriteString(fmt.Sprintf("Transactions: %s · Unique items: %d\n",
		humanize.Comma(int64(res.NumTransactions())), res.UniverseSize()))
	sb.WriteString(RenderThresholds(res.Thresholds, res.NumTransactions()) + "\n")

	if res.Table.IsEmpty() {
		sb.WriteString("\nNo frequent itemsets found. Try a lower minimum support.\n")
	}

	for _, k := range res.Table.Sizes() {
		top := mining.TopItemsets(res.Table, k, r.TopItemsets)
		sb.WriteString(fmt.Sprintf("\nTop frequent %d-itemsets (%d of %d):\n", k, len(top), res.Table.CountAt(k)))
		sb.WriteString(RenderItemsetTable(k, top, res.NumTransactions()))
	}

	sb.WriteString(fmt.Sprintf("\nTotal frequent itemsets found: %s\n", humanize.Comma(int64(res.TotalItemsets()))))

	top := mining.TopRules(res.Rules, r.TopRules)
	sb.WriteString(fmt.Sprintf("\nTop association rules (%d of %d, by confidence):\n", len(top), res.RuleCount()))
	sb.WriteString(RenderRuleTable(top))

	sb.WriteString(fmt.Sprintf("\nCompleted %s in %s\n", res.Database, formatDuration(res.Elapsed())))

	_, err := io.WriteString(r.W, sb.String())
	return err
}
