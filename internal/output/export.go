package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blackwell-systems/basketminer/internal/mining"
)

// Export file suffixes appended to the user's prefix.
const (
	ItemsetsTextSuffix = "_frequent_itemsets.txt"
	RulesTextSuffix    = "_association_rules.txt"
	RulesCSVSuffix     = "_association_rules.csv"
)

// WriteItemsetsText writes every frequent itemset, grouped by size.
func WriteItemsetsText(w io.Writer, res *mining.Result) error {
	n := res.NumTransactions()

	var sb strings.Builder
	sb.WriteString("FREQUENT ITEMSETS\n")
	sb.WriteString(strings.Repeat("=", 70) + "\n\n")
	sb.WriteString(fmt.Sprintf("Database: %s\n", res.Database))
	sb.WriteString(fmt.Sprintf("Minimum Support: %v\n", res.Thresholds.MinSupport))
	sb.WriteString(fmt.Sprintf("Total Transactions: %d\n\n", n))

	for _, k := range res.Table.Sizes() {
		level := res.Table.Level(k)
		sb.WriteString(fmt.Sprintf("\n%d-Itemsets (%d frequent):\n", k, len(level)))
		sb.WriteString(strings.Repeat("-", 70) + "\n")
		for _, rec := range level {
			sb.WriteString(fmt.Sprintf("%s - Count: %d, Support: %.4f\n",
				rec.Itemset, rec.Count, rec.Support(n)))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteRulesText writes every rule as a fixed-width table.
func WriteRulesText(w io.Writer, res *mining.Result) error {
	var sb strings.Builder
	sb.WriteString("ASSOCIATION RULES\n")
	sb.WriteString(strings.Repeat("=", 70) + "\n\n")
	sb.WriteString(fmt.Sprintf("Database: %s\n", res.Database))
	sb.WriteString(fmt.Sprintf("Minimum Support: %v\n", res.Thresholds.MinSupport))
	sb.WriteString(fmt.Sprintf("Minimum Confidence: %v\n", res.Thresholds.MinConfidence))
	sb.WriteString(fmt.Sprintf("Total Rules: %d\n\n", res.RuleCount()))

	sb.WriteString(fmt.Sprintf("%-50s %8s %8s %8s\n", "Rule", "Supp", "Conf", "Lift"))
	sb.WriteString(strings.Repeat("-", 90) + "\n")
	for _, r := range res.Rules {
		sb.WriteString(fmt.Sprintf("%-50s %8.4f %8.4f %8.4f\n", r.String(), r.Support, r.Confidence, r.Lift))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteRulesCSV writes rules with the columns
// Antecedent,Consequent,Support,Confidence,Lift.
func WriteRulesCSV(w io.Writer, rules []mining.Rule) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Antecedent", "Consequent", "Support", "Confidence", "Lift"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range rules {
		row := []string{
			r.Antecedent.Join(","),
			r.Consequent.Join(","),
			fmt.Sprintf("%.4f", r.Support),
			fmt.Sprintf("%.4f", r.Confidence),
			fmt.Sprintf("%.4f", r.Lift),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write rule %s: %w", r, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// FileReporter exports a result to three files named after Prefix.
type FileReporter struct {
	Prefix string

	// Written lists the files created by the last Report call.
	Written []string
}

// Report writes the itemsets text file, the rules text file and the rules
// CSV file.
func (f *FileReporter) Report(res *mining.Result) error {
	f.Written = nil

	exports := []struct {
		suffix string
		write  func(io.Writer) error
	}{
		{ItemsetsTextSuffix, func(w io.Writer) error { return WriteItemsetsText(w, res) }},
		{RulesTextSuffix, func(w io.Writer) error { return WriteRulesText(w, res) }},
		{RulesCSVSuffix, func(w io.Writer) error { return WriteRulesCSV(w, res.Rules) }},
	}

	for _, e := range exports {
		path := f.Prefix + e.suffix
		if err := writeFile(path, e.write); err != nil {
			return err
		}
		f.Written = append(f.Written, path)
	}

	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
