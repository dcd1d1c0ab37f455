package mining

import (
	"context"
	"time"

	"github.com/blackwell-systems/basketminer/internal/transactions"
)

// Result bundles the output of one complete mining run.
type Result struct {
	Database   string
	Thresholds Thresholds
	Table      *FrequentTable
	Rules      []Rule

	MiningTime time.Duration
	RulesTime  time.Duration
}

// Run validates th, mines db and derives rules from the frequent itemsets.
func Run(db *transactions.Database, th Thresholds, opts ...Option) (*Result, error) {
	return RunContext(context.Background(), db, th, opts...)
}

// RunContext is Run with cancellation of the mining phase.
func RunContext(ctx context.Context, db *transactions.Database, th Thresholds, opts ...Option) (*Result, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	table, err := NewMiner(opts...).MineContext(ctx, db, th.MinSupport)
	if err != nil {
		return nil, err
	}
	mined := time.Now()

	rules := deriveRules(table, NewCounter(db), th.MinConfidence)

	return &Result{
		Database:   db.Name(),
		Thresholds: th,
		Table:      table,
		Rules:      rules,
		MiningTime: mined.Sub(start),
		RulesTime:  time.Since(mined),
	}, nil
}

// NumTransactions returns the number of transactions mined.
func (r *Result) NumTransactions() int {
	return r.Table.NumTransactions()
}

// UniverseSize returns the number of distinct items mined.
func (r *Result) UniverseSize() int {
	return r.Table.UniverseSize()
}

// FrequentCounts returns the number of frequent itemsets per size.
func (r *Result) FrequentCounts() map[int]int {
	return r.Table.Counts()
}

// TotalItemsets returns the number of frequent itemsets of every size.
func (r *Result) TotalItemsets() int {
	return r.Table.Total()
}

// RuleCount returns the number of rules derived.
func (r *Result) RuleCount() int {
	return len(r.Rules)
}

// Elapsed returns the total time spent mining and deriving rules.
func (r *Result) Elapsed() time.Duration {
	return r.MiningTime + r.RulesTime
}

// Reporter presents a Result. Implementations own all formatting and output.
type Reporter interface {
	Report(r *Result) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(r *Result) error

// Report calls f(r).
func (f ReporterFunc) Report(r *Result) error {
	return f(r)
}

// MultiReporter sends a result to each reporter in turn and stops at the
// first error.
func MultiReporter(reporters ...Reporter) Reporter {
	return ReporterFunc(func(r *Result) error {
		for _, rep := range reporters {
			if err := rep.Report(r); err != nil {
				return err
			}
		}
		return nil
	})
}

// TopItemsets returns at most limit records of size k in ranked order.
// A limit of 0 or less returns all of them.
func TopItemsets(table *FrequentTable, k, limit int) []FrequentItemset {
	recs := table.Level(k)
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// TopRules returns at most limit rules from an already sorted slice.
// A limit of 0 or less returns all of them.
func TopRules(rules []Rule, limit int) []Rule {
	if limit > 0 && len(rules) > limit {
		return rules[:limit]
	}
	return rules
}
