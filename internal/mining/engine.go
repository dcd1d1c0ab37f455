package mining

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/basketminer/internal/transactions"
)

// batchSize is the number of candidates one worker counts per task.
const batchSize = 256

// Observer receives progress notifications from a mining run. With more
// than one worker, Checked is called from several goroutines.
type Observer interface {
	// LevelStarted is called before the candidates of size k are counted.
	LevelStarted(k, candidates int)
	// Checked reports that n more candidates of size k have been counted.
	Checked(k, n int)
	// LevelFinished is called once every candidate of size k is counted.
	LevelFinished(k, frequent int)
}

// Option configures a Miner.
type Option func(*Miner)

// WithWorkers counts each level's candidates on n goroutines. Values below 2
// keep the run sequential.
func WithWorkers(n int) Option {
	return func(m *Miner) {
		m.workers = n
	}
}

// WithObserver registers a progress observer.
func WithObserver(o Observer) Option {
	return func(m *Miner) {
		m.observer = o
	}
}

// WithLogger sets the logger used for per-level debug output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Miner) {
		if l != nil {
			m.logger = l
		}
	}
}

// Miner is the level-wise brute-force frequent itemset engine. It enumerates
// every k-itemset of the universe for k = 1, 2, ... and stops at the first k
// with no frequent itemset. Candidates are never pruned.
type Miner struct {
	workers  int
	observer Observer
	logger   *slog.Logger
}

// NewMiner returns a Miner with the given options applied.
func NewMiner(opts ...Option) *Miner {
	m := &Miner{
		workers: 1,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mine runs a Miner with opts over db.
func Mine(db *transactions.Database, minSupport float64, opts ...Option) (*FrequentTable, error) {
	return NewMiner(opts...).Mine(db, minSupport)
}

// Mine finds every frequent itemset of db under minSupport (see Thresholds
// for the dual fraction/count reading). The returned table is new on every
// call.
func (m *Miner) Mine(db *transactions.Database, minSupport float64) (*FrequentTable, error) {
	return m.MineContext(context.Background(), db, minSupport)
}

// MineContext is Mine with cancellation. Counting stops within one batch of
// candidates once ctx is done and ctx's error is returned.
func (m *Miner) MineContext(ctx context.Context, db *transactions.Database, minSupport float64) (*FrequentTable, error) {
	if err := ValidateMinSupport(minSupport); err != nil {
		return nil, err
	}

	universe := db.Universe()
	txs := db.Transactions()
	n := len(txs)
	table := newFrequentTable(n, len(universe), minSupport)

	m.logger.Debug("mining started",
		"database", db.Name(),
		"transactions", n,
		"items", len(universe),
		"min_support", minSupport,
		"threshold", SupportThreshold(minSupport, n))

	for k := 1; ; k++ {
		candidates := Binomial(len(universe), k)
		if m.observer != nil {
			m.observer.LevelStarted(k, candidates)
		}

		var frequent []FrequentItemset
		var err error
		if m.workers > 1 && candidates > batchSize {
			frequent, err = m.levelParallel(ctx, universe, txs, k, minSupport)
		} else {
			frequent, err = m.levelSequential(ctx, universe, txs, k, minSupport)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to mine %d-itemsets of %s: %w", k, db.Name(), err)
		}

		if m.observer != nil {
			m.observer.LevelFinished(k, len(frequent))
		}
		m.logger.Debug("level mined", "k", k, "candidates", candidates, "frequent", len(frequent))

		if len(frequent) == 0 {
			table.terminatedAt = k
			break
		}

		rankItemsets(frequent)
		table.setLevel(k, frequent)
	}

	m.logger.Debug("mining finished",
		"database", db.Name(),
		"frequent_itemsets", table.Total(),
		"terminated_at", table.terminatedAt)

	return table, nil
}

// levelSequential streams the k-combinations and keeps the frequent ones in
// enumeration order.
func (m *Miner) levelSequential(ctx context.Context, universe []transactions.Item, txs []transactions.Itemset, k int, minSupport float64) ([]FrequentItemset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var frequent []FrequentItemset
	var err error
	pending := 0

	EachCombination(universe, k, func(candidate transactions.Itemset) bool {
		count := CountSupport(candidate, txs)
		if IsFrequent(count, minSupport, len(txs)) {
			frequent = append(frequent, FrequentItemset{Itemset: candidate, Count: count})
		}
		pending++
		if pending == batchSize {
			m.checked(k, pending)
			pending = 0
			if err = ctx.Err(); err != nil {
				return false
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if pending > 0 {
		m.checked(k, pending)
	}

	return frequent, nil
}

// levelParallel counts the k-combinations in batches on an errgroup. Counts
// are stored by candidate index so the result matches levelSequential.
func (m *Miner) levelParallel(ctx context.Context, universe []transactions.Item, txs []transactions.Itemset, k int, minSupport float64) ([]FrequentItemset, error) {
	candidates := Combinations(universe, k)
	counts := make([]int, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for start := 0; start < len(candidates); start += batchSize {
		start := start
		end := start + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				counts[i] = CountSupport(candidates[i], txs)
			}
			m.checked(k, end-start)
			return nil
		})
	}
	// Every level is fully counted before termination is decided.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var frequent []FrequentItemset
	for i, c := range candidates {
		if IsFrequent(counts[i], minSupport, len(txs)) {
			frequent = append(frequent, FrequentItemset{Itemset: c, Count: counts[i]})
		}
	}
	return frequent, nil
}

func (m *Miner) checked(k, n int) {
	if m.observer != nil {
		m.observer.Checked(k, n)
	}
}

// rankItemsets orders records by descending count, then canonical itemset
// order.
func rankItemsets(recs []FrequentItemset) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Count != recs[j].Count {
			return recs[i].Count > recs[j].Count
		}
		return recs[i].Itemset.Compare(recs[j].Itemset) < 0
	})
}
