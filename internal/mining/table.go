package mining

import (
	"sort"

	"github.com/blackwell-systems/basketminer/internal/transactions"
)

// FrequentItemset is an itemset that passed the support test at its size.
type FrequentItemset struct {
	Itemset transactions.Itemset
	Count   int
}

// Support returns the record's count as a fraction of numTransactions.
func (f FrequentItemset) Support(numTransactions int) float64 {
	return fraction(f.Count, numTransactions)
}

// FrequentTable maps itemset size k to the frequent k-itemsets found at that
// size. A table is built by one mining run and is read-only afterwards.
type FrequentTable struct {
	levels          map[int][]FrequentItemset
	index           map[string]int
	numTransactions int
	universeSize    int
	minSupport      float64
	terminatedAt    int
}

func newFrequentTable(numTransactions, universeSize int, minSupport float64) *FrequentTable {
	return &FrequentTable{
		levels:          make(map[int][]FrequentItemset),
		index:           make(map[string]int),
		numTransactions: numTransactions,
		universeSize:    universeSize,
		minSupport:      minSupport,
	}
}

// NewFrequentTable builds a table from explicit levels, for callers that
// assemble frequent itemsets themselves. Records are copied and kept in the
// given order; each record is filed under its own itemset size.
func NewFrequentTable(numTransactions int, records ...FrequentItemset) *FrequentTable {
	t := newFrequentTable(numTransactions, 0, 0)
	universe := make(map[transactions.Item]struct{})
	for _, r := range records {
		k := r.Itemset.Len()
		if k == 0 {
			continue
		}
		t.levels[k] = append(t.levels[k], r)
		t.index[r.Itemset.Key()] = r.Count
		for _, it := range r.Itemset.Items() {
			universe[it] = struct{}{}
		}
	}
	t.universeSize = len(universe)
	t.terminatedAt = t.MaxSize() + 1
	return t
}

func (t *FrequentTable) setLevel(k int, records []FrequentItemset) {
	t.levels[k] = records
	for _, r := range records {
		t.index[r.Itemset.Key()] = r.Count
	}
}

// Sizes returns the itemset sizes that have at least one record, ascending.
func (t *FrequentTable) Sizes() []int {
	sizes := make([]int, 0, len(t.levels))
	for k, recs := range t.levels {
		if len(recs) > 0 {
			sizes = append(sizes, k)
		}
	}
	sort.Ints(sizes)
	return sizes
}

// Level returns a copy of the records of size k in ranked order.
func (t *FrequentTable) Level(k int) []FrequentItemset {
	recs := t.levels[k]
	out := make([]FrequentItemset, len(recs))
	copy(out, recs)
	return out
}

// CountAt returns how many frequent itemsets of size k were found.
func (t *FrequentTable) CountAt(k int) int {
	return len(t.levels[k])
}

// Counts returns the number of frequent itemsets per size.
func (t *FrequentTable) Counts() map[int]int {
	out := make(map[int]int, len(t.levels))
	for k, recs := range t.levels {
		if len(recs) > 0 {
			out[k] = len(recs)
		}
	}
	return out
}

// Total returns the number of frequent itemsets across all sizes.
func (t *FrequentTable) Total() int {
	total := 0
	for _, recs := range t.levels {
		total += len(recs)
	}
	return total
}

// IsEmpty reports whether no itemset was frequent.
func (t *FrequentTable) IsEmpty() bool {
	return t.Total() == 0
}

// MaxSize returns the largest k with a record, or 0 for an empty table.
func (t *FrequentTable) MaxSize() int {
	max := 0
	for k, recs := range t.levels {
		if len(recs) > 0 && k > max {
			max = k
		}
	}
	return max
}

// All returns every record, by ascending size and ranked order within a size.
func (t *FrequentTable) All() []FrequentItemset {
	out := make([]FrequentItemset, 0, t.Total())
	for _, k := range t.Sizes() {
		out = append(out, t.levels[k]...)
	}
	return out
}

// Lookup returns the recorded count of itemset if it is in the table.
func (t *FrequentTable) Lookup(itemset transactions.Itemset) (int, bool) {
	n, ok := t.index[itemset.Key()]
	return n, ok
}

// NumTransactions returns the size of the mined database.
func (t *FrequentTable) NumTransactions() int {
	return t.numTransactions
}

// UniverseSize returns the number of distinct items in the mined database.
func (t *FrequentTable) UniverseSize() int {
	return t.universeSize
}

// MinSupport returns the support threshold the table was mined with.
func (t *FrequentTable) MinSupport() float64 {
	return t.minSupport
}

// TerminatedAt returns the first size at which no itemset was frequent.
func (t *FrequentTable) TerminatedAt() int {
	return t.terminatedAt
}
