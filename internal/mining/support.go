package mining

import (
	"sync"

	"github.com/blackwell-systems/basketminer/internal/transactions"
)

// CountSupport returns how many transactions contain every item of itemset.
// It is a plain linear scan with no index.
func CountSupport(itemset transactions.Itemset, txs []transactions.Itemset) int {
	count := 0
	for _, t := range txs {
		if itemset.IsSubsetOf(t) {
			count++
		}
	}
	return count
}

// Counter counts support against one database and remembers every count it
// has computed. Results are identical to CountSupport. A Counter is safe for
// concurrent use.
type Counter struct {
	txs []transactions.Itemset

	mu    sync.Mutex
	cache map[string]int
	scans int
}

// NewCounter creates a Counter over db's transactions.
func NewCounter(db *transactions.Database) *Counter {
	return &Counter{
		txs:   db.Transactions(),
		cache: make(map[string]int),
	}
}

// NumTransactions returns the size of the underlying database.
func (c *Counter) NumTransactions() int {
	return len(c.txs)
}

// Count returns the support count of itemset.
func (c *Counter) Count(itemset transactions.Itemset) int {
	key := itemset.Key()

	c.mu.Lock()
	if n, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return n
	}
	c.mu.Unlock()

	// Scan outside the lock; two goroutines racing on the same key compute
	// the same value and only the first one is recorded.
	n := CountSupport(itemset, c.txs)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.cache[key]; ok {
		return cached
	}
	c.cache[key] = n
	c.scans++

	return n
}

// Support returns the fraction of transactions containing itemset, or 0 for
// an empty database.
func (c *Counter) Support(itemset transactions.Itemset) float64 {
	return fraction(c.Count(itemset), len(c.txs))
}

// Scans returns how many full database scans the counter has performed.
func (c *Counter) Scans() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scans
}

func fraction(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
