package mining

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/basketminer/internal/transactions"
)

// exampleDB is the four-transaction database used across the package tests.
func exampleDB() *transactions.Database {
	return transactions.FromItemsets("example",
		transactions.ItemsetOf("A", "B"),
		transactions.ItemsetOf("A", "B", "C"),
		transactions.ItemsetOf("A"),
		transactions.ItemsetOf("B", "C"),
	)
}

func TestCountSupport(t *testing.T) {
	txs := exampleDB().Transactions()

	tests := []struct {
		itemset transactions.Itemset
		want    int
	}{
		{transactions.ItemsetOf("A"), 3},
		{transactions.ItemsetOf("B"), 3},
		{transactions.ItemsetOf("C"), 2},
		{transactions.ItemsetOf("A", "B"), 2},
		{transactions.ItemsetOf("A", "C"), 1},
		{transactions.ItemsetOf("A", "B", "C"), 1},
		{transactions.ItemsetOf("D"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.itemset.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, CountSupport(tt.itemset, txs))
		})
	}
}

func TestCountSupport_PermutationSymmetric(t *testing.T) {
	txs := exampleDB().Transactions()
	reversed := make([]transactions.Itemset, len(txs))
	for i := range txs {
		reversed[len(txs)-1-i] = txs[i]
	}
	rotated := append(append([]transactions.Itemset{}, txs[2:]...), txs[:2]...)

	for _, set := range []transactions.Itemset{
		transactions.ItemsetOf("A"),
		transactions.ItemsetOf("B", "C"),
		transactions.ItemsetOf("A", "B", "C"),
	} {
		want := CountSupport(set, txs)
		assert.Equal(t, want, CountSupport(set, reversed), set.String())
		assert.Equal(t, want, CountSupport(set, rotated), set.String())
	}
}

func TestCounter_Memoizes(t *testing.T) {
	c := NewCounter(exampleDB())

	assert.Equal(t, 2, c.Count(transactions.ItemsetOf("A", "B")))
	assert.Equal(t, 2, c.Count(transactions.ItemsetOf("B", "A")))
	assert.Equal(t, 1, c.Scans(), "same content should hit the cache")

	assert.InDelta(t, 0.75, c.Support(transactions.ItemsetOf("A")), 1e-12)
	assert.Equal(t, 2, c.Scans())
}

func TestCounter_DistinguishesItemsContainingSeparators(t *testing.T) {
	db := transactions.FromItemsets("separators",
		transactions.ItemsetOf("a\x1fb"),
		transactions.ItemsetOf("a", "b", "c"),
		transactions.ItemsetOf("a", "b", "c"),
	)
	joined := transactions.ItemsetOf("a\x1fb")
	pair := transactions.ItemsetOf("a", "b")

	c := NewCounter(db)
	assert.Equal(t, 1, c.Count(joined))
	assert.Equal(t, 2, c.Count(pair), "a warm cache must match a fresh scan")
	assert.Equal(t, CountSupport(pair, db.Transactions()), c.Count(pair))
	assert.Equal(t, 2, c.Scans())

	table, err := Mine(db, 1)
	require.NoError(t, err)
	count, ok := table.Lookup(joined)
	require.True(t, ok)
	assert.Equal(t, 1, count)
	count, ok = table.Lookup(pair)
	require.True(t, ok)
	assert.Equal(t, 2, count)
}

func TestCounter_ConcurrentMissesScanOnce(t *testing.T) {
	c := NewCounter(exampleDB())
	set := transactions.ItemsetOf("A", "B")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 2, c.Count(set))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, c.Scans())
}

func TestCounter_EmptyDatabase(t *testing.T) {
	c := NewCounter(transactions.NewDatabase("empty", nil))
	assert.Equal(t, 0, c.Count(transactions.ItemsetOf("A")))
	assert.Equal(t, 0.0, c.Support(transactions.ItemsetOf("A")))
}

func TestIsFrequent_DualMode(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		minSupport float64
		n          int
		want       bool
	}{
		{"fraction met exactly", 2, 0.5, 4, true},
		{"fraction missed", 1, 0.5, 4, false},
		{"fraction rounds up", 2, 0.6, 4, false},
		{"zero fraction accepts zero count", 0, 0, 4, true},
		{"one is an absolute count", 1, 1.0, 4, true},
		{"absolute count met", 3, 3, 10, true},
		{"absolute count missed", 2, 3, 10, false},
		{"absolute count above database size", 4, 5, 4, false},
		{"fractional absolute count", 3, 2.5, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFrequent(tt.count, tt.minSupport, tt.n))
			assert.Equal(t, tt.want, Thresholds{MinSupport: tt.minSupport}.IsFrequent(tt.count, tt.n))
		})
	}
}

func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name    string
		th      Thresholds
		wantErr bool
	}{
		{"defaults", DefaultThresholds(), false},
		{"absolute support", Thresholds{MinSupport: 3, MinConfidence: 1}, false},
		{"zero everything", Thresholds{}, false},
		{"negative support", Thresholds{MinSupport: -0.1, MinConfidence: 0.5}, true},
		{"NaN support", Thresholds{MinSupport: math.NaN(), MinConfidence: 0.5}, true},
		{"infinite support", Thresholds{MinSupport: math.Inf(1), MinConfidence: 0.5}, true},
		{"confidence above one", Thresholds{MinSupport: 0.2, MinConfidence: 1.5}, true},
		{"negative confidence", Thresholds{MinSupport: 0.2, MinConfidence: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.th.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration))

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.NotEmpty(t, cfgErr.Field)
		})
	}
}
