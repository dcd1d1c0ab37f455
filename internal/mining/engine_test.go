package mining

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/basketminer/internal/transactions"
)

func levelKeys(recs []FrequentItemset) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = fmt.Sprintf("%s:%d", r.Itemset.Join(""), r.Count)
	}
	return out
}

func TestMine_WorkedExample(t *testing.T) {
	table, err := Mine(exampleDB(), 0.5)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, table.Sizes())
	assert.Equal(t, []string{"A:3", "B:3", "C:2"}, levelKeys(table.Level(1)))
	assert.Equal(t, []string{"AB:2", "BC:2"}, levelKeys(table.Level(2)))
	assert.Equal(t, 3, table.TerminatedAt())
	assert.Equal(t, 5, table.Total())
	assert.Equal(t, 4, table.NumTransactions())
	assert.Equal(t, 3, table.UniverseSize())

	n, ok := table.Lookup(transactions.ItemsetOf("B", "A"))
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	_, ok = table.Lookup(transactions.ItemsetOf("A", "C"))
	assert.False(t, ok)
}

func TestMine_EmptyDatabase(t *testing.T) {
	table, err := Mine(transactions.NewDatabase("empty", nil), 0.5)
	require.NoError(t, err)

	assert.True(t, table.IsEmpty())
	assert.Equal(t, 1, table.TerminatedAt())
	assert.Equal(t, 0, table.UniverseSize())
	assert.Empty(t, table.Sizes())
}

func TestMine_NothingFrequent(t *testing.T) {
	table, err := Mine(exampleDB(), 0.9)
	require.NoError(t, err)

	assert.True(t, table.IsEmpty())
	assert.Equal(t, 1, table.TerminatedAt())

	rules, err := DeriveRules(table, exampleDB(), 0.5)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestMine_AbsoluteCountBoundaries(t *testing.T) {
	db := transactions.FromItemsets("bread",
		transactions.ItemsetOf("bread", "milk"),
		transactions.ItemsetOf("bread", "eggs"),
		transactions.ItemsetOf("bread", "milk", "eggs"),
	)

	// Requiring every transaction leaves only the items present everywhere.
	table, err := Mine(db, float64(db.Len()))
	require.NoError(t, err)
	assert.Equal(t, []string{"bread:3"}, levelKeys(table.Level(1)))
	assert.Equal(t, 2, table.TerminatedAt())

	// A count above the database size terminates at k=1.
	table, err = Mine(db, float64(db.Len()+1))
	require.NoError(t, err)
	assert.True(t, table.IsEmpty())
	assert.Equal(t, 1, table.TerminatedAt())

	// 1.0 is an absolute count of one, so every observed item is frequent.
	table, err = Mine(db, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 3, table.CountAt(1))
	assert.Equal(t, 1, table.CountAt(3))
	assert.Equal(t, 4, table.TerminatedAt())
}

func TestMine_ZeroSupportTerminatesAfterUniverse(t *testing.T) {
	table, err := Mine(exampleDB(), 0)
	require.NoError(t, err)

	// Every combination is frequent, so the run ends when k exceeds the universe.
	assert.Equal(t, 3, table.CountAt(1))
	assert.Equal(t, 3, table.CountAt(2))
	assert.Equal(t, 1, table.CountAt(3))
	assert.Equal(t, 4, table.TerminatedAt())
}

func TestMine_InvalidSupport(t *testing.T) {
	_, err := Mine(exampleDB(), -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
}

func TestMine_AntiMonotone(t *testing.T) {
	db := groceryDB()
	table, err := Mine(db, 0.2)
	require.NoError(t, err)
	require.False(t, table.IsEmpty())

	counter := NewCounter(db)
	for _, rec := range table.All() {
		assert.Equal(t, rec.Itemset.Len(), len(rec.Itemset.Items()))
		for size := 1; size < rec.Itemset.Len(); size++ {
			EachCombination(rec.Itemset.Items(), size, func(sub transactions.Itemset) bool {
				assert.GreaterOrEqual(t, counter.Count(sub), rec.Count,
					"subset %v of %v", sub, rec.Itemset)
				return true
			})
		}
	}
}

func TestMine_Deterministic(t *testing.T) {
	db := groceryDB()
	first, err := Run(db, Thresholds{MinSupport: 0.2, MinConfidence: 0.5})
	require.NoError(t, err)
	second, err := Run(db, Thresholds{MinSupport: 0.2, MinConfidence: 0.5})
	require.NoError(t, err)

	assert.Equal(t, levelKeys(first.Table.All()), levelKeys(second.Table.All()))
	assert.Equal(t, first.Rules, second.Rules)
	assert.NotSame(t, first.Table, second.Table)
}

func TestMine_ParallelMatchesSequential(t *testing.T) {
	// 40 items give 780 2-itemsets, enough for several worker batches.
	var sets []transactions.Itemset
	for i := 0; i < 60; i++ {
		var names []string
		for j := 0; j < 40; j++ {
			if (i*7+j*3)%5 < 2 || j == i%40 {
				names = append(names, fmt.Sprintf("item%02d", j))
			}
		}
		sets = append(sets, transactions.ItemsetOf(names...))
	}
	db := transactions.FromItemsets("wide", sets...)

	seq, err := Mine(db, 0.3)
	require.NoError(t, err)

	obs := &recordingObserver{}
	par, err := Mine(db, 0.3, WithWorkers(4), WithObserver(obs))
	require.NoError(t, err)

	assert.Equal(t, levelKeys(seq.All()), levelKeys(par.All()))
	assert.Equal(t, seq.TerminatedAt(), par.TerminatedAt())
	assert.Equal(t, Binomial(40, 2), obs.checked[2])
}

func TestMineContext_Canceled(t *testing.T) {
	var sets []transactions.Itemset
	for i := 0; i < 30; i++ {
		var names []string
		for j := 0; j < 40; j++ {
			if (i+j)%3 == 0 {
				names = append(names, fmt.Sprintf("item%02d", j))
			}
		}
		sets = append(sets, transactions.ItemsetOf(names...))
	}
	db := transactions.FromItemsets("wide", sets...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		table, err := NewMiner(WithWorkers(workers)).MineContext(ctx, db, 0.1)
		require.Error(t, err, "workers=%d", workers)
		assert.True(t, errors.Is(err, context.Canceled), "workers=%d: %v", workers, err)
		assert.Nil(t, table)
	}

	// 780 pair candidates go through the worker batches
	_, err := NewMiner(WithWorkers(4)).levelParallel(ctx, db.Universe(), db.Transactions(), 2, 0.1)
	assert.True(t, errors.Is(err, context.Canceled), "levelParallel: %v", err)

	_, err = RunContext(ctx, db, DefaultThresholds())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMine_ObserverSeesEveryLevel(t *testing.T) {
	obs := &recordingObserver{}
	_, err := Mine(exampleDB(), 0.5, WithObserver(obs))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, obs.started)
	assert.Equal(t, map[int]int{1: 3, 2: 3, 3: 1}, obs.checked)
	assert.Equal(t, []int{3, 2, 0}, obs.frequent)
}

type recordingObserver struct {
	mu       sync.Mutex
	started  []int
	checked  map[int]int
	frequent []int
}

func (o *recordingObserver) LevelStarted(k, candidates int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, k)
}

func (o *recordingObserver) Checked(k, n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.checked == nil {
		o.checked = make(map[int]int)
	}
	o.checked[k] += n
}

func (o *recordingObserver) LevelFinished(k, frequent int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.frequent = append(o.frequent, frequent)
}

// groceryDB is a small basket database with overlapping patterns.
func groceryDB() *transactions.Database {
	return transactions.NewDatabase("grocery", []transactions.Record{
		{ID: "T001", Items: []string{"Milk", "Bread", "Eggs"}},
		{ID: "T002", Items: []string{"Butter", "Cheese", "Milk"}},
		{ID: "T003", Items: []string{"Cereal", "Milk"}},
		{ID: "T004", Items: []string{"Coffee", "Sugar"}},
		{ID: "T005", Items: []string{"Tea", "Sugar"}},
		{ID: "T006", Items: []string{"Flour", "Sugar", "Eggs"}},
		{ID: "T007", Items: []string{"Milk", "Bread", "Eggs", "Butter"}},
		{ID: "T008", Items: []string{"Bread", "Butter", "Eggs"}},
		{ID: "T009", Items: []string{"Milk", "Bread"}},
		{ID: "T010", Items: []string{"Coffee", "Sugar", "Milk"}},
	})
}
