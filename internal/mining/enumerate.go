package mining

import (
	"math"

	"github.com/blackwell-systems/basketminer/internal/transactions"
)

// EachCombination calls fn with every k-combination of universe, in
// lexicographic order of positions. The universe must already be sorted and
// duplicate-free. Enumeration stops early if fn returns false. Nothing is
// emitted when k < 1 or k > len(universe).
func EachCombination(universe []transactions.Item, k int, fn func(transactions.Itemset) bool) {
	n := len(universe)
	if k < 1 || k > n {
		return
	}

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	for {
		items := make([]transactions.Item, k)
		for i, p := range idx {
			items[i] = universe[p]
		}
		if !fn(transactions.NewItemset(items...)) {
			return
		}

		// Advance the rightmost position that still has room.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// Combinations returns every k-combination of universe, see EachCombination.
func Combinations(universe []transactions.Item, k int) []transactions.Itemset {
	var out []transactions.Itemset
	if total := Binomial(len(universe), k); total > 0 && total < math.MaxInt32 {
		out = make([]transactions.Itemset, 0, total)
	}
	EachCombination(universe, k, func(s transactions.Itemset) bool {
		out = append(out, s)
		return true
	})
	return out
}

// Binomial returns C(n, k), saturating at math.MaxInt.
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		// result * (n-k+i) / i stays exact at every step
		next := n - k + i
		if result > math.MaxInt/next {
			return math.MaxInt
		}
		result = result * next / i
	}
	return result
}
