// Package transactions holds the in-memory transaction database that the
// miner reads: items, itemsets and the immutable Database built from raw
// records.
package transactions

import (
	"sort"
	"strconv"
	"strings"
)

// Item is a single normalized token inside a transaction.
type Item string

// Itemset is an immutable set of items kept in sorted order.
// The zero value is the empty set.
type Itemset struct {
	items []Item
}

// NewItemset builds an itemset from items in any order. Duplicates collapse
// and empty items are dropped.
func NewItemset(items ...Item) Itemset {
	if len(items) == 0 {
		return Itemset{}
	}

	sorted := make([]Item, 0, len(items))
	for _, it := range items {
		it = Item(strings.TrimSpace(string(it)))
		if it == "" {
			continue
		}
		sorted = append(sorted, it)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	// Collapse duplicates in place
	out := sorted[:0]
	for i, it := range sorted {
		if i > 0 && it == sorted[i-1] {
			continue
		}
		out = append(out, it)
	}

	return Itemset{items: out}
}

// ItemsetOf is a convenience wrapper around NewItemset for string literals.
func ItemsetOf(items ...string) Itemset {
	conv := make([]Item, len(items))
	for i, s := range items {
		conv[i] = Item(s)
	}
	return NewItemset(conv...)
}

// fromSorted wraps an already sorted, duplicate-free slice without copying.
func fromSorted(items []Item) Itemset {
	return Itemset{items: items}
}

// Len returns the number of items in the set.
func (s Itemset) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the set has no items.
func (s Itemset) IsEmpty() bool {
	return len(s.items) == 0
}

// Items returns a copy of the items in canonical order.
func (s Itemset) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Strings returns the items as plain strings in canonical order.
func (s Itemset) Strings() []string {
	out := make([]string, len(s.items))
	for i, it := range s.items {
		out[i] = string(it)
	}
	return out
}

// Contains reports whether item is a member of the set.
func (s Itemset) Contains(item Item) bool {
	i := sort.Search(len(s.items), func(i int) bool { return s.items[i] >= item })
	return i < len(s.items) && s.items[i] == item
}

// IsSubsetOf reports whether every item of s is also in other.
// Both sides are sorted, so this is a single merge pass.
func (s Itemset) IsSubsetOf(other Itemset) bool {
	if len(s.items) > len(other.items) {
		return false
	}

	j := 0
	for _, it := range s.items {
		for j < len(other.items) && other.items[j] < it {
			j++
		}
		if j == len(other.items) || other.items[j] != it {
			return false
		}
		j++
	}
	return true
}

// Minus returns the items of s that are not in other.
func (s Itemset) Minus(other Itemset) Itemset {
	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if !other.Contains(it) {
			out = append(out, it)
		}
	}
	return fromSorted(out)
}

// Union returns the items present in either set.
func (s Itemset) Union(other Itemset) Itemset {
	out := make([]Item, 0, len(s.items)+len(other.items))
	i, j := 0, 0
	for i < len(s.items) && j < len(other.items) {
		switch {
		case s.items[i] < other.items[j]:
			out = append(out, s.items[i])
			i++
		case s.items[i] > other.items[j]:
			out = append(out, other.items[j])
			j++
		default:
			out = append(out, s.items[i])
			i++
			j++
		}
	}
	out = append(out, s.items[i:]...)
	out = append(out, other.items[j:]...)
	return fromSorted(out)
}

// Intersects reports whether the two sets share at least one item.
func (s Itemset) Intersects(other Itemset) bool {
	for _, it := range s.items {
		if other.Contains(it) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same items.
func (s Itemset) Equal(other Itemset) bool {
	return s.Compare(other) == 0
}

// Compare orders itemsets canonically: item by item, with a proper prefix
// sorting before the longer set. It returns -1, 0 or +1.
func (s Itemset) Compare(other Itemset) int {
	n := len(s.items)
	if len(other.items) < n {
		n = len(other.items)
	}
	for i := 0; i < n; i++ {
		if s.items[i] < other.items[i] {
			return -1
		}
		if s.items[i] > other.items[i] {
			return 1
		}
	}
	switch {
	case len(s.items) < len(other.items):
		return -1
	case len(s.items) > len(other.items):
		return 1
	default:
		return 0
	}
}

// Key returns a content-derived string usable as a map key. Each item is
// length-prefixed, so distinct itemsets never share a key whatever bytes
// their items contain.
func (s Itemset) Key() string {
	var sb strings.Builder
	for _, it := range s.items {
		sb.WriteString(strconv.Itoa(len(it)))
		sb.WriteByte(':')
		sb.WriteString(string(it))
	}
	return sb.String()
}

// Join renders the items separated by sep.
func (s Itemset) Join(sep string) string {
	return strings.Join(s.Strings(), sep)
}

// String renders the set as "{A, B, C}".
func (s Itemset) String() string {
	return "{" + s.Join(", ") + "}"
}
