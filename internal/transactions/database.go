package transactions

import "sort"

// Record is one raw transaction row as it comes out of a CSV file or the
// catalogue, before normalization.
type Record struct {
	ID    string
	Items []string
}

// Database is an immutable, in-memory view of a transaction database.
// It is built once and only read afterwards.
type Database struct {
	name         string
	ids          []string
	transactions []Itemset
	universe     []Item
}

// NewDatabase normalizes records into itemsets and computes the sorted
// universe of distinct items. A nil or empty slice yields an empty database.
func NewDatabase(name string, records []Record) *Database {
	db := &Database{
		name:         name,
		ids:          make([]string, 0, len(records)),
		transactions: make([]Itemset, 0, len(records)),
	}

	seen := make(map[Item]struct{})
	for _, rec := range records {
		set := ItemsetOf(rec.Items...)
		db.ids = append(db.ids, rec.ID)
		db.transactions = append(db.transactions, set)
		for _, it := range set.items {
			seen[it] = struct{}{}
		}
	}

	db.universe = make([]Item, 0, len(seen))
	for it := range seen {
		db.universe = append(db.universe, it)
	}
	sort.Slice(db.universe, func(i, j int) bool { return db.universe[i] < db.universe[j] })

	return db
}

// FromItemsets builds a database directly from itemsets. Transaction IDs are
// left empty.
func FromItemsets(name string, sets ...Itemset) *Database {
	records := make([]Record, len(sets))
	for i, s := range sets {
		records[i] = Record{Items: s.Strings()}
	}
	return NewDatabase(name, records)
}

// Name returns the database name.
func (d *Database) Name() string {
	return d.name
}

// Len returns the number of transactions.
func (d *Database) Len() int {
	return len(d.transactions)
}

// Transactions returns the transactions in load order. The returned slice is
// a copy; the itemsets themselves are immutable.
func (d *Database) Transactions() []Itemset {
	out := make([]Itemset, len(d.transactions))
	copy(out, d.transactions)
	return out
}

// Transaction returns the i-th transaction.
func (d *Database) Transaction(i int) Itemset {
	return d.transactions[i]
}

// ID returns the transaction ID recorded for the i-th transaction, if any.
func (d *Database) ID(i int) string {
	return d.ids[i]
}

// Universe returns the distinct items in lexicographic order.
func (d *Database) Universe() []Item {
	out := make([]Item, len(d.universe))
	copy(out, d.universe)
	return out
}

// UniverseSize returns the number of distinct items.
func (d *Database) UniverseSize() int {
	return len(d.universe)
}

// Records converts the database back into raw records, e.g. for persisting
// it in the catalogue.
func (d *Database) Records() []Record {
	out := make([]Record, len(d.transactions))
	for i, t := range d.transactions {
		out[i] = Record{ID: d.ids[i], Items: t.Strings()}
	}
	return out
}
