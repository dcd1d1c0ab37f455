package store

import "time"

// DatabaseInfo describes one transaction database in the catalogue.
type DatabaseInfo struct {
	ID               string
	Name             string
	Source           string // CSV path or "generated"
	ImportedAt       time.Time
	TransactionCount int
	ItemCount        int
}
