package store

const schema = `
CREATE TABLE IF NOT EXISTS databases (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    source TEXT,
    imported_at TIMESTAMP NOT NULL,
    transaction_count INTEGER NOT NULL,
    item_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    database_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    tid TEXT,
    items TEXT NOT NULL,
    PRIMARY KEY (database_id, position),
    FOREIGN KEY (database_id) REFERENCES databases(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_databases_name ON databases(name);
CREATE INDEX IF NOT EXISTS idx_transactions_database ON transactions(database_id);
`
