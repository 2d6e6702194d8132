package db

// SchemaSQL is the complete schema for fresh advgen installs.
//
// This is the single source of truth: repository tests load it via
// GetSchemaSQL() against an in-memory database, so any drift between
// repository code and schema fails immediately with "no such column".
const SchemaSQL = `
-- Per-domain token dictionaries (actions and goal predicates)
CREATE TABLE IF NOT EXISTS dictionary_entries (
	domain TEXT NOT NULL,
	kind TEXT NOT NULL CHECK(kind IN ('action', 'goal')),
	token TEXT NOT NULL,
	token_id INTEGER NOT NULL,
	UNIQUE(domain, kind, token),
	UNIQUE(domain, kind, token_id)
);

CREATE INDEX IF NOT EXISTS idx_dictionary_domain_kind
	ON dictionary_entries(domain, kind);

-- Shard run registry (one row per worker invocation)
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	shard_id TEXT NOT NULL,
	domain TEXT NOT NULL,
	attack INTEGER NOT NULL,
	pid INTEGER,
	status TEXT NOT NULL CHECK(status IN ('running', 'completed', 'failed')) DEFAULT 'running',
	problems_ok INTEGER NOT NULL DEFAULT 0,
	problems_failed INTEGER NOT NULL DEFAULT 0,
	realized_perc REAL,
	started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_runs_shard ON runs(shard_id, started_at);
`

// GetSchemaSQL returns the authoritative schema for tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
