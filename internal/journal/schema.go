// Package journal keeps a SQLite record of pipeline runs and the per-table
// steps inside them, so a run whose conversions failed can be resumed
// without patching the tables again.
package journal

const (
	createRuns = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    mode TEXT NOT NULL,
    plane_string_id TEXT NOT NULL,
    status TEXT NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    started_at TEXT NOT NULL,
    finished_at TEXT
);`

	createSteps = `CREATE TABLE IF NOT EXISTS steps (
    run_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    table_name TEXT NOT NULL,
    source_path TEXT NOT NULL DEFAULT '',
    json_path TEXT NOT NULL DEFAULT '',
    native_path TEXT NOT NULL DEFAULT '',
    staging_dir TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    updated_at TEXT NOT NULL,
    PRIMARY KEY (run_id, table_name),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);`

	idxRunsStarted = `CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);`
	idxStepsStatus = `CREATE INDEX IF NOT EXISTS idx_steps_status ON steps(run_id, status);`
)

// schemaDDL lists every statement in dependency order.
var schemaDDL = []string{
	createRuns,
	createSteps,
	idxRunsStarted,
	idxStepsStatus,
}
