package model

import "time"

// RunRecord is one etl_runs audit row: the outcome of loading one domain.
type RunRecord struct {
	StartedAt  time.Time
	FinishedAt time.Time
	RunID      string
	Domain     Domain
	SourceFile string
	Records    int
	Inserted   int64
	Skipped    int64
	Unresolved int
}

// TableCount is the row count of one warehouse table.
type TableCount struct {
	Table string
	Rows  int64
}
