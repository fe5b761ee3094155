// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS backtests (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	symbol TEXT NOT NULL,
	net_pnl REAL,
	profit_count INTEGER NOT NULL,
	loss_count INTEGER NOT NULL,
	total_deals INTEGER NOT NULL,
	avg_duration_sec REAL,
	span_start INTEGER,
	span_end INTEGER,
	source TEXT NOT NULL,
	imported_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS cycles (
	backtest_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	cycle_id TEXT NOT NULL,
	status TEXT NOT NULL,
	close_time REAL,
	duration_sec REAL,
	net REAL,
	mae REAL,
	mfe REAL,
	PRIMARY KEY (backtest_id, seq)
);

CREATE TABLE IF NOT EXISTS executions (
	backtest_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	time REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_executions_cycle ON executions(backtest_id, seq);
`
