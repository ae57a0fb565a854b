package store

import "database/sql"

// Schema 结果库表结构。
const Schema = `
CREATE TABLE IF NOT EXISTS backtest_runs (
	id           BIGSERIAL PRIMARY KEY,
	strategy     TEXT NOT NULL,
	started_at   TIMESTAMPTZ NOT NULL,
	finished_at  TIMESTAMPTZ NOT NULL,
	initial_cash DOUBLE PRECISION NOT NULL,
	final_cash   DOUBLE PRECISION NOT NULL,
	total_return DOUBLE PRECISION NOT NULL,
	sharpe_ratio DOUBLE PRECISION NOT NULL,
	max_drawdown DOUBLE PRECISION NOT NULL,
	num_trades   INTEGER NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS backtest_fills (
	id       BIGSERIAL PRIMARY KEY,
	run_id   BIGINT NOT NULL REFERENCES backtest_runs(id) ON DELETE CASCADE,
	seq      INTEGER NOT NULL,
	order_id TEXT NOT NULL,
	symbol   TEXT NOT NULL,
	side     TEXT NOT NULL,
	quantity DOUBLE PRECISION NOT NULL,
	price    DOUBLE PRECISION NOT NULL,
	ts       TIMESTAMPTZ NOT NULL,
	cost     DOUBLE PRECISION NOT NULL,
	UNIQUE (run_id, seq)
);
`

// EnsureSchema 建表（幂等）。
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	return err
}
