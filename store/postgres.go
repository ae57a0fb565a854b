package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"backtest-engine-go/backtest"
	"backtest-engine-go/order"
)

var ErrRunNotFound = errors.New("backtest run not found")

// RunRecord 一次回测的落库摘要。
type RunRecord struct {
	ID          int64
	Strategy    string
	StartedAt   time.Time
	FinishedAt  time.Time
	InitialCash float64
	FinalCash   float64
	TotalReturn float64
	SharpeRatio float64
	MaxDrawdown float64
	NumTrades   int
	CreatedAt   time.Time
}

// RunRepository 持久化回测结果：运行摘要 + 按顺序编号的成交流水。
// 成交顺序与终值现金足以确定性地重放重建账本。
type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Open 连接 Postgres 并校验连通性。
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// SaveRun 在单个事务内写入运行摘要与全部成交。
func (r *RunRepository) SaveRun(res *backtest.Result) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var runID int64
	err = tx.QueryRow(`
		INSERT INTO backtest_runs (strategy, started_at, finished_at, initial_cash, final_cash, total_return, sharpe_ratio, max_drawdown, num_trades, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		res.Strategy,
		res.StartTime,
		res.EndTime,
		res.InitialCash,
		res.FinalCash,
		res.TotalReturn,
		res.Metrics.SharpeRatio,
		res.Metrics.MaxDrawdown,
		res.Metrics.NumTrades,
		time.Now().UTC(),
	).Scan(&runID)
	if err != nil {
		return 0, err
	}

	for seq, f := range res.Trades {
		_, err = tx.Exec(`
			INSERT INTO backtest_fills (run_id, seq, order_id, symbol, side, quantity, price, ts, cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			runID, seq, f.OrderID, f.Symbol, string(f.Side), f.Quantity, f.Price, f.Ts, f.Cost,
		)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// GetRun 读取运行摘要。
func (r *RunRepository) GetRun(id int64) (*RunRecord, error) {
	rec := &RunRecord{}
	err := r.db.QueryRow(`
		SELECT id, strategy, started_at, finished_at, initial_cash, final_cash, total_return, sharpe_ratio, max_drawdown, num_trades, created_at
		FROM backtest_runs
		WHERE id = $1`, id).Scan(
		&rec.ID,
		&rec.Strategy,
		&rec.StartedAt,
		&rec.FinishedAt,
		&rec.InitialCash,
		&rec.FinalCash,
		&rec.TotalReturn,
		&rec.SharpeRatio,
		&rec.MaxDrawdown,
		&rec.NumTrades,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return rec, nil
}

// GetFills 按入账顺序返回一次运行的全部成交。
func (r *RunRepository) GetFills(runID int64) ([]order.Fill, error) {
	rows, err := r.db.Query(`
		SELECT order_id, symbol, side, quantity, price, ts, cost
		FROM backtest_fills
		WHERE run_id = $1
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fills []order.Fill
	for rows.Next() {
		var f order.Fill
		var side string
		if err := rows.Scan(&f.OrderID, &f.Symbol, &side, &f.Quantity, &f.Price, &f.Ts, &f.Cost); err != nil {
			return nil, err
		}
		f.Side = order.Side(side)
		fills = append(fills, f)
	}
	return fills, rows.Err()
}
