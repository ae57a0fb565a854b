package store

import (
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"backtest-engine-go/backtest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// exportedFill 导出用的成交记录格式。
type exportedFill struct {
	OrderID  string    `json:"order_id"`
	Symbol   string    `json:"symbol"`
	Side     string    `json:"side"`
	Quantity float64   `json:"quantity"`
	Price    float64   `json:"fill_price"`
	Ts       time.Time `json:"timestamp"`
	Cost     float64   `json:"transaction_cost"`
}

type exportedResult struct {
	Strategy    string         `json:"strategy"`
	StartTime   time.Time      `json:"start_time"`
	EndTime     time.Time      `json:"end_time"`
	InitialCash float64        `json:"initial_cash"`
	FinalCash   float64        `json:"final_cash"`
	FinalEquity float64        `json:"final_equity"`
	TotalReturn float64        `json:"total_return"`
	SharpeRatio float64        `json:"sharpe_ratio"`
	MaxDrawdown float64        `json:"max_drawdown"`
	NumTrades   int            `json:"num_trades"`
	TotalCosts  float64        `json:"total_costs"`
	Fills       []exportedFill `json:"fills"`
	EquityCurve []float64      `json:"equity_curve"`
}

// ExportJSON 将回测结果（含按序成交流水与终值现金）写为 JSON 文件。
func ExportJSON(path string, res *backtest.Result) error {
	fills := make([]exportedFill, len(res.Trades))
	for i, f := range res.Trades {
		fills[i] = exportedFill{
			OrderID:  f.OrderID,
			Symbol:   f.Symbol,
			Side:     string(f.Side),
			Quantity: f.Quantity,
			Price:    f.Price,
			Ts:       f.Ts,
			Cost:     f.Cost,
		}
	}
	out := exportedResult{
		Strategy:    res.Strategy,
		StartTime:   res.StartTime,
		EndTime:     res.EndTime,
		InitialCash: res.InitialCash,
		FinalCash:   res.FinalCash,
		FinalEquity: res.FinalEquity,
		TotalReturn: res.TotalReturn,
		SharpeRatio: res.Metrics.SharpeRatio,
		MaxDrawdown: res.Metrics.MaxDrawdown,
		NumTrades:   res.Metrics.NumTrades,
		TotalCosts:  res.TotalCosts,
		Fills:       fills,
		EquityCurve: res.EquityCurve,
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
