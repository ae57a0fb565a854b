package backtest

import (
	"fmt"
	"time"

	"backtest-engine-go/order"
	"backtest-engine-go/portfolio"
)

// Result 回测结果。
type Result struct {
	Strategy  string
	StartTime time.Time
	EndTime   time.Time

	InitialCash float64
	FinalCash   float64
	FinalEquity float64
	TotalPnL    float64
	TotalReturn float64
	TotalCosts  float64

	Metrics       portfolio.Metrics
	WinningTrades int
	LosingTrades  int
	WinRate       float64

	Trades      []order.Fill
	EquityCurve []float64
	Timestamps  []time.Time
}

func buildResult(name string, tracker *portfolio.Tracker, equity []float64, timestamps []time.Time, mcfg portfolio.MetricsConfig) (*Result, error) {
	m, err := tracker.ComputeMetrics(equity, mcfg)
	if err != nil {
		return nil, err
	}

	winning, losing := 0, 0
	for _, pnl := range tracker.FillPnLs() {
		if pnl > 0 {
			winning++
		} else if pnl < 0 {
			losing++
		}
	}
	winRate := 0.0
	if tracker.NumTrades() > 0 {
		winRate = float64(winning) / float64(tracker.NumTrades())
	}

	finalEquity := equity[len(equity)-1]
	return &Result{
		Strategy:      name,
		StartTime:     timestamps[0],
		EndTime:       timestamps[len(timestamps)-1],
		InitialCash:   tracker.InitialCash(),
		FinalCash:     tracker.Cash(),
		FinalEquity:   finalEquity,
		TotalPnL:      finalEquity - tracker.InitialCash(),
		TotalReturn:   m.TotalReturn,
		TotalCosts:    tracker.TotalCosts(),
		Metrics:       m,
		WinningTrades: winning,
		LosingTrades:  losing,
		WinRate:       winRate,
		Trades:        tracker.Blotter(),
		EquityCurve:   equity,
		Timestamps:    timestamps,
	}, nil
}

// Print 打印回测结果摘要。
func (r *Result) Print() {
	fmt.Println("=== 回测结果 ===")
	fmt.Printf("策略: %s\n", r.Strategy)
	fmt.Printf("时间范围: %s - %s\n", r.StartTime.Format("2006-01-02"), r.EndTime.Format("2006-01-02"))
	fmt.Printf("初始资金: %.2f\n", r.InitialCash)
	fmt.Printf("最终权益: %.2f\n", r.FinalEquity)
	fmt.Printf("总盈亏: %.2f (%.2f%%)\n", r.TotalPnL, r.TotalReturn*100)
	fmt.Printf("交易成本: %.2f\n", r.TotalCosts)
	fmt.Printf("\n")
	fmt.Printf("总交易次数: %d\n", r.Metrics.NumTrades)
	fmt.Printf("盈利交易: %d\n", r.WinningTrades)
	fmt.Printf("亏损交易: %d\n", r.LosingTrades)
	fmt.Printf("胜率: %.2f%%\n", r.WinRate*100)
	fmt.Printf("\n")
	fmt.Printf("最大回撤: %.2f%%\n", r.Metrics.MaxDrawdown*100)
	fmt.Printf("夏普比率: %.2f\n", r.Metrics.SharpeRatio)
	fmt.Println("================")
}
