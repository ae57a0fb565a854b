package backtest

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"backtest-engine-go/market"
	"backtest-engine-go/metrics"
	"backtest-engine-go/order"
	"backtest-engine-go/portfolio"
	"backtest-engine-go/sim"
	"backtest-engine-go/strategy"
)

// Config 回测引擎配置。
type Config struct {
	InitialCash float64
	Costs       sim.CostConfig
	Metrics     portfolio.MetricsConfig
	Constraints map[string]order.SymbolConstraints
}

// Engine 回测引擎：按时间顺序逐根K线回放，
// 策略产生订单 -> 订单管理器校验登记 -> 模拟撮合 -> 账本入账。
// 整个回放是单线程、确定性的；同一根K线内的成交严格按提交顺序入账。
type Engine struct {
	cfg   Config
	strat strategy.Strategy
	feed  market.Feed
	log   *zap.Logger
}

func New(cfg Config, strat strategy.Strategy, feed market.Feed, log *zap.Logger) (*Engine, error) {
	if cfg.InitialCash <= 0 {
		cfg.InitialCash = 10000
	}
	if strat == nil {
		return nil, fmt.Errorf("strategy is required")
	}
	if feed == nil {
		return nil, fmt.Errorf("market feed is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg, strat: strat, feed: feed, log: log}, nil
}

// Run 执行完整回放并返回结果。
func (e *Engine) Run() (*Result, error) {
	symbols := e.strat.Symbols()
	series := make(map[string]market.Series, len(symbols))
	for _, sym := range symbols {
		s, err := e.feed.History(sym)
		if err != nil {
			return nil, fmt.Errorf("load history for %s: %w", sym, err)
		}
		if len(s) == 0 {
			return nil, fmt.Errorf("no bars for symbol %s", sym)
		}
		series[sym] = s
	}

	steps := alignTimestamps(series)
	if len(steps) == 0 {
		return nil, fmt.Errorf("no overlapping bars across symbols %v", symbols)
	}

	tracker := portfolio.NewTracker(e.cfg.InitialCash)
	book := sim.NewOrderBook(e.cfg.Costs)
	mgr := order.NewManager(book, tracker, e.log)
	if len(e.cfg.Constraints) > 0 {
		mgr.SetConstraints(e.cfg.Constraints)
	}

	equityCurve := make([]float64, 0, len(steps))
	timestamps := make([]time.Time, 0, len(steps))

	// 每个 symbol 的 ts->bar 索引与已回放前缀长度
	barsAt := make(map[string]map[time.Time]int, len(symbols))
	for sym, s := range series {
		idx := make(map[time.Time]int, len(s))
		for i, b := range s {
			idx[b.Ts] = i
		}
		barsAt[sym] = idx
	}

	for _, ts := range steps {
		currentBars := make(map[string]market.Bar, len(symbols))
		history := make(map[string]market.Series, len(symbols))
		for _, sym := range symbols {
			i := barsAt[sym][ts]
			currentBars[sym] = series[sym][i]
			history[sym] = series[sym][:i+1]
		}

		// 先对挂单重试撮合：早先提交的订单优先
		for _, sym := range symbols {
			fills, err := mgr.SweepOpen(sym, currentBars[sym])
			if err != nil {
				return nil, err
			}
			for range fills {
				metrics.FillsTotal.Inc()
			}
		}

		// 策略只看得到当前时间点及之前的数据
		ctx := strategy.Context{Ts: ts, History: history, Book: tracker}
		for _, o := range e.strat.OnBar(ctx) {
			bar, ok := currentBars[o.Symbol]
			if !ok {
				e.log.Warn("order for symbol without data, skipped",
					zap.String("symbol", o.Symbol))
				continue
			}
			metrics.OrdersSubmitted.Inc()
			_, fill, err := mgr.Submit(o, bar)
			if err != nil {
				metrics.OrdersRejected.Inc()
				e.log.Debug("order not executed", zap.Error(err))
				continue
			}
			if fill != nil {
				metrics.FillsTotal.Inc()
			}
		}

		closes := make(map[string]float64, len(symbols))
		for sym, b := range currentBars {
			closes[sym] = b.Close
		}
		equity := tracker.Equity(closes)
		equityCurve = append(equityCurve, equity)
		timestamps = append(timestamps, ts)
		metrics.EquityCurrent.Set(equity)
	}

	result, err := buildResult(e.strat.Name(), tracker, equityCurve, timestamps, e.cfg.Metrics)
	if err != nil {
		return nil, err
	}
	metrics.MaxDrawdownPct.Set(result.Metrics.MaxDrawdown * 100)
	metrics.RunsCompleted.Inc()
	e.log.Info("backtest complete",
		zap.String("strategy", e.strat.Name()),
		zap.Int("bars", len(steps)),
		zap.Int("trades", result.Metrics.NumTrades),
		zap.Float64("total_return", result.TotalReturn),
		zap.Float64("max_drawdown", result.Metrics.MaxDrawdown))
	return result, nil
}

// alignTimestamps 求所有标的共有的时间戳并升序返回。
// 任一标的缺失的时间点整体跳过（允许数据有缺口）。
func alignTimestamps(series map[string]market.Series) []time.Time {
	counts := make(map[time.Time]int)
	for _, s := range series {
		for _, b := range s {
			counts[b.Ts]++
		}
	}
	var steps []time.Time
	for ts, n := range counts {
		if n == len(series) {
			steps = append(steps, ts)
		}
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].Before(steps[j]) })
	return steps
}
