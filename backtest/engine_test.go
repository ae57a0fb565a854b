package backtest

import (
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"backtest-engine-go/market"
	"backtest-engine-go/order"
	"backtest-engine-go/portfolio"
	"backtest-engine-go/sim"
	"backtest-engine-go/strategy"
)

// memFeed 内存行情源
type memFeed struct {
	data map[string]market.Series
}

func (f *memFeed) History(symbol string) (market.Series, error) {
	return f.data[symbol], nil
}

// scriptedStrategy 在指定K线序号下单
type scriptedStrategy struct {
	symbol string
	script map[int][]order.Order // bar index -> orders
	seen   int
}

func (s *scriptedStrategy) Name() string      { return "scripted" }
func (s *scriptedStrategy) Symbols() []string { return []string{s.symbol} }

func (s *scriptedStrategy) OnBar(ctx strategy.Context) []order.Order {
	orders := s.script[s.seen]
	s.seen++
	return orders
}

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func flatSeries(n int, price float64) market.Series {
	s := make(market.Series, n)
	for i := range s {
		s[i] = market.Bar{Ts: day(i + 1), Open: price, High: price + 1, Low: price - 1, Close: price}
	}
	return s
}

func mustMarket(t *testing.T, side order.Side, qty float64) order.Order {
	t.Helper()
	o, err := order.NewMarket("BTCUSDT", side, qty)
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	return o
}

func TestEngineRoundTrip(t *testing.T) {
	series := market.Series{
		{Ts: day(1), Open: 100, High: 101, Low: 99, Close: 100},
		{Ts: day(2), Open: 100, High: 111, Low: 99, Close: 110},
		{Ts: day(3), Open: 110, High: 111, Low: 109, Close: 110},
	}
	feed := &memFeed{data: map[string]market.Series{"BTCUSDT": series}}
	strat := &scriptedStrategy{symbol: "BTCUSDT", script: map[int][]order.Order{
		0: {mustMarket(t, order.SideBuy, 10)},
		1: {mustMarket(t, order.SideSell, 10)},
	}}

	e, err := New(Config{InitialCash: 10000}, strat, feed, zap.NewNop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	res, err := e.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// 零成本下 100 买 110 卖，毛利 100
	if math.Abs(res.FinalCash-10100) > 1e-9 {
		t.Fatalf("expected final cash 10100, got %.4f", res.FinalCash)
	}
	if res.Metrics.NumTrades != 2 {
		t.Fatalf("expected 2 trades, got %d", res.Metrics.NumTrades)
	}
	if len(res.EquityCurve) != 3 || len(res.Timestamps) != 3 {
		t.Fatalf("equity curve must cover every bar: %d/%d", len(res.EquityCurve), len(res.Timestamps))
	}
	if !res.StartTime.Equal(day(1)) || !res.EndTime.Equal(day(3)) {
		t.Fatalf("unexpected time range %s - %s", res.StartTime, res.EndTime)
	}
}

// 回放是确定性的：同一输入两次运行结果完全一致
func TestEngineDeterministic(t *testing.T) {
	series := market.Series{
		{Ts: day(1), Open: 100, High: 102, Low: 98, Close: 101},
		{Ts: day(2), Open: 101, High: 104, Low: 100, Close: 103},
		{Ts: day(3), Open: 103, High: 105, Low: 96, Close: 97},
		{Ts: day(4), Open: 97, High: 100, Low: 95, Close: 99},
	}
	cfg := Config{
		InitialCash: 10000,
		Costs:       sim.CostConfig{SpreadBps: 10, SlippageRate: 0.0005, FeeRate: 0.001},
		Metrics:     portfolio.MetricsConfig{PeriodsPerYear: 252},
	}
	run := func() *Result {
		feed := &memFeed{data: map[string]market.Series{"BTCUSDT": series}}
		strat := &scriptedStrategy{symbol: "BTCUSDT", script: map[int][]order.Order{
			0: {mustMarket(t, order.SideBuy, 5)},
			2: {mustMarket(t, order.SideSell, 5)},
		}}
		e, err := New(cfg, strat, feed, zap.NewNop())
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}
		res, err := e.Run()
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return res
	}

	a, b := run(), run()
	if a.FinalCash != b.FinalCash || a.TotalCosts != b.TotalCosts {
		t.Fatalf("runs differ: %.8f/%.8f vs %.8f/%.8f", a.FinalCash, a.TotalCosts, b.FinalCash, b.TotalCosts)
	}
	if len(a.Trades) != len(b.Trades) {
		t.Fatalf("trade counts differ: %d vs %d", len(a.Trades), len(b.Trades))
	}
	for i := range a.Trades {
		if a.Trades[i] != b.Trades[i] {
			t.Fatalf("trade %d differs: %+v vs %+v", i, a.Trades[i], b.Trades[i])
		}
	}
	for i := range a.EquityCurve {
		if a.EquityCurve[i] != b.EquityCurve[i] {
			t.Fatalf("equity point %d differs", i)
		}
	}
}

// 不满足触发条件的限价单保持挂起，由后续K线成交
func TestEngineRestingLimitOrder(t *testing.T) {
	series := market.Series{
		{Ts: day(1), Open: 100, High: 101, Low: 99, Close: 100},
		{Ts: day(2), Open: 100, High: 101, Low: 98, Close: 100},
		{Ts: day(3), Open: 100, High: 100, Low: 94, Close: 96}, // 触及 95
	}
	limit, err := order.NewLimit("BTCUSDT", order.SideBuy, 1, 95)
	if err != nil {
		t.Fatalf("new limit: %v", err)
	}
	feed := &memFeed{data: map[string]market.Series{"BTCUSDT": series}}
	strat := &scriptedStrategy{symbol: "BTCUSDT", script: map[int][]order.Order{0: {limit}}}

	e, _ := New(Config{InitialCash: 10000}, strat, feed, zap.NewNop())
	res, err := e.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Trades) != 1 {
		t.Fatalf("expected 1 fill, got %d", len(res.Trades))
	}
	f := res.Trades[0]
	if f.Price != 95 || !f.Ts.Equal(day(3)) {
		t.Fatalf("limit should fill at 95 on day 3, got %+v", f)
	}
}

// 多标的按共有时间戳对齐，缺口整体跳过
func TestAlignTimestamps(t *testing.T) {
	series := map[string]market.Series{
		"A": {
			{Ts: day(1), Open: 1, High: 1, Low: 1, Close: 1},
			{Ts: day(2), Open: 1, High: 1, Low: 1, Close: 1},
			{Ts: day(4), Open: 1, High: 1, Low: 1, Close: 1},
		},
		"B": {
			{Ts: day(2), Open: 1, High: 1, Low: 1, Close: 1},
			{Ts: day(3), Open: 1, High: 1, Low: 1, Close: 1},
			{Ts: day(4), Open: 1, High: 1, Low: 1, Close: 1},
		},
	}
	steps := alignTimestamps(series)
	if len(steps) != 2 {
		t.Fatalf("expected 2 common timestamps, got %d", len(steps))
	}
	if !steps[0].Equal(day(2)) || !steps[1].Equal(day(4)) {
		t.Fatalf("unexpected steps: %v", steps)
	}
}

// 被拒绝的订单不影响回放继续
func TestEngineContinuesAfterRejection(t *testing.T) {
	series := flatSeries(3, 100)
	bad := order.Order{Symbol: "BTCUSDT", Side: order.SideBuy, Type: order.TypeLimit, Quantity: 1} // 缺价
	feed := &memFeed{data: map[string]market.Series{"BTCUSDT": series}}
	strat := &scriptedStrategy{symbol: "BTCUSDT", script: map[int][]order.Order{
		0: {bad},
		1: {mustMarket(t, order.SideBuy, 1)},
	}}

	e, _ := New(Config{InitialCash: 10000}, strat, feed, zap.NewNop())
	res, err := e.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Trades) != 1 {
		t.Fatalf("valid order after rejection should fill, got %d trades", len(res.Trades))
	}
}
