package portfolio_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backtest-engine-go/order"
	"backtest-engine-go/portfolio"
)

func fill(symbol string, side order.Side, qty, price, cost float64) order.Fill {
	return order.Fill{
		OrderID:  symbol + "-000001",
		Symbol:   symbol,
		Side:     side,
		Quantity: qty,
		Price:    price,
		Ts:       time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Cost:     cost,
	}
}

// 初始资金 10000，以 100.05 买入 10 股：
// 现金 10000 - 1000.50 = 8999.50，均价 100.05
func TestApplyFillOpensPosition(t *testing.T) {
	tr := portfolio.NewTracker(10000)

	err := tr.ApplyFill(fill("BTCUSDT", order.SideBuy, 10, 100.05, 0))
	require.NoError(t, err)

	assert.InDelta(t, 8999.50, tr.Cash(), 1e-9)
	pos := tr.Position("BTCUSDT")
	assert.Equal(t, 10.0, pos.Quantity)
	assert.InDelta(t, 100.05, pos.AvgCost, 1e-9)
	assert.InDelta(t, 0, tr.BalanceResidual(), 1e-9)
}

// 同向加仓按数量加权平均更新成本
func TestApplyFillWeightedAverage(t *testing.T) {
	tr := portfolio.NewTracker(100000)

	require.NoError(t, tr.ApplyFill(fill("BTCUSDT", order.SideBuy, 10, 100, 0)))
	require.NoError(t, tr.ApplyFill(fill("BTCUSDT", order.SideBuy, 10, 110, 0)))

	pos := tr.Position("BTCUSDT")
	assert.Equal(t, 20.0, pos.Quantity)
	assert.InDelta(t, 105, pos.AvgCost, 1e-9)
	assert.InDelta(t, 0, tr.BalanceResidual(), 1e-9)
}

// 买10卖10的往返：净实现盈亏 = 毛利 - 交易成本
func TestRoundTripRealizedPnL(t *testing.T) {
	tr := portfolio.NewTracker(10000)

	require.NoError(t, tr.ApplyFill(fill("BTCUSDT", order.SideBuy, 10, 100, 1.0)))
	require.NoError(t, tr.ApplyFill(fill("BTCUSDT", order.SideSell, 10, 110, 1.1)))

	assert.Equal(t, 0.0, tr.Position("BTCUSDT").Quantity)
	assert.InDelta(t, 100, tr.RealizedPnL(), 1e-9)     // (110-100)*10
	assert.InDelta(t, 2.1, tr.TotalCosts(), 1e-9)
	assert.InDelta(t, 97.9, tr.NetRealizedPnL(), 1e-9) // 毛利扣成本
	assert.InDelta(t, 10000+97.9, tr.Cash(), 1e-9)
	assert.InDelta(t, 0, tr.BalanceResidual(), 1e-9)
}

// 空头往返：高卖低买获利
func TestShortRoundTrip(t *testing.T) {
	tr := portfolio.NewTracker(10000)

	require.NoError(t, tr.ApplyFill(fill("BTCUSDT", order.SideSell, 5, 100, 0)))
	pos := tr.Position("BTCUSDT")
	assert.Equal(t, -5.0, pos.Quantity)
	assert.InDelta(t, 100, pos.AvgCost, 1e-9)
	assert.InDelta(t, 0, tr.BalanceResidual(), 1e-9)

	require.NoError(t, tr.ApplyFill(fill("BTCUSDT", order.SideBuy, 5, 90, 0)))
	assert.Equal(t, 0.0, tr.Position("BTCUSDT").Quantity)
	assert.InDelta(t, 50, tr.RealizedPnL(), 1e-9) // (90-100)*5*(-1)
	assert.InDelta(t, 10050, tr.Cash(), 1e-9)
	assert.InDelta(t, 0, tr.BalanceResidual(), 1e-9)
}

// 部分减仓只对平掉的数量实现盈亏，剩余仓位成本不变
func TestPartialReduce(t *testing.T) {
	tr := portfolio.NewTracker(100000)

	require.NoError(t, tr.ApplyFill(fill("BTCUSDT", order.SideBuy, 10, 100, 0)))
	require.NoError(t, tr.ApplyFill(fill("BTCUSDT", order.SideSell, 4, 120, 0)))

	pos := tr.Position("BTCUSDT")
	assert.Equal(t, 6.0, pos.Quantity)
	assert.InDelta(t, 100, pos.AvgCost, 1e-9)
	assert.InDelta(t, 80, tr.RealizedPnL(), 1e-9) // (120-100)*4
	assert.InDelta(t, 0, tr.BalanceResidual(), 1e-9)
}

// 反向穿仓：先平旧仓实现盈亏，剩余量以成交价开新仓
func TestReversalOpensNewPosition(t *testing.T) {
	tr := portfolio.NewTracker(100000)

	require.NoError(t, tr.ApplyFill(fill("BTCUSDT", order.SideBuy, 10, 100, 0)))
	require.NoError(t, tr.ApplyFill(fill("BTCUSDT", order.SideSell, 15, 110, 0)))

	pos := tr.Position("BTCUSDT")
	assert.Equal(t, -5.0, pos.Quantity)
	assert.InDelta(t, 110, pos.AvgCost, 1e-9)
	assert.InDelta(t, 100, tr.RealizedPnL(), 1e-9) // 平掉的10股
	assert.InDelta(t, 0, tr.BalanceResidual(), 1e-9)
}

func TestApplyFillRejectsBadInput(t *testing.T) {
	tr := portfolio.NewTracker(10000)

	err := tr.ApplyFill(fill("BTCUSDT", order.SideBuy, 0, 100, 0))
	assert.ErrorIs(t, err, portfolio.ErrBadFill)
	err = tr.ApplyFill(fill("BTCUSDT", order.SideBuy, 1, -5, 0))
	assert.ErrorIs(t, err, portfolio.ErrBadFill)

	// 被拒绝的成交不留任何痕迹
	assert.Equal(t, 10000.0, tr.Cash())
	assert.Equal(t, 0, tr.NumTrades())
}

// 任意成交序列后账本恒等式都成立
func TestBalanceInvariantAcrossSequence(t *testing.T) {
	tr := portfolio.NewTracker(50000)
	seq := []order.Fill{
		fill("BTCUSDT", order.SideBuy, 10, 100, 1),
		fill("ETHUSDT", order.SideSell, 3, 2000, 6),
		fill("BTCUSDT", order.SideBuy, 5, 104, 0.5),
		fill("BTCUSDT", order.SideSell, 12, 108, 1.3),
		fill("ETHUSDT", order.SideBuy, 5, 1900, 9.5),
		fill("BTCUSDT", order.SideSell, 3, 95, 0.3),
	}
	for i, f := range seq {
		require.NoError(t, tr.ApplyFill(f), "fill %d", i)
		assert.InDelta(t, 0, tr.BalanceResidual(), 1e-6, "residual after fill %d", i)
	}
	assert.Equal(t, len(seq), tr.NumTrades())
	assert.Len(t, tr.FillPnLs(), len(seq))
}
