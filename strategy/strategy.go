package strategy

import (
	"time"

	"backtest-engine-go/market"
	"backtest-engine-go/order"
	"backtest-engine-go/portfolio"
)

// Snapshot 账本的只读视图，供策略判断当前仓位与资金。
type Snapshot interface {
	Position(symbol string) portfolio.Position
	Cash() float64
}

// Context 策略上下文。History 只包含当前时间点及之前的K线，
// 引擎保证不会出现未来数据。
type Context struct {
	Ts      time.Time
	History map[string]market.Series
	Book    Snapshot
}

// Strategy 根据历史行情产生订单请求。实现必须是确定性的：
// 相同的输入序列产生相同的订单序列。
type Strategy interface {
	Name() string
	Symbols() []string
	OnBar(ctx Context) []order.Order
}
