package sim

import (
	"backtest-engine-go/market"
	"backtest-engine-go/order"
)

// CostConfig 模拟成交的成本参数。
type CostConfig struct {
	SpreadBps    float64 // 买卖价差（基点），成交价按半个价差向不利方向移动
	SlippageRate float64 // 滑点率，如 0.0001 = 0.01%
	FeeRate      float64 // 手续费率，按成交名义金额计
}

// OrderBook resolves accepted orders against one bar of market data.
// It only looks at the current bar; future bars are never consulted.
// Fills are always full quantity or none.
type OrderBook struct {
	costs CostConfig
}

func NewOrderBook(costs CostConfig) *OrderBook {
	return &OrderBook{costs: costs}
}

// Resolve 在当前K线上尝试撮合一张订单。
// 返回 (fill, true) 表示全额成交；(zero, false) 表示本周期未触发。
func (b *OrderBook) Resolve(o order.Order, bar market.Bar) (order.Fill, bool) {
	var price float64
	switch o.Type {
	case order.TypeMarket:
		// 市价单以收盘价为参考，价差与滑点总是向订单不利方向移动
		sign := o.Side.Sign()
		price = bar.Close * (1 + sign*b.costs.SpreadBps/2/10000) * (1 + sign*b.costs.SlippageRate)

	case order.TypeLimit:
		// 买入限价：K线最低价触及限价则以限价成交；卖出对称
		if o.Side == order.SideBuy && bar.Low > o.Price {
			return order.Fill{}, false
		}
		if o.Side == order.SideSell && bar.High < o.Price {
			return order.Fill{}, false
		}
		price = o.Price

	case order.TypeStop:
		// 买入止损：K线最高价触及止损价则触发；卖出对称
		if o.Side == order.SideBuy && bar.High < o.Price {
			return order.Fill{}, false
		}
		if o.Side == order.SideSell && bar.Low > o.Price {
			return order.Fill{}, false
		}
		price = o.Price

	default:
		return order.Fill{}, false
	}

	return order.Fill{
		OrderID:  o.ID,
		Symbol:   o.Symbol,
		Side:     o.Side,
		Quantity: o.Quantity,
		Price:    price,
		Ts:       bar.Ts,
		Cost:     price * o.Quantity * b.costs.FeeRate,
	}, true
}
