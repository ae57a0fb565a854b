package portfolio

// UnrealizedPnL 以当前价格计算各标的未实现盈亏。只读。
func (t *Tracker) UnrealizedPnL(prices map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(t.positions))
	for sym, p := range t.positions {
		price, ok := prices[sym]
		if !ok {
			continue
		}
		out[sym] = (price - p.AvgCost) * p.Quantity
	}
	return out
}

// Equity 组合权益 = 现金 + Σ(仓位×现价)。只读。
func (t *Tracker) Equity(prices map[string]float64) float64 {
	equity := t.cash
	for sym, p := range t.positions {
		if price, ok := prices[sym]; ok {
			equity += p.Quantity * price
		} else {
			// 缺价时退化为成本计价
			equity += p.Quantity * p.AvgCost
		}
	}
	return equity
}
