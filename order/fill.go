package order

import "time"

// Fill 成交记录。每张订单至多产生一条（全额成交或不成交）。
type Fill struct {
	OrderID  string
	Symbol   string
	Side     Side
	Quantity float64
	Price    float64
	Ts       time.Time
	Cost     float64 // 交易成本，由账本在入账时扣除
}

// Notional 成交名义金额。
func (f Fill) Notional() float64 {
	return f.Price * f.Quantity
}
