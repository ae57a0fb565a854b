package order

import (
	"fmt"
	"time"
)

// Side 买卖方向。
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Sign 返回 +1（买）或 -1（卖），用于仓位与价格调整。
func (s Side) Sign() float64 {
	if s == SideSell {
		return -1
	}
	return 1
}

func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Type 订单类型。
type Type string

const (
	TypeMarket Type = "MARKET"
	TypeLimit  Type = "LIMIT"
	TypeStop   Type = "STOP"
)

// Order holds a single trade request. Fields other than Status are
// immutable once the order is accepted by the Manager; only the Manager
// advances Status.
type Order struct {
	ID       string
	Symbol   string
	Side     Side
	Type     Type
	Price    float64 // limit/stop price; unused for market orders
	Quantity float64
	Ts       time.Time
	Status   Status
}

// NewMarket 构造市价单。市价单无需价格，缺价在构造层面即不可能。
func NewMarket(symbol string, side Side, qty float64) (Order, error) {
	return build(symbol, side, TypeMarket, 0, qty)
}

// NewLimit 构造限价单。
func NewLimit(symbol string, side Side, qty, price float64) (Order, error) {
	return build(symbol, side, TypeLimit, price, qty)
}

// NewStop 构造止损单。
func NewStop(symbol string, side Side, qty, price float64) (Order, error) {
	return build(symbol, side, TypeStop, price, qty)
}

func build(symbol string, side Side, typ Type, price, qty float64) (Order, error) {
	o := Order{
		Symbol:   symbol,
		Side:     side,
		Type:     typ,
		Price:    price,
		Quantity: qty,
		Ts:       time.Now().UTC(),
		Status:   StatusPending,
	}
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Validate re-checks construction constraints. Pure; no side effects.
func (o Order) Validate() error {
	if o.Quantity <= 0 {
		return fmt.Errorf("%w: got %.8f", ErrInvalidQuantity, o.Quantity)
	}
	if !o.Side.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSide, o.Side)
	}
	switch o.Type {
	case TypeMarket:
	case TypeLimit, TypeStop:
		if o.Price <= 0 {
			return fmt.Errorf("%w: %s order without price", ErrMissingPrice, o.Type)
		}
	default:
		return fmt.Errorf("unknown order type %q", o.Type)
	}
	return nil
}
