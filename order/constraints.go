package order

import "fmt"

// SymbolConstraints 描述单个标的的业务限制（数量与名义上限）。
type SymbolConstraints struct {
	MinQty      float64
	MaxQty      float64
	MaxNotional float64
}

// Validate 检查订单数量/名义是否在配置的业务限制内。
// reference 为市价单估算名义金额时使用的参考价。
func (c SymbolConstraints) Validate(o Order, reference float64) error {
	if c.MinQty > 0 && o.Quantity < c.MinQty {
		return fmt.Errorf("qty %.8f < minQty %.8f", o.Quantity, c.MinQty)
	}
	if c.MaxQty > 0 && o.Quantity > c.MaxQty {
		return fmt.Errorf("qty %.8f > maxQty %.8f", o.Quantity, c.MaxQty)
	}
	if c.MaxNotional > 0 {
		price := o.Price
		if o.Type == TypeMarket {
			price = reference
		}
		if price > 0 && price*o.Quantity > c.MaxNotional {
			return fmt.Errorf("notional %.8f > maxNotional %.8f", price*o.Quantity, c.MaxNotional)
		}
	}
	return nil
}
