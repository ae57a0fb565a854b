package portfolio

import (
	"math"

	"backtest-engine-go/order"
)

// Position 单个标的的净仓位。正数为多头，负数为空头。
type Position struct {
	Symbol   string
	Quantity float64
	AvgCost  float64
}

// Tracker 资金与仓位账本：现金、各标的仓位、成交流水、已实现盈亏。
// 所有变更只通过 ApplyFill 进行，一次入账要么全部生效要么全部不生效。
type Tracker struct {
	initialCash float64
	cash        float64
	positions   map[string]Position
	blotter     []order.Fill
	fillPnLs    []float64 // 每笔成交的净实现盈亏（含成本），与 blotter 对齐
	realized    float64   // 累计已实现盈亏（毛额，不含交易成本）
	totalCosts  float64
}

func NewTracker(initialCash float64) *Tracker {
	return &Tracker{
		initialCash: initialCash,
		cash:        initialCash,
		positions:   make(map[string]Position),
	}
}

// ApplyFill 将一笔成交入账：
//   - 现金按方向增减成交金额，再扣除交易成本；
//   - 同向加仓按数量加权平均更新成本；
//   - 减仓/反向先对平仓部分实现盈亏，剩余量以成交价开新仓。
func (t *Tracker) ApplyFill(f order.Fill) error {
	if f.Quantity <= 0 || f.Price <= 0 {
		return ErrBadFill
	}

	sign := f.Side.Sign()
	delta := sign * f.Quantity
	pos := t.positions[f.Symbol]

	newQty := pos.Quantity
	newAvg := pos.AvgCost
	realizedDelta := 0.0

	switch {
	case pos.Quantity == 0 || pos.Quantity*delta > 0:
		// 开仓或同向加仓：加权平均成本
		total := math.Abs(pos.Quantity)*pos.AvgCost + f.Quantity*f.Price
		newQty = pos.Quantity + delta
		newAvg = total / math.Abs(newQty)

	default:
		// 减仓或反向
		closed := math.Min(f.Quantity, math.Abs(pos.Quantity))
		dir := 1.0
		if pos.Quantity < 0 {
			dir = -1
		}
		realizedDelta = (f.Price - pos.AvgCost) * closed * dir
		newQty = pos.Quantity + delta
		if newQty == 0 {
			newAvg = 0
		} else if pos.Quantity*newQty < 0 {
			// 反向穿仓：剩余量是以成交价建立的新仓
			newAvg = f.Price
		}
		// 纯减仓时成本不变
	}

	// 提交：以上全部计算无误后一次性写入
	t.cash -= delta * f.Price
	t.cash -= f.Cost
	t.totalCosts += f.Cost
	t.realized += realizedDelta
	if newQty == 0 {
		delete(t.positions, f.Symbol)
	} else {
		t.positions[f.Symbol] = Position{Symbol: f.Symbol, Quantity: newQty, AvgCost: newAvg}
	}
	t.blotter = append(t.blotter, f)
	t.fillPnLs = append(t.fillPnLs, realizedDelta-f.Cost)
	return nil
}

// Cash 当前现金余额。
func (t *Tracker) Cash() float64 { return t.cash }

// InitialCash 初始资金。
func (t *Tracker) InitialCash() float64 { return t.initialCash }

// RealizedPnL 累计已实现盈亏（毛额）。
func (t *Tracker) RealizedPnL() float64 { return t.realized }

// NetRealizedPnL 扣除累计交易成本后的已实现盈亏。
func (t *Tracker) NetRealizedPnL() float64 { return t.realized - t.totalCosts }

// TotalCosts 累计交易成本。
func (t *Tracker) TotalCosts() float64 { return t.totalCosts }

// Position 返回某标的当前仓位。不存在则返回零值。
func (t *Tracker) Position(symbol string) Position {
	p, ok := t.positions[symbol]
	if !ok {
		return Position{Symbol: symbol}
	}
	return p
}

// Positions 返回全部非零仓位（拷贝）。
func (t *Tracker) Positions() map[string]Position {
	out := make(map[string]Position, len(t.positions))
	for k, v := range t.positions {
		out[k] = v
	}
	return out
}

// Blotter 返回按入账顺序排列的成交流水（拷贝）。
func (t *Tracker) Blotter() []order.Fill {
	out := make([]order.Fill, len(t.blotter))
	copy(out, t.blotter)
	return out
}

// NumTrades 成交笔数。
func (t *Tracker) NumTrades() int { return len(t.blotter) }

// FillPnLs 每笔成交的净实现盈亏（含成本），与 Blotter 顺序一致。
func (t *Tracker) FillPnLs() []float64 {
	out := make([]float64, len(t.fillPnLs))
	copy(out, t.fillPnLs)
	return out
}

// BalanceResidual 账本平衡残差：
//
//	cash + Σ(仓位×成本) - 已实现盈亏 + 累计成本 - 初始资金
//
// 任意成交序列之后该值应为 0（浮点误差范围内）。
func (t *Tracker) BalanceResidual() float64 {
	holdings := 0.0
	for _, p := range t.positions {
		holdings += p.Quantity * p.AvgCost
	}
	return t.cash + holdings - t.realized + t.totalCosts - t.initialCash
}
