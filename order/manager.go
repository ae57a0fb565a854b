package order

import (
	"fmt"

	"go.uber.org/zap"

	"backtest-engine-go/market"
)

// Executor 将一张已接受的订单与当前K线撮合，至多产生一笔全额成交。
// 第二个返回值为 false 表示本周期未触发（不是错误）。
type Executor interface {
	Resolve(o Order, bar market.Bar) (Fill, bool)
}

// Ledger 接收成交并入账。
type Ledger interface {
	ApplyFill(f Fill) error
}

// Manager 维护订单登记表并驱动状态机；是订单状态的唯一写入方。
type Manager struct {
	sm          *StateMachine
	exec        Executor
	ledger      Ledger
	log         *zap.Logger
	orders      map[string]*Order
	open        []string // 未到终态的订单ID，按提交顺序
	constraints map[string]SymbolConstraints
	seq         int
}

func NewManager(exec Executor, ledger Ledger, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		sm:     NewStateMachine(),
		exec:   exec,
		ledger: ledger,
		log:    log,
		orders: make(map[string]*Order),
	}
}

// SetConstraints 设置各标的的业务限制。
func (m *Manager) SetConstraints(c map[string]SymbolConstraints) {
	m.constraints = make(map[string]SymbolConstraints, len(c))
	for sym, sc := range c {
		m.constraints[sym] = sc
	}
}

// Submit 校验订单并登记；通过后立刻尝试在当前K线上撮合。
// 校验失败时订单以 REJECTED 状态登记，账本不发生任何变化。
// 撮合未触发时订单保持 ACCEPTED，等待后续K线。
func (m *Manager) Submit(o Order, bar market.Bar) (Order, *Fill, error) {
	if err := m.validate(o, bar); err != nil {
		o.Status = StatusRejected
		if o.ID == "" {
			o.ID = m.nextID(o.Symbol)
		}
		rejected := o
		m.orders[o.ID] = &rejected
		m.log.Debug("order rejected",
			zap.String("order_id", o.ID),
			zap.String("symbol", o.Symbol),
			zap.Error(err))
		return rejected, nil, err
	}

	if o.ID == "" {
		o.ID = m.nextID(o.Symbol)
	}
	o.Status = StatusAccepted
	stored := o
	m.orders[o.ID] = &stored
	m.open = append(m.open, o.ID)
	m.log.Debug("order accepted",
		zap.String("order_id", o.ID),
		zap.String("symbol", o.Symbol),
		zap.String("side", string(o.Side)),
		zap.String("type", string(o.Type)),
		zap.Float64("qty", o.Quantity))

	fill, err := m.route(&stored, bar)
	if err != nil {
		return stored, nil, err
	}
	return stored, fill, nil
}

// SweepOpen 对指定标的的全部未成交订单按提交顺序重试撮合。
// 返回本周期产生的成交，顺序与提交顺序一致。
func (m *Manager) SweepOpen(symbol string, bar market.Bar) ([]Fill, error) {
	var fills []Fill
	for _, id := range append([]string(nil), m.open...) {
		o, ok := m.orders[id]
		if !ok || o.Symbol != symbol || o.Status != StatusAccepted {
			continue
		}
		fill, err := m.route(o, bar)
		if err != nil {
			return fills, err
		}
		if fill != nil {
			fills = append(fills, *fill)
		}
	}
	return fills, nil
}

// route 将订单送入执行器。成交则入账并置 FILLED；未触发回到 ACCEPTED。
// 入账失败时订单回到 ACCEPTED，账本保持原样。
func (m *Manager) route(o *Order, bar market.Bar) (*Fill, error) {
	if err := m.transition(o, StatusRouted); err != nil {
		return nil, err
	}
	fill, ok := m.exec.Resolve(*o, bar)
	if !ok {
		if err := m.transition(o, StatusAccepted); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := m.ledger.ApplyFill(fill); err != nil {
		if terr := m.transition(o, StatusAccepted); terr != nil {
			return nil, terr
		}
		return nil, fmt.Errorf("apply fill for order %s: %w", o.ID, err)
	}
	if err := m.transition(o, StatusFilled); err != nil {
		return nil, err
	}
	m.removeOpen(o.ID)
	m.log.Debug("order filled",
		zap.String("order_id", o.ID),
		zap.Float64("price", fill.Price),
		zap.Float64("qty", fill.Quantity),
		zap.Float64("cost", fill.Cost))
	return &fill, nil
}

// Cancel 撤销一张尚未成交的订单。已成交/已撤销的订单返回 ErrInvalidState，
// 登记表与账本均不发生变化。
func (m *Manager) Cancel(id string) error {
	o, ok := m.orders[id]
	if !ok {
		return ErrUnknownOrder
	}
	if !m.sm.CanCancel(o.Status) {
		return fmt.Errorf("%w: cancel %s order %s", ErrInvalidState, o.Status, id)
	}
	if err := m.transition(o, StatusCancelled); err != nil {
		return err
	}
	m.removeOpen(id)
	m.log.Debug("order cancelled", zap.String("order_id", id))
	return nil
}

// Get 返回订单当前快照。
func (m *Manager) Get(id string) (Order, bool) {
	o, ok := m.orders[id]
	if !ok {
		return Order{}, false
	}
	return *o, true
}

// BySymbol 返回指定标的的全部订单（拷贝）。
func (m *Manager) BySymbol(symbol string) []Order {
	var res []Order
	for _, o := range m.orders {
		if o.Symbol == symbol {
			res = append(res, *o)
		}
	}
	return res
}

// ByStatus 返回指定状态的全部订单（拷贝）。
func (m *Manager) ByStatus(st Status) []Order {
	var res []Order
	for _, o := range m.orders {
		if o.Status == st {
			res = append(res, *o)
		}
	}
	return res
}

// OpenCount 当前未到终态的订单数。
func (m *Manager) OpenCount() int {
	return len(m.open)
}

func (m *Manager) validate(o Order, bar market.Bar) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if c, ok := m.constraints[o.Symbol]; ok {
		if err := c.Validate(o, bar.Close); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) transition(o *Order, to Status) error {
	if err := m.sm.ValidateTransition(o.Status, to); err != nil {
		return err
	}
	o.Status = to
	return nil
}

func (m *Manager) removeOpen(id string) {
	for i, v := range m.open {
		if v == id {
			m.open = append(m.open[:i], m.open[i+1:]...)
			return
		}
	}
}

func (m *Manager) nextID(symbol string) string {
	m.seq++
	return fmt.Sprintf("%s-%06d", symbol, m.seq)
}
