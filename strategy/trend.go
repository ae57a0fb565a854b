package strategy

import (
	"backtest-engine-go/order"
)

// TrendConfig 趋势跟踪（双均线交叉）参数。
type TrendConfig struct {
	Symbol       string  `yaml:"symbol"`
	ShortWindow  int     `yaml:"shortWindow"`  // 短均线窗口，默认 20
	LongWindow   int     `yaml:"longWindow"`   // 长均线窗口，默认 50
	PositionSize float64 `yaml:"positionSize"` // 每次下单数量，默认 1
}

func (c *TrendConfig) applyDefaults() {
	if c.ShortWindow <= 0 {
		c.ShortWindow = 20
	}
	if c.LongWindow <= 0 {
		c.LongWindow = 50
	}
	if c.PositionSize <= 0 {
		c.PositionSize = 1
	}
}

// TrendFollowing 短均线上穿长均线买入，下穿卖出平仓。
type TrendFollowing struct {
	cfg TrendConfig
}

func NewTrendFollowing(cfg TrendConfig) (*TrendFollowing, error) {
	cfg.applyDefaults()
	if cfg.Symbol == "" {
		return nil, errMissingSymbol
	}
	if cfg.ShortWindow >= cfg.LongWindow {
		return nil, errBadWindows
	}
	return &TrendFollowing{cfg: cfg}, nil
}

func (s *TrendFollowing) Name() string      { return "trend_following" }
func (s *TrendFollowing) Symbols() []string { return []string{s.cfg.Symbol} }

func (s *TrendFollowing) OnBar(ctx Context) []order.Order {
	closes := ctx.History[s.cfg.Symbol].Closes()
	if len(closes) < s.cfg.LongWindow+1 {
		return nil
	}

	shortNow, _ := sma(closes, s.cfg.ShortWindow)
	longNow, _ := sma(closes, s.cfg.LongWindow)
	prev := closes[:len(closes)-1]
	shortPrev, _ := sma(prev, s.cfg.ShortWindow)
	longPrev, _ := sma(prev, s.cfg.LongWindow)

	pos := ctx.Book.Position(s.cfg.Symbol).Quantity

	// 金叉：短均线自下而上穿越长均线
	if shortPrev <= longPrev && shortNow > longNow && pos <= 0 {
		if o, err := order.NewMarket(s.cfg.Symbol, order.SideBuy, s.cfg.PositionSize); err == nil {
			return []order.Order{o}
		}
	}
	// 死叉：平多
	if shortPrev >= longPrev && shortNow < longNow && pos > 0 {
		if o, err := order.NewMarket(s.cfg.Symbol, order.SideSell, pos); err == nil {
			return []order.Order{o}
		}
	}
	return nil
}
