package strategy

import (
	"backtest-engine-go/order"
)

// MeanRevConfig 均值回归（布林带）参数。
type MeanRevConfig struct {
	Symbol       string  `yaml:"symbol"`
	Window       int     `yaml:"window"`       // 布林带窗口，默认 20
	NumStd       float64 `yaml:"numStd"`       // 标准差倍数，默认 2.0
	PositionSize float64 `yaml:"positionSize"` // 每次下单数量，默认 1
}

func (c *MeanRevConfig) applyDefaults() {
	if c.Window <= 0 {
		c.Window = 20
	}
	if c.NumStd <= 0 {
		c.NumStd = 2.0
	}
	if c.PositionSize <= 0 {
		c.PositionSize = 1
	}
}

// MeanReversion 价格跌破下轨买入，升破上轨卖出，回到中轨平仓。
type MeanReversion struct {
	cfg MeanRevConfig
}

func NewMeanReversion(cfg MeanRevConfig) (*MeanReversion, error) {
	cfg.applyDefaults()
	if cfg.Symbol == "" {
		return nil, errMissingSymbol
	}
	return &MeanReversion{cfg: cfg}, nil
}

func (s *MeanReversion) Name() string      { return "mean_reversion" }
func (s *MeanReversion) Symbols() []string { return []string{s.cfg.Symbol} }

func (s *MeanReversion) OnBar(ctx Context) []order.Order {
	closes := ctx.History[s.cfg.Symbol].Closes()
	mid, ok := sma(closes, s.cfg.Window)
	if !ok {
		return nil
	}
	sd, _ := stdev(closes, s.cfg.Window)
	upper := mid + s.cfg.NumStd*sd
	lower := mid - s.cfg.NumStd*sd

	price := closes[len(closes)-1]
	pos := ctx.Book.Position(s.cfg.Symbol).Quantity

	switch {
	case price < lower && pos == 0:
		if o, err := order.NewMarket(s.cfg.Symbol, order.SideBuy, s.cfg.PositionSize); err == nil {
			return []order.Order{o}
		}
	case price > upper && pos == 0:
		if o, err := order.NewMarket(s.cfg.Symbol, order.SideSell, s.cfg.PositionSize); err == nil {
			return []order.Order{o}
		}
	case pos > 0 && price >= mid:
		// 回到中轨，平多
		if o, err := order.NewMarket(s.cfg.Symbol, order.SideSell, pos); err == nil {
			return []order.Order{o}
		}
	case pos < 0 && price <= mid:
		// 回到中轨，平空
		if o, err := order.NewMarket(s.cfg.Symbol, order.SideBuy, -pos); err == nil {
			return []order.Order{o}
		}
	}
	return nil
}
