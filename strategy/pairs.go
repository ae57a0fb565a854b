package strategy

import (
	"backtest-engine-go/order"
)

// PairsConfig 配对价差（跨标的套利）参数。
type PairsConfig struct {
	Symbol1      string  `yaml:"symbol1"`
	Symbol2      string  `yaml:"symbol2"`
	Threshold    float64 `yaml:"threshold"`    // 价差偏离阈值（标准差倍数），默认 2.0
	Lookback     int     `yaml:"lookback"`     // 回看窗口，默认 30
	PositionSize float64 `yaml:"positionSize"` // 每腿下单数量，默认 1
}

func (c *PairsConfig) applyDefaults() {
	if c.Threshold <= 0 {
		c.Threshold = 2.0
	}
	if c.Lookback <= 0 {
		c.Lookback = 30
	}
	if c.PositionSize <= 0 {
		c.PositionSize = 1
	}
}

// PairsSpread 对两个相关标的做价差回归：价差偏离均值超过阈值时
// 做多便宜腿、做空昂贵腿，价差回归后双腿平仓。
type PairsSpread struct {
	cfg PairsConfig
}

func NewPairsSpread(cfg PairsConfig) (*PairsSpread, error) {
	cfg.applyDefaults()
	if cfg.Symbol1 == "" || cfg.Symbol2 == "" {
		return nil, errMissingSymbol
	}
	if cfg.Symbol1 == cfg.Symbol2 {
		return nil, errSameSymbols
	}
	return &PairsSpread{cfg: cfg}, nil
}

func (s *PairsSpread) Name() string      { return "pairs_spread" }
func (s *PairsSpread) Symbols() []string { return []string{s.cfg.Symbol1, s.cfg.Symbol2} }

func (s *PairsSpread) OnBar(ctx Context) []order.Order {
	c1 := ctx.History[s.cfg.Symbol1].Closes()
	c2 := ctx.History[s.cfg.Symbol2].Closes()
	n := len(c1)
	if len(c2) < n {
		n = len(c2)
	}
	if n < s.cfg.Lookback {
		return nil
	}

	// 价差序列（简单差值；两腿已按相同时间轴对齐）
	spread := make([]float64, n)
	for i := 0; i < n; i++ {
		spread[i] = c1[len(c1)-n+i] - c2[len(c2)-n+i]
	}
	mean, _ := sma(spread, s.cfg.Lookback)
	sd, ok := stdev(spread, s.cfg.Lookback)
	if !ok || sd == 0 {
		return nil
	}

	z := (spread[n-1] - mean) / sd
	pos1 := ctx.Book.Position(s.cfg.Symbol1).Quantity

	size := s.cfg.PositionSize
	switch {
	case z > s.cfg.Threshold && pos1 == 0:
		// 价差过高：做空第一腿、做多第二腿
		return s.legs(order.SideSell, order.SideBuy, size)
	case z < -s.cfg.Threshold && pos1 == 0:
		// 价差过低：做多第一腿、做空第二腿
		return s.legs(order.SideBuy, order.SideSell, size)
	case pos1 != 0 && z > -0.5 && z < 0.5:
		// 价差回归，双腿平仓
		side1, side2 := order.SideSell, order.SideBuy
		if pos1 < 0 {
			side1, side2 = order.SideBuy, order.SideSell
		}
		return s.legs(side1, side2, size)
	}
	return nil
}

func (s *PairsSpread) legs(side1, side2 order.Side, size float64) []order.Order {
	o1, err1 := order.NewMarket(s.cfg.Symbol1, side1, size)
	o2, err2 := order.NewMarket(s.cfg.Symbol2, side2, size)
	if err1 != nil || err2 != nil {
		return nil
	}
	return []order.Order{o1, o2}
}
