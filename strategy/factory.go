package strategy

import (
	"errors"
	"fmt"
)

var (
	errMissingSymbol = errors.New("strategy config requires a symbol")
	errBadWindows    = errors.New("short window must be less than long window")
	errSameSymbols   = errors.New("pair legs must be different symbols")
)

// Config 策略配置。Name 决定使用哪一组参数；
// 未填写的参数采用各策略自己的默认值。
type Config struct {
	Name string `yaml:"name"` // trend_following | mean_reversion | pairs_spread

	Symbol       string  `yaml:"symbol"`
	Symbol2      string  `yaml:"symbol2"`
	PositionSize float64 `yaml:"positionSize"`

	// trend_following
	ShortWindow int `yaml:"shortWindow"`
	LongWindow  int `yaml:"longWindow"`

	// mean_reversion
	Window int     `yaml:"window"`
	NumStd float64 `yaml:"numStd"`

	// pairs_spread
	Threshold float64 `yaml:"threshold"`
	Lookback  int     `yaml:"lookback"`
}

// New creates a strategy instance from configuration.
func New(cfg Config) (Strategy, error) {
	switch cfg.Name {
	case "trend_following":
		return NewTrendFollowing(TrendConfig{
			Symbol:       cfg.Symbol,
			ShortWindow:  cfg.ShortWindow,
			LongWindow:   cfg.LongWindow,
			PositionSize: cfg.PositionSize,
		})
	case "mean_reversion":
		return NewMeanReversion(MeanRevConfig{
			Symbol:       cfg.Symbol,
			Window:       cfg.Window,
			NumStd:       cfg.NumStd,
			PositionSize: cfg.PositionSize,
		})
	case "pairs_spread":
		return NewPairsSpread(PairsConfig{
			Symbol1:      cfg.Symbol,
			Symbol2:      cfg.Symbol2,
			Threshold:    cfg.Threshold,
			Lookback:     cfg.Lookback,
			PositionSize: cfg.PositionSize,
		})
	default:
		return nil, fmt.Errorf("unknown strategy: %q", cfg.Name)
	}
}
