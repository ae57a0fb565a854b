package config

import "fmt"

// ErrInvalid 用于参数验证错误。
type ErrInvalid string

func (e ErrInvalid) Error() string { return string(e) }

// Validate ensures required fields are present.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return ErrInvalid("env is required")
	}
	if cfg.Engine.InitialCash <= 0 {
		return ErrInvalid("engine.initialCash must be > 0")
	}
	if cfg.Costs.SpreadBps < 0 {
		return ErrInvalid("costs.spreadBps must be >= 0")
	}
	if cfg.Costs.SlippageRate < 0 {
		return ErrInvalid("costs.slippageRate must be >= 0")
	}
	if cfg.Costs.FeeRate < 0 {
		return ErrInvalid("costs.feeRate must be >= 0")
	}
	switch cfg.Data.Interval {
	case "", "1d", "1h", "5m":
	default:
		return ErrInvalid(fmt.Sprintf("data.interval %q not supported (1d/1h/5m)", cfg.Data.Interval))
	}
	if cfg.Data.CacheTTLMinutes < 0 {
		return ErrInvalid("data.cacheTTLMinutes must be >= 0")
	}
	if cfg.Strategy.Name == "" {
		return ErrInvalid("strategy.name is required")
	}
	for sym, sl := range cfg.Symbols {
		if sl.MinQty < 0 || sl.MaxQty < 0 {
			return ErrInvalid(fmt.Sprintf("symbol %s qty bounds must be >= 0", sym))
		}
		if sl.MaxQty > 0 && sl.MinQty > sl.MaxQty {
			return ErrInvalid(fmt.Sprintf("symbol %s minQty > maxQty", sym))
		}
		if sl.MaxNotional < 0 {
			return ErrInvalid(fmt.Sprintf("symbol %s maxNotional must be >= 0", sym))
		}
	}
	return nil
}
