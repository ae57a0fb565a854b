package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"backtest-engine-go/infrastructure/logger"
	"backtest-engine-go/strategy"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env      string                  `yaml:"env"`
	Logging  logger.Config           `yaml:"logging"`
	Engine   EngineConfig            `yaml:"engine"`
	Costs    CostConfig              `yaml:"costs"`
	Data     DataConfig              `yaml:"data"`
	Storage  StorageConfig           `yaml:"storage"`
	Symbols  map[string]SymbolLimits `yaml:"symbols"`
	Strategy strategy.Config         `yaml:"strategy"`
}

type EngineConfig struct {
	InitialCash  float64 `yaml:"initialCash"`
	RiskFreeRate float64 `yaml:"riskFreeRate"` // 年化无风险利率
}

// CostConfig 模拟成交的成本参数。
type CostConfig struct {
	SpreadBps    float64 `yaml:"spreadBps"`
	SlippageRate float64 `yaml:"slippageRate"`
	FeeRate      float64 `yaml:"feeRate"`
}

// DataConfig 行情数据来源与缓存设置。
type DataConfig struct {
	Interval        string            `yaml:"interval"` // 1d / 1h / 5m
	CacheTTLMinutes int               `yaml:"cacheTTLMinutes"`
	Files           map[string]string `yaml:"files"` // symbol -> csv path
}

// PeriodsPerYear 根据数据周期推算年化周期数。
func (d DataConfig) PeriodsPerYear() float64 {
	switch d.Interval {
	case "1h":
		return 24 * 365
	case "5m":
		return 12 * 24 * 365
	default: // 1d
		return 252
	}
}

// StorageConfig 可选的结果持久化（Postgres）。DSN 为空则不持久化。
type StorageConfig struct {
	DSN string `yaml:"dsn"`
}

// SymbolLimits 单标的业务限制。
type SymbolLimits struct {
	MinQty      float64 `yaml:"minQty"`
	MaxQty      float64 `yaml:"maxQty"`
	MaxNotional float64 `yaml:"maxNotional"`
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides sensitive fields from env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("BT_STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	return cfg, nil
}
