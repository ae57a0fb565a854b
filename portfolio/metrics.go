package portfolio

import "math"

// MetricsConfig 绩效指标参数。
type MetricsConfig struct {
	RiskFreeAnnual float64 // 年化无风险利率，默认 0
	PeriodsPerYear float64 // 每年周期数（日线 252，小时线 24*365 等）
}

// Metrics 绩效汇总。
type Metrics struct {
	TotalReturn float64
	SharpeRatio float64
	MaxDrawdown float64
	NumTrades   int
}

// ComputeMetrics 基于权益曲线计算绩效指标。只读、幂等：同一条曲线
// 多次计算结果相同。曲线少于 2 个点时返回 ErrInsufficientData。
func (t *Tracker) ComputeMetrics(equity []float64, cfg MetricsConfig) (Metrics, error) {
	if len(equity) < 2 {
		return Metrics{}, ErrInsufficientData
	}
	if cfg.PeriodsPerYear <= 0 {
		cfg.PeriodsPerYear = 252
	}

	m := Metrics{NumTrades: len(t.blotter)}
	if equity[0] != 0 {
		m.TotalReturn = equity[len(equity)-1]/equity[0] - 1
	}

	// 周期收益率序列
	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1] == 0 {
			continue
		}
		returns = append(returns, equity[i]/equity[i-1]-1)
	}
	m.SharpeRatio = sharpe(returns, cfg.RiskFreeAnnual/cfg.PeriodsPerYear, cfg.PeriodsPerYear)
	m.MaxDrawdown = maxDrawdown(equity)
	return m, nil
}

// sharpe 年化夏普比率 = mean(r - rf) / stdev(r) * sqrt(periodsPerYear)。
func sharpe(returns []float64, riskFreePeriod, periodsPerYear float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean := 0.0
	for _, r := range returns {
		mean += r - riskFreePeriod
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := (r - riskFreePeriod) - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	if variance <= 0 {
		return 0
	}
	return mean / math.Sqrt(variance) * math.Sqrt(periodsPerYear)
}

// maxDrawdown 相对历史峰值的最大回撤比例。
func maxDrawdown(equity []float64) float64 {
	peak := equity[0]
	maxDD := 0.0
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
