// Package metrics provides Prometheus metrics for the backtest engine
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OrdersSubmitted 提交到订单管理器的订单总数
	OrdersSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backtest_orders_submitted_total",
		Help: "Total number of orders submitted to the order manager",
	})

	// OrdersRejected 校验失败被拒绝的订单总数
	OrdersRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backtest_orders_rejected_total",
		Help: "Total number of orders rejected during validation",
	})

	// FillsTotal 模拟成交总数
	FillsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backtest_fills_total",
		Help: "Total number of simulated fills",
	})

	// RunsCompleted 完成的回测次数
	RunsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backtest_runs_completed_total",
		Help: "Total number of completed backtest runs",
	})

	// EquityCurrent 当前组合权益
	EquityCurrent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "backtest_equity_current",
		Help: "Current portfolio equity during replay",
	})

	// MaxDrawdownPct 最近一次回测的最大回撤（百分比）
	MaxDrawdownPct = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "backtest_max_drawdown_pct",
		Help: "Maximum drawdown of the last completed run, percent",
	})
)

// StartMetricsServer 启动Prometheus指标服务器
func StartMetricsServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, nil)
	}()
}
