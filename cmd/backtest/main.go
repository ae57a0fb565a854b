package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"backtest-engine-go/backtest"
	"backtest-engine-go/config"
	"backtest-engine-go/infrastructure/logger"
	"backtest-engine-go/market"
	"backtest-engine-go/metrics"
	"backtest-engine-go/order"
	"backtest-engine-go/portfolio"
	"backtest-engine-go/sim"
	"backtest-engine-go/store"
	"backtest-engine-go/strategy"
)

// 配置驱动的回测入口。
// 用法：
//
//	go run ./cmd/backtest -config configs/config.yaml -out result.json
//	go run ./cmd/backtest -config configs/config.yaml -watch -metrics :9090
func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	outPath := flag.String("out", "", "若指定则导出结果 JSON")
	metricsAddr := flag.String("metrics", "", "若指定则启动 Prometheus 指标服务，如 :9090")
	watch := flag.Bool("watch", false, "监听配置文件变化并自动重跑")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zlog, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zlog.Close()

	if *metricsAddr != "" {
		metrics.StartMetricsServer(*metricsAddr)
		zlog.Info("metrics server started", zap.String("addr", *metricsAddr))
	}

	runOnce(cfg, zlog, *outPath)

	if !*watch {
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	zlog.Info("watching config for changes", zap.String("path", *cfgPath))
	w := config.Watcher{Path: *cfgPath, Cooldown: 2 * time.Second}
	_ = w.Start(ctx, func(newCfg config.AppConfig) {
		zlog.Info("config changed, rerunning backtest")
		runOnce(newCfg, zlog, *outPath)
	})
}

func runOnce(cfg config.AppConfig, zlog *logger.Logger, outPath string) {
	strat, err := strategy.New(cfg.Strategy)
	if err != nil {
		zlog.Error("初始化策略失败", zap.Error(err))
		return
	}

	var feed market.Feed = &market.CSVFeed{Paths: cfg.Data.Files}
	if cfg.Data.CacheTTLMinutes > 0 {
		feed = market.NewCachedFeed(feed, time.Duration(cfg.Data.CacheTTLMinutes)*time.Minute)
	}

	constraints := make(map[string]order.SymbolConstraints, len(cfg.Symbols))
	for sym, sl := range cfg.Symbols {
		constraints[sym] = order.SymbolConstraints{
			MinQty:      sl.MinQty,
			MaxQty:      sl.MaxQty,
			MaxNotional: sl.MaxNotional,
		}
	}

	engine, err := backtest.New(backtest.Config{
		InitialCash: cfg.Engine.InitialCash,
		Costs: sim.CostConfig{
			SpreadBps:    cfg.Costs.SpreadBps,
			SlippageRate: cfg.Costs.SlippageRate,
			FeeRate:      cfg.Costs.FeeRate,
		},
		Metrics: portfolio.MetricsConfig{
			RiskFreeAnnual: cfg.Engine.RiskFreeRate,
			PeriodsPerYear: cfg.Data.PeriodsPerYear(),
		},
		Constraints: constraints,
	}, strat, feed, zlog.Logger)
	if err != nil {
		zlog.Error("初始化引擎失败", zap.Error(err))
		return
	}

	result, err := engine.Run()
	if err != nil {
		zlog.Error("回测失败", zap.Error(err))
		return
	}
	result.Print()

	if outPath != "" {
		if err := store.ExportJSON(outPath, result); err != nil {
			zlog.Error("导出结果失败", zap.Error(err))
		} else {
			zlog.Info("result exported", zap.String("path", outPath))
		}
	}

	if cfg.Storage.DSN != "" {
		persist(cfg.Storage.DSN, result, zlog)
	}
}

func persist(dsn string, result *backtest.Result, zlog *logger.Logger) {
	db, err := store.Open(dsn)
	if err != nil {
		zlog.Error("连接结果库失败", zap.Error(err))
		return
	}
	defer db.Close()

	if err := store.EnsureSchema(db); err != nil {
		zlog.Error("初始化表结构失败", zap.Error(err))
		return
	}
	repo := store.NewRunRepository(db)
	runID, err := repo.SaveRun(result)
	if err != nil {
		zlog.Error("保存回测结果失败", zap.Error(err))
		return
	}
	zlog.Info("run persisted", zap.Int64("run_id", runID))
}
