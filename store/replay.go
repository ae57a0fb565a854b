package store

import (
	"fmt"
	"math"

	"backtest-engine-go/order"
	"backtest-engine-go/portfolio"
)

// Replay 将持久化的成交流水按原顺序重放到一个全新账本上。
// 重放是确定性的：同一序列总是得到同一个账本状态。
func Replay(initialCash float64, fills []order.Fill) (*portfolio.Tracker, error) {
	tracker := portfolio.NewTracker(initialCash)
	for i, f := range fills {
		if err := tracker.ApplyFill(f); err != nil {
			return nil, fmt.Errorf("replay fill %d (%s): %w", i, f.OrderID, err)
		}
	}
	return tracker, nil
}

// VerifyRun 重放一次运行并核对终值现金。
func VerifyRun(rec *RunRecord, fills []order.Fill) error {
	tracker, err := Replay(rec.InitialCash, fills)
	if err != nil {
		return err
	}
	if math.Abs(tracker.Cash()-rec.FinalCash) > 1e-6 {
		return fmt.Errorf("replayed cash %.6f does not match stored %.6f", tracker.Cash(), rec.FinalCash)
	}
	return nil
}
