package market

import (
	"fmt"
	"time"
)

// Bar represents one interval's OHLCV data.
type Bar struct {
	Ts     time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series 按时间升序排列的K线序列。
type Series []Bar

// Validate 检查时间戳严格递增、价格有效。
func (s Series) Validate() error {
	for i, b := range s {
		if b.High < b.Low {
			return fmt.Errorf("bar %d: high %.8f < low %.8f", i, b.High, b.Low)
		}
		if b.Open <= 0 || b.Close <= 0 {
			return fmt.Errorf("bar %d: non-positive open/close", i)
		}
		if i > 0 && !b.Ts.After(s[i-1].Ts) {
			return fmt.Errorf("bar %d: timestamp %s not after previous %s", i, b.Ts, s[i-1].Ts)
		}
	}
	return nil
}

// Closes 返回收盘价序列（拷贝）。
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}
