package strategy

import "math"

// sma 最近 window 个值的简单移动平均。数据不足返回 (0, false)。
func sma(values []float64, window int) (float64, bool) {
	if window <= 0 || len(values) < window {
		return 0, false
	}
	sum := 0.0
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window), true
}

// stdev 最近 window 个值的总体标准差。
func stdev(values []float64, window int) (float64, bool) {
	mean, ok := sma(values, window)
	if !ok {
		return 0, false
	}
	variance := 0.0
	for _, v := range values[len(values)-window:] {
		d := v - mean
		variance += d * d
	}
	variance /= float64(window)
	return math.Sqrt(variance), true
}
