package market

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Feed supplies historical bars per symbol. Implementations must return
// bars in ascending timestamp order with strictly increasing timestamps.
type Feed interface {
	History(symbol string) (Series, error)
}

// CSVFeed 从本地 CSV 文件读取历史K线。
// 每行: timestamp(RFC3339或unix秒),open,high,low,close,volume
type CSVFeed struct {
	Paths map[string]string // symbol -> csv path
}

func (f *CSVFeed) History(symbol string) (Series, error) {
	path, ok := f.Paths[symbol]
	if !ok {
		return nil, fmt.Errorf("no data file configured for symbol %s", symbol)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	series := make(Series, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		ts, err := parseTimestamp(row[0])
		if err != nil {
			// 跳过表头等无法解析的行
			continue
		}
		vals := make([]float64, 5)
		bad := false
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(row[i+1], 64)
			if err != nil {
				bad = true
				break
			}
			vals[i] = v
		}
		if bad {
			continue
		}
		series = append(series, Bar{
			Ts:     ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return series, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// CachedFeed 给底层 Feed 加一层带 TTL 的缓存，避免重复读盘。
// 缓存生命周期显式有界，过期后重新拉取。
type CachedFeed struct {
	Source Feed
	TTL    time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	series   Series
	loadedAt time.Time
}

func NewCachedFeed(source Feed, ttl time.Duration) *CachedFeed {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CachedFeed{
		Source:  source,
		TTL:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *CachedFeed) History(symbol string) (Series, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[symbol]; ok && c.now().Sub(e.loadedAt) < c.TTL {
		return e.series, nil
	}
	series, err := c.Source.History(symbol)
	if err != nil {
		return nil, err
	}
	c.entries[symbol] = cacheEntry{series: series, loadedAt: c.now()}
	return series, nil
}
