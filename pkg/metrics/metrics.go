package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

// Package metrics keeps a small embedded time-series store under the
// application workdir. All writers go through SetGauge/IncrCounter so
// callers never touch the storage handle directly. Before InitMetrics
// runs (unit tests, tooling) every call is a no-op.

var (
	mu       sync.Mutex
	storage  tstorage.Storage
	counters = make(map[string]int64)
)

func InitMetrics(workdir string) error {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
	)
	if err != nil {
		return err
	}
	mu.Lock()
	storage = s
	mu.Unlock()
	return nil
}

// SetGauge records an instantaneous value for the metric.
func SetGauge(name string, value int64) {
	mu.Lock()
	defer mu.Unlock()
	insertLocked(name, float64(value))
}

// IncrCounter adds delta to a monotonic counter and records the new total.
func IncrCounter(name string, delta int64) {
	mu.Lock()
	defer mu.Unlock()
	counters[name] += delta
	insertLocked(name, float64(counters[name]))
}

// GetCounter returns the in-memory counter total (zero if never incremented).
func GetCounter(name string) int64 {
	mu.Lock()
	defer mu.Unlock()
	return counters[name]
}

func insertLocked(name string, value float64) {
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
		},
	})
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
