package metrics

import (
	"path"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	mu      sync.RWMutex
	storage tstorage.Storage
)

// Point one sample of a series, Timestamp in unix seconds
type Point struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// InitMetrics opens the time series storage under <workdir>/metrics
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	if storage != nil {
		return nil
	}
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(path.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(6*time.Hour),
		tstorage.WithRetention(7*24*time.Hour),
	)
	if err != nil {
		return errors.Wrap(err, "open metrics storage")
	}
	storage = s
	return nil
}

// SetGauge records value for name at the current second. It is a no-op
// before InitMetrics.
func SetGauge(name string, value int64) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return
	}
	err := storage.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
	}})
	if err != nil {
		zap.L().Warn("metrics insert failed", zap.String("namespace", "metrics"), zap.String("name", name), zap.Error(err))
	}
}

// Series returns the samples of name recorded within the last window
func Series(name string, window time.Duration) ([]Point, error) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return []Point{}, nil
	}
	end := time.Now().Unix() + 1
	points, err := storage.Select(name, nil, end-int64(window/time.Second)-1, end)
	if errors.Is(err, tstorage.ErrNoDataPoints) {
		return []Point{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select %s", name)
	}
	out := make([]Point, 0, len(points))
	for _, p := range points {
		out = append(out, Point{Timestamp: p.Timestamp, Value: p.Value})
	}
	return out, nil
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
