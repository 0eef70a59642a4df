package telemetry

import (
	"context"
	"time"
)

// Metric names written to the readings table.
const (
	MetricCPUTemperature = "cpu_temperature"
	MetricGPUTemperature = "gpu_temperature"
	MetricMemoryUsage    = "memory_usage"
	MetricBatteryPercent = "battery_percent"
)

// Collector defines the core domain interface
type Collector interface {
	Record(ctx context.Context, reading Reading) error
	Close() error
}

// Repository defines the interface for reading storage
type Repository interface {
	Record(reading Reading) error
	Close() error
}

// Reading is one raw sensor value taken during a monitoring cycle.
type Reading struct {
	Timestamp time.Time
	Metric    string
	Value     float64
}
