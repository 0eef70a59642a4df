package alert

import "context"

// BatteryStatus is a single battery reading.
type BatteryStatus struct {
	Present       bool
	Charging      bool
	ChargePercent float64
}

// Sampler reads the metrics the monitor evaluates. Temperatures are in
// Celsius, with values <= 0 meaning unavailable.
type Sampler interface {
	CPUTemperature(ctx context.Context) (float64, error)
	GPUTemperature(ctx context.Context) (float64, error)
	MemoryUsage(ctx context.Context) (float64, error)
	BatteryStatus(ctx context.Context) (BatteryStatus, error)
}
