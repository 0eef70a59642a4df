package gpu

import "context"

// Sensor reads the temperature of one GPU.
type Sensor interface {
	Temperature(ctx context.Context) (float64, error)
	Name() string
	Shutdown() error
}
