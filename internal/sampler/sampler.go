// Package sampler reads host metrics for the alert monitor.
package sampler

import (
	"context"

	"codeberg.org/mutker/sysalert/internal/alert"
	"codeberg.org/mutker/sysalert/internal/errors"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/afero"
)

// TemperatureReader reads one temperature in Celsius; <= 0 means unavailable.
type TemperatureReader interface {
	Temperature(ctx context.Context) (float64, error)
}

type sensorsFunc func(ctx context.Context) ([]host.TemperatureStat, error)

type memoryFunc func(ctx context.Context) (*mem.VirtualMemoryStat, error)

// System implements alert.Sampler for the local host.
type System struct {
	sensors sensorsFunc
	memory  memoryFunc
	battery *Battery
	gpu     TemperatureReader
}

var _ alert.Sampler = (*System)(nil)

type Option func(*System)

// WithGPU sets the GPU temperature source. Without one the GPU reads as
// unavailable.
func WithGPU(r TemperatureReader) Option {
	return func(s *System) {
		s.gpu = r
	}
}

// WithFs reads power supply state from fs.
func WithFs(fs afero.Fs) Option {
	return func(s *System) {
		s.battery = NewBattery(fs)
	}
}

func New(opts ...Option) *System {
	s := &System{
		sensors: host.SensorsTemperaturesWithContext,
		memory:  mem.VirtualMemoryWithContext,
		battery: NewBattery(afero.NewOsFs()),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *System) CPUTemperature(ctx context.Context) (float64, error) {
	stats, err := s.sensors(ctx)
	if len(stats) == 0 && err != nil {
		return 0, errors.New().Wrap(ErrSensorsReadFailed, err)
	}

	return pickCPUTemperature(stats), nil
}

func (s *System) GPUTemperature(ctx context.Context) (float64, error) {
	if s.gpu == nil {
		return 0, nil
	}

	temp, err := s.gpu.Temperature(ctx)
	if err != nil {
		return 0, errors.New().Wrap(ErrGPUReadFailed, err)
	}

	return temp, nil
}

func (s *System) MemoryUsage(ctx context.Context) (float64, error) {
	vm, err := s.memory(ctx)
	if err != nil {
		return 0, errors.New().Wrap(ErrMemoryReadFailed, err)
	}

	return vm.UsedPercent, nil
}

func (s *System) BatteryStatus(ctx context.Context) (alert.BatteryStatus, error) {
	return s.battery.Status(ctx)
}
