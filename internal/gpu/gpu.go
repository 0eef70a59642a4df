package gpu

import (
	"context"
	"sync"

	"codeberg.org/mutker/sysalert/internal/errors"
	"codeberg.org/mutker/sysalert/internal/logger"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// GPU is the first NVML device on the host.
type GPU struct {
	ctrl   nvmlController
	device nvml.Device
	name   string
	mu     sync.Mutex
	log    logger.Logger
}

var _ Sensor = (*GPU)(nil)

// New initializes NVML and opens device 0.
func New() (*GPU, error) {
	return newWithController(&nvmlWrapper{}, logger.New("gpu"))
}

func newWithController(ctrl nvmlController, log logger.Logger) (*GPU, error) {
	errFactory := errors.New()

	if err := ctrl.Initialize(); err != nil {
		return nil, err
	}

	count, err := ctrl.GetDeviceCount()
	if err != nil {
		_ = ctrl.Shutdown()
		return nil, err
	}
	if count == 0 {
		_ = ctrl.Shutdown()
		return nil, errFactory.WithMessage(ErrDeviceNotFound, "no NVIDIA GPU found")
	}

	device, err := ctrl.GetDevice(0)
	if err != nil {
		_ = ctrl.Shutdown()
		return nil, err
	}

	g := &GPU{ctrl: ctrl, device: device, log: log}

	if name, ret := device.GetName(); IsNVMLSuccess(ret) {
		g.name = name
		log.Info().Msgf("Detected GPU: %v", name)
	} else {
		log.Warn().Msgf("Failed to get GPU name: %v", nvml.ErrorString(ret))
	}

	return g, nil
}

func (g *GPU) Name() string {
	return g.name
}

// Temperature returns the core temperature in Celsius.
func (g *GPU) Temperature(ctx context.Context) (float64, error) {
	errFactory := errors.New()

	if err := ctx.Err(); err != nil {
		return 0, errFactory.Wrap(errors.ErrTimeout, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.device == nil {
		return 0, errFactory.New(ErrNotInitialized)
	}

	temp, ret := g.device.GetTemperature(nvml.TEMPERATURE_GPU)
	if !IsNVMLSuccess(ret) {
		return 0, errFactory.Wrap(ErrTemperatureReadFailed, newNVMLError(ret))
	}

	return float64(temp), nil
}

func (g *GPU) Shutdown() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.device = nil

	return g.ctrl.Shutdown()
}
