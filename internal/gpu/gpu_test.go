package gpu

import (
	"context"
	"testing"

	"codeberg.org/mutker/sysalert/internal/errors"
	"codeberg.org/mutker/sysalert/internal/logger"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	nvml.Device
	temp uint32
	ret  nvml.Return
}

func (d *fakeDevice) GetName() (string, nvml.Return) {
	return "NVIDIA GeForce RTX 4080", nvml.SUCCESS
}

func (d *fakeDevice) GetTemperature(nvml.TemperatureSensors) (uint32, nvml.Return) {
	return d.temp, d.ret
}

type fakeController struct {
	device   nvml.Device
	count    int
	initErr  error
	shutdown int
}

func (c *fakeController) Initialize() error { return c.initErr }

func (c *fakeController) Shutdown() error {
	c.shutdown++
	return nil
}

func (c *fakeController) GetDeviceCount() (int, error) { return c.count, nil }

func (c *fakeController) GetDevice(int) (nvml.Device, error) { return c.device, nil }

func TestTemperature(t *testing.T) {
	device := &fakeDevice{temp: 72, ret: nvml.SUCCESS}
	ctrl := &fakeController{device: device, count: 1}

	g, err := newWithController(ctrl, logger.New("gpu"))
	require.NoError(t, err)
	assert.Equal(t, "NVIDIA GeForce RTX 4080", g.Name())

	temp, err := g.Temperature(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 72.0, temp)

	device.ret = nvml.ERROR_GPU_IS_LOST
	_, err = g.Temperature(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrTemperatureReadFailed))

	require.NoError(t, g.Shutdown())
	assert.Equal(t, 1, ctrl.shutdown)

	_, err = g.Temperature(context.Background())
	assert.True(t, errors.HasCode(err, ErrNotInitialized))
}

func TestTemperatureCanceled(t *testing.T) {
	g, err := newWithController(&fakeController{device: &fakeDevice{temp: 50}, count: 1}, logger.New("gpu"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = g.Temperature(ctx)
	assert.True(t, errors.HasCode(err, errors.ErrTimeout))
}

func TestNoDevices(t *testing.T) {
	ctrl := &fakeController{count: 0}

	_, err := newWithController(ctrl, logger.New("gpu"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrDeviceNotFound))
	assert.Equal(t, 1, ctrl.shutdown)
}

func TestInitFailure(t *testing.T) {
	ctrl := &fakeController{initErr: errors.New().Wrap(ErrInitFailed, newNVMLError(nvml.ERROR_LIBRARY_NOT_FOUND))}

	_, err := newWithController(ctrl, logger.New("gpu"))
	assert.True(t, errors.HasCode(err, ErrInitFailed))
}
