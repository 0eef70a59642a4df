package sampler

import "codeberg.org/mutker/sysalert/internal/errors"

const (
	ErrSensorsReadFailed = errors.ErrorCode("sampler_sensors_read_failed")
	ErrMemoryReadFailed  = errors.ErrorCode("sampler_memory_read_failed")
	ErrBatteryReadFailed = errors.ErrorCode("sampler_battery_read_failed")
	ErrGPUReadFailed     = errors.ErrorCode("sampler_gpu_read_failed")
)
