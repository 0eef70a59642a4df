package alert

import "codeberg.org/mutker/sysalert/internal/errors"

const (
	ErrUnknownType     = errors.ErrorCode("alert_unknown_type")
	ErrSamplerFailed   = errors.ErrorCode("alert_sampler_failed")
	ErrSamplerPanic    = errors.ErrorCode("alert_sampler_panic")
	ErrFamilyTimeout   = errors.ErrorCode("alert_family_timeout")
	ErrFamilyBusy      = errors.ErrorCode("alert_family_busy")
	ErrObserverFailed  = errors.ErrorCode("alert_observer_failed")
	ErrObserverPanic   = errors.ErrorCode("alert_observer_panic")
	ErrInvalidCooldown = errors.ErrInvalidCooldown
)
