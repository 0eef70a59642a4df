package notifier

import "codeberg.org/mutker/sysalert/internal/errors"

const (
	ErrInvalidWebhook = errors.ErrorCode("notifier_invalid_webhook")
	ErrNoBrokers      = errors.ErrorCode("notifier_no_brokers")
	ErrEncodeFailed   = errors.ErrorCode("notifier_encode_failed")
	ErrDeliveryFailed = errors.ErrorCode("notifier_delivery_failed")
	ErrPublishFailed  = errors.ErrorCode("notifier_publish_failed")
)
