package alert_test

import (
	"errors"
	"testing"

	"codeberg.org/mutker/sysalert/internal/alert"
	"codeberg.org/mutker/sysalert/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestDispatcherOrderAndIsolation(t *testing.T) {
	d := alert.NewDispatcher(logger.New("test"))

	var calls []string
	d.Subscribe(alert.ObserverFunc(func(alert.Notification) error {
		calls = append(calls, "first")
		return errors.New("boom")
	}))
	d.Subscribe(alert.ObserverFunc(func(alert.Notification) error {
		calls = append(calls, "second")
		panic("observer bug")
	}))
	d.Subscribe(alert.ObserverFunc(func(n alert.Notification) error {
		calls = append(calls, "third:"+n.Type.String())
		return nil
	}))

	failed := d.Notify(alert.Notification{Type: alert.MemoryHigh})

	assert.Equal(t, 2, failed)
	assert.Equal(t, []string{"first", "second", "third:MemoryHigh"}, calls)
}

func TestDispatcherWithoutObservers(t *testing.T) {
	d := alert.NewDispatcher(logger.New("test"))
	d.Subscribe(nil)

	assert.Equal(t, 0, d.Len())
	assert.Equal(t, 0, d.Notify(alert.Notification{Type: alert.BatteryLow}))
}
