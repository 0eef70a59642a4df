package alert

import (
	"fmt"
	"sync"

	"codeberg.org/mutker/sysalert/internal/errors"
	"codeberg.org/mutker/sysalert/internal/logger"
)

// Observer receives emitted notifications.
type Observer interface {
	OnAlert(n Notification) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(n Notification) error

func (f ObserverFunc) OnAlert(n Notification) error {
	return f(n)
}

// Dispatcher delivers notifications to observers synchronously, in
// registration order. A failing observer never blocks the ones after it.
type Dispatcher struct {
	mu        sync.RWMutex
	observers []Observer
	log       logger.Logger
}

func NewDispatcher(log logger.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

func (d *Dispatcher) Subscribe(o Observer) {
	if o == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers, o)
}

func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.observers)
}

// Notify returns the number of observers that failed.
func (d *Dispatcher) Notify(n Notification) int {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	failed := 0
	for i, o := range observers {
		if err := d.deliver(o, n); err != nil {
			failed++
			d.log.ErrorWithCode(err).
				Int("observer", i).
				Str("alert", n.Type.String()).
				Msg("Observer failed")
		}
	}

	return failed
}

func (d *Dispatcher) deliver(o Observer, n Notification) (err errors.Error) {
	errFactory := errors.New()

	defer func() {
		if r := recover(); r != nil {
			err = errFactory.WithData(ErrObserverPanic, fmt.Sprint(r))
		}
	}()

	if e := o.OnAlert(n); e != nil {
		return errFactory.Wrap(ErrObserverFailed, e)
	}

	return nil
}
