package alert

import (
	"sync/atomic"
	"time"
)

// DefaultCooldown is the minimum time between repeated notifications of one
// alert type while its condition holds.
const DefaultCooldown = 5 * time.Minute

// Debouncer decides whether a trigger becomes a notification.
//
// A type is Active after a trigger and Idle after a clear. Triggers on an
// Active type inside the cooldown are suppressed. A clear keeps
// LastTriggeredAt but the next trigger on an Idle type always emits, so a
// condition flapping around its threshold notifies once per flap.
type Debouncer struct {
	store    *StateStore
	cooldown atomic.Int64
}

func NewDebouncer(store *StateStore, cooldown time.Duration) *Debouncer {
	d := &Debouncer{store: store}
	d.cooldown.Store(int64(cooldown))

	return d
}

func (d *Debouncer) Cooldown() time.Duration {
	return time.Duration(d.cooldown.Load())
}

func (d *Debouncer) SetCooldown(cooldown time.Duration) {
	d.cooldown.Store(int64(cooldown))
}

// Trigger records a violated threshold at now and reports whether a
// notification should be emitted.
func (d *Debouncer) Trigger(t Type, value, threshold float64, now time.Time) bool {
	cooldown := d.Cooldown()
	emit := false

	d.store.Upsert(t, func(st *State) {
		if st.IsActive && now.Sub(st.LastTriggeredAt) < cooldown {
			return
		}

		st.IsActive = true
		st.LastTriggeredAt = now
		st.TriggerValue = value
		st.Threshold = threshold
		emit = true
	})

	return emit
}

// Clear marks t Idle. It reports whether t was Active. Types without an entry
// stay without one.
func (d *Debouncer) Clear(t Type) bool {
	wasActive := false
	d.store.Update(t, func(st *State) {
		wasActive = st.IsActive
		st.IsActive = false
	})

	return wasActive
}
