package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codeberg.org/mutker/sysalert/internal/errors"
	"codeberg.org/mutker/sysalert/internal/logger"
	"github.com/google/uuid"
)

// Family groups the checks of one metric domain. Families run concurrently
// within a cycle.
type Family string

const (
	FamilyTemperature Family = "temperature"
	FamilyMemory      Family = "memory"
	FamilyBattery     Family = "battery"
)

// Monitor runs check cycles against a Sampler and owns the alert state.
type Monitor struct {
	sampler    Sampler
	settings   SettingsSource
	store      *StateStore
	debouncer  *Debouncer
	dispatcher *Dispatcher
	recorder   Recorder
	log        logger.Logger
	now        func() time.Time

	mu      sync.Mutex
	running map[Family]bool
}

type Option func(*Monitor)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

func WithRecorder(r Recorder) Option {
	return func(m *Monitor) {
		if r != nil {
			m.recorder = r
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(m *Monitor) {
		m.log = log
	}
}

func WithCooldown(d time.Duration) Option {
	return func(m *Monitor) {
		m.debouncer.SetCooldown(d)
	}
}

func NewMonitor(sampler Sampler, settings SettingsSource, opts ...Option) *Monitor {
	store := NewStateStore()
	m := &Monitor{
		sampler:   sampler,
		settings:  settings,
		store:     store,
		debouncer: NewDebouncer(store, DefaultCooldown),
		recorder:  noopRecorder{},
		log:       logger.New("monitor"),
		now:       time.Now,
		running:   make(map[Family]bool),
	}

	for _, opt := range opts {
		opt(m)
	}
	m.dispatcher = NewDispatcher(m.log.With("stage", "dispatch"))

	return m
}

// Subscribe registers an observer for every emitted notification.
func (m *Monitor) Subscribe(o Observer) {
	m.dispatcher.Subscribe(o)
}

// AlertStates returns a copy of the current state of every triggered type.
func (m *Monitor) AlertStates() map[Type]State {
	return m.store.Snapshot()
}

// ClearAlert forgets t entirely; its next trigger emits immediately.
func (m *Monitor) ClearAlert(t Type) {
	m.store.Remove(t)
}

func (m *Monitor) ClearAllAlerts() {
	m.store.Clear()
}

func (m *Monitor) CooldownPeriod() time.Duration {
	return m.debouncer.Cooldown()
}

// SetCooldownPeriod takes effect on the next evaluation.
func (m *Monitor) SetCooldownPeriod(d time.Duration) error {
	if d < 0 {
		return errors.New().WithData(ErrInvalidCooldown, d)
	}
	m.debouncer.SetCooldown(d)

	return nil
}

// CheckThresholds runs one evaluation cycle. It returns once every family has
// finished or ctx is done, whichever comes first. A family still running at
// that point is abandoned: it is counted as failed, a late result only touches
// its own alert types, and it is not started again until it returns. Sampler
// failures are logged and never returned. Callers must not run cycles
// concurrently.
func (m *Monitor) CheckThresholds(ctx context.Context) {
	cfg := ReadConfig(m.settings.Load())
	if !cfg.Enabled {
		m.log.Debug().Msg("Notifications disabled, skipping cycle")
		return
	}

	start := m.now()

	families := map[Family]func(context.Context, Config) []error{
		FamilyTemperature: m.checkTemperature,
		FamilyMemory:      m.checkMemory,
		FamilyBattery:     m.checkBattery,
	}

	// Buffered so abandoned families can still report without a reader.
	done := make(chan Family, len(families))
	pending := make(map[Family]bool, len(families))

	for family, check := range families {
		if !m.claim(family) {
			m.familyFailed(family, errors.New().WithData(ErrFamilyBusy, string(family)))
			continue
		}
		pending[family] = true

		go func(family Family, check func(context.Context, Config) []error) {
			defer func() {
				m.release(family)
				done <- family
			}()
			m.runFamily(ctx, family, cfg, check)
		}(family, check)
	}

	for len(pending) > 0 {
		select {
		case family := <-done:
			delete(pending, family)
		case <-ctx.Done():
		drain:
			for {
				select {
				case family := <-done:
					delete(pending, family)
				default:
					break drain
				}
			}
			for family := range pending {
				m.familyFailed(family, errors.New().Wrap(ErrFamilyTimeout, ctx.Err()))
			}
			pending = nil
		}
	}

	m.recorder.CycleCompleted(m.now().Sub(start))
}

// claim marks family as running. It reports false when a previous run has not
// returned yet.
func (m *Monitor) claim(family Family) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running[family] {
		return false
	}
	m.running[family] = true

	return true
}

func (m *Monitor) release(family Family) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.running, family)
}

func (m *Monitor) runFamily(ctx context.Context, family Family, cfg Config, check func(context.Context, Config) []error) {
	defer func() {
		if r := recover(); r != nil {
			m.familyFailed(family, errors.New().WithData(ErrSamplerPanic, fmt.Sprint(r)))
		}
	}()

	for _, err := range check(ctx, cfg) {
		m.familyFailed(family, errors.New().Wrap(ErrSamplerFailed, err))
	}
}

func (m *Monitor) familyFailed(family Family, err errors.Error) {
	m.recorder.SamplerFailed(family)
	m.log.ErrorWithCode(err).
		Str("family", string(family)).
		Msg("Check failed")
}

func (m *Monitor) checkTemperature(ctx context.Context, cfg Config) []error {
	if !cfg.TemperatureOn {
		return nil
	}

	var errs []error

	if cpu, err := readGuarded(ctx, m.sampler.CPUTemperature); err != nil {
		errs = append(errs, err)
	} else {
		m.apply(EvaluateTemperature(CPUTemperature, cpu, cfg.CPU))
	}

	if gpu, err := readGuarded(ctx, m.sampler.GPUTemperature); err != nil {
		errs = append(errs, err)
	} else {
		m.apply(EvaluateTemperature(GPUTemperature, gpu, cfg.GPU))
	}

	return errs
}

// readGuarded turns a panicking read into an error, so CPU and GPU fail
// independently inside the temperature family.
func readGuarded(ctx context.Context, read func(context.Context) (float64, error)) (value float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = 0, errors.New().WithData(ErrSamplerPanic, fmt.Sprint(r))
		}
	}()

	return read(ctx)
}

func (m *Monitor) checkMemory(ctx context.Context, cfg Config) []error {
	usage, err := m.sampler.MemoryUsage(ctx)
	if err != nil {
		return []error{err}
	}
	m.apply(EvaluateMemory(usage, cfg.MemoryThreshold))

	return nil
}

func (m *Monitor) checkBattery(ctx context.Context, cfg Config) []error {
	if !cfg.BatteryOn {
		return nil
	}

	status, err := m.sampler.BatteryStatus(ctx)
	if err != nil {
		return []error{err}
	}
	m.apply(EvaluateBattery(status, cfg.Battery))

	return nil
}

func (m *Monitor) apply(d Decision) {
	now := m.now()

	switch d.Action {
	case Trigger:
		if !m.debouncer.Trigger(d.Type, d.Value, d.Threshold, now) {
			m.recorder.Suppressed(d.Type)
			m.log.Debug().
				Str("alert", d.Type.String()).
				Float64("value", d.Value).
				Msg("Alert suppressed by cooldown")
			return
		}

		n := newNotification(d, now)
		m.recorder.Emitted(d.Type, d.Severity)
		m.log.Info().
			Str("alert", d.Type.String()).
			Str("severity", d.Severity.String()).
			Float64("value", d.Value).
			Float64("threshold", d.Threshold).
			Msg("Alert triggered")

		if failed := m.dispatcher.Notify(n); failed > 0 {
			m.recorder.ObserverFailed(failed)
		}
	case Clear:
		for _, t := range d.Clears {
			if m.debouncer.Clear(t) {
				m.recorder.Cleared(t)
				m.log.Info().
					Str("alert", t.String()).
					Float64("value", d.Value).
					Msg("Alert cleared")
			}
		}
	case Skip:
	}
}

func newNotification(d Decision, now time.Time) Notification {
	title, message := describe(d)

	return Notification{
		ID:           uuid.NewString(),
		Type:         d.Type,
		Severity:     d.Severity,
		Title:        title,
		Message:      message,
		CurrentValue: d.Value,
		Threshold:    d.Threshold,
		Timestamp:    now,
	}
}

func describe(d Decision) (title, message string) {
	switch d.Type {
	case CPUTempWarning:
		return "CPU Temperature Warning",
			fmt.Sprintf("CPU temperature is %.1f°C (threshold %.0f°C)", d.Value, d.Threshold)
	case CPUTempCritical:
		return "CPU Temperature Critical",
			fmt.Sprintf("CPU temperature is %.1f°C (threshold %.0f°C)", d.Value, d.Threshold)
	case GPUTempWarning:
		return "GPU Temperature Warning",
			fmt.Sprintf("GPU temperature is %.1f°C (threshold %.0f°C)", d.Value, d.Threshold)
	case GPUTempCritical:
		return "GPU Temperature Critical",
			fmt.Sprintf("GPU temperature is %.1f°C (threshold %.0f°C)", d.Value, d.Threshold)
	case MemoryHigh:
		return "High Memory Usage",
			fmt.Sprintf("Memory usage is %.1f%% (threshold %.0f%%)", d.Value, d.Threshold)
	case BatteryLow:
		return "Battery Low",
			fmt.Sprintf("Battery charge is %.0f%% (threshold %.0f%%)", d.Value, d.Threshold)
	case BatteryCritical:
		return "Battery Critical",
			fmt.Sprintf("Battery charge is %.0f%%, plug in now (threshold %.0f%%)", d.Value, d.Threshold)
	}

	return d.Type.String(), fmt.Sprintf("Value %.1f crossed threshold %.1f", d.Value, d.Threshold)
}
