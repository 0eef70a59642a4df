package alert

// Setting keys read from the settings store on every cycle.
const (
	KeyShowNotifications      = "ShowNotifications"
	KeyEnableTempAlerts       = "EnableTempAlerts"
	KeyCPUTempCritical        = "CpuTempCritical"
	KeyCPUTempWarning         = "CpuTempWarning"
	KeyGPUTempCritical        = "GpuTempCritical"
	KeyGPUTempWarning         = "GpuTempWarning"
	KeyMemoryThreshold        = "MemoryThreshold"
	KeyEnableBatteryAlerts    = "EnableBatteryAlerts"
	KeyBatteryCriticalWarning = "BatteryCriticalWarning"
	KeyBatteryLowWarning      = "BatteryLowWarning"
)

// SettingsReader is a typed key/value lookup. Implementations return def for
// a missing key or a value that does not convert.
type SettingsReader interface {
	GetBool(key string, def bool) bool
	GetFloat(key string, def float64) float64
}

// SettingsSource yields a fresh reader for each check cycle.
type SettingsSource interface {
	Load() SettingsReader
}

// SettingsFunc adapts a function to SettingsSource.
type SettingsFunc func() SettingsReader

func (f SettingsFunc) Load() SettingsReader {
	return f()
}

// StaticSettings is a map backed SettingsReader. Values must already have the
// requested type; anything else yields the default.
type StaticSettings map[string]any

func (s StaticSettings) GetBool(key string, def bool) bool {
	if v, ok := s[key].(bool); ok {
		return v
	}

	return def
}

func (s StaticSettings) GetFloat(key string, def float64) float64 {
	switch v := s[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}

	return def
}

func (s StaticSettings) Load() SettingsReader {
	return s
}

type TemperatureThresholds struct {
	Warning  float64
	Critical float64
}

type BatteryThresholds struct {
	Low      float64
	Critical float64
}

// Config is the per-cycle view of the alert settings.
type Config struct {
	Enabled         bool
	TemperatureOn   bool
	BatteryOn       bool
	CPU             TemperatureThresholds
	GPU             TemperatureThresholds
	MemoryThreshold float64
	Battery         BatteryThresholds
}

// DefaultConfig returns the compiled-in defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		TemperatureOn:   true,
		BatteryOn:       true,
		CPU:             TemperatureThresholds{Warning: 75, Critical: 90},
		GPU:             TemperatureThresholds{Warning: 80, Critical: 95},
		MemoryThreshold: 80,
		Battery:         BatteryThresholds{Low: 20, Critical: 10},
	}
}

// ReadConfig resolves every setting against r, falling back to DefaultConfig.
func ReadConfig(r SettingsReader) Config {
	d := DefaultConfig()
	if r == nil {
		return d
	}

	return Config{
		Enabled:       r.GetBool(KeyShowNotifications, d.Enabled),
		TemperatureOn: r.GetBool(KeyEnableTempAlerts, d.TemperatureOn),
		BatteryOn:     r.GetBool(KeyEnableBatteryAlerts, d.BatteryOn),
		CPU: TemperatureThresholds{
			Warning:  r.GetFloat(KeyCPUTempWarning, d.CPU.Warning),
			Critical: r.GetFloat(KeyCPUTempCritical, d.CPU.Critical),
		},
		GPU: TemperatureThresholds{
			Warning:  r.GetFloat(KeyGPUTempWarning, d.GPU.Warning),
			Critical: r.GetFloat(KeyGPUTempCritical, d.GPU.Critical),
		},
		MemoryThreshold: r.GetFloat(KeyMemoryThreshold, d.MemoryThreshold),
		Battery: BatteryThresholds{
			Low:      r.GetFloat(KeyBatteryLowWarning, d.Battery.Low),
			Critical: r.GetFloat(KeyBatteryCriticalWarning, d.Battery.Critical),
		},
	}
}
