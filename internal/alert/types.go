package alert

import (
	"fmt"
	"time"

	"codeberg.org/mutker/sysalert/internal/errors"
)

// Type identifies one independently debounced alert.
type Type int

const (
	CPUTempWarning Type = iota
	CPUTempCritical
	GPUTempWarning
	GPUTempCritical
	MemoryHigh
	BatteryLow
	BatteryCritical
)

// Types lists every alert type in declaration order.
var Types = []Type{
	CPUTempWarning,
	CPUTempCritical,
	GPUTempWarning,
	GPUTempCritical,
	MemoryHigh,
	BatteryLow,
	BatteryCritical,
}

var typeNames = map[Type]string{
	CPUTempWarning:  "CpuTempWarning",
	CPUTempCritical: "CpuTempCritical",
	GPUTempWarning:  "GpuTempWarning",
	GPUTempCritical: "GpuTempCritical",
	MemoryHigh:      "MemoryHigh",
	BatteryLow:      "BatteryLow",
	BatteryCritical: "BatteryCritical",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType returns the Type with the given name.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}

	return 0, errors.New().WithData(ErrUnknownType, name)
}

// MarshalText implements encoding.TextMarshaler so Types can key maps in
// YAML and JSON output.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed

	return nil
}

type Severity int

const (
	Warning Severity = iota
	Critical
)

func (s Severity) String() string {
	if s == Critical {
		return "critical"
	}

	return "warning"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is the debounce record for one Type.
type State struct {
	Type            Type      `json:"type" yaml:"type"`
	LastTriggeredAt time.Time `json:"last_triggered_at" yaml:"last_triggered_at"`
	IsActive        bool      `json:"is_active" yaml:"is_active"`
	TriggerValue    float64   `json:"trigger_value" yaml:"trigger_value"`
	Threshold       float64   `json:"threshold" yaml:"threshold"`
}

// Notification is emitted once per accepted trigger. Observers receive it by
// value.
type Notification struct {
	ID           string    `json:"id"`
	Type         Type      `json:"type"`
	Severity     Severity  `json:"severity"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	CurrentValue float64   `json:"current_value"`
	Threshold    float64   `json:"threshold"`
	Timestamp    time.Time `json:"timestamp"`
}
