package alert

// Action is the outcome of comparing one reading against its thresholds.
type Action int

const (
	// Skip leaves state untouched, e.g. for an unavailable reading.
	Skip Action = iota
	Trigger
	Clear
)

// Decision is what an evaluator wants done with the alert state.
type Decision struct {
	Action    Action
	Type      Type
	Severity  Severity
	Value     float64
	Threshold float64
	// Clears lists the types reset when Action is Clear.
	Clears []Type
}

// Temperature pairs the alert types of one temperature sensor.
type Temperature struct {
	Warning  Type
	Critical Type
}

var (
	CPUTemperature = Temperature{Warning: CPUTempWarning, Critical: CPUTempCritical}
	GPUTemperature = Temperature{Warning: GPUTempWarning, Critical: GPUTempCritical}
)

// EvaluateTemperature checks a Celsius reading. Readings <= 0 mean the sensor
// is unavailable.
func EvaluateTemperature(sensor Temperature, reading float64, th TemperatureThresholds) Decision {
	switch {
	case reading <= 0:
		return Decision{Action: Skip}
	case reading >= th.Critical:
		return trigger(sensor.Critical, Critical, reading, th.Critical)
	case reading >= th.Warning:
		return trigger(sensor.Warning, Warning, reading, th.Warning)
	default:
		return Decision{Action: Clear, Value: reading, Clears: []Type{sensor.Warning, sensor.Critical}}
	}
}

// EvaluateMemory checks a memory usage percentage.
func EvaluateMemory(usage, threshold float64) Decision {
	if usage >= threshold {
		return trigger(MemoryHigh, Warning, usage, threshold)
	}

	return Decision{Action: Clear, Value: usage, Clears: []Type{MemoryHigh}}
}

// EvaluateBattery checks the charge of a discharging battery. A missing or
// charging battery is skipped.
func EvaluateBattery(status BatteryStatus, th BatteryThresholds) Decision {
	if !status.Present || status.Charging {
		return Decision{Action: Skip}
	}

	switch charge := status.ChargePercent; {
	case charge <= th.Critical:
		return trigger(BatteryCritical, Critical, charge, th.Critical)
	case charge <= th.Low:
		return trigger(BatteryLow, Warning, charge, th.Low)
	default:
		return Decision{Action: Clear, Value: charge, Clears: []Type{BatteryLow, BatteryCritical}}
	}
}

func trigger(t Type, sev Severity, value, threshold float64) Decision {
	return Decision{
		Action:    Trigger,
		Type:      t,
		Severity:  sev,
		Value:     value,
		Threshold: threshold,
	}
}
