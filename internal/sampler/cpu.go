package sampler

import (
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

const maxPlausibleTemperature = 150

// Package level sensors, best first.
var cpuPackageSensors = []string{
	"coretemp_package_id_0",
	"k10temp_tctl",
	"k10temp_tdie",
	"zenpower_tdie",
	"x86_pkg_temp",
	"cpu_thermal",
}

// Sensor key prefixes that belong to the CPU.
var cpuSensorPrefixes = []string{"coretemp", "k10temp", "zenpower", "cpu", "x86_pkg", "soc_thermal"}

// pickCPUTemperature returns the package temperature when one is exposed and
// the hottest CPU sensor otherwise. It returns 0 when nothing CPU related is
// readable.
func pickCPUTemperature(stats []host.TemperatureStat) float64 {
	valid := make(map[string]float64, len(stats))
	for _, st := range stats {
		if st.Temperature <= 0 || st.Temperature > maxPlausibleTemperature {
			continue
		}
		valid[strings.ToLower(st.SensorKey)] = st.Temperature
	}

	for _, key := range cpuPackageSensors {
		if temp, ok := valid[key]; ok {
			return temp
		}
	}

	hottest := 0.0
	for key, temp := range valid {
		if isCPUSensor(key) && temp > hottest {
			hottest = temp
		}
	}

	return hottest
}

func isCPUSensor(key string) bool {
	for _, prefix := range cpuSensorPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}

	return false
}
