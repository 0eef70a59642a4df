package sampler

import (
	"context"
	"path"
	"testing"

	"codeberg.org/mutker/sysalert/internal/alert"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSupply(t *testing.T, fs afero.Fs, name string, attrs map[string]string) {
	t.Helper()

	for attr, value := range attrs {
		require.NoError(t, afero.WriteFile(fs, path.Join(powerSupplyDir, name, attr), []byte(value+"\n"), 0o644))
	}
}

func TestBatteryDischarging(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSupply(t, fs, "BAT0", map[string]string{"type": "Battery", "capacity": "42", "status": "Discharging"})
	writeSupply(t, fs, "AC", map[string]string{"type": "Mains", "online": "0"})

	status, err := NewBattery(fs).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, alert.BatteryStatus{Present: true, Charging: false, ChargePercent: 42}, status)
}

func TestBatteryCharging(t *testing.T) {
	for _, state := range []string{"Charging", "Full"} {
		fs := afero.NewMemMapFs()
		writeSupply(t, fs, "BAT0", map[string]string{"type": "Battery", "capacity": "80", "status": state})

		status, err := NewBattery(fs).Status(context.Background())
		require.NoError(t, err)
		assert.True(t, status.Charging, state)
	}
}

func TestBatteryOnMainsNotCharging(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSupply(t, fs, "BAT1", map[string]string{"type": "Battery", "capacity": "60", "status": "Not charging"})
	writeSupply(t, fs, "ACAD", map[string]string{"type": "Mains", "online": "1"})

	status, err := NewBattery(fs).Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Present)
	assert.True(t, status.Charging)
}

func TestBatteryAbsent(t *testing.T) {
	status, err := NewBattery(afero.NewMemMapFs()).Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Present)

	fs := afero.NewMemMapFs()
	writeSupply(t, fs, "AC", map[string]string{"type": "Mains", "online": "1"})
	writeSupply(t, fs, "BAT0", map[string]string{"type": "Battery", "present": "0", "capacity": "0"})

	status, err = NewBattery(fs).Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Present)
}

func TestBatteryUnreadableCapacity(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSupply(t, fs, "BAT0", map[string]string{"type": "Battery", "capacity": "n/a", "status": "Discharging"})

	_, err := NewBattery(fs).Status(context.Background())
	assert.Error(t, err)
}
