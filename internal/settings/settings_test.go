package settings_test

import (
	"testing"

	"codeberg.org/mutker/sysalert/internal/settings"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const settingsPath = "/etc/sysalert/settings.json"

func newStore(t *testing.T, content string) (*settings.Store, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	if content != "" {
		require.NoError(t, afero.WriteFile(fs, settingsPath, []byte(content), 0o644))
	}

	return settings.NewStore(settingsPath, settings.WithFs(fs)), fs
}

func TestLoad(t *testing.T) {
	store, _ := newStore(t, `{
		"ShowNotifications": true,
		"EnableTempAlerts": "false",
		"CpuTempCritical": 85,
		"CpuTempWarning": "70.5",
		"MemoryThreshold": "lots"
	}`)

	snap := store.Load()
	assert.True(t, snap.GetBool("ShowNotifications", false))
	assert.False(t, snap.GetBool("EnableTempAlerts", true))
	assert.Equal(t, 85.0, snap.GetFloat("CpuTempCritical", 90))
	assert.Equal(t, 70.5, snap.GetFloat("CpuTempWarning", 75))
	assert.Equal(t, 80.0, snap.GetFloat("MemoryThreshold", 80), "unparsable value falls back")
	assert.Equal(t, 20.0, snap.GetFloat("BatteryLowWarning", 20), "missing key falls back")
}

func TestKeysAreCaseInsensitive(t *testing.T) {
	store, _ := newStore(t, `{"cputempcritical": 80}`)

	assert.Equal(t, 80.0, store.Load().GetFloat("CpuTempCritical", 90))
}

func TestMissingFileUsesDefaults(t *testing.T) {
	store, _ := newStore(t, "")

	snap := store.Load()
	assert.True(t, snap.GetBool("ShowNotifications", true))
	assert.Equal(t, 95.0, snap.GetFloat("GpuTempCritical", 95))
}

func TestCorruptFileUsesDefaults(t *testing.T) {
	store, _ := newStore(t, `{"CpuTempCritical": 80,,,`)

	assert.Equal(t, 90.0, store.Load().GetFloat("CpuTempCritical", 90))
}

func TestLoadRereadsFile(t *testing.T) {
	store, fs := newStore(t, `{"MemoryThreshold": 70}`)
	assert.Equal(t, 70.0, store.Load().GetFloat("MemoryThreshold", 80))

	require.NoError(t, afero.WriteFile(fs, settingsPath, []byte(`{"MemoryThreshold": 60}`), 0o644))
	assert.Equal(t, 60.0, store.Load().GetFloat("MemoryThreshold", 80))

	require.NoError(t, fs.Remove(settingsPath))
	assert.Equal(t, 80.0, store.Load().GetFloat("MemoryThreshold", 80))
}

func TestTOMLSettings(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/sysalert/settings.toml", []byte(`
EnableBatteryAlerts = "off"
BatteryCriticalWarning = 5
`), 0o644))

	snap := settings.NewStore("/etc/sysalert/settings.toml", settings.WithFs(fs)).Load()
	assert.False(t, snap.GetBool("EnableBatteryAlerts", true))
	assert.Equal(t, 5.0, snap.GetFloat("BatteryCriticalWarning", 10))
}

func TestNilSnapshot(t *testing.T) {
	var snap *settings.Snapshot

	assert.Equal(t, 42.0, settings.Get(snap, "anything", 42.0))
	assert.True(t, settings.NewStore("").Load().GetBool("anything", true))
	assert.Equal(t, "fallback", settings.Get(settings.NewStore("").Load(), "anything", "fallback"), "unsupported types return the default")
}
