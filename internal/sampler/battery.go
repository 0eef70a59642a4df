package sampler

import (
	"context"
	"path"
	"sort"
	"strconv"
	"strings"

	"codeberg.org/mutker/sysalert/internal/alert"
	"codeberg.org/mutker/sysalert/internal/errors"
	"github.com/spf13/afero"
)

const powerSupplyDir = "/sys/class/power_supply"

// Battery reads the Linux power supply class.
type Battery struct {
	fs afero.Fs
}

func NewBattery(fs afero.Fs) *Battery {
	return &Battery{fs: fs}
}

// Status reports the first battery found. The battery counts as charging
// while its status is Charging or Full, or while any mains supply is online.
func (b *Battery) Status(_ context.Context) (alert.BatteryStatus, error) {
	entries, err := afero.ReadDir(b.fs, powerSupplyDir)
	if err != nil {
		if exists, _ := afero.DirExists(b.fs, powerSupplyDir); !exists {
			return alert.BatteryStatus{}, nil
		}
		return alert.BatteryStatus{}, errors.New().Wrap(ErrBatteryReadFailed, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var (
		status  alert.BatteryStatus
		found   bool
		onMains bool
	)

	for _, name := range names {
		dir := path.Join(powerSupplyDir, name)

		switch b.read(dir, "type") {
		case "Mains", "USB":
			if b.read(dir, "online") == "1" {
				onMains = true
			}
		case "Battery":
			if found || b.read(dir, "present") == "0" {
				continue
			}

			capacity, err := strconv.ParseFloat(b.read(dir, "capacity"), 64)
			if err != nil {
				return alert.BatteryStatus{}, errors.New().Wrap(ErrBatteryReadFailed, err).WithData(dir)
			}

			state := b.read(dir, "status")
			status = alert.BatteryStatus{
				Present:       true,
				Charging:      state == "Charging" || state == "Full",
				ChargePercent: capacity,
			}
			found = true
		}
	}

	if found && onMains {
		status.Charging = true
	}

	return status, nil
}

func (b *Battery) read(dir, attr string) string {
	data, err := afero.ReadFile(b.fs, path.Join(dir, attr))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}
