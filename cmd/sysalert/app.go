package main

import (
	"codeberg.org/mutker/sysalert/internal/alert"
	"codeberg.org/mutker/sysalert/internal/config"
	"codeberg.org/mutker/sysalert/internal/errors"
	"codeberg.org/mutker/sysalert/internal/gpu"
	"codeberg.org/mutker/sysalert/internal/logger"
	"codeberg.org/mutker/sysalert/internal/metrics"
	"codeberg.org/mutker/sysalert/internal/notifier"
	"codeberg.org/mutker/sysalert/internal/sampler"
	"codeberg.org/mutker/sysalert/internal/settings"
	"codeberg.org/mutker/sysalert/internal/telemetry"
)

// app owns the monitor and every resource that must be closed on exit.
type app struct {
	monitor  *alert.Monitor
	recorder *metrics.Recorder
	closers  []func() error
}

func newApp(cfg *config.Config) (*app, error) {
	errFactory := errors.New()
	a := &app{recorder: metrics.New()}

	var opts []sampler.Option
	if cfg.GPU {
		device, err := gpu.New()
		if err != nil {
			logger.Warn().Err(err).Msg("GPU unavailable, skipping GPU temperature checks")
		} else {
			opts = append(opts, sampler.WithGPU(device))
			a.closers = append(a.closers, device.Shutdown)
		}
	}

	var source alert.Sampler = sampler.New(opts...)

	tcfg := telemetry.DefaultConfig()
	tcfg.Enabled = cfg.Telemetry
	tcfg.DBPath = cfg.TelemetryDB
	collector, err := telemetry.NewService(tcfg)
	if err != nil {
		a.close()
		return nil, errFactory.Wrap(errors.ErrInitApp, err)
	}
	a.closers = append(a.closers, collector.Close)
	if cfg.Telemetry {
		source = telemetry.NewRecordingSampler(source, collector)
	}

	store := settings.NewStore(cfg.SettingsPath)
	a.monitor = alert.NewMonitor(
		source,
		alert.SettingsFunc(func() alert.SettingsReader { return store.Load() }),
		alert.WithCooldown(cfg.Cooldown),
		alert.WithRecorder(a.recorder),
	)

	a.monitor.Subscribe(notifier.NewLog(logger.New("notifier")))

	if cfg.WebhookURL != "" {
		webhook, err := notifier.NewWebhook(cfg.WebhookURL)
		if err != nil {
			a.close()
			return nil, errFactory.Wrap(errors.ErrInitApp, err)
		}
		a.monitor.Subscribe(webhook)
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := notifier.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			a.close()
			return nil, errFactory.Wrap(errors.ErrInitApp, err)
		}
		a.monitor.Subscribe(producer)
		a.closers = append(a.closers, producer.Close)
	}

	return a, nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Error().Err(err).Msg("Failed to release resource")
		}
	}
	a.closers = nil
}
