package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/sysalert/internal/alert"
	"codeberg.org/mutker/sysalert/internal/config"
	"codeberg.org/mutker/sysalert/internal/errors"
	"codeberg.org/mutker/sysalert/internal/logger"
	"gopkg.in/yaml.v3"
)

func runDaemon(parent context.Context, cfg *config.Config) error {
	errFactory := errors.New()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	go handleSignals(ctx, cancel)

	if cfg.MetricsAddr != "" {
		go func() {
			if err := a.recorder.Serve(ctx, cfg.MetricsAddr); err != nil {
				logger.Error().Err(err).Msg("Metrics server stopped")
			}
		}()
	}

	logger.Info().
		Dur("interval", cfg.Interval).
		Dur("cooldown", a.monitor.CooldownPeriod()).
		Str("settings", cfg.SettingsPath).
		Msg("Monitoring started")

	if err := loop(ctx, a.monitor, cfg.Interval); err != nil {
		return errFactory.Wrap(errors.ErrMainLoop, err)
	}

	logger.Info().Msg("Exiting...")

	return nil
}

// loop runs one check immediately, then one per tick. Checks never overlap
// and none outlives its interval.
func loop(ctx context.Context, m *alert.Monitor, interval time.Duration) error {
	errFactory := errors.New()

	if interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check(ctx, m, interval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			check(ctx, m, interval)
		}
	}
}

func check(ctx context.Context, m *alert.Monitor, timeout time.Duration) {
	cycleCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	m.CheckThresholds(cycleCtx)
}

func handleSignals(ctx context.Context, cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
		logger.Info().Msg("Received termination signal.")
		cancel()
	case <-ctx.Done():
	}
}

func runCheck(ctx context.Context, cfg *config.Config, out io.Writer) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	check(ctx, a.monitor, cfg.Interval)

	return writeStates(out, a.monitor.AlertStates())
}

func writeStates(out io.Writer, states map[alert.Type]alert.State) error {
	errFactory := errors.New()

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(states); err != nil {
		return errFactory.Wrap(errors.ErrWriteState, err)
	}

	return enc.Close()
}
