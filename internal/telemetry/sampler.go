package telemetry

import (
	"context"
	"time"

	"codeberg.org/mutker/sysalert/internal/alert"
	"codeberg.org/mutker/sysalert/internal/logger"
)

// RecordingSampler forwards every successful reading to a Collector.
// Recording failures are logged and never reach the monitor.
type RecordingSampler struct {
	next      alert.Sampler
	collector Collector
	now       func() time.Time
	log       logger.Logger
}

var _ alert.Sampler = (*RecordingSampler)(nil)

func NewRecordingSampler(next alert.Sampler, collector Collector) *RecordingSampler {
	return &RecordingSampler{
		next:      next,
		collector: collector,
		now:       time.Now,
		log:       logger.New("telemetry"),
	}
}

func (s *RecordingSampler) CPUTemperature(ctx context.Context) (float64, error) {
	value, err := s.next.CPUTemperature(ctx)
	s.record(ctx, MetricCPUTemperature, value, err)
	return value, err
}

func (s *RecordingSampler) GPUTemperature(ctx context.Context) (float64, error) {
	value, err := s.next.GPUTemperature(ctx)
	s.record(ctx, MetricGPUTemperature, value, err)
	return value, err
}

func (s *RecordingSampler) MemoryUsage(ctx context.Context) (float64, error) {
	value, err := s.next.MemoryUsage(ctx)
	s.record(ctx, MetricMemoryUsage, value, err)
	return value, err
}

func (s *RecordingSampler) BatteryStatus(ctx context.Context) (alert.BatteryStatus, error) {
	status, err := s.next.BatteryStatus(ctx)
	if status.Present {
		s.record(ctx, MetricBatteryPercent, status.ChargePercent, err)
	}
	return status, err
}

func (s *RecordingSampler) record(ctx context.Context, metric string, value float64, err error) {
	if err != nil || value <= 0 {
		return
	}

	reading := Reading{Timestamp: s.now(), Metric: metric, Value: value}
	if err := s.collector.Record(ctx, reading); err != nil {
		s.log.Debug().Err(err).Str("metric", metric).Msg("Failed to record reading")
	}
}
