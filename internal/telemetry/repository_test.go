package telemetry

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/sysalert/internal/alert"
	"codeberg.org/mutker/sysalert/internal/errors"
	"codeberg.org/mutker/sysalert/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countReadings(t *testing.T, path string) map[string]int {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT metric, COUNT(*) FROM readings GROUP BY metric`)
	require.NoError(t, err)
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var metric string
		var n int
		require.NoError(t, rows.Scan(&metric, &n))
		counts[metric] = n
	}
	require.NoError(t, rows.Err())

	return counts
}

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Enabled:   true,
		DBPath:    filepath.Join(t.TempDir(), "telemetry.db"),
		BatchSize: 2,
	}
}

func TestRepositoryFlushesOnBatchSizeAndClose(t *testing.T) {
	cfg := testConfig(t)

	repo, err := NewRepository(cfg, logger.New("test"))
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	require.NoError(t, repo.Record(Reading{Timestamp: now, Metric: MetricCPUTemperature, Value: 71}))
	require.NoError(t, repo.Record(Reading{Timestamp: now, Metric: MetricGPUTemperature, Value: 65}))
	require.NoError(t, repo.Record(Reading{Timestamp: now, Metric: MetricCPUTemperature, Value: 72}))

	require.NoError(t, repo.Close())
	require.NoError(t, repo.Close())

	assert.Equal(t, map[string]int{
		MetricCPUTemperature: 2,
		MetricGPUTemperature: 1,
	}, countReadings(t, cfg.DBPath))
}

func TestRepositoryBoundsBufferWhileFailing(t *testing.T) {
	cfg := testConfig(t)

	repo, err := NewRepository(cfg, logger.New("test"))
	require.NoError(t, err)

	r := repo.(*repository)
	require.NoError(t, r.db.Close())

	base := time.Unix(1700000000, 0)
	var lastErr error
	for i := 0; i < maxBuffered+100; i++ {
		lastErr = r.Record(Reading{Timestamp: base.Add(time.Duration(i) * time.Second), Metric: MetricMemoryUsage, Value: float64(i)})
	}

	require.Error(t, lastErr)
	assert.True(t, errors.HasCode(lastErr, ErrTransactionFailed))

	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.buffer, maxBuffered)
	assert.Equal(t, float64(maxBuffered+99), r.buffer[len(r.buffer)-1].Value, "newest reading kept")
	assert.Equal(t, 100.0, r.buffer[0].Value, "oldest readings dropped")
}

func TestRepositoryReopenKeepsSchema(t *testing.T) {
	cfg := testConfig(t)

	repo, err := NewRepository(cfg, logger.New("test"))
	require.NoError(t, err)
	require.NoError(t, repo.Record(Reading{Timestamp: time.Now(), Metric: MetricMemoryUsage, Value: 40}))
	require.NoError(t, repo.Close())

	repo, err = NewRepository(cfg, logger.New("test"))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	assert.Equal(t, map[string]int{MetricMemoryUsage: 1}, countReadings(t, cfg.DBPath))
}

func TestSchemaVersionMismatchRecreates(t *testing.T) {
	cfg := testConfig(t)

	db, err := sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE schema_versions (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL);
		INSERT INTO schema_versions VALUES (99, datetime('now'));`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	repo, err := NewRepository(cfg, logger.New("test"))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	db, err = sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	defer db.Close()

	version, err := GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)

	backups, err := filepath.Glob(filepath.Join(filepath.Dir(cfg.DBPath), "backups", "telemetry_v99_*.db"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestNewServiceDisabledIsNoop(t *testing.T) {
	collector, err := NewService(Config{})
	require.NoError(t, err)
	assert.IsType(t, &noopCollector{}, collector)
	assert.NoError(t, collector.Record(context.Background(), Reading{}))
	assert.NoError(t, collector.Close())
}

func TestServiceRejectsInvalidReading(t *testing.T) {
	collector, err := NewService(testConfig(t))
	require.NoError(t, err)
	defer collector.Close()

	err = collector.Record(context.Background(), Reading{Metric: MetricCPUTemperature})
	assert.True(t, errors.HasCode(err, ErrInvalidReading))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = collector.Record(ctx, Reading{Timestamp: time.Now(), Metric: MetricCPUTemperature, Value: 1})
	assert.True(t, errors.HasCode(err, ErrOperationTimeout))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.True(t, errors.HasCode(Config{Enabled: true}.Validate(), ErrInvalidDBPath))
	assert.True(t, errors.HasCode(Config{BatchSize: -1}.Validate(), ErrInvalidConfig))
}

type memoryCollector struct {
	readings []Reading
}

func (c *memoryCollector) Record(_ context.Context, r Reading) error {
	c.readings = append(c.readings, r)
	return nil
}

func (c *memoryCollector) Close() error { return nil }

type stubSampler struct {
	cpu, gpu, mem float64
	gpuErr        error
	battery       alert.BatteryStatus
}

func (s stubSampler) CPUTemperature(context.Context) (float64, error) { return s.cpu, nil }

func (s stubSampler) GPUTemperature(context.Context) (float64, error) { return s.gpu, s.gpuErr }

func (s stubSampler) MemoryUsage(context.Context) (float64, error) { return s.mem, nil }

func (s stubSampler) BatteryStatus(context.Context) (alert.BatteryStatus, error) {
	return s.battery, nil
}

func TestRecordingSampler(t *testing.T) {
	collector := &memoryCollector{}
	next := stubSampler{
		cpu:     82,
		gpu:     0,
		mem:     55,
		battery: alert.BatteryStatus{Present: true, ChargePercent: 18},
	}

	s := NewRecordingSampler(next, collector)
	ctx := context.Background()

	cpu, err := s.CPUTemperature(ctx)
	require.NoError(t, err)
	assert.Equal(t, 82.0, cpu)

	gpu, err := s.GPUTemperature(ctx)
	require.NoError(t, err)
	assert.Zero(t, gpu)

	_, _ = s.MemoryUsage(ctx)
	status, _ := s.BatteryStatus(ctx)
	assert.Equal(t, next.battery, status)

	metrics := make([]string, 0, len(collector.readings))
	for _, r := range collector.readings {
		metrics = append(metrics, r.Metric)
	}
	assert.Equal(t, []string{MetricCPUTemperature, MetricMemoryUsage, MetricBatteryPercent}, metrics)
}

func TestRecordingSamplerSkipsFailedReads(t *testing.T) {
	collector := &memoryCollector{}
	s := NewRecordingSampler(stubSampler{gpu: 70, gpuErr: assert.AnError}, collector)

	_, err := s.GPUTemperature(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, collector.readings)
}
