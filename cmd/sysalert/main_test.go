package main

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/mutker/sysalert/internal/alert"
	"codeberg.org/mutker/sysalert/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type hotSampler struct{}

func (*hotSampler) CPUTemperature(context.Context) (float64, error) { return 85, nil }

func (*hotSampler) GPUTemperature(context.Context) (float64, error) { return 0, nil }

func (*hotSampler) MemoryUsage(context.Context) (float64, error) { return 20, nil }

func (*hotSampler) BatteryStatus(context.Context) (alert.BatteryStatus, error) {
	return alert.BatteryStatus{}, nil
}

var testSettings = alert.StaticSettings{
	alert.KeyCPUTempWarning:  80.0,
	alert.KeyCPUTempCritical: 95.0,
}

func TestWriteStates(t *testing.T) {
	m := alert.NewMonitor(&hotSampler{}, testSettings)
	m.CheckThresholds(context.Background())

	var buf bytes.Buffer
	require.NoError(t, writeStates(&buf, m.AlertStates()))

	var decoded map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Contains(t, decoded, "CpuTempWarning")

	state := decoded["CpuTempWarning"]
	assert.Equal(t, true, state["is_active"])
	assert.Equal(t, 85.0, state["trigger_value"])
	assert.Equal(t, 80.0, state["threshold"])
}

func TestLoopRunsUntilCanceled(t *testing.T) {
	m := alert.NewMonitor(&hotSampler{}, testSettings)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop(ctx, m, 10*time.Millisecond) }()

	require.Eventually(t, func() bool {
		return len(m.AlertStates()) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}

// stuckGPU never returns a GPU reading and counts memory reads.
type stuckGPU struct {
	hotSampler
	memoryReads atomic.Int32
}

func (*stuckGPU) GPUTemperature(context.Context) (float64, error) { select {} }

func (s *stuckGPU) MemoryUsage(context.Context) (float64, error) {
	s.memoryReads.Add(1)
	return 20, nil
}

func TestLoopKeepsRunningWithStuckSampler(t *testing.T) {
	s := &stuckGPU{}
	m := alert.NewMonitor(s, testSettings)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop(ctx, m, 20*time.Millisecond) }()

	require.Eventually(t, func() bool {
		return s.memoryReads.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestLoopRejectsInvalidInterval(t *testing.T) {
	m := alert.NewMonitor(&hotSampler{}, testSettings)

	err := loop(context.Background(), m, 0)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
}
