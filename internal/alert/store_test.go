package alert_test

import (
	"sync"
	"testing"

	"codeberg.org/mutker/sysalert/internal/alert"
	"github.com/stretchr/testify/assert"
)

func TestStateStoreUpsertCreatesEntry(t *testing.T) {
	s := alert.NewStateStore()

	_, ok := s.Get(alert.MemoryHigh)
	assert.False(t, ok)

	s.Upsert(alert.MemoryHigh, func(st *alert.State) {
		st.IsActive = true
	})
	st, ok := s.Get(alert.MemoryHigh)
	assert.True(t, ok)
	assert.Equal(t, alert.MemoryHigh, st.Type)
	assert.True(t, st.IsActive)

	s.Upsert(alert.MemoryHigh, func(st *alert.State) {
		st.TriggerValue = 91
	})
	st, _ = s.Get(alert.MemoryHigh)
	assert.True(t, st.IsActive, "existing entry is mutated in place")
	assert.Equal(t, 91.0, st.TriggerValue)
	assert.Equal(t, 1, s.Len())
}

func TestStateStoreSnapshotIsCopy(t *testing.T) {
	s := alert.NewStateStore()
	s.Upsert(alert.BatteryLow, func(st *alert.State) {
		st.IsActive = true
	})

	snap := s.Snapshot()
	st := snap[alert.BatteryLow]
	st.IsActive = false
	snap[alert.BatteryLow] = st
	delete(snap, alert.BatteryLow)

	live, _ := s.Get(alert.BatteryLow)
	assert.True(t, live.IsActive)
	assert.Equal(t, 1, s.Len())
}

func TestStateStoreRemoveAndClear(t *testing.T) {
	s := alert.NewStateStore()
	for _, typ := range alert.Types {
		s.Upsert(typ, func(*alert.State) {})
	}
	assert.Equal(t, len(alert.Types), s.Len())

	s.Remove(alert.CPUTempWarning)
	_, ok := s.Get(alert.CPUTempWarning)
	assert.False(t, ok)
	assert.False(t, s.Update(alert.CPUTempWarning, func(*alert.State) {
		t.Fatal("update must not run for a missing entry")
	}))

	s.Clear()
	assert.Empty(t, s.Snapshot())
}

func TestStateStoreConcurrentAccess(t *testing.T) {
	s := alert.NewStateStore()

	var wg sync.WaitGroup
	for _, typ := range alert.Types {
		wg.Add(2)
		go func(typ alert.Type) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s.Upsert(typ, func(st *alert.State) {
					st.TriggerValue++
				})
			}
		}(typ)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()

	for _, st := range s.Snapshot() {
		assert.Equal(t, 200.0, st.TriggerValue)
	}
}
