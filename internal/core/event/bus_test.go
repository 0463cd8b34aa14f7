package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/chimera/internal/core/sched"
)

type testEvent struct{ n int }

func TestBusDoubleBuffering(t *testing.T) {
	b := NewBus(zap.NewNop())
	var got []int
	Subscribe(b, func(ev testEvent) { got = append(got, ev.n) })

	Emit(b, testEvent{1})
	Emit(b, testEvent{2})
	b.Dispatch()
	assert.Empty(t, got, "events emitted this frame are not visible yet")

	b.Swap()
	b.Dispatch()
	assert.Equal(t, []int{1, 2}, got, "delivered next frame, in order")

	b.Swap()
	b.Dispatch()
	assert.Equal(t, []int{1, 2}, got, "swap cleared the delivered batch")
}

func TestBusMultipleHandlers(t *testing.T) {
	b := NewBus(zap.NewNop())
	calls := 0
	Subscribe(b, func(testEvent) { calls++ })
	Subscribe(b, func(testEvent) { calls++ })

	Emit(b, testEvent{7})
	b.Swap()
	b.Dispatch()
	assert.Equal(t, 2, calls)
}

func TestBusPanickingHandlerContained(t *testing.T) {
	b := NewBus(zap.NewNop())
	calls := 0
	Subscribe(b, func(testEvent) { panic("handler boom") })
	Subscribe(b, func(testEvent) { calls++ })

	Emit(b, testEvent{1})
	Emit(b, testEvent{2})
	b.Swap()
	require.NotPanics(t, func() { b.Dispatch() })
	assert.Equal(t, 2, calls, "later handlers still receive every event")
}

func TestRecorderBridgesFaults(t *testing.T) {
	b := NewBus(zap.NewNop())
	var got []sched.FaultRecord
	Subscribe(b, func(ev SchedulerFault) { got = append(got, ev.Record) })

	r := Recorder{Bus: b}
	r.RecordFault(sched.FaultRecord{Kind: sched.FaultCallback, Source: "x", Message: "boom"})

	b.Swap()
	b.Dispatch()
	if assert.Len(t, got, 1) {
		assert.Equal(t, sched.FaultCallback, got[0].Kind)
		assert.Equal(t, "boom", got[0].Message)
	}
}
