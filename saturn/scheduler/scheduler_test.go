package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerPrecision(t *testing.T) {
	s := New()
	fired := 0
	id := s.RegisterEvent("test-event", nil, func(ctx any) {
		fired++
	})
	s.SetEventCountFactor(id, 2464, 3125)

	const native = 128
	s.ScheduleFromNow(id, native)

	target := bit_roundedDiv(native*3125, 2464)
	require.Equal(t, target, s.NextTarget())

	s.Advance(target - 1 - s.Now())
	assert.Equal(t, 0, fired, "event must not fire before its target")

	s.Advance(1)
	assert.Equal(t, 1, fired, "event must fire exactly once at its target")
}

func TestRescheduleIsRelativeToPriorTarget(t *testing.T) {
	s := New()
	var targets []int64
	var id EventID
	id = s.RegisterEvent("periodic", nil, func(ctx any) {
		targets = append(targets, s.Now())
		s.Reschedule(id, 100)
	})
	s.ScheduleFromNow(id, 100)

	s.Advance(1000)

	// Periodicity must stay exactly 100 apart regardless of how Advance
	// steps land, since Reschedule is relative to the prior target.
	for i := 1; i < len(targets); i++ {
		assert.Equal(t, int64(100), targets[i]-targets[i-1])
	}
}

func TestCancelIsIdempotentAndReschedulable(t *testing.T) {
	s := New()
	fired := 0
	id := s.RegisterEvent("cancelable", nil, func(ctx any) { fired++ })
	s.ScheduleFromNow(id, 10)
	s.Cancel(id)
	s.Cancel(id) // idempotent

	s.Advance(100)
	assert.Equal(t, 0, fired)

	s.ScheduleFromNow(id, 10)
	s.Advance(10)
	assert.Equal(t, 1, fired)
}

func TestTiesBreakByRegistrationOrder(t *testing.T) {
	s := New()
	var order []string
	a := s.RegisterEvent("a", nil, func(ctx any) { order = append(order, "a") })
	b := s.RegisterEvent("b", nil, func(ctx any) { order = append(order, "b") })

	s.ScheduleAt(b, 50)
	s.ScheduleAt(a, 50)

	s.Advance(50)
	require.Len(t, order, 2)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestZeroDenominatorIsFatal(t *testing.T) {
	s := New()
	id := s.RegisterEvent("bad", nil, func(ctx any) {})
	assert.Panics(t, func() {
		s.SetEventCountFactor(id, 1, 0)
	})
}

func TestRegisteringTooManyEventsIsFatal(t *testing.T) {
	s := New()
	assert.Panics(t, func() {
		for i := 0; i < maxEvents+1; i++ {
			s.RegisterEvent("x", nil, func(ctx any) {})
		}
	})
}
