package scu

import "github.com/kouen-dev/go-satemu/saturn/addr"

// timerState holds Timer 0 and Timer 1 registers and gating state.
type timerState struct {
	enable bool

	t0Counter uint16
	t0Compare uint16
	t0Matched bool // did timer 0 match on the previous HBlank IN line?

	t1Reload    uint16
	t1EveryLine bool // mode bit: true = fire every line, false = only if t0 matched previous line

	timer1Event schedulerEventID // scheduler event id for the one-shot-per-line firing
}

// OnHBlankIN is called once per display line by the video component's
// HBlank IN callback. Advances Timer 0 and arms Timer 1's one-shot firing.
func (s *SCU) OnHBlankIN() {
	s.FireTrigger(TriggerHBlankIN, s.busForDMA)

	if !s.timers.enable {
		return
	}

	s.timers.t0Counter++
	matched := s.timers.t0Counter == s.timers.t0Compare
	if matched {
		s.RaiseInternal(addr.IntrTimer0)
		s.FireTrigger(TriggerTimer0, s.busForDMA)
	}

	if s.timers.t1EveryLine || s.timers.t0Matched {
		s.scheduleTimer1()
	}
	s.timers.t0Matched = matched
}

// OnVBlankOUT resets Timer 0, per spec.md §4.5.
func (s *SCU) OnVBlankOUT() {
	s.FireTrigger(TriggerVBlankOUT, s.busForDMA)
	s.timers.t0Counter = 0
	s.timers.t0Matched = false
}

// scheduleTimer1 arms the one-shot firing `reload` cycles from now. A reload
// value of 0 causes the timer to fire effectively immediately, per spec.md
// §8 boundary behavior.
func (s *SCU) scheduleTimer1() {
	if s.sched == nil {
		return
	}
	native := int64(s.timers.t1Reload) + 1
	s.sched.ScheduleFromNow(s.timers.timer1Event, native)
}

// fireTimer1 is the scheduler callback for Timer 1's one-shot.
func (s *SCU) fireTimer1() {
	if !s.timers.enable {
		return
	}
	s.RaiseInternal(addr.IntrTimer1)
	s.FireTrigger(TriggerTimer1, s.busForDMA)
}
