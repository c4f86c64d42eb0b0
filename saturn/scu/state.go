package scu

import "github.com/kouen-dev/go-satemu/saturn/state"

// Capture returns the interrupt arbiter, DMA channels, and timer block as
// a save-state record. The DSP's own state is captured separately via its
// Capture method (the SCU only owns the DSP's register ports, not its
// architectural state).
func (s *SCU) Capture() state.SCUState {
	var out state.SCUState
	out.IntrMask = s.arb.mask
	out.IntrStatus = s.arb.status
	for i := range s.channels {
		c := &s.channels[i]
		out.Channels[i] = state.SCUDMAChannelState{
			Src:    c.currSrcAddr,
			Dst:    c.currDstAddr,
			Count:  c.currXferCount,
			Active: c.active,
		}
	}
	out.Timers = state.SCUTimerState{
		Enable:      s.timers.enable,
		T0Counter:   s.timers.t0Counter,
		T0Compare:   s.timers.t0Compare,
		T0Matched:   s.timers.t0Matched,
		T1Reload:    s.timers.t1Reload,
		T1EveryLine: s.timers.t1EveryLine,
	}
	return out
}

// Restore reinstates a previously captured record.
func (s *SCU) Restore(st state.SCUState) {
	s.arb.mask = st.IntrMask
	s.arb.status = st.IntrStatus
	for i := range s.channels {
		c := &s.channels[i]
		cs := st.Channels[i]
		c.currSrcAddr = cs.Src
		c.currDstAddr = cs.Dst
		c.currXferCount = cs.Count
		c.active = cs.Active
	}
	s.timers.enable = st.Timers.Enable
	s.timers.t0Counter = st.Timers.T0Counter
	s.timers.t0Compare = st.Timers.T0Compare
	s.timers.t0Matched = st.Timers.T0Matched
	s.timers.t1Reload = st.Timers.T1Reload
	s.timers.t1EveryLine = st.Timers.T1EveryLine
}
