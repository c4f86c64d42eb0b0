package saturn

import (
	"io"

	"github.com/kouen-dev/go-satemu/saturn/scheduler"
	"github.com/kouen-dev/go-satemu/saturn/state"
)

// SaveState captures the full core and writes it through state.Save.
func (sat *Saturn) SaveState(w io.Writer) error {
	now, events := sat.Scheduler.Snapshot()
	schedEvents := make([]state.SchedulerEventState, len(events))
	for i, e := range events {
		schedEvents[i] = state.SchedulerEventState{
			Target: e.Target, Num: e.Num, Den: e.Den, Active: e.Active,
		}
	}

	s := &state.State{
		Version:   3,
		Scheduler: state.SchedulerState{Now: now, Events: schedEvents},
		SCU:       sat.SCU.Capture(),
		SCUDSP:    sat.DSP.Capture(),
		SCSP:      sat.SCSP.Capture(),
		CDBlock:   sat.CDBlock.Capture(),
		Cartridge: sat.Cartridge.Capture(),
		Sysmem:    sat.SysMem.Capture(),
	}
	return state.Save(w, s)
}

// LoadState reads a save state and restores every component in place. The
// cartridge slot must already be the same Kind as when the state was
// captured (the facade doesn't reconstruct cartridge hardware from a save
// state, only its contents); a mismatch is reported as an error.
func (sat *Saturn) LoadState(r io.Reader) error {
	s, err := state.Load(r)
	if err != nil {
		return err
	}

	events := make([]scheduler.EventSnapshot, len(s.Scheduler.Events))
	for i, e := range s.Scheduler.Events {
		events[i] = scheduler.EventSnapshot{Target: e.Target, Num: e.Num, Den: e.Den, Active: e.Active}
	}
	sat.Scheduler.Restore(s.Scheduler.Now, events)

	sat.SCU.Restore(s.SCU)
	sat.DSP.Restore(s.SCUDSP)
	sat.SCSP.Restore(s.SCSP)
	sat.CDBlock.Restore(s.CDBlock)
	sat.SysMem.Restore(s.Sysmem)
	return sat.Cartridge.Restore(s.Cartridge)
}
