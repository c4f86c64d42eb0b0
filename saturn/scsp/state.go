package scsp

import "github.com/kouen-dev/go-satemu/saturn/state"

// Capture returns the 32 slots' configuration/live state plus the master
// volume and both interrupt register pairs, as a save-state record. Sound
// RAM contents, the effects DSP, and the CDDA/MIDI rings are excluded per
// spec.md §4.13's record shape.
func (b *Block) Capture() state.SCSPState {
	var out state.SCSPState
	for i := range b.Slots {
		sl := &b.Slots[i]
		out.Slots[i] = state.SCSPSlotState{
			StartAddress: sl.StartAddress,
			LoopStart:    sl.LoopStart,
			LoopEnd:      sl.LoopEnd,
			KeyOn:        sl.KeyOn,
			EGLevel:      sl.egLevel,
			EGState:      uint8(sl.egState),
			CurrPhase:    sl.currPhase,
			NextPhase:    sl.nextPhase,
			SBCTL:        sl.SBCTL,
			EGBypass:     sl.EGBypass,
		}
	}
	out.MasterVolume = b.masterVolume
	out.SCIEB = b.arbiter.scieb
	out.SCIPD = b.arbiter.scipd
	out.MCIEB = b.arbiter.mcieb
	out.MCIPD = b.arbiter.mcipd
	return out
}

// Restore reinstates a previously captured record.
func (b *Block) Restore(s state.SCSPState) {
	for i := range b.Slots {
		sl := &b.Slots[i]
		ss := s.Slots[i]
		sl.StartAddress = ss.StartAddress
		sl.LoopStart = ss.LoopStart
		sl.LoopEnd = ss.LoopEnd
		sl.KeyOn = ss.KeyOn
		sl.egLevel = ss.EGLevel
		sl.egState = EGState(ss.EGState)
		sl.currPhase = ss.CurrPhase
		sl.nextPhase = ss.NextPhase
		sl.SBCTL = ss.SBCTL
		sl.EGBypass = ss.EGBypass
	}
	b.masterVolume = s.MasterVolume
	b.arbiter.scieb = s.SCIEB
	b.arbiter.scipd = s.SCIPD
	b.arbiter.mcieb = s.MCIEB
	b.arbiter.mcipd = s.MCIPD
}
