package state

// legacySCSPSlotState is the pre-v3 SCSP slot record: no SBCTL/EGBypass
// bits and a 24-bit currPhase rather than the current 20-bit form. v1 and
// v2 share this same slot layout; no other documented field additions
// exist between v1 and v2, so the v1->v2 step is an identity copy and
// only v2->v3 performs real field surgery.
type legacySCSPSlotState struct {
	StartAddress uint32
	LoopStart    uint16
	LoopEnd      uint16
	KeyOn        bool
	EGLevel      uint16
	EGState      uint8
	CurrPhase    uint32 // 24-bit value, pre-v3
}

type legacySCSPState struct {
	Slots        [32]legacySCSPSlotState
	MasterVolume uint8
	SCIEB, SCIPD uint16
	MCIEB, MCIPD uint16
}

// legacyState is the full v1/v2 record shape: identical to State except
// for the SCSP block's slot layout.
type legacyState struct {
	Version int

	Scheduler SchedulerState
	SCU       SCUState
	SCUDSP    SCUDSPState
	SCSP      legacySCSPState
	CDBlock   CDBlockState
	Cartridge CartridgeState
	Sysmem    SysmemState

	SlaveSpilloverCycles int64
}

// upgradeToV3 converts a decoded legacy (v1 or v2) record into the
// current State, performing the documented currPhase decompression: a
// v1/v2 24-bit currPhase becomes the v3 20-bit form by shifting right 4,
// and nextPhase is initialized equal to it. SBCTL and EGBypass default to
// their zero values (0 and false), matching spec.md §8 scenario 6 exactly.
func upgradeToV3(old *legacyState) *State {
	s := &State{
		Version:              currentVersion,
		Scheduler:            old.Scheduler,
		SCU:                  old.SCU,
		SCUDSP:               old.SCUDSP,
		CDBlock:              old.CDBlock,
		Cartridge:            old.Cartridge,
		Sysmem:               old.Sysmem,
		SlaveSpilloverCycles: old.SlaveSpilloverCycles,
	}
	s.SCSP.MasterVolume = old.SCSP.MasterVolume
	s.SCSP.SCIEB = old.SCSP.SCIEB
	s.SCSP.SCIPD = old.SCSP.SCIPD
	s.SCSP.MCIEB = old.SCSP.MCIEB
	s.SCSP.MCIPD = old.SCSP.MCIPD

	for i := range old.SCSP.Slots {
		ls := &old.SCSP.Slots[i]
		ns := &s.SCSP.Slots[i]
		ns.StartAddress = ls.StartAddress
		ns.LoopStart = ls.LoopStart
		ns.LoopEnd = ls.LoopEnd
		ns.KeyOn = ls.KeyOn
		ns.EGLevel = ls.EGLevel
		ns.EGState = ls.EGState
		ns.CurrPhase = ls.CurrPhase >> 4
		ns.NextPhase = ns.CurrPhase
		ns.SBCTL = 0
		ns.EGBypass = false
	}
	return s
}
