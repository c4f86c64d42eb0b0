// Package state implements the versioned save-state layout: one flat,
// stably-ordered record per component plus a top-level State aggregate,
// upgraded field-by-field when loading an older version. See spec.md
// §4.13 and the worked upgrade example in §8 scenario 6.
package state

const (
	magic          = "STSV"
	currentVersion = 3
)

// SchedulerState mirrors saturn/scheduler's persisted fields: the current
// master-clock position and each registered event's outstanding target
// and ratio (identified by registration index, which is stable across a
// save/load cycle since events are only ever registered at construction).
type SchedulerState struct {
	Now    int64
	Events []SchedulerEventState
}

type SchedulerEventState struct {
	Target int64
	Num    int64
	Den    int64
	Active bool
}

// SCUState mirrors saturn/scu's interrupt arbiter, DMA channels, and
// timers.
type SCUState struct {
	IntrMask   uint32
	IntrStatus uint32
	Channels   [3]SCUDMAChannelState
	Timers     SCUTimerState
}

type SCUDMAChannelState struct {
	Src, Dst, Count uint32
	Active          bool
}

// SCUTimerState mirrors saturn/scu's timer block registers and live
// counters.
type SCUTimerState struct {
	Enable      bool
	T0Counter   uint16
	T0Compare   uint16
	T0Matched   bool
	T1Reload    uint16
	T1EveryLine bool
}

// SCUDSPState mirrors saturn/scudsp's program/data RAM and register file.
type SCUDSPState struct {
	ProgramRAM [256]uint32
	DataRAM    [4][64]uint32
	CT         [4]uint8
	PC         uint8
	Executing  bool
	ALU        int64
	RX, RY     int32
	LOP        uint16
	TOP        uint8
}

// SCSPSlotState is the per-voice record. Fields below the "v3" comment
// were introduced in version 3; loading an older state fills them with
// the documented defaults during upgrade rather than leaving them zero
// by accident, since zero happens to already be the correct default here
// (kept explicit in legacy.go for readability, not because zero-value
// would differ).
type SCSPSlotState struct {
	StartAddress uint32
	LoopStart    uint16
	LoopEnd      uint16
	KeyOn        bool
	EGLevel      uint16
	EGState      uint8
	CurrPhase    uint32

	// v3 fields.
	NextPhase uint32
	SBCTL     uint8
	EGBypass  bool
}

type SCSPState struct {
	Slots        [32]SCSPSlotState
	MasterVolume uint8
	SCIEB, SCIPD uint16
	MCIEB, MCIPD uint16
}

// CDBlockState mirrors saturn/cdblock's drive and filter configuration.
// Buffered sector contents are intentionally excluded: spec.md's
// Non-goals exclude persisting in-flight disc-image contents, only the
// drive's logical position and filter wiring.
type CDBlockState struct {
	DriveState   uint8
	CurrentFAD   uint32
	TargetFAD    uint32
	PlayEndFAD   uint32
	DiscInserted bool
	Filters      [24]CDBlockFilterState
}

type CDBlockFilterState struct {
	StartFrameAddress uint32
	FrameAddressCount uint32
	Mode              uint8
	FileNum, ChanNum  uint8
	SubmodeMask       uint8
	SubmodeValue      uint8
	CodingInfoMask    uint8
	CodingInfoValue   uint8
	PassOutput        uint8
	FailOutput        uint8
}

// CartridgeState mirrors saturn/cartridge's backing-store contents.
type CartridgeState struct {
	Kind uint8
	Data []byte
}

// SysmemState mirrors saturn/sysmem's WRAM and internal backup RAM.
type SysmemState struct {
	WRAMLow, WRAMHigh []byte
	BackupRAM         []byte
}

// State is the top-level save-state aggregate, plus the one spillover-
// cycle counter for the slave CPU that doesn't belong to any one
// component, per spec.md §4.13.
type State struct {
	Version int

	Scheduler  SchedulerState
	SCU        SCUState
	SCUDSP     SCUDSPState
	SCSP       SCSPState
	CDBlock    CDBlockState
	Cartridge  CartridgeState
	Sysmem     SysmemState

	SlaveSpilloverCycles int64
}
