package cdblock

import "github.com/kouen-dev/go-satemu/saturn/scheduler"

// Drive timing constants, grounded on the original core's cdblock_defs:
// a periodic report fires every DriveCyclesNotPlaying cycles when
// idle/seeking, or every DriveCyclesPlaying1x cycles while playing at 1x
// (half that at 2x speed, see period).
const (
	CyclesPerSecond        = 20_000_000
	DriveCyclesNotPlaying  = 1_000_000
	DriveCyclesPlaying1x   = 800_000
	minStandbyTime         = 60
	maxStandbyTime         = 900
)

// DiscImage is the minimal raw-sector read contract a disc-image loader
// must satisfy. Parsing actual container formats (.iso/.ccd/.mds/.chd)
// is out of scope (spec.md §1 Non-goals); this interface is the
// in-scope track/sector model seam such a loader adapts into.
type DiscImage interface {
	// ReadSector returns the 2048-byte user-data payload at the given
	// logical block address (FAD minus the standard 150-sector lead-in).
	ReadSector(lba uint32) (data [2048]byte, ok bool)
}

// Drive holds the CD drive's transition-graph state: current status,
// target/current frame address, read speed, and the periodic-report
// scheduler hookup.
type Drive struct {
	State DriveState
	Speed uint8 // 1 or 2

	discInserted bool
	currentFAD   uint32
	targetFAD    uint32
	playEndFAD   uint32
	repeatCount  uint8
	image        DiscImage

	sched   *scheduler.Scheduler
	eventID scheduler.EventID

	// OnSectorReady is invoked once per delivered sector while playing,
	// with the sector filled in at currentFAD.
	OnSectorReady func(fad uint32)
	// OnReport is invoked once per periodic tick so the command layer can
	// latch HIRQ_SCDQ.
	OnReport func()
}

// NewDrive creates a drive attached to sched, registering its periodic
// report event.
func NewDrive(sched *scheduler.Scheduler) *Drive {
	d := &Drive{State: DriveNoDisc, Speed: 1, sched: sched}
	d.eventID = sched.RegisterEvent("cdblock.periodic", d, func(ctx any) {
		ctx.(*Drive).onPeriodic()
	})
	sched.SetEventCountFactor(d.eventID, 1, 1)
	d.arm()
	return d
}

func (d *Drive) period() int64 {
	switch d.State {
	case DrivePlay, DriveScan:
		if d.Speed >= 2 {
			return DriveCyclesPlaying1x / 2
		}
		return DriveCyclesPlaying1x
	case DriveNoDisc, DriveOpen:
		return DriveCyclesNotPlaying
	default:
		return DriveCyclesNotPlaying
	}
}

func (d *Drive) arm() {
	d.sched.Reschedule(d.eventID, d.period())
}

// rearm re-times the periodic event from the current moment rather than
// from its previous target, used whenever a command changes the drive's
// state (and therefore its cadence) outside of the periodic callback
// itself.
func (d *Drive) rearm() {
	d.sched.ScheduleAt(d.eventID, d.sched.Now()+d.period())
}

func (d *Drive) onPeriodic() {
	switch d.State {
	case DrivePlay:
		d.advancePlayback()
	case DriveScan:
		d.advanceScan()
	}
	if d.OnReport != nil {
		d.OnReport()
	}
	d.arm()
}

func (d *Drive) advancePlayback() {
	if !d.discInserted {
		d.State = DriveNoDisc
		return
	}
	fad := d.currentFAD
	if d.OnSectorReady != nil {
		d.OnSectorReady(fad)
	}
	d.currentFAD++
	if d.playEndFAD != 0 && d.currentFAD >= d.playEndFAD {
		if d.repeatCount == 0 {
			d.State = DrivePause
			return
		}
		if d.repeatCount != 0xFF { // 0xFF means infinite repeat
			d.repeatCount--
		}
		d.currentFAD = d.targetFAD
	}
}

func (d *Drive) advanceScan() {
	if !d.discInserted {
		d.State = DriveNoDisc
		return
	}
	d.currentFAD += 10 // scan skips ahead faster than 1x playback
}

// OpenTray and CloseTray model the physical lid switch.
func (d *Drive) OpenTray() {
	d.State = DriveOpen
	d.discInserted = false
}

func (d *Drive) CloseTray(hasDisc bool) {
	d.discInserted = hasDisc
	if hasDisc {
		d.State = DrivePause
	} else {
		d.State = DriveNoDisc
	}
	d.rearm()
}

// Seek moves the drive head to fad and settles in Pause once reached.
// This core models seeking as instantaneous (no intermediate DriveSeek
// tick delay beyond the state's own periodic report), matching how the
// original core's seek-time estimate is itself just a status flag rather
// than additional emulated latency for most callers.
func (d *Drive) Seek(fad uint32) {
	if !d.discInserted {
		return
	}
	d.State = DriveSeek
	d.currentFAD = fad
	d.State = DrivePause
	d.rearm()
}

// Play begins sequential playback from startFAD to endFAD (0 = play to
// end of disc), repeating repeatCount times (0xFF = infinite).
func (d *Drive) Play(startFAD, endFAD uint32, repeatCount uint8) {
	if !d.discInserted {
		return
	}
	d.currentFAD = startFAD
	d.targetFAD = startFAD
	d.playEndFAD = endFAD
	d.repeatCount = repeatCount
	d.State = DrivePlay
	d.rearm()
}

func (d *Drive) Scan(startFAD uint32) {
	if !d.discInserted {
		return
	}
	d.currentFAD = startFAD
	d.State = DriveScan
	d.rearm()
}

func (d *Drive) Pause() {
	if d.State == DrivePlay || d.State == DriveScan {
		d.State = DrivePause
		d.rearm()
	}
}

func (d *Drive) Stop() {
	if d.discInserted {
		d.State = DrivePause
	} else {
		d.State = DriveNoDisc
	}
	d.rearm()
}

// SetImage mounts img as the drive's raw sector source. A nil image
// leaves sector/filesystem reads failing even if discInserted is true;
// playback and TOC queries don't need one.
func (d *Drive) SetImage(img DiscImage) { d.image = img }

// ReadSector reads one 2048-byte user-data sector at the given logical
// block address from the mounted disc image.
func (d *Drive) ReadSector(lba uint32) (data [2048]byte, ok bool) {
	if d.image == nil {
		return data, false
	}
	return d.image.ReadSector(lba)
}

// CurrentFAD reports the drive's current frame address, for
// CmdGetSubcodeQ_RW and CmdGetSectorInfo-adjacent reporting.
func (d *Drive) CurrentFAD() uint32 { return d.currentFAD }

// TOCEntry is one track of the disc's table of contents. The core keeps
// this minimal (a single data track) since disc-image-format parsing
// beyond the track/sector model is out of scope (spec.md §1 Non-goals);
// a real multi-track TOC is something a DiscImage implementation could
// supply, but no caller in this core needs more than track 1's start.
type TOCEntry struct {
	Track   uint8
	FAD     uint32
	Control uint8 // ADR/control nibble pair; CmdGetTOC reports Track and FAD, not this field
}

// TOC returns the disc's track list, or nil if no disc is inserted.
func (d *Drive) TOC() []TOCEntry {
	if !d.discInserted {
		return nil
	}
	return []TOCEntry{{Track: 1, FAD: 150, Control: 0x41}}
}

// StatusCode packs the drive state into the byte reported in CR1.
func (d *Drive) StatusCode() uint8 {
	switch d.State {
	case DriveNoDisc:
		return StatusNoDisc
	case DrivePause:
		return StatusPause
	case DriveSeek:
		return StatusSeek
	case DrivePlay:
		return StatusPlay
	case DriveScan:
		return StatusScan
	case DriveOpen:
		return StatusOpen
	default:
		return StatusFatal
	}
}
