// Package saturn wires every component (scheduler, bus, SCU, SCU-DSP,
// SCSP, CD block, cartridge slot, system memory) into the single
// cooperative core described in spec.md §2, following its dependency
// order: clock ratios → scheduler → bus → (SCU DSP, SCSP, drive) → (SCU,
// CD block) → this facade. Modeled after jeebie/events.EventDrivenEmulator,
// generalized from a single CPU+GPU+MMU triple to this core's larger
// component set and its own run_frame() contract rather than a fixed
// instruction-dispatch loop.
package saturn

import (
	"github.com/kouen-dev/go-satemu/saturn/addr"
	"github.com/kouen-dev/go-satemu/saturn/bus"
	"github.com/kouen-dev/go-satemu/saturn/cartridge"
	"github.com/kouen-dev/go-satemu/saturn/cdblock"
	"github.com/kouen-dev/go-satemu/saturn/clock"
	"github.com/kouen-dev/go-satemu/saturn/debug"
	"github.com/kouen-dev/go-satemu/saturn/scheduler"
	"github.com/kouen-dev/go-satemu/saturn/scsp"
	"github.com/kouen-dev/go-satemu/saturn/scu"
	"github.com/kouen-dev/go-satemu/saturn/scudsp"
	"github.com/kouen-dev/go-satemu/saturn/sysmem"
)

// cdBlockExternalLine is the SCU external interrupt index the CD block's
// HIRQ-gated request line is wired to. spec.md fixes the four external
// priority bands (16-19 level 7, 20-23 level 4, 24-31 level 1) but leaves
// the exact per-device index assignment as an Open Question; this core
// assigns the CD block the first line of the level-7 band, matching real
// hardware's highest-priority external source (see DESIGN.md).
const cdBlockExternalLine = 16

// Saturn is the top-level facade. It owns no CPU core: the two RISC CPUs
// and the auxiliary sound CPU are external collaborators (spec.md §1's
// Non-goals) that drive the core purely through Bus reads/writes and the
// Trigger*/On* methods below; register an InterruptSink via SetMasterLine/
// SetSlaveLine to receive interrupts back.
type Saturn struct {
	Scheduler *scheduler.Scheduler
	Bus       *bus.Bus
	SCU       *scu.SCU
	DSP       *scudsp.DSP
	SCSP      *scsp.Block
	CDBlock   *cdblock.Block
	Cartridge *cartridge.Cartridge
	SysMem    *sysmem.SysMem

	clockTable clock.Table
	domains    clock.Domains

	scspEvent scheduler.EventID
	dspEvent  scheduler.EventID

	tracer     debug.Tracer
	frameCount uint64
}

// New builds a fully wired Saturn core for the given video timing standard
// and cartridge slot contents. A nil cartridge defaults to an empty slot; a
// nil tracer disables dev-log tracing everywhere at zero per-call cost.
func New(std clock.Standard, dot clock.DotClock, cart *cartridge.Cartridge, tracer debug.Tracer) *Saturn {
	if tracer == nil {
		tracer = debug.Nop
	}
	if cart == nil {
		cart = cartridge.NewNone()
	}

	sched := scheduler.New()
	b := bus.New()

	sat := &Saturn{
		Scheduler:  sched,
		Bus:        b,
		SCSP:       scsp.New(),
		CDBlock:    cdblock.New(sched, tracer),
		Cartridge:  cart,
		SysMem:     sysmem.New(),
		clockTable: clock.Build(),
		tracer:     tracer,
	}
	sat.domains = sat.clockTable.For(std, dot)

	sat.DSP = scudsp.New(b) // *bus.Bus satisfies scudsp.D0Bus directly
	sat.SCU = scu.New(sched, b)
	sat.SCU.SetDSP(sat.DSP)

	sat.SysMem.MapOnto(b)
	sat.Cartridge.MapOnto(b)
	sat.SCSP.MapOnto(b)
	sat.CDBlock.MapOnto(b)
	sat.SCU.MapOnto(b, b)

	sat.CDBlock.RaiseInterrupt = func() {
		sat.SCU.RaiseExternal(cdBlockExternalLine)
	}
	sat.SCSP.SoundRequest = func(level bool) {
		if level {
			sat.SCU.RaiseInternal(addr.IntrSoundRequest)
		}
	}

	sat.scspEvent = sched.RegisterEvent("scsp.sample", sat, func(ctx any) {
		ctx.(*Saturn).onSCSPSample()
	})
	sched.SetEventCountFactor(sat.scspEvent, sat.domains.SCSP.Num, sat.domains.SCSP.Den)
	sched.ScheduleFromNow(sat.scspEvent, 512) // one sample = 512 SCSP cycles

	sat.dspEvent = sched.RegisterEvent("scudsp.step", sat, func(ctx any) {
		ctx.(*Saturn).onDSPStep()
	})
	sched.ScheduleFromNow(sat.dspEvent, 1)

	return sat
}

// onSCSPSample ticks the SCSP exactly once per sample (every 512 SCSP
// cycles, a 44.1 kHz cadence), then reschedules itself.
func (sat *Saturn) onSCSPSample() {
	sat.SCSP.Tick()
	sat.Scheduler.Reschedule(sat.scspEvent, 512)
}

// onDSPStep fetches/decodes/executes one SCU-DSP instruction per master
// cycle; Step is a no-op while the program isn't executing, so this stays
// armed continuously rather than needing to be re-kicked on Start/Stop.
func (sat *Saturn) onDSPStep() {
	sat.DSP.Step()
	sat.Scheduler.Reschedule(sat.dspEvent, 1)
}

// RunFrame advances the master clock by masterCycles, letting the
// scheduler dispatch every event up to that point — the generic algorithm
// spec.md §2 describes for run_frame(): pull the next event, advance
// components to its timestamp, dispatch, repeat. The caller (an external
// CPU/video driver) supplies the cycle budget for one frame since video
// timing itself is outside this core's scope.
func (sat *Saturn) RunFrame(masterCycles int64) {
	sat.Scheduler.Advance(masterCycles)
	sat.frameCount++
	sat.tracer.Trace(debug.CategoryFacade, "frame advanced",
		"frame", sat.frameCount, "cycles", masterCycles, "now", sat.Scheduler.Now())
}

// FrameCount reports how many RunFrame calls have completed.
func (sat *Saturn) FrameCount() uint64 { return sat.frameCount }

// TriggerVBlankIN / TriggerVBlankOUT / TriggerHBlankIN / TriggerSpriteDrawEnd
// forward the video pipeline's timing signals into the SCU, per spec.md
// §4.5's DMA-trigger and timer semantics. The video rasterizer itself is an
// external collaborator (spec.md §1 Non-goals); it calls these at the
// timestamps its own scanline/frame counters dictate.
func (sat *Saturn) TriggerVBlankIN()      { sat.SCU.TriggerVBlankIN() }
func (sat *Saturn) TriggerVBlankOUT()     { sat.SCU.TriggerVBlankOUT() }
func (sat *Saturn) TriggerHBlankIN()      { sat.SCU.OnHBlankIN() }
func (sat *Saturn) TriggerSpriteDrawEnd() { sat.SCU.TriggerSpriteDrawEnd() }
