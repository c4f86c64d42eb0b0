// Package scu implements the System Control Unit: interrupt arbiter, DMA
// engine, and timer block described in spec.md §4.3-§4.5. It sits on the
// bus between the main CPUs and every other component.
package scu

import (
	"github.com/kouen-dev/go-satemu/saturn/addr"
	"github.com/kouen-dev/go-satemu/saturn/scheduler"
)

type schedulerEventID = scheduler.EventID

// SCU is the System Control Unit.
type SCU struct {
	arb      interruptArbiter
	timers   timerState
	channels [3]Channel

	sched      *scheduler.Scheduler
	busForDMA  memBus
	dsp        DSPPort

	// cartridge/debug port and A-Bus config registers are bus-visible but
	// have no behavioral effect beyond readback in this core.
	aBusCtl0, aBusCtl1, aBusRefresh uint32
	wramSizeSelect                  uint32
}

// New creates an SCU wired to the given scheduler and DMA-capable bus.
func New(sched *scheduler.Scheduler, m memBus) *SCU {
	s := &SCU{
		arb:       newInterruptArbiter(),
		sched:     sched,
		busForDMA: m,
	}
	for i := range s.channels {
		s.channels[i].index = i
	}
	s.timers.timer1Event = sched.RegisterEvent("scu-timer1", s, func(ctx any) {
		ctx.(*SCU).fireTimer1()
	})
	return s
}

// SetMasterLine / SetSlaveLine wire the two CPU interrupt-line sinks.
func (s *SCU) SetMasterLine(sink InterruptSink) { s.arb.master = sink }
func (s *SCU) SetSlaveLine(sink InterruptSink)  { s.arb.slave = sink }

// RaiseInternal raises one of the 14 internal interrupt sources (0..13).
func (s *SCU) RaiseInternal(index int) { s.arb.RaiseInternal(s, index) }

// RaiseExternal raises one of the 16 external interrupt sources (16..31).
func (s *SCU) RaiseExternal(index int) { s.arb.RaiseExternal(s, index) }

// SetInterruptMask replaces the interrupt mask register.
func (s *SCU) SetInterruptMask(mask uint32) { s.arb.SetMask(s, mask) }

// InterruptStatus / InterruptMask expose the raw registers for MMIO reads
// and debug inspection.
func (s *SCU) InterruptStatus() uint32 { return s.arb.status }
func (s *SCU) InterruptMask() uint32   { return s.arb.mask }

// Channel returns a pointer to one of the three DMA channels (0..2) for
// register access.
func (s *SCU) Channel(i int) *Channel { return &s.channels[i] }

// Active reports whether a DMA channel currently has a transfer in
// progress, satisfying the invariant that active==true iff a transfer is
// underway.
func (c *Channel) Active() bool { return c.active }

// WriteEnable sets the channel's enable bit; enabling a channel whose
// trigger is TriggerImmediate runs its whole transfer inline, before
// WriteEnable returns.
func (c *Channel) WriteEnable(enable bool, s *SCU, m memBus) {
	c.enable = enable
	if enable && c.trigger == TriggerImmediate {
		c.Start(s, m)
	}
}

// Configure sets up a channel's registers ahead of a Start.
func (c *Channel) Configure(src, dst, count, srcInc, dstInc uint32, indirect bool, trig Trigger, updateSrc, updateDst bool) {
	c.srcAddr = src
	c.dstAddr = dst
	c.xferCount = count
	c.srcAddrInc = srcInc
	c.dstAddrInc = dstInc
	c.indirect = indirect
	c.trigger = trig
	c.updateSrc = updateSrc
	c.updateDst = updateDst
}

// CurrentState exposes the live transfer-in-progress fields for debug/save
// state.
func (c *Channel) CurrentState() (srcAddr, dstAddr, xferCount uint32) {
	return c.currSrcAddr, c.currDstAddr, c.currXferCount
}

// SetTimerEnable is the global gate for both timers; clearing it stops them
// immediately.
func (s *SCU) SetTimerEnable(enable bool) { s.timers.enable = enable }

// SetTimer0Compare / SetTimer1Reload / SetTimer1Mode configure the timer
// block's registers.
func (s *SCU) SetTimer0Compare(v uint16)  { s.timers.t0Compare = v }
func (s *SCU) SetTimer1Reload(v uint16)   { s.timers.t1Reload = v }
func (s *SCU) SetTimer1Mode(everyLine bool) { s.timers.t1EveryLine = everyLine }

// TriggerSoundRequest is raised by the SCSP when the sound-request line
// changes. A rising edge fires the DMA channels armed for it.
func (s *SCU) TriggerSoundRequest(level bool) {
	if level {
		s.FireTrigger(TriggerSoundRequest, s.busForDMA)
	}
}

// TriggerSpriteDrawEnd is raised by the video pipeline at end-of-draw.
func (s *SCU) TriggerSpriteDrawEnd() {
	s.RaiseInternal(addr.IntrSpriteDrawEnd)
	s.FireTrigger(TriggerSpriteDrawEnd, s.busForDMA)
}

// TriggerVBlankIN is raised by the video pipeline at VBlank start.
func (s *SCU) TriggerVBlankIN() {
	s.RaiseInternal(addr.IntrVBlankIN)
	s.FireTrigger(TriggerVBlankIN, s.busForDMA)
}

// TriggerVBlankOUT is raised by the video pipeline at VBlank end.
func (s *SCU) TriggerVBlankOUT() {
	s.RaiseInternal(addr.IntrVBlankOUT)
	s.OnVBlankOUT()
}

// SystemManagerInterrupt is raised by the SMPC.
func (s *SCU) SystemManagerInterrupt() {
	s.RaiseInternal(addr.IntrSystemManager)
}
