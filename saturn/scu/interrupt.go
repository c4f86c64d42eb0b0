package scu

import (
	"log/slog"

	"github.com/kouen-dev/go-satemu/saturn/addr"
	"github.com/kouen-dev/go-satemu/saturn/bit"
)

// InterruptSink receives the two CPU-facing interrupt lines. Master always
// gets every raised interrupt; slave only gets VBlank IN and HBlank IN (see
// spec.md §4.3). Modeled as a small interface rather than a raw
// function-pointer + context pair per spec.md §9.
type InterruptSink interface {
	ExternalInterrupt(level, vector uint8)
}

// pending holds the single highest-priority outstanding interrupt.
type pending struct {
	level uint8
	index int // -1 when nothing pending
}

// interruptArbiter is the SCU's interrupt mask/status state and priority
// logic. Embedded into SCU.
type interruptArbiter struct {
	mask   uint32
	status uint32
	pend   pending

	master InterruptSink
	slave  InterruptSink
}

func newInterruptArbiter() interruptArbiter {
	return interruptArbiter{
		mask: addr.DefaultInterruptMask,
		pend: pending{index: -1},
	}
}

// RaiseInternal sets an internal interrupt source's status bit (indices
// 0..13) and re-evaluates the arbiter.
func (a *interruptArbiter) RaiseInternal(s *SCU, index int) {
	a.status = uint32(bit.Set(uint(index), a.status))
	s.reevaluate()
}

// RaiseExternal sets an external interrupt source's status bit (indices
// 16..31).
func (a *interruptArbiter) RaiseExternal(s *SCU, index int) {
	a.status = uint32(bit.Set(uint(index), a.status))
	s.reevaluate()
}

// SetMask replaces the interrupt mask register and re-evaluates.
func (a *interruptArbiter) SetMask(s *SCU, mask uint32) {
	a.mask = mask
	s.reevaluate()
}

// highestInternal returns the highest-priority unmasked internal source
// index and its level, or (-1, 0) if none.
func highestInternal(active uint32) (index int, level uint8) {
	index = -1
	for bits := active; bits != 0; {
		i := bit.CountTrailingZeros32(bits)
		if i >= 14 {
			break
		}
		bits = bits &^ (1 << uint(i))
		l := addr.InternalLevels[i]
		if index == -1 || l > level {
			index, level = i, l
		}
	}
	return
}

// highestExternal returns the highest-priority unmasked external source
// index (16..31) and its level, or (-1, 0) if none.
func highestExternal(active uint32) (index int, level uint8) {
	index = -1
	for i := 16; i <= 31; i++ {
		if bit.IsSet(uint(i), active) {
			l := addr.ExternalLevel(i)
			if index == -1 || l > level {
				index, level = i, l
			}
		}
	}
	return
}

// reevaluate recomputes the arbiter on every change to status&^mask and, per
// spec.md §4.3, raises the relevant CPU line(s) when a strictly higher
// priority interrupt appears.
func (s *SCU) reevaluate() {
	a := &s.arb
	active := a.status &^ a.mask

	intIdx, intLevel := highestInternal(active)

	extIdx, extLevel := -1, uint8(0)
	if !bit.IsSet(15, a.mask) { // bit 15 clear => external gate open
		extIdx, extLevel = highestExternal(active)
	}

	var idx int
	var level uint8
	switch {
	case intIdx == -1 && extIdx == -1:
		return
	case extIdx == -1:
		idx, level = intIdx, intLevel
	case intIdx == -1:
		idx, level = extIdx, extLevel
	case extLevel > intLevel:
		idx, level = extIdx, extLevel
	default: // ties go to internal
		idx, level = intIdx, intLevel
	}

	if level <= a.pend.level && a.pend.index != -1 {
		return
	}

	a.pend = pending{level: level, index: idx}
	a.status = uint32(bit.Clear(uint(idx), a.status))

	var vector uint8
	if idx < 14 {
		vector = addr.InternalVectorBase + uint8(idx)
	} else {
		vector = addr.ExternalVectorBase + uint8(idx-16)
	}

	slog.Debug("scu: raising interrupt", "index", idx, "level", level, "vector", vector)
	if a.master != nil {
		a.master.ExternalInterrupt(level, vector)
	}

	if idx == addr.IntrVBlankIN && a.slave != nil {
		a.slave.ExternalInterrupt(addr.SlaveVBlankINLevel, addr.SlaveVBlankINVector)
	}
	if idx == addr.IntrHBlankIN && a.slave != nil {
		a.slave.ExternalInterrupt(addr.SlaveHBlankINLevel, addr.SlaveHBlankINVector)
	}
}

// AcknowledgeExternalInterrupt is called by the CPU wrapper. It clears the
// pending level and resets the mask to the default (gate off). The sinks
// are not notified: InterruptSink has no call for lowering a line.
func (s *SCU) AcknowledgeExternalInterrupt() {
	s.arb.pend = pending{index: -1}
	s.arb.mask = addr.DefaultInterruptMask
}
