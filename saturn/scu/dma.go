package scu

import (
	"log/slog"

	"github.com/kouen-dev/go-satemu/saturn/addr"
)

// Trigger selects which of the eight firing events starts a DMA channel.
type Trigger int

const (
	TriggerVBlankIN Trigger = iota
	TriggerVBlankOUT
	TriggerHBlankIN
	TriggerTimer0
	TriggerTimer1
	TriggerSoundRequest
	TriggerSpriteDrawEnd
	TriggerImmediate
)

// busRegion classifies an address for DMA increment/illegal-transfer rules.
type busRegion int

const (
	busNone busRegion = iota
	busABus
	busBBus
	busWRAM
	busCS2
	busWRAMLow
)

func classifyBus(address uint32) busRegion {
	switch {
	case address >= addr.ABusCS0Lo && address <= addr.ABusCS1Hi:
		return busABus
	case address >= addr.ABusCS2Lo && address <= addr.ABusCS2Hi:
		return busCS2
	case address >= 0x0600_0000 && address <= 0x07FF_FFFF:
		return busWRAM
	case address >= addr.WRAMLowLo && address <= addr.WRAMLowHi:
		return busWRAMLow
	case address >= addr.SoundRAMLo && address <= addr.VDP2RegsHi:
		return busBBus
	default:
		return busNone
	}
}

// maxXferBytes is the maximum transfer size per channel, per spec.md §4.4.
func maxXferBytes(channel int) uint32 {
	if channel == 0 {
		return 1 << 20
	}
	return 4 << 10
}

// Channel is one of the SCU's three DMA channels.
type Channel struct {
	index int

	srcAddr, dstAddr   uint32
	xferCount          uint32
	srcAddrInc         uint32 // 0 or 4
	dstAddrInc         uint32 // 0, 2, 4, 8, ... 128 (power of two) on B-Bus; 0/4 on CS2
	updateSrc, updateDst bool // write back current addr on completion
	indirect           bool
	enable             bool
	trigger            Trigger

	currSrcAddr, currDstAddr uint32
	currXferCount            uint32
	active                   bool
}

// memBus is the minimal bus surface the DMA engine needs, satisfied by
// *bus.Bus. Kept as an interface so dma.go doesn't import the bus package.
type memBus interface {
	Read16(addr uint32) uint16
	Write16(addr uint32, value uint16)
	Read32(addr uint32) uint32
	Write32(addr uint32, value uint32)
}

// Start captures the configured registers into the live "current" fields and
// begins a transfer. Illegal configurations (same-bus transfer, or either
// endpoint in the "None" region) raise the DMA-illegal interrupt and leave
// the channel inactive without performing any bus access.
func (c *Channel) Start(s *SCU, m memBus) {
	srcBus := classifyBus(c.srcAddr)
	dstBus := classifyBus(c.dstAddr)

	if srcBus == busNone || dstBus == busNone || srcBus == dstBus {
		slog.Warn("scu: illegal DMA transfer", "channel", c.index, "src", c.srcAddr, "dst", c.dstAddr)
		s.RaiseInternal(addr.IntrDMAIllegal)
		c.active = false
		return
	}

	c.currSrcAddr = c.srcAddr
	c.currDstAddr = c.dstAddr
	count := c.xferCount
	if count == 0 {
		count = maxXferBytes(c.index)
	}
	c.currXferCount = count
	c.active = true

	if c.indirect {
		c.runIndirect(s, m)
	} else {
		c.runDirect(s, m, srcBus, dstBus)
	}
}

// runDirect transfers 32 bits at a time, including the final word once
// currXferCount drops to <= 4, per spec.md §4.4 and the quantified DMA
// invariant in §8 (ceil(requested_count / 4) destination writes).
func (c *Channel) runDirect(s *SCU, m memBus, srcBus, dstBus busRegion) {
	srcInc := c.effectiveIncrement(srcBus, c.srcAddrInc)
	dstInc := c.effectiveIncrement(dstBus, c.dstAddrInc)

	for c.currXferCount > 0 {
		last := c.currXferCount <= 4
		c.transferWord(m, srcBus, dstBus, srcInc, dstInc)
		if last {
			break
		}
	}
	c.finish(s)
}

func (c *Channel) effectiveIncrement(b busRegion, programmed uint32) uint32 {
	switch b {
	case busBBus:
		// power-of-two stride 0..128
		return programmed
	case busCS2:
		if programmed != 0 {
			return 4
		}
		return 0
	default: // ABus, WRAM obey the programmed increment directly
		return programmed
	}
}

func (c *Channel) transferWord(m memBus, srcBus, dstBus busRegion, srcInc, dstInc uint32) {
	var word uint32
	if srcBus == busBBus {
		hi := m.Read16(c.currSrcAddr)
		lo := m.Read16(c.currSrcAddr + 2)
		word = uint32(hi)<<16 | uint32(lo)
	} else {
		word = m.Read32(c.currSrcAddr)
	}

	if dstBus == busBBus {
		m.Write16(c.currDstAddr, uint16(word>>16))
		m.Write16(c.currDstAddr+2, uint16(word))
	} else {
		m.Write32(c.currDstAddr, word)
	}

	c.currSrcAddr += srcInc
	c.currDstAddr += dstInc
	if c.currXferCount >= 4 {
		c.currXferCount -= 4
	} else {
		c.currXferCount = 0
	}
}

// runIndirect walks the record list pointed to by dstAddr: each record is
// three 32-bit words (count, destination, source); the high bit of source
// marks the last record. See spec.md §4.4.
func (c *Channel) runIndirect(s *SCU, m memBus) {
	recordPtr := c.dstAddr

	for {
		count := m.Read32(recordPtr)
		dst := m.Read32(recordPtr + 4)
		srcRaw := m.Read32(recordPtr + 8)
		last := srcRaw&0x8000_0000 != 0
		src := srcRaw &^ 0x8000_0000

		srcBus := classifyBus(src)
		dstBus := classifyBus(dst)
		if srcBus == busNone || dstBus == busNone || srcBus == dstBus {
			slog.Warn("scu: illegal indirect DMA record", "channel", c.index)
			s.RaiseInternal(addr.IntrDMAIllegal)
			c.active = false
			return
		}

		c.currSrcAddr, c.currDstAddr = src, dst
		c.currXferCount = count
		if c.currXferCount == 0 {
			c.currXferCount = maxXferBytes(c.index)
		}

		srcInc := c.effectiveIncrement(srcBus, c.srcAddrInc)
		dstInc := c.effectiveIncrement(dstBus, c.dstAddrInc)
		for c.currXferCount > 0 {
			last := c.currXferCount <= 4
			c.transferWord(m, srcBus, dstBus, srcInc, dstInc)
			if last {
				break
			}
		}

		if last {
			break
		}
		recordPtr += 12
	}
	c.finish(s)
}

func (c *Channel) finish(s *SCU) {
	c.currXferCount = 0
	c.active = false
	if c.updateSrc {
		c.srcAddr = c.currSrcAddr
	}
	if c.updateDst {
		c.dstAddr = c.currDstAddr
	}
	switch c.index {
	case 0:
		s.RaiseInternal(addr.IntrDMAEnd0)
	case 1:
		s.RaiseInternal(addr.IntrDMAEnd1)
	case 2:
		s.RaiseInternal(addr.IntrDMAEnd2)
	}
}

// FireTrigger starts every enabled channel armed for the given trigger. It is
// called inline (not scheduled) by whichever component raises that event
// (VBlank/HBlank callbacks, timers, sound request, sprite-draw end).
func (s *SCU) FireTrigger(t Trigger, m memBus) {
	for i := range s.channels {
		c := &s.channels[i]
		if c.enable && c.trigger == t && !c.active {
			c.Start(s, m)
		}
	}
}
