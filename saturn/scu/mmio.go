package scu

import (
	"github.com/kouen-dev/go-satemu/saturn/addr"
	"github.com/kouen-dev/go-satemu/saturn/bus"
)

// MapOnto registers the SCU register block on the bus at its fixed offset,
// per spec.md §6.
func (s *SCU) MapOnto(b *bus.Bus, m memBus) {
	b.MapNormal(addr.SCURegsLo, addr.SCURegsHi, s,
		nil, nil, scuRead32,
		nil, nil, func(ctx any, address uint32, value uint32) {
			scuWrite32(ctx.(*SCU), address, value, m)
		})
}

func scuRead32(ctx any, address uint32) uint32 {
	s := ctx.(*SCU)
	off := address - addr.SCURegsLo
	switch {
	case off >= addr.SCUDMA0Src && off < addr.SCUDMA0Src+0x20:
		return channelRead(&s.channels[0], off-addr.SCUDMA0Src)
	case off >= addr.SCUDMA1Src && off < addr.SCUDMA1Src+0x20:
		return channelRead(&s.channels[1], off-addr.SCUDMA1Src)
	case off >= addr.SCUDMA2Src && off < addr.SCUDMA2Src+0x20:
		return channelRead(&s.channels[2], off-addr.SCUDMA2Src)
	case off == addr.SCUDMAStatus:
		var v uint32
		for i, c := range s.channels {
			if c.active {
				v |= 1 << uint(i)
			}
		}
		return v
	case off == addr.SCUIntrMask:
		return s.arb.mask
	case off == addr.SCUIntrStatus:
		return s.arb.status
	case off == addr.SCUVersion:
		return 0x4
	case off == dspProgCtlOffset, off == dspProgRAMOffset, off == dspDataRAMOffset:
		return dspRead32(s, off)
	default:
		return 0
	}
}

// DSP register offsets, relative to SCURegsLo.
const (
	dspProgCtlOffset = addr.SCUDSPProgCtl
	dspProgRAMOffset = addr.SCUDSPProgRAM
	dspDataRAMOffset = addr.SCUDSPDataRAM
	dspDataCtlOffset = addr.SCUDSPDataCtl
)

func scuWrite32(s *SCU, address uint32, value uint32, m memBus) {
	off := address - addr.SCURegsLo
	switch {
	case off >= addr.SCUDMA0Src && off < addr.SCUDMA0Src+0x20:
		channelWrite(s, &s.channels[0], off-addr.SCUDMA0Src, value, m)
	case off >= addr.SCUDMA1Src && off < addr.SCUDMA1Src+0x20:
		channelWrite(s, &s.channels[1], off-addr.SCUDMA1Src, value, m)
	case off >= addr.SCUDMA2Src && off < addr.SCUDMA2Src+0x20:
		channelWrite(s, &s.channels[2], off-addr.SCUDMA2Src, value, m)
	case off == addr.SCUIntrMask:
		s.SetInterruptMask(value)
	case off == addr.SCUIntrStatus:
		s.arb.status = value
	case off == addr.SCUIntrAck:
		s.AcknowledgeExternalInterrupt()
	case off == addr.SCUTimer0Cmp:
		s.SetTimer0Compare(uint16(value))
	case off == addr.SCUTimer1Cmp:
		s.SetTimer1Reload(uint16(value))
	case off == addr.SCUTimerCtl:
		s.SetTimerEnable(value&1 != 0)
		s.SetTimer1Mode(value&2 != 0)
	case off == addr.SCUABusCtl0:
		s.aBusCtl0 = value
	case off == addr.SCUABusCtl1:
		s.aBusCtl1 = value
	case off == addr.SCUWRAMSize:
		s.wramSizeSelect = value
	case off == dspProgCtlOffset, off == dspProgRAMOffset, off == dspDataRAMOffset, off == dspDataCtlOffset:
		dspWrite32(s, off, value)
	}
}

// Per-channel register offsets, relative to each channel's base.
const (
	chSrcAddr  = 0x00
	chDstAddr  = 0x04
	chXferCnt  = 0x08
	chSrcInc   = 0x0C
	chDstInc   = 0x10
	chEnable   = 0x14
	chMode     = 0x18
)

func channelRead(c *Channel, off uint32) uint32 {
	switch off {
	case chSrcAddr:
		return c.srcAddr
	case chDstAddr:
		return c.dstAddr
	case chXferCnt:
		return c.xferCount
	case chSrcInc:
		return c.srcAddrInc
	case chDstInc:
		return c.dstAddrInc
	case chEnable:
		if c.enable {
			return 1
		}
		return 0
	case chMode:
		v := uint32(c.trigger)
		if c.indirect {
			v |= 1 << 8
		}
		return v
	default:
		return 0
	}
}

func channelWrite(s *SCU, c *Channel, off uint32, value uint32, m memBus) {
	switch off {
	case chSrcAddr:
		c.srcAddr = value
	case chDstAddr:
		c.dstAddr = value
	case chXferCnt:
		c.xferCount = value
	case chSrcInc:
		c.srcAddrInc = value
	case chDstInc:
		c.dstAddrInc = value
	case chEnable:
		c.WriteEnable(value&1 != 0, s, m)
	case chMode:
		c.trigger = Trigger(value & 0xFF)
		c.indirect = value&(1<<8) != 0
		c.updateSrc = value&(1<<9) != 0
		c.updateDst = value&(1<<10) != 0
	}
}
