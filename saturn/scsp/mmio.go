package scsp

import (
	"github.com/kouen-dev/go-satemu/saturn/addr"
	"github.com/kouen-dev/go-satemu/saturn/bus"
)

// Register-block layout, relative to addr.SCSPRegsLo. Slot parameter
// blocks occupy the first 0x800 bytes (32 slots x 0x20 bytes); control
// registers follow at fixed offsets, matching the real chip's map closely
// enough to exercise every modeled feature without claiming bit-exactness
// (spec.md's Non-goals).
const (
	slotBlockSize   = 0x20
	slotBlockTotal  = NumSlots * slotBlockSize
	regMasterVolume = slotBlockTotal + 0x00
	regDAC18        = slotBlockTotal + 0x02
	regKYONEX       = slotBlockTotal + 0x04
	regSCIEB        = slotBlockTotal + 0x10
	regSCIPD        = slotBlockTotal + 0x12
	regMCIEB        = slotBlockTotal + 0x14
	regMCIPD        = slotBlockTotal + 0x16
	regDMAMemAddr   = slotBlockTotal + 0x20
	regDMARegAddr   = slotBlockTotal + 0x24
	regDMALenCtl    = slotBlockTotal + 0x28 // low 12 bits length, bit12 DDIR, bit13 DGATE, bit15 DEXE
	regTimerBase    = slotBlockTotal + 0x30 // 3 timers x 4 bytes: interval(1B) reload(1B)
	regSoundRAMBase = 0x100000
	regSoundRAMTop  = regSoundRAMBase + SoundRAMSize
)

// MapOnto registers the SCSP's register block and its sound-RAM window on
// the bus.
func (b *Block) MapOnto(bb *bus.Bus) {
	bb.MapNormal(addr.SCSPRegsLo, addr.SCSPRegsHi, b,
		nil, scspRead16, nil,
		nil, scspWrite16, nil)
}

func scspRead16(ctx any, address uint32) uint16 {
	b := ctx.(*Block)
	off := address - addr.SCSPRegsLo

	if off >= regSoundRAMBase && off < regSoundRAMTop {
		return b.ReadSoundRAM16(off - regSoundRAMBase)
	}
	if off < slotBlockTotal {
		return slotRegRead(&b.Slots[off/slotBlockSize], off%slotBlockSize)
	}
	switch off {
	case regMasterVolume:
		return uint16(b.masterVolume)
	case regSCIEB:
		return b.arbiter.scieb
	case regSCIPD:
		return b.arbiter.scipd
	case regMCIEB:
		return b.arbiter.mcieb
	case regMCIPD:
		return b.arbiter.mcipd
	case regDMALenCtl:
		v := uint16(b.dma.length)
		if b.dma.toMem {
			v |= 1 << 12
		}
		if b.dma.gate {
			v |= 1 << 13
		}
		if b.dma.active {
			v |= 1 << 15
		}
		return v
	default:
		return 0
	}
}

func scspWrite16(ctx any, address uint32, value uint16) {
	b := ctx.(*Block)
	off := address - addr.SCSPRegsLo

	if off >= regSoundRAMBase && off < regSoundRAMTop {
		b.WriteSoundRAM16(off-regSoundRAMBase, value)
		return
	}
	if off < slotBlockTotal {
		slotRegWrite(&b.Slots[off/slotBlockSize], off%slotBlockSize, value)
		return
	}
	switch off {
	case regMasterVolume:
		b.SetMasterVolume(uint8(value))
	case regDAC18:
		b.dac18bit = value&1 != 0
	case regKYONEX:
		if value&1 != 0 {
			b.KeyOnExecute()
		}
	case regSCIEB:
		b.SetAuxEnable(value)
	case regSCIPD:
		b.AcknowledgeAux(value)
	case regMCIEB:
		b.SetSCUEnable(value)
	case regMCIPD:
		b.AcknowledgeSCU(value)
	case regDMAMemAddr:
		b.dma.memAddr = uint32(value)
	case regDMARegAddr:
		b.dma.regAddr = uint32(value)
	case regDMALenCtl:
		length := value & 0xFFF
		toMem := value&(1<<12) != 0
		gate := value&(1<<13) != 0
		if value&(1<<15) != 0 {
			b.StartDMA(b.dma.memAddr, b.dma.regAddr, length, toMem, gate)
		}
	default:
		if off >= regTimerBase && off < regTimerBase+12 {
			idx := (off - regTimerBase) / 4
			interval := uint8(value >> 8)
			reload := uint8(value)
			b.SetTimer(int(idx), interval, reload)
		}
	}
}

// Per-slot register offsets within a 0x20-byte block.
const (
	slotKeyOnLoop  = 0x00 // bit0 KeyOn, bits4-5 Loop, bit6 PCM16, bit7 SoundDirect
	slotStartAddrLo = 0x02
	slotStartAddrHi = 0x04
	slotLoopStart  = 0x06
	slotLoopEnd    = 0x08
	slotEnvelope1  = 0x0A // AR(5) D1R(5) D2R(5) bits
	slotEnvelope2  = 0x0C // RR(5) DL(5) KRS(4)
	slotTL         = 0x0E
	slotPitch      = 0x10 // OCT(4 signed) FNS(10)
	slotLFO        = 0x12
	slotMix        = 0x14 // ISelX/Y, IMXL
	slotSend       = 0x16 // DISDL/DIPan/EFSDL/EFPan packed across two words
)

func slotRegRead(s *Slot, off uint32) uint16 {
	switch off {
	case slotKeyOnLoop:
		v := uint16(s.Loop) << 4
		if s.KeyOn {
			v |= 1
		}
		if s.PCM16 {
			v |= 1 << 6
		}
		if s.SoundDirect {
			v |= 1 << 7
		}
		return v
	case slotStartAddrLo:
		return uint16(s.StartAddress)
	case slotStartAddrHi:
		return uint16(s.StartAddress >> 16)
	case slotLoopStart:
		return s.LoopStart
	case slotLoopEnd:
		return s.LoopEnd
	case slotEnvelope1:
		return uint16(s.AR) | uint16(s.D1R)<<5 | uint16(s.D2R)<<10
	case slotEnvelope2:
		return uint16(s.RR) | uint16(s.DL)<<5 | uint16(s.KRS)<<10
	case slotTL:
		return s.TL
	case slotPitch:
		return uint16(uint8(s.OCT)&0xF)<<10 | s.FNS&0x3FF
	default:
		return 0
	}
}

func slotRegWrite(s *Slot, off uint32, value uint16) {
	switch off {
	case slotKeyOnLoop:
		s.KeyOn = value&1 != 0
		s.Loop = LoopControl((value >> 4) & 0x3)
		s.PCM16 = value&(1<<6) != 0
		s.SoundDirect = value&(1<<7) != 0
	case slotStartAddrLo:
		s.StartAddress = (s.StartAddress &^ 0xFFFF) | uint32(value)
	case slotStartAddrHi:
		s.StartAddress = (s.StartAddress & 0xFFFF) | (uint32(value&0xF) << 16)
	case slotLoopStart:
		s.LoopStart = value
	case slotLoopEnd:
		s.LoopEnd = value
	case slotEnvelope1:
		s.AR = uint8(value) & 0x1F
		s.D1R = uint8(value>>5) & 0x1F
		s.D2R = uint8(value>>10) & 0x1F
	case slotEnvelope2:
		s.RR = uint8(value) & 0x1F
		s.DL = uint8(value>>5) & 0x1F
		s.KRS = uint8(value>>10) & 0xF
	case slotTL:
		s.TL = value & 0xFF
	case slotPitch:
		s.OCT = int8(uint8(value>>10)<<4) >> 4 // sign-extend 4-bit octave
		s.FNS = value & 0x3FF
	}
}
