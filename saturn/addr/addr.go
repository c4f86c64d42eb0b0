// Package addr collects the bus address map and register-level constants
// shared by every component, the same role jeebie/addr plays for the Game
// Boy memory map.
package addr

// Bus region boundaries (27-bit address space). See spec.md §6.
const (
	IPLLo uint32 = 0x0000_0000
	IPLHi uint32 = 0x0007_FFFF

	InternalBackupLo uint32 = 0x0018_0000
	InternalBackupHi uint32 = 0x0018_7FFF

	WRAMLowLo uint32 = 0x0020_0000
	WRAMLowHi uint32 = 0x002F_FFFF

	ABusCS0Lo uint32 = 0x0200_0000
	ABusCS0Hi uint32 = 0x03FF_FFFF

	ABusCS1Lo uint32 = 0x0400_0000
	ABusCS1Hi uint32 = 0x04FF_FFFF

	CartridgeIDLo uint32 = 0x04FF_FFFE
	CartridgeIDHi uint32 = 0x04FF_FFFF

	ABusCS2Lo uint32 = 0x0580_0000
	ABusCS2Hi uint32 = 0x058F_FFFF

	SoundRAMLo uint32 = 0x05A0_0000
	SoundRAMHi uint32 = 0x05AF_FFFF

	SCSPRegsLo uint32 = 0x05B0_0000
	SCSPRegsHi uint32 = 0x05BF_FFFF

	VDP1VRAMLo uint32 = 0x05C0_0000
	VDP1VRAMHi uint32 = 0x05C7_FFFF

	VDP1FBLo uint32 = 0x05C8_0000
	VDP1FBHi uint32 = 0x05CF_FFFF

	VDP1RegsLo uint32 = 0x05D0_0000
	VDP1RegsHi uint32 = 0x05D7_FFFF

	VDP2VRAMLo uint32 = 0x05E0_0000
	VDP2VRAMHi uint32 = 0x05EF_FFFF

	ColorRAMLo uint32 = 0x05F0_0000
	ColorRAMHi uint32 = 0x05F7_FFFF

	VDP2RegsLo uint32 = 0x05F8_0000
	VDP2RegsHi uint32 = 0x05FB_FFFF

	SCURegsLo uint32 = 0x05FE_0000
	SCURegsHi uint32 = 0x05FE_FFFF

	WRAMHighLo uint32 = 0x0600_0000
	WRAMHighHi uint32 = 0x060F_FFFF
)

// SCU register offsets, relative to SCURegsLo. See spec.md §6.
const (
	SCUDMA0Src    uint32 = 0x00
	SCUDMA0Dst    uint32 = 0x04
	SCUDMA0Cnt    uint32 = 0x08
	SCUDMA0SrcInc uint32 = 0x0C
	SCUDMA0DstInc uint32 = 0x10
	SCUDMA0Enable uint32 = 0x14
	SCUDMA0Mode   uint32 = 0x18
	SCUDMA1Src    uint32 = 0x20
	SCUDMA2Src    uint32 = 0x40
	SCUDMAForce   uint32 = 0x60
	SCUDMAStatus  uint32 = 0x7C
	SCUDSPProgCtl uint32 = 0x80
	SCUDSPProgRAM uint32 = 0x84
	SCUDSPDataRAM uint32 = 0x88
	SCUDSPDataCtl uint32 = 0x8C
	SCUTimer0Cmp  uint32 = 0x90
	SCUTimer1Cmp  uint32 = 0x94
	SCUTimerCtl   uint32 = 0x98
	SCUIntrMask   uint32 = 0xA0
	SCUIntrStatus uint32 = 0xA4
	SCUIntrAck    uint32 = 0xA8
	SCUABusCtl0   uint32 = 0xB0
	SCUABusCtl1   uint32 = 0xB4
	SCUABusRefresh uint32 = 0xB8
	SCUWRAMSize   uint32 = 0xC4
	SCUVersion    uint32 = 0xC8
)

// CD-block register offsets, relative to ABusCS2Lo. See spec.md §6.
const (
	CDDataPort  uint32 = 0x98000
	CDHIRQ      uint32 = 0x08
	CDHIRQMask  uint32 = 0x0C
	CDCR1       uint32 = 0x18
	CDCR2       uint32 = 0x1C
	CDCR3       uint32 = 0x20
	CDCR4       uint32 = 0x24
)

// HIRQ bit positions. See spec.md §6.
const (
	HIRQ_CMOK uint16 = 1 << 0
	HIRQ_DRDY uint16 = 1 << 1
	HIRQ_CSCT uint16 = 1 << 2
	HIRQ_BFUL uint16 = 1 << 3
	HIRQ_PEND uint16 = 1 << 4
	HIRQ_DCHG uint16 = 1 << 5
	HIRQ_ESEL uint16 = 1 << 6
	HIRQ_EHST uint16 = 1 << 7
	HIRQ_ECPY uint16 = 1 << 8
	HIRQ_EFLS uint16 = 1 << 9
	HIRQ_SCDQ uint16 = 1 << 10
	HIRQ_MPED uint16 = 1 << 11
	HIRQ_MPCM uint16 = 1 << 12
	HIRQ_MPST uint16 = 1 << 13
)

// Internal SCU interrupt source indices (bits 0-13) and their hard-coded
// priority levels, in index order. See spec.md §3.
const (
	IntrVBlankIN = iota
	IntrVBlankOUT
	IntrHBlankIN
	IntrTimer0
	IntrTimer1
	IntrDSPEnd
	IntrSoundRequest
	IntrSystemManager
	IntrPadInterrupt
	IntrDMAEnd0
	IntrDMAEnd1
	IntrDMAEnd2
	IntrDMAIllegal
	IntrSpriteDrawEnd
	numInternalSources
)

// InternalLevels holds the hard-coded priority level for each internal
// interrupt source index above.
var InternalLevels = [numInternalSources]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 8, 6, 6, 5, 3, 2,
}

// External interrupt level bands: sources 16-19 are level 7, 20-23 are
// level 4, 24-31 are level 1.
func ExternalLevel(index int) uint8 {
	switch {
	case index >= 16 && index <= 19:
		return 7
	case index >= 20 && index <= 23:
		return 4
	case index >= 24 && index <= 31:
		return 1
	default:
		return 0
	}
}

// Vectors for the two CPU lines acknowledging an SCU interrupt.
const (
	InternalVectorBase = 0x40
	ExternalVectorBase = 0x50
)

const (
	SlaveVBlankINVector uint8 = 0x43
	SlaveHBlankINVector uint8 = 0x41
	SlaveVBlankINLevel  uint8 = 2
	SlaveHBlankINLevel  uint8 = 1
)

// Default interrupt mask after reset/acknowledge: all internal sources
// unmasked, external gate (bit 15) closed, external sources masked.
const DefaultInterruptMask uint32 = 0xBFFF
