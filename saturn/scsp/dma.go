package scsp

// dmaEngine is the SCSP's own serial DMA micro-engine bridging sound RAM
// and the register file, per spec.md §4.9.
type dmaEngine struct {
	active  bool
	toMem   bool // DDIR: true moves register-file -> sound RAM
	gate    bool // DGATE: replace transferred data with zero, still walks addresses
	memAddr uint32 // 20-bit
	regAddr uint32 // 12-bit
	length  uint16 // 12-bit, in 16-bit words
}

func (b *Block) regRead16(addr uint32) uint16 {
	a := addr % uint32(len(b.regFile))
	return uint16(b.regFile[a])<<8 | uint16(b.regFile[(a+1)%uint32(len(b.regFile))])
}

func (b *Block) regWrite16(addr uint32, v uint16) {
	a := addr % uint32(len(b.regFile))
	b.regFile[a] = byte(v >> 8)
	b.regFile[(a+1)%uint32(len(b.regFile))] = byte(v)
}

// StartDMA configures and runs the micro-engine to completion, one 16-bit
// word per step, exactly as spec.md §4.9 describes (no inter-word
// scheduling delay is modeled; see DESIGN.md).
func (b *Block) StartDMA(memAddr, regAddr uint32, length uint16, toMem, gate bool) {
	b.dma = dmaEngine{
		active:  true,
		toMem:   toMem,
		gate:    gate,
		memAddr: memAddr & 0xFFFFF,
		regAddr: regAddr & 0xFFF,
		length:  length & 0xFFF,
	}

	for i := uint16(0); i < b.dma.length; i++ {
		if b.dma.toMem {
			v := b.regRead16(b.dma.regAddr)
			if b.dma.gate {
				v = 0
			}
			b.WriteSoundRAM16(b.dma.memAddr, v)
		} else {
			v := b.ReadSoundRAM16(b.dma.memAddr)
			if b.dma.gate {
				v = 0
			}
			b.regWrite16(b.dma.regAddr, v)
		}
		b.dma.memAddr = (b.dma.memAddr + 2) & 0xFFFFF
		b.dma.regAddr = (b.dma.regAddr + 2) & 0xFFF
	}

	b.dma.active = false
	b.raiseInterrupt(IntrDMAEnd)
}

// DMAActive reports the DEXE bit.
func (b *Block) DMAActive() bool { return b.dma.active }
