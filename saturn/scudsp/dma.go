package scudsp

import "github.com/kouen-dev/go-satemu/saturn/bit"

// dmaState holds the SCU-DSP's own DMA sub-engine: a simple word mover that
// bridges one of the four CT data-RAM banks to the external D0 bus, per
// spec.md §4.6's "DSP-DMA" paragraph.
type dmaState struct {
	readAddr  uint32 // external address for bank<-D0 transfers
	writeAddr uint32 // external address for bank->D0 transfers
}

// addStepWords turns the 2-bit step field into a word count.
func addStepWords(code uint8) uint32 {
	switch code {
	case 0:
		return 0
	case 1:
		return 1
	case 2:
		return 2
	default:
		return 4
	}
}

// execDMASpecial decodes and runs one DSP-DMA special instruction. The
// transfer runs to completion synchronously, mirroring how this core
// models the SCU's own DMA channels.
func (d *DSP) execDMASpecial(word uint32) {
	toExternal := bit.IsSet(27, word)
	bank := int(bit.Extract(word, 26, 25))
	hold := bit.IsSet(24, word)
	stepCode := uint8(bit.Extract(word, 23, 22))
	useLOP := bit.IsSet(13, word)

	var count int
	if useLOP {
		count = int(d.lop)
	} else {
		count = int(bit.Extract(word, 21, 14))
		if count == 0 {
			count = 256
		}
	}

	step := addStepWords(stepCode) * 4

	if toExternal {
		addr := d.dma.writeAddr
		for i := 0; i < count; i++ {
			v := d.dataRAM[bank][d.ct[bank]]
			d.d0bus.Write32(addr, v)
			d.ct[bank] = (d.ct[bank] + 1) % DataBankSize
			if !hold {
				addr += step
			}
		}
		if !hold {
			d.dma.writeAddr = addr
		}
	} else {
		addr := d.dma.readAddr
		for i := 0; i < count; i++ {
			v := d.d0bus.Read32(addr)
			d.dataRAM[bank][d.ct[bank]] = v
			d.ct[bank] = (d.ct[bank] + 1) % DataBankSize
			if !hold {
				addr += step
			}
		}
		if !hold {
			d.dma.readAddr = addr
		}
	}
}
