package cdblock

import (
	"github.com/kouen-dev/go-satemu/saturn/addr"
	"github.com/kouen-dev/go-satemu/saturn/bus"
)

// MapOnto registers the CD block's CR1-4/HIRQ register window at its
// fixed A-bus CS2 offset, following the same per-register-offset dispatch
// style as saturn/scu's mmio.go.
func (b *Block) MapOnto(bb *bus.Bus) {
	bb.MapNormal(addr.ABusCS2Lo, addr.ABusCS2Hi, b,
		nil, cdRead16, nil,
		nil, cdWrite16, nil)
}

func cdRead16(ctx any, address uint32) uint16 {
	b := ctx.(*Block)
	off := address - addr.ABusCS2Lo
	switch off {
	case addr.CDHIRQ:
		return b.HIRQ()
	case addr.CDHIRQMask:
		return b.HIRQMask()
	case addr.CDCR1:
		return b.cr1
	case addr.CDCR2:
		return b.cr2
	case addr.CDCR3:
		return b.cr3
	case addr.CDCR4:
		return b.cr4
	case addr.CDDataPort:
		return b.ReadDataPort()
	default:
		return 0
	}
}

func cdWrite16(ctx any, address uint32, value uint16) {
	b := ctx.(*Block)
	off := address - addr.ABusCS2Lo
	switch off {
	case addr.CDHIRQ:
		b.AcknowledgeHIRQ(value)
	case addr.CDHIRQMask:
		b.SetHIRQMask(value)
	case addr.CDCR1:
		b.cr[0] = value
	case addr.CDCR2:
		b.cr[1] = value
	case addr.CDCR3:
		b.cr[2] = value
	case addr.CDCR4:
		b.cr[3] = value
		b.cr1, b.cr2, b.cr3, b.cr4 = b.ExecuteCommand(b.cr[0], b.cr[1], b.cr[2], b.cr[3])
	case addr.CDDataPort:
		b.WriteDataPort(value)
	}
}
