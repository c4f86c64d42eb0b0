package scudsp

import "github.com/kouen-dev/go-satemu/saturn/bit"

// Step fetches, decodes and executes exactly one instruction, per spec.md
// §4.6. A no-op when the program isn't executing.
func (d *DSP) Step() {
	if !d.programExecuting {
		return
	}

	instrAddr := d.pc
	word := d.programRAM[instrAddr]
	d.pc++

	switch decodeClass(word) {
	case ClassOperation:
		d.execParallel(word)
	case ClassLoadImmediate:
		d.execLoadImmediate(word)
	case ClassSpecial:
		d.execSpecial(word, instrAddr)
	default:
		// reserved class: treated as a no-op, matching the spec's silence
		// on this encoding.
	}

	d.advanceDelayedJump()
}

func (d *DSP) advanceDelayedJump() {
	if !d.delayedJumpPending {
		return
	}
	if d.delayedJumpCycles > 0 {
		d.delayedJumpCycles--
	}
	if d.delayedJumpCycles == 0 {
		d.pc = d.delayedJumpTarget
		d.delayedJumpPending = false
	}
}

// ---- Parallel operation (class 00) ----

// ALU operation codes. 16 codes total; unused codes alias to NOP.
const (
	aluNOP = iota
	aluAND
	aluOR
	aluXOR
	aluADD
	aluSUB
	aluAD2
	aluSR
	aluRR
	aluSL
	aluRL
	aluRL8
)

const (
	xopNOP = iota
	xopMovMulToP
	xopMovSrcToP
	xopMovSrcToX
)

const (
	yopNOP = iota
	yopClrA
	yopMovAluToA
	yopMovSrcToA
)

const (
	d1opNOP = iota
	d1opMovImmToDst
	d1opMovSrcToDst
)

type parallelFields struct {
	aluOp    uint8
	xOp      uint8
	xSrc     uint8
	yOp      uint8
	yWrite   bool
	ySrc     uint8
	d1Op     uint8
	d1Dest   uint8
	d1SrcOrImm uint8
}

func decodeParallel(word uint32) parallelFields {
	return parallelFields{
		aluOp:      uint8(bit.Extract(word, 29, 26)),
		xOp:        uint8(bit.Extract(word, 25, 24)),
		xSrc:       uint8(bit.Extract(word, 23, 20)),
		yOp:        uint8(bit.Extract(word, 19, 18)),
		yWrite:     bit.IsSet(17, word),
		ySrc:       uint8(bit.Extract(word, 16, 13)),
		d1Op:       uint8(bit.Extract(word, 12, 11)),
		d1Dest:     uint8(bit.Extract(word, 10, 7)),
		d1SrcOrImm: uint8(bit.Extract(word, 6, 3)),
	}
}

func (d *DSP) readSource(index uint8, readBanks *[NumBanks]bool) int32 {
	switch {
	case index <= 3: // M0..M3: read and post-increment CT
		b := index
		readBanks[b] = true
		v := int32(d.dataRAM[b][d.ct[b]])
		d.ct[b] = (d.ct[b] + 1) % DataBankSize
		return v
	case index >= 4 && index <= 7: // MC0..MC3: read without advancing CT
		b := index - 4
		readBanks[b] = true
		return int32(d.dataRAM[b][d.ct[b]])
	case index == 9:
		return d.alu.L()
	case index == 10:
		return int32(d.alu.H())
	default:
		return 0
	}
}

func (d *DSP) execParallel(word uint32) {
	f := decodeParallel(word)
	var readBanks [NumBanks]bool

	// X-bus: executes first; may update RX or P.
	switch f.xOp {
	case xopMovMulToP:
		d.alu = newALU48((int64(d.rx) * int64(d.ry)) & 0xFFFF_FFFF_FFFF)
		// P is conceptually a separate register from ALU's running value in
		// real hardware; here we model "P" as the low/high accessors of a
		// dedicated field to keep ALU's accumulation independent.
		d.pReg = int64(d.rx) * int64(d.ry)
	case xopMovSrcToP:
		d.pReg = int64(d.readSource(f.xSrc, &readBanks))
	case xopMovSrcToX:
		d.rx = d.readSource(f.xSrc, &readBanks)
	}

	// Y-bus: executes second; may update A and, independently, RY.
	switch f.yOp {
	case yopClrA:
		d.aReg = 0
	case yopMovAluToA:
		d.aReg = int64(d.alu)
	case yopMovSrcToA:
		d.aReg = int64(d.readSource(f.ySrc, &readBanks))
	}
	if f.yWrite {
		d.ry = d.readSource(f.ySrc, &readBanks)
	}

	// ALU: executes third, combining the (possibly just-updated) A and P.
	d.execALU(f.aluOp)

	// D1-bus: executes last, writing its destination if not suppressed.
	d.execD1(f, readBanks)
}

func (d *DSP) execALU(op uint8) {
	a := d.aReg
	p := d.pReg
	var result int64
	switch op {
	case aluNOP:
		return
	case aluAND:
		result = a & p
	case aluOR:
		result = a | p
	case aluXOR:
		result = a ^ p
	case aluADD:
		result = a + p
	case aluSUB:
		result = a - p
	case aluAD2:
		result = a + p // ADD2: 48-bit-wide add, same op here since a/p already full width
	case aluSR:
		result = a >> 1
	case aluRR:
		bit0 := a & 1
		result = (a >> 1) | (bit0 << 47)
	case aluSL:
		result = a << 1
	case aluRL:
		topBit := (a >> 47) & 1
		result = (a << 1) | topBit
	case aluRL8:
		result = (a << 8) | ((a >> 40) & 0xFF)
	default:
		return
	}
	d.alu = newALU48(result)
	d.zero = d.alu == 0
	d.sign = d.alu < 0
	d.carry = (uint64(result) >> 48) != 0
	d.overflow = (a >= 0 && p >= 0 && result < 0) || (a < 0 && p < 0 && result >= 0)
}

func (d *DSP) execD1(f parallelFields, readBanks [NumBanks]bool) {
	switch f.d1Op {
	case d1opNOP:
		return
	case d1opMovImmToDst:
		imm := int32(f.d1SrcOrImm)
		d.writeDest(f.d1Dest, imm, readBanks, xopForSuppression(f))
	case d1opMovSrcToDst:
		var rb [NumBanks]bool // a second read, independent from X/Y's readBanks for CT-increment purposes
		v := d.readSource(f.d1SrcOrImm, &rb)
		for i := range rb {
			if rb[i] {
				readBanks[i] = true
			}
		}
		d.writeDest(f.d1Dest, v, readBanks, xopForSuppression(f))
	}
}

func xopForSuppression(f parallelFields) uint8 { return f.xOp }

// writeDest commits a D1-bus write, honoring the two suppression rules from
// spec.md §4.6: a write to a data-RAM bank that was read this cycle is
// dropped (CT still advances from the read, not from the dropped write);
// writes to RX/P are dropped if the X-bus already wrote them this cycle.
func (d *DSP) writeDest(dest uint8, value int32, readBanks [NumBanks]bool, xOp uint8) {
	switch {
	case dest <= 3: // MC write: increments CT unless suppressed
		b := int(dest)
		if readBanks[b] {
			return
		}
		d.dataRAM[b][d.ct[b]] = uint32(value)
		d.ct[b] = (d.ct[b] + 1) % DataBankSize
	case dest == 4: // RX
		if xOp == xopMovSrcToX {
			return
		}
		d.rx = value
	case dest == 5: // P, sign-extended
		if xOp == xopMovMulToP || xOp == xopMovSrcToP {
			return
		}
		d.pReg = int64(value)
	case dest == 6: // DMA read address
		d.dma.readAddr = (uint32(value) << 2) & 0x3FFFF
	case dest == 7: // DMA write address
		d.dma.writeAddr = (uint32(value) << 2) & 0x3FFFF
	case dest == 10: // LOP
		d.lop = uint16(value) & 0x0FFF
	case dest == 11: // TOP
		d.top = uint8(value)
	case dest >= 12 && dest <= 15: // M write: no increment
		b := int(dest - 12)
		if readBanks[b] {
			return
		}
		d.dataRAM[b][d.ct[b]] = uint32(value)
	}
}

// ---- Load-immediate (class 10) ----

func (d *DSP) execLoadImmediate(word uint32) {
	conditional := bit.IsSet(29, word)
	if conditional {
		predicate := uint8(bit.Extract(word, 28, 23))
		dest := uint8(bit.Extract(word, 22, 19))
		imm := bit.SignExtend(bit.Extract(word, 18, 0), 19)
		if d.testPredicate(predicate) {
			var rb [NumBanks]bool
			d.writeDest(dest, imm, rb, 0)
		}
		return
	}
	dest := uint8(bit.Extract(word, 28, 25))
	imm := bit.SignExtend(bit.Extract(word, 24, 0), 25)
	var rb [NumBanks]bool
	d.writeDest(dest, imm, rb, 0)
}

// testPredicate evaluates a 6-bit predicate: bit5 = sense (invert), bits
// 0-3 select which of the zero, sign, carry and overflow flags to combine
// (ANDed together before the sense is applied). There is no T0 flag; bit 3
// tests overflow.
func (d *DSP) testPredicate(p uint8) bool {
	sense := bit.IsSet(5, uint32(p))
	result := true
	if p&0x01 != 0 {
		result = result && d.zero
	}
	if p&0x02 != 0 {
		result = result && d.sign
	}
	if p&0x04 != 0 {
		result = result && d.carry
	}
	if p&0x08 != 0 {
		result = result && d.overflow
	}
	if sense {
		return !result
	}
	return result
}

// ---- Special (class 11) ----

const (
	specialDMA = iota
	specialJump
	specialLoop
	specialEnd
)

func (d *DSP) execSpecial(word uint32, instrAddr uint8) {
	sub := uint8(bit.Extract(word, 29, 28))
	switch sub {
	case specialDMA:
		d.execDMASpecial(word)
	case specialJump:
		d.execJump(word)
	case specialLoop:
		d.execLoop(word, instrAddr)
	case specialEnd:
		d.execEnd(word)
	}
}

func (d *DSP) execJump(word uint32) {
	conditional := bit.IsSet(27, word)
	target := uint8(bit.Extract(word, 25, 18))
	if conditional {
		predicate := uint8(bit.Extract(word, 17, 12))
		if !d.testPredicate(predicate) {
			return
		}
	}
	d.delayedJumpPending = true
	d.delayedJumpCycles = 2
	d.delayedJumpTarget = target
}

func (d *DSP) execLoop(word uint32, instrAddr uint8) {
	btm := bit.IsSet(27, word)
	if d.lop == 0 {
		return
	}
	d.lop--
	if btm {
		if d.lop > 0 {
			d.pc = d.top
		}
		return
	}
	// LPS: re-execute this same instruction next Step while the counter
	// hasn't reached zero; once it has, pc (already advanced past this
	// instruction) is left alone.
	if d.lop > 0 {
		d.pc = instrAddr
	}
}

func (d *DSP) execEnd(word uint32) {
	withInterrupt := bit.IsSet(27, word)
	wasExecuting := d.programExecuting
	d.programExecuting = false
	if wasExecuting && withInterrupt && d.OnDSPEnd != nil {
		d.OnDSPEnd()
	}
}
