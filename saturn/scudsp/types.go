// Package scudsp implements the SCU's 256-instruction VLIW-style signal
// processor: parallel X/Y/D1 buses, multiplier, ALU, delayed branches, loops
// and its own DMA engine bridging CT banks to the external D0 bus. See
// spec.md §4.6.
//
// The 32-bit instruction encoding used here is a clean-room design (this
// core does not claim bit-exact compatibility with the real chip's opcode
// table, which spec.md's Non-goals explicitly excuses); it implements every
// sub-operation, suppression rule and edge case spec.md §4.6 describes.
package scudsp

import "github.com/kouen-dev/go-satemu/saturn/bit"

const (
	ProgramSize  = 256
	DataBankSize = 64
	NumBanks     = 4
)

// ALU48 is the 48-bit accumulator/AC/P triple, modeled as a newtype around a
// signed 64-bit integer whose top 16 bits always match the sign extension of
// bit 47, per spec.md §9.
type ALU48 int64

func (a ALU48) L() int32 { return int32(uint32(a)) }
func (a ALU48) H() int16 { return int16(int64(a) >> 32) }

func newALU48(v int64) ALU48 {
	return ALU48(bit.SignExtend64(uint64(v), 48))
}

// Class is the top-level instruction class, selected by the top two bits of
// the 32-bit word.
type Class uint8

const (
	ClassOperation Class = iota
	ClassReserved
	ClassLoadImmediate
	ClassSpecial
)

func decodeClass(word uint32) Class {
	return Class(word >> 30)
}

// DSP holds the SCU-DSP's full architectural state.
type DSP struct {
	programRAM [ProgramSize]uint32
	dataRAM    [NumBanks][DataBankSize]uint32
	ct         [NumBanks]uint8 // 6-bit auto-increment pointers

	progPtr      uint8 // host program-RAM port auto-increment cursor
	hostDataBank int    // bank the host data-RAM port currently addresses

	pc                uint8
	programExecuting  bool
	delayedJumpCycles int // counts down 2,1,0; at 0 with a pending target, PC is replaced
	delayedJumpTarget uint8
	delayedJumpPending bool

	sign, zero, carry, overflow bool

	alu    ALU48 // committed accumulator, updated by the ALU op each cycle
	aReg   int64 // Y-bus operand feeding the ALU (spec's "A" register)
	pReg   int64 // X-bus operand feeding the ALU (spec's "P" register)
	rx, ry int32

	lop uint16 // 12-bit loop counter
	top uint8  // 8-bit loop-top address

	dma dmaState

	// OnDSPEnd fires exactly once per programExecuting->false transition
	// where the terminating END instruction carried the interrupt bit.
	OnDSPEnd func()

	d0bus D0Bus
}

// D0Bus is the minimal external-bus surface the DSP's DMA sub-engine uses to
// reach A-Bus/B-Bus/WRAM, satisfied by the system bus.
type D0Bus interface {
	Read32(address uint32) uint32
	Write32(address uint32, value uint32)
	Read16(address uint32) uint16
	Write16(address uint32, value uint16)
}

// New creates a DSP with empty program/data RAM.
func New(d0bus D0Bus) *DSP {
	return &DSP{d0bus: d0bus}
}

// LoadProgram copies up to ProgramSize words into program RAM.
func (d *DSP) LoadProgram(words []uint32) {
	n := copy(d.programRAM[:], words)
	_ = n
}

// WriteData writes a data-RAM word directly (host MMIO path).
func (d *DSP) WriteData(bank int, index uint8, value uint32) {
	d.dataRAM[bank][index%DataBankSize] = value
}

// ReadData reads a data-RAM word directly (host MMIO path).
func (d *DSP) ReadData(bank int, index uint8) uint32 {
	return d.dataRAM[bank][index%DataBankSize]
}

// SetCT sets a bank's CT pointer directly (host MMIO path).
func (d *DSP) SetCT(bank int, value uint8) { d.ct[bank] = value % DataBankSize }

// Start begins execution from PC=0 (host triggers this on a program-control
// register write).
func (d *DSP) Start() {
	d.pc = 0
	d.programExecuting = true
}

// Stop halts execution without running an END instruction (host-forced).
func (d *DSP) Stop() { d.programExecuting = false }

// Executing reports whether the program counter is advancing.
func (d *DSP) Executing() bool { return d.programExecuting }

// PC returns the current program counter, for debug/save-state.
func (d *DSP) PC() uint8 { return d.pc }

// ALU / RX / RY / LOP / TOP expose architectural registers for debug/save
// state.
func (d *DSP) ALU() ALU48  { return d.alu }
func (d *DSP) A() int64    { return d.aReg }
func (d *DSP) P() int64    { return d.pReg }
func (d *DSP) RX() int32  { return d.rx }
func (d *DSP) RY() int32  { return d.ry }
func (d *DSP) LOP() uint16 { return d.lop }
func (d *DSP) TOP() uint8  { return d.top }
