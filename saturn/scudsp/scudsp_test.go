package scudsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeD0Bus struct {
	mem map[uint32]uint32
}

func newFakeD0Bus() *fakeD0Bus { return &fakeD0Bus{mem: make(map[uint32]uint32)} }

func (f *fakeD0Bus) Read32(address uint32) uint32  { return f.mem[address] }
func (f *fakeD0Bus) Write32(address uint32, v uint32) { f.mem[address] = v }
func (f *fakeD0Bus) Read16(address uint32) uint16 {
	if address%4 < 2 {
		return uint16(f.mem[address-address%4] >> 16)
	}
	return uint16(f.mem[address-address%4])
}
func (f *fakeD0Bus) Write16(address uint32, v uint16) {
	base := address - address%4
	if address%4 < 2 {
		f.mem[base] = (f.mem[base] &^ 0xFFFF0000) | (uint32(v) << 16)
	} else {
		f.mem[base] = (f.mem[base] &^ 0xFFFF) | uint32(v)
	}
}

// encodeParallel assembles a class-00 parallel-operation word from its
// sub-fields, mirroring decodeParallel's layout.
func encodeParallel(f parallelFields) uint32 {
	w := uint32(ClassOperation) << 30
	w |= uint32(f.aluOp&0xF) << 26
	w |= uint32(f.xOp&0x3) << 24
	w |= uint32(f.xSrc&0xF) << 20
	w |= uint32(f.yOp&0x3) << 18
	if f.yWrite {
		w |= 1 << 17
	}
	w |= uint32(f.ySrc&0xF) << 13
	w |= uint32(f.d1Op&0x3) << 11
	w |= uint32(f.d1Dest&0xF) << 7
	w |= uint32(f.d1SrcOrImm&0xF) << 3
	return w
}

func TestSCUDSPParallelOperationSuppressesWriteToBankReadThisCycle(t *testing.T) {
	d := New(newFakeD0Bus())
	d.WriteData(0, 0, 7) // M0 = 7
	d.WriteData(1, 0, 3) // M1 = 3

	word := encodeParallel(parallelFields{
		aluOp:      aluADD,
		xOp:        xopMovSrcToX, // src=M0 -> RX
		xSrc:       0,
		yOp:        yopMovSrcToA, // src=M1 -> A
		ySrc:       1,
		d1Op:       d1opMovSrcToDst, // src=9 (ALU.L) -> dst=12 (M0)
		d1Dest:     12,
		d1SrcOrImm: 9,
	})
	d.LoadProgram([]uint32{word})
	d.Start()

	d.Step()

	assert.Equal(t, int32(3), d.ALU().L(), "ALU.L must equal A+P = 3+0")
	assert.Equal(t, int32(7), d.rx, "X-bus must have moved M0 into RX")
	assert.Equal(t, uint32(7), d.ReadData(0, 0), "M0 write must be suppressed since bank0 was read this cycle")
	assert.Equal(t, uint8(1), d.ct[0], "CT0 must advance from the X-bus read of M0")
}

func TestSCUDSPProgramCounterAdvancesPastEachInstruction(t *testing.T) {
	d := New(newFakeD0Bus())
	nop := encodeParallel(parallelFields{})
	d.LoadProgram([]uint32{nop, nop, nop})
	d.Start()

	require.Equal(t, uint8(0), d.PC())
	d.Step()
	assert.Equal(t, uint8(1), d.PC())
	d.Step()
	assert.Equal(t, uint8(2), d.PC())
}

func TestSCUDSPEndFiresCallbackOnlyWithInterruptBit(t *testing.T) {
	d := New(newFakeD0Bus())
	var fired int
	d.OnDSPEnd = func() { fired++ }

	endWithInterrupt := uint32(ClassSpecial)<<30 | specialEnd<<28 | 1<<27
	d.LoadProgram([]uint32{endWithInterrupt})
	d.Start()

	d.Step()

	assert.False(t, d.Executing())
	assert.Equal(t, 1, fired)
}

func TestSCUDSPLoopRepeatsUntilCounterExhausted(t *testing.T) {
	d := New(newFakeD0Bus())
	d.lop = 2
	d.top = 0

	lps := uint32(ClassSpecial)<<30 | specialLoop<<28 // LPS form (bit27=0)
	d.LoadProgram([]uint32{lps})
	d.Start()

	d.Step() // lop 2->1, repeats current instruction
	assert.Equal(t, uint8(0), d.PC())
	assert.Equal(t, uint16(1), d.lop)

	d.Step() // lop 1->0, does not repeat
	assert.Equal(t, uint8(1), d.PC())
	assert.Equal(t, uint16(0), d.lop)
}

func TestSCUDSPDMAMovesWordsBetweenBankAndD0Bus(t *testing.T) {
	bus := newFakeD0Bus()
	bus.mem[0x1000] = 0xAAAA_0001
	bus.mem[0x1004] = 0xAAAA_0002

	d := New(bus)
	d.dma.readAddr = 0x1000

	// class=11 sub=00(DMA), dir=0 (D0->bank), bank=0, hold=0, step=1 word,
	// useLOP=0, count field = 2.
	word := uint32(ClassSpecial)<<30 | specialDMA<<28
	word |= 1 << 22 // step code 1 => 1 word (4 bytes)
	word |= 2 << 14 // count = 2
	d.LoadProgram([]uint32{word})
	d.Start()

	d.Step()

	assert.Equal(t, uint32(0xAAAA_0001), d.ReadData(0, 0))
	assert.Equal(t, uint32(0xAAAA_0002), d.ReadData(0, 1))
	assert.Equal(t, uint32(0x1008), d.dma.readAddr)
}
