package scu

import (
	"testing"

	"github.com/kouen-dev/go-satemu/saturn/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBus is a minimal sparse memBus for DMA tests.
type fakeBus struct {
	mem map[uint32]byte
}

func newFakeBus() *fakeBus { return &fakeBus{mem: make(map[uint32]byte)} }

func (f *fakeBus) Read16(addr uint32) uint16 {
	return uint16(f.mem[addr])<<8 | uint16(f.mem[addr+1])
}
func (f *fakeBus) Write16(addr uint32, v uint16) {
	f.mem[addr] = byte(v >> 8)
	f.mem[addr+1] = byte(v)
}
func (f *fakeBus) Read32(addr uint32) uint32 {
	return uint32(f.mem[addr])<<24 | uint32(f.mem[addr+1])<<16 | uint32(f.mem[addr+2])<<8 | uint32(f.mem[addr+3])
}
func (f *fakeBus) Write32(addr uint32, v uint32) {
	f.mem[addr] = byte(v >> 24)
	f.mem[addr+1] = byte(v >> 16)
	f.mem[addr+2] = byte(v >> 8)
	f.mem[addr+3] = byte(v)
}

func TestSCUDMADirectChannel0(t *testing.T) {
	sched := scheduler.New()
	m := newFakeBus()
	s := New(sched, m)

	const srcAddr = 0x0020_0000
	const dstAddr = 0x0610_0000
	for i := 0; i < 0x20; i++ {
		m.mem[srcAddr+uint32(i)] = byte(i)
	}

	ch := s.Channel(0)
	ch.Configure(srcAddr, dstAddr, 0x20, 4, 4, false, TriggerImmediate, true, true)
	assert.False(t, ch.Active())

	ch.WriteEnable(true, s, m)

	assert.False(t, ch.Active(), "channel must be inactive once the (inline) transfer has completed")
	for i := 0; i < 0x20; i++ {
		assert.Equal(t, byte(i), m.mem[dstAddr+uint32(i)], "byte %d", i)
	}
	_, _, count := ch.CurrentState()
	assert.Equal(t, uint32(0), count)
	assert.NotEqual(t, uint32(0), s.InterruptStatus()&(1<<9)) // DMAEnd0 bit
}

func TestSCUDMAIllegalSameBus(t *testing.T) {
	sched := scheduler.New()
	m := newFakeBus()
	s := New(sched, m)

	ch := s.Channel(1)
	// Both addresses land in A-Bus CS0 => same-bus, illegal.
	ch.Configure(0x0200_0000, 0x0200_1000, 0x100, 4, 4, false, TriggerImmediate, false, false)
	ch.WriteEnable(true, s, m)

	assert.False(t, ch.Active())
	assert.NotEqual(t, uint32(0), s.InterruptStatus()&(1<<12)) // DMAIllegal bit
}

func TestSCUDMAZeroCountIsMaxSize(t *testing.T) {
	sched := scheduler.New()
	m := newFakeBus()
	s := New(sched, m)

	ch := s.Channel(1)
	ch.Configure(0x0020_0000, 0x0610_0000, 0, 4, 4, false, TriggerImmediate, false, false)
	ch.WriteEnable(true, s, m)
	_, _, count := ch.CurrentState()
	assert.Equal(t, uint32(0), count)
}

func TestSCUInterruptGateBitSuppressesAllExternals(t *testing.T) {
	sched := scheduler.New()
	m := newFakeBus()
	s := New(sched, m)

	master := &recordingSink{}
	s.SetMasterLine(master)

	s.SetInterruptMask(0x8000) // gate closed, all internal unmasked
	s.RaiseExternal(20)
	assert.Equal(t, 0, master.raised, "external source must be suppressed while the gate bit is set")

	s.SetInterruptMask(0x0000) // gate open
	s.RaiseExternal(20)
	assert.Equal(t, 1, master.raised)
}

type recordingSink struct {
	level, vector uint8
	raised        int
}

func (s *recordingSink) ExternalInterrupt(level, vector uint8) {
	s.level, s.vector = level, vector
	s.raised++
}

func TestSCUTimer1ReloadZeroFiresImmediately(t *testing.T) {
	sched := scheduler.New()
	m := newFakeBus()
	s := New(sched, m)
	s.SetTimerEnable(true)
	s.SetTimer1Reload(0)
	s.SetTimer1Mode(true)

	require.Equal(t, uint32(0), s.InterruptStatus()&(1<<4))
	s.OnHBlankIN()
	sched.Advance(1)
	assert.NotEqual(t, uint32(0), s.InterruptStatus()&(1<<4), "timer1 interrupt bit")
}
