package cdblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kouen-dev/go-satemu/saturn/scheduler"
)

// TestFilterChainRoutesSectorsByFrameAddressAndSubmode reproduces the
// worked filter-chain example: filter0 tests a frame-address range and
// falls through to filter1 on failure; filter1 tests a submode mask with
// no fallback. A sector inside filter0's range passes straight through; a
// sector outside both filters' criteria is dropped.
func TestFilterChainRoutesSectorsByFrameAddressAndSubmode(t *testing.T) {
	m := NewPartitionManager()

	f0 := m.Filter(0)
	f0.Mode = 1 << 6 // frame-address range only
	f0.StartFrameAddress = 150
	f0.FrameAddressCount = 50
	f0.PassOutput = 0
	f0.FailOutput = 1

	f1 := m.Filter(1)
	f1.Mode = (1 << 2) | (1 << 6) // submode test + range
	f1.SubmodeMask = 0xE0
	f1.SubmodeValue = 0x40
	f1.StartFrameAddress = 0
	f1.FrameAddressCount = 0xFFFFFFFF
	f1.PassOutput = 1
	f1.FailOutput = Disconnected

	m.SetConnectionFilter(0)

	inRange := &Sector{FrameAddress: 175, Subheader: Subheader{Submode: 0x20}}
	partition, delivered, full := m.Deliver(inRange)
	require.True(t, delivered)
	require.False(t, full)
	assert.Equal(t, 0, partition)
	assert.Equal(t, 1, m.PartitionSize(0))

	outOfRange := &Sector{FrameAddress: 300, Subheader: Subheader{Submode: 0x20}}
	_, delivered, full = m.Deliver(outOfRange)
	assert.False(t, delivered)
	assert.False(t, full)
	assert.Equal(t, 0, m.PartitionSize(1), "sector outside both filters' criteria must be dropped, not queued")
}

func TestFilterSubheaderInversionBit(t *testing.T) {
	m := NewPartitionManager()
	f := m.Filter(2)
	f.Mode = (1 << 0) | (1 << 4) // file-number test, inverted
	f.FileNum = 3
	f.PassOutput = 2
	f.FailOutput = Disconnected
	m.SetConnectionFilter(2)

	matching := &Sector{Subheader: Subheader{FileNum: 3}}
	_, delivered, _ := m.Deliver(matching)
	assert.False(t, delivered, "inverted predicate must reject a matching file number")

	nonMatching := &Sector{Subheader: Subheader{FileNum: 9}}
	_, delivered, _ = m.Deliver(nonMatching)
	assert.True(t, delivered, "inverted predicate must accept a non-matching file number")
}

func TestPartitionManagerDropsWhenBufferPoolExhausted(t *testing.T) {
	m := NewPartitionManager()
	f := m.Filter(0)
	f.Reset()
	m.SetConnectionFilter(0)

	for i := 0; i < NumBuffers; i++ {
		_, delivered, full := m.Deliver(&Sector{FrameAddress: uint32(i)})
		require.True(t, delivered)
		require.False(t, full)
	}

	_, delivered, full := m.Deliver(&Sector{FrameAddress: 9999})
	assert.False(t, delivered)
	assert.True(t, full)
}

func TestDriveTransitionsThroughTrayAndPlaybackStates(t *testing.T) {
	sched := scheduler.New()
	d := NewDrive(sched)
	assert.Equal(t, DriveNoDisc, d.State)

	d.CloseTray(true)
	assert.Equal(t, DrivePause, d.State)

	d.Play(150, 200, 0)
	assert.Equal(t, DrivePlay, d.State)

	var delivered []uint32
	d.OnSectorReady = func(fad uint32) { delivered = append(delivered, fad) }

	for i := 0; i < 60 && d.State == DrivePlay; i++ {
		sched.Advance(DriveCyclesPlaying1x)
	}

	assert.Equal(t, DrivePause, d.State, "play with repeatCount=0 must pause at the end address")
	assert.NotEmpty(t, delivered)

	d.OpenTray()
	assert.Equal(t, DriveOpen, d.State)
}

func TestCommandGetStatusReportsDriveState(t *testing.T) {
	sched := scheduler.New()
	b := New(sched, nil)
	b.Drive.CloseTray(true)

	rcr1, _, _, _ := b.ExecuteCommand(CmdGetStatus<<8, 0, 0, 0)
	assert.Equal(t, uint16(StatusPause)<<8, rcr1&0xFF00)
}

func TestCommandPlayDiscDecodesFADFromCRWords(t *testing.T) {
	sched := scheduler.New()
	b := New(sched, nil)
	b.Drive.CloseTray(true)

	startFAD := uint32(0x001234)
	cr2 := uint16(startFAD >> 8)
	cr3 := uint16(startFAD<<8) | 0x00
	b.ExecuteCommand(CmdPlayDisc<<8, cr2, cr3, 0)

	assert.Equal(t, DrivePlay, b.Drive.State)
	assert.Equal(t, startFAD, b.Drive.currentFAD)
}

func TestSectorDeliveryRaisesCSCTAndQueuesPartition(t *testing.T) {
	sched := scheduler.New()
	b := New(sched, nil)
	b.Drive.CloseTray(true)
	b.Partitions.Filter(0).Reset()
	b.Partitions.SetConnectionFilter(0)

	var fired bool
	b.RaiseInterrupt = func() { fired = true }
	b.SetHIRQMask(HIRQCSCT)

	b.onSectorReady(1000)

	assert.True(t, fired)
	assert.NotEqual(t, uint16(0), b.HIRQ()&HIRQCSCT)
	assert.Equal(t, 1, b.Partitions.PartitionSize(0))
}

func TestMPEGSubcommandsReportFixedUnauthenticatedStatus(t *testing.T) {
	sched := scheduler.New()
	b := New(sched, nil)

	rcr1, rcr2, rcr3, rcr4 := b.ExecuteCommand(CmdIsAuthenticated<<8, 0, 0, 0)
	assert.NotEqual(t, uint16(0), rcr1, "status word must still report the drive's real state")
	assert.Equal(t, uint16(0), rcr2)
	assert.Equal(t, uint16(0), rcr3)
	assert.Equal(t, uint16(0), rcr4)
}
