package scsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSCSPEnvelopeBoundaryAttackPeakThenHeldDecay1(t *testing.T) {
	b := New()
	s := &b.Slots[0]
	s.AR = 31
	s.D1R = 0
	s.DL = 0
	s.Source = SourceSilence
	s.KeyOn = true

	b.stepEnvelope(s)
	require.Equal(t, EGDecay1, s.egState)
	assert.Equal(t, uint16(0), s.egLevel, "AR=31 must reach peak (level 0) within one sample")

	for i := 0; i < 5; i++ {
		b.stepEnvelope(s)
		assert.Equal(t, EGDecay1, s.egState)
		assert.Equal(t, uint16(0), s.egLevel, "D1R=0 must hold the level across subsequent samples")
	}

	s.KeyOn = false
	levelBeforeRelease := s.egLevel
	b.stepEnvelope(s)
	assert.Equal(t, EGRelease, s.egState)
	assert.Equal(t, levelBeforeRelease, s.egLevel, "key-off must not change level until RR takes effect")
}

func TestSCSPEnvelopeLevelNeverIncreasesDuringAttack(t *testing.T) {
	b := New()
	s := &b.Slots[1]
	s.AR = 10
	s.KeyOn = true

	b.stepEnvelope(s)
	prev := s.egLevel
	for i := 0; i < 20 && s.egState == EGAttack; i++ {
		b.stepEnvelope(s)
		assert.LessOrEqual(t, s.egLevel, prev)
		prev = s.egLevel
	}
}

func TestSCSPAuxInterruptLevelParallelPriorityReduction(t *testing.T) {
	b := New()
	b.SetSourceLevel(IntrTimerA, 5) // binary 101
	b.SetAuxEnable(1 << IntrTimerA)

	b.raiseInterrupt(IntrTimerA)

	assert.Equal(t, uint8(5), b.AuxInterruptLevel())
}

func TestSCSPAuxInterruptLevelZeroWhenNothingEnabled(t *testing.T) {
	b := New()
	b.SetSourceLevel(IntrTimerA, 5)
	b.raiseInterrupt(IntrTimerA)

	assert.Equal(t, uint8(0), b.AuxInterruptLevel(), "disabled source must not contribute to the level")
}

func TestSCSPDMACompletesAndRaisesBothPendingBits(t *testing.T) {
	b := New()
	b.regWrite16(0, 0xBEEF)
	b.regWrite16(2, 0xCAFE)

	b.StartDMA(0x1000, 0, 2, true, false) // register-file -> sound RAM

	assert.False(t, b.DMAActive())
	assert.Equal(t, uint16(0xBEEF), b.ReadSoundRAM16(0x1000))
	assert.Equal(t, uint16(0xCAFE), b.ReadSoundRAM16(0x1002))
	assert.NotEqual(t, uint16(0), b.PendingAux()&(1<<IntrDMAEnd))
	assert.NotEqual(t, uint16(0), b.PendingSCU()&(1<<IntrDMAEnd))
}

func TestSCSPDMAGateZeroesDataButStillWalksAddresses(t *testing.T) {
	b := New()
	b.WriteSoundRAM16(0x2000, 0x1234)
	b.WriteSoundRAM16(0x2002, 0x5678)

	b.StartDMA(0x2000, 0x10, 2, false, true) // sound RAM -> register file, gated

	assert.Equal(t, uint16(0), b.regRead16(0x10))
	assert.Equal(t, uint16(0), b.regRead16(0x12))
}

func TestSCSPSoundRequestFiresOnlyOnRisingEdgeOfEnabledSource(t *testing.T) {
	b := New()
	var fired int
	b.SoundRequest = func(level bool) { fired++ }
	b.SetSCUEnable(1 << IntrTimerB)

	b.raiseInterrupt(IntrTimerB)
	b.raiseInterrupt(IntrTimerB) // already pending, must not re-fire

	assert.Equal(t, 1, fired)
}
