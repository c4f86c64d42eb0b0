package state

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTripPreservesCurrentVersionState(t *testing.T) {
	s := &State{Version: currentVersion}
	s.SCSP.Slots[3].CurrPhase = 0x1F000
	s.SCSP.Slots[3].NextPhase = 0x1F000
	s.SCU.IntrMask = 0xBEEF
	s.Scheduler.Now = 123456

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, s))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

// writeLegacyStateFile hand-builds a v2 save-state file (magic + version
// header, gob+gzip body) the way an older build of this core would have
// written one, so the upgrade path can be exercised without a v2 Save
// implementation still existing in the codebase.
func writeLegacyStateFile(t *testing.T, version uint32, old *legacyState) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString(magic)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, version))

	gz := gzip.NewWriter(&buf)
	require.NoError(t, gob.NewEncoder(gz).Encode(old))
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestLoadUpgradesV2SCSPSlotPhaseTo20BitForm(t *testing.T) {
	old := &legacyState{Version: 2}
	old.SCSP.Slots[5].CurrPhase = 0x1F0000

	data := writeLegacyStateFile(t, 2, old)

	loaded, err := Load(bytes.NewReader(data))
	require.NoError(t, err)

	slot := loaded.SCSP.Slots[5]
	assert.Equal(t, uint32(0x1F000), slot.CurrPhase)
	assert.Equal(t, slot.CurrPhase, slot.NextPhase)
	assert.Equal(t, uint8(0), slot.SBCTL)
	assert.False(t, slot.EGBypass)
	assert.Equal(t, currentVersion, loaded.Version)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("XXXX\x03\x00\x00\x00")))
	assert.Error(t, err)
}

func TestLoadRejectsFutureVersion(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(magic)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(currentVersion+1)))
	_, err := Load(&buf)
	assert.Error(t, err)
}
