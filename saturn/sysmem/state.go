package sysmem

import "github.com/kouen-dev/go-satemu/saturn/state"

// Capture returns a copy of work RAM low/high and internal backup memory.
// IPL ROM is excluded: it is loaded from the cartridge/BIOS image at
// startup, not persisted in the save state.
func (s *SysMem) Capture() state.SysmemState {
	low := make([]byte, len(s.wramLow))
	copy(low, s.wramLow)
	high := make([]byte, len(s.wramHigh))
	copy(high, s.wramHigh)
	backup := make([]byte, len(s.backup))
	copy(backup, s.backup)
	return state.SysmemState{WRAMLow: low, WRAMHigh: high, BackupRAM: backup}
}

// Restore reinstates a previously captured record, copying into the
// existing fixed-size buffers.
func (s *SysMem) Restore(st state.SysmemState) {
	copy(s.wramLow, st.WRAMLow)
	copy(s.wramHigh, st.WRAMHigh)
	copy(s.backup, st.BackupRAM)
}
