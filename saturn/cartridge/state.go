package cartridge

import "github.com/kouen-dev/go-satemu/saturn/state"

// Capture returns this slot's save-state record: the active Kind plus a
// copy of whichever backing store it uses (backup/DRAM/ROM), or a nil Data
// slice for an empty slot.
func (c *Cartridge) Capture() state.CartridgeState {
	var data []byte
	switch c.kind {
	case KindBackupMemory:
		data = c.backup
	case KindDRAM8Mbit, KindDRAM32Mbit:
		data = c.dram
	case KindROM:
		data = c.rom
	}
	out := make([]byte, len(data))
	copy(out, data)
	return state.CartridgeState{Kind: uint8(c.kind), Data: out}
}

// Restore reinstates a previously captured record. The slot's Kind must
// already match (the facade recreates the cartridge of the saved Kind
// before loading). For DRAM and ROM the saved bytes are copied over the
// start of the current backing store: extra saved bytes are dropped and
// bytes past the end of shorter data keep their current contents. Backup
// memory goes through LoadBackupImage, which rejects a size mismatch.
func (c *Cartridge) Restore(s state.CartridgeState) error {
	if Kind(s.Kind) != c.kind {
		return ErrKindMismatch
	}
	switch c.kind {
	case KindBackupMemory:
		return c.LoadBackupImage(s.Data)
	case KindDRAM8Mbit, KindDRAM32Mbit:
		copy(c.dram, s.Data)
	case KindROM:
		copy(c.rom, s.Data)
	}
	return nil
}
