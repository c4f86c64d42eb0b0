package cartridge

import "errors"

var (
	ErrNotBackupMemory    = errors.New("cartridge: slot does not hold backup memory")
	ErrBackupSizeMismatch = errors.New("cartridge: backup image size does not match slot capacity")
	ErrKindMismatch       = errors.New("cartridge: save-state cartridge kind does not match slot")
)
