package sysmem

import (
	"github.com/kouen-dev/go-satemu/saturn/addr"
	"github.com/kouen-dev/go-satemu/saturn/bus"
)

// MapOnto registers work RAM low/high, internal backup memory, and IPL
// ROM at their fixed bus offsets.
func (s *SysMem) MapOnto(b *bus.Bus) {
	b.MapNormal(addr.WRAMLowLo, addr.WRAMLowHi, s,
		read8WRAMLow, nil, nil,
		write8WRAMLow, nil, nil)
	b.MapNormal(addr.WRAMHighLo, addr.WRAMHighHi, s,
		read8WRAMHigh, nil, nil,
		write8WRAMHigh, nil, nil)
	b.MapNormal(addr.InternalBackupLo, addr.InternalBackupHi, s,
		read8Backup, nil, nil,
		write8Backup, nil, nil)
	b.MapNormal(addr.IPLLo, addr.IPLHi, s,
		read8IPL, nil, nil,
		nil, nil, nil) // IPL ROM is read-only
}

func read8WRAMLow(ctx any, address uint32) uint8 {
	return ctx.(*SysMem).ReadWRAMLow8(address - addr.WRAMLowLo)
}
func write8WRAMLow(ctx any, address uint32, v uint8) {
	ctx.(*SysMem).WriteWRAMLow8(address-addr.WRAMLowLo, v)
}
func read8WRAMHigh(ctx any, address uint32) uint8 {
	return ctx.(*SysMem).ReadWRAMHigh8(address - addr.WRAMHighLo)
}
func write8WRAMHigh(ctx any, address uint32, v uint8) {
	ctx.(*SysMem).WriteWRAMHigh8(address-addr.WRAMHighLo, v)
}
func read8Backup(ctx any, address uint32) uint8 {
	return ctx.(*SysMem).ReadBackup8(address - addr.InternalBackupLo)
}
func write8Backup(ctx any, address uint32, v uint8) {
	ctx.(*SysMem).WriteBackup8(address-addr.InternalBackupLo, v)
}
func read8IPL(ctx any, address uint32) uint8 {
	return ctx.(*SysMem).ReadIPL8(address - addr.IPLLo)
}
