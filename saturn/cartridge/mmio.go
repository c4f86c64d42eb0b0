package cartridge

import (
	"github.com/kouen-dev/go-satemu/saturn/addr"
	"github.com/kouen-dev/go-satemu/saturn/bus"
)

// MapOnto registers the cartridge slot's data window (A-Bus CS0, and CS1
// up to but excluding the ID register at its top) plus the 2-byte ID
// register itself.
func (c *Cartridge) MapOnto(b *bus.Bus) {
	b.MapNormal(addr.ABusCS0Lo, addr.ABusCS0Hi, c,
		read8Data, nil, nil,
		write8Data, nil, nil)
	b.MapNormal(addr.ABusCS1Lo, addr.CartridgeIDLo-1, c,
		read8Data, nil, nil,
		write8Data, nil, nil)
	b.MapNormal(addr.CartridgeIDLo, addr.CartridgeIDHi, c,
		read8ID, nil, nil,
		nil, nil, nil)
}

func read8Data(ctx any, address uint32) uint8 {
	return ctx.(*Cartridge).Read8(address - addr.ABusCS0Lo)
}
func write8Data(ctx any, address uint32, v uint8) {
	ctx.(*Cartridge).Write8(address-addr.ABusCS0Lo, v)
}
func read8ID(ctx any, address uint32) uint8 {
	if address == addr.CartridgeIDLo {
		return 0xFF
	}
	return ctx.(*Cartridge).IDByte()
}
