package scudsp

// The host reaches program and data RAM through two single-register ports
// (mirroring the real D0CTL/D0PRG/D0DATA register pair): each access goes
// through an auto-incrementing cursor rather than a full address on every
// write, matching the SCU register layout in spec.md §6.

// ResetProgramPointer sets the program-RAM port cursor back to 0, as the
// host does before downloading a new program.
func (d *DSP) ResetProgramPointer() { d.progPtr = 0 }

// WriteProgramPort writes one instruction word through the program-RAM
// port at the current cursor and advances it.
func (d *DSP) WriteProgramPort(word uint32) {
	d.programRAM[d.progPtr] = word
	d.progPtr++
}

// ReadProgramPort reads the instruction word at the current program-RAM
// port cursor without advancing it (matching the real register's
// read-back-without-increment behavior).
func (d *DSP) ReadProgramPort() uint32 {
	return d.programRAM[d.progPtr]
}

// SetHostDataBank selects which of the four CT pointers the data-RAM port
// reads and writes through.
func (d *DSP) SetHostDataBank(bank int) { d.hostDataBank = bank % NumBanks }

// WriteDataPort writes through the data-RAM port at the selected bank's CT
// pointer and advances that pointer, the same one DSP instructions address
// data RAM through.
func (d *DSP) WriteDataPort(value uint32) {
	b := d.hostDataBank
	d.dataRAM[b][d.ct[b]] = value
	d.ct[b] = (d.ct[b] + 1) % DataBankSize
}

// ReadDataPort reads through the data-RAM port and advances the selected
// bank's CT pointer.
func (d *DSP) ReadDataPort() uint32 {
	b := d.hostDataBank
	v := d.dataRAM[b][d.ct[b]]
	d.ct[b] = (d.ct[b] + 1) % DataBankSize
	return v
}
