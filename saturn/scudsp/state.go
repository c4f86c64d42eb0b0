package scudsp

import "github.com/kouen-dev/go-satemu/saturn/state"

// Capture returns the DSP's full architectural state for save-state
// persistence: program/data RAM, CT pointers, PC, and the register file.
func (d *DSP) Capture() state.SCUDSPState {
	var s state.SCUDSPState
	s.ProgramRAM = d.programRAM
	s.DataRAM = d.dataRAM
	s.CT = d.ct
	s.PC = d.pc
	s.Executing = d.programExecuting
	s.ALU = int64(d.alu)
	s.RX = d.rx
	s.RY = d.ry
	s.LOP = d.lop
	s.TOP = d.top
	return s
}

// Restore reinstates a previously captured record.
func (d *DSP) Restore(s state.SCUDSPState) {
	d.programRAM = s.ProgramRAM
	d.dataRAM = s.DataRAM
	d.ct = s.CT
	d.pc = s.PC
	d.programExecuting = s.Executing
	d.alu = ALU48(s.ALU)
	d.rx = s.RX
	d.ry = s.RY
	d.lop = s.LOP
	d.top = s.TOP
}
