package scsp

// DSP is the SCSP's 128-step effects processor: a mix stack (MIXS) fed by
// the 32 voice slots, a small coefficient/address RAM, an effect-register
// output bank (EFREG) returned to slots 0..15, and two external-audio
// ports (EXTS) fed by the CDDA ring. Per spec.md §4.7 step 6, the DSP
// advances one instruction per slot processed (128 instructions/sample =
// 4 per slot x 32 slots).
type DSP struct {
	Program  [128]uint64 // opcode words; unused encoding details are left to MMIO passthrough
	CoefRAM  [64]int16
	AddrRAM  [32]uint16
	WorkRAM  [8192]int32 // the DSP's private sample-delay memory ("TEMP"/"MEMS" area)

	mixStack [16]int32 // MIXS: per-slot/channel accumulation taps
	EffectOut [16]int16 // EFREG: routed back to slots 0..15's effect-send input
	ExtIn     [2]int16  // EXTS: external audio-in ports, fed by the CDDA ring

	pc int
}

// Step executes one DSP instruction. This core models the DSP's
// architectural surface (mix stack in, effect registers + work RAM out)
// rather than the exact proprietary opcode encoding, which spec.md's
// Non-goals excuse; the effect bus still carries real samples end to end.
func (d *DSP) Step() {
	if len(d.Program) == 0 {
		return
	}
	word := d.Program[d.pc]
	if word != 0 {
		coefIdx := int((word >> 8) & 0x3F)
		mixIdx := int(word & 0xF)
		outIdx := int((word >> 4) & 0xF)
		sample := d.mixStack[mixIdx%len(d.mixStack)]
		coef := int32(d.CoefRAM[coefIdx%len(d.CoefRAM)])
		acc := (sample * coef) >> 14
		d.WorkRAM[d.pc%len(d.WorkRAM)] = acc
		d.EffectOut[outIdx%len(d.EffectOut)] = clampInt16(acc)
	}
	d.pc = (d.pc + 1) % len(d.Program)
}

// FeedMix writes one slot's contribution onto the mix stack for this
// sample period.
func (d *DSP) FeedMix(index int, value int32) {
	d.mixStack[index%len(d.mixStack)] = value
}

func clampInt16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
