package scsp

// Envelope rate tables. The exact attack/decay curve is not bit-exact to
// real hardware (spec.md's Non-goals excuse undefined-behavior-level
// timing precision); this implementation guarantees the documented
// boundary behaviors: rate 0 holds the level, rate 31 moves to the target
// extreme within a single sample, and intermediate rates increase
// monotonically.
const (
	egMaxLevel uint16 = 0x3FF // fully attenuated / silent
	egPeakLevel uint16 = 0    // no attenuation / loudest
)

func attackStep(rate uint8) uint16 {
	if rate == 0 {
		return 0
	}
	if rate >= 31 {
		return egMaxLevel + 1 // guarantees a clamp straight to peak
	}
	return uint16(1) << (rate / 2)
}

func decayStep(rate uint8) uint16 {
	if rate == 0 {
		return 0
	}
	if rate >= 31 {
		return egMaxLevel + 1
	}
	return uint16(1) << (rate / 2)
}

// adjustedRate applies key-rate scaling (KRS) and octave to a raw 5-bit
// rate register, clamped to [0,31].
func adjustedRate(raw uint8, krs uint8, octave int8) uint8 {
	adj := int(raw) + int(krs)/2 + int(octave)/2
	if adj < 0 {
		adj = 0
	}
	if adj > 31 {
		adj = 31
	}
	return uint8(adj)
}

// decayThreshold converts the 5-bit DL register into the 10-bit attenuation
// level at which Decay1 hands off to Decay2.
func decayThreshold(dl uint8) uint16 {
	return uint16(dl) << 5
}

// stepEnvelope advances one slot's envelope generator by exactly one
// sample, per spec.md §4.7 step 4 and the key-on/key-off semantics of
// §8 scenario 4.
func (b *Block) stepEnvelope(s *Slot) {
	if s.KeyOn && !s.prevKeyOn {
		s.egState = EGAttack
		s.egLevel = egMaxLevel
		s.active = true
		s.prevKeyOn = true
		s.currPhase = 0
		s.currAddress = s.StartAddress
		s.reverse = false
		s.crossedLoopStart = false
	} else if !s.KeyOn && s.prevKeyOn {
		// Falling edge: move to Release but defer the rate-driven level
		// change to the next sample.
		s.egState = EGRelease
		s.prevKeyOn = false
		return
	}

	if !s.active {
		return
	}

	switch s.egState {
	case EGAttack:
		rate := adjustedRate(s.AR, s.KRS, s.OCT)
		step := attackStep(rate)
		if step >= s.egLevel {
			s.egLevel = egPeakLevel
			s.egState = EGDecay1
		} else {
			s.egLevel -= step
		}
	case EGDecay1:
		rate := adjustedRate(s.D1R, s.KRS, s.OCT)
		step := decayStep(rate)
		threshold := decayThreshold(s.DL)
		if s.egLevel+step >= threshold {
			if threshold > s.egLevel {
				s.egLevel = threshold
			}
			if step > 0 {
				s.egState = EGDecay2
			}
		} else {
			s.egLevel += step
		}
	case EGDecay2:
		rate := adjustedRate(s.D2R, s.KRS, s.OCT)
		step := decayStep(rate)
		if s.egLevel+step >= egMaxLevel {
			s.egLevel = egMaxLevel
			s.active = false
		} else {
			s.egLevel += step
		}
	case EGRelease:
		rate := adjustedRate(s.RR, s.KRS, s.OCT)
		step := decayStep(rate)
		if s.egLevel+step >= egMaxLevel {
			s.egLevel = egMaxLevel
			s.active = false
		} else {
			s.egLevel += step
		}
	}
}
