// Package clock precomputes the numerator/denominator ratio tables that map
// master-clock cycles to each subordinate clock domain (SCSP, CD block,
// SMPC), for each combination of video standard and dot clock. See spec.md
// §2, §4.1 and §9 ("Scheduler with fractional ratios").
package clock

// Standard selects the video timing standard.
type Standard int

const (
	NTSC Standard = iota
	PAL
)

// DotClock selects the horizontal dot clock (320 or 352 pixel modes).
type DotClock int

const (
	Dot320 DotClock = iota
	Dot352
)

// Ratio is a numerator/denominator pair: to convert a count of native cycles
// in this domain to master cycles, multiply by Den then divide by Num (see
// scheduler.ScheduleFromNow).
type Ratio struct {
	Num, Den int64
}

// Domain clocks driven relative to the master clock.
type Domains struct {
	Master Ratio // identity, master clock itself
	SCSP   Ratio // SCSP clock; 512 SCSP cycles make one 44.1 kHz sample
	CDBlock Ratio
	SMPC   Ratio
}

// masterHz returns the master clock frequency for a standard/dot-clock pair,
// in Hz, matching the real hardware's two PLL configurations.
func masterHz(std Standard, dot DotClock) int64 {
	switch {
	case std == NTSC && dot == Dot320:
		return 57272727 // ~57.27 MHz, 320-mode NTSC
	case std == NTSC && dot == Dot352:
		return 57272727 * 11 / 10
	case std == PAL && dot == Dot320:
		return 56875000
	default: // PAL, Dot352
		return 56875000 * 11 / 10
	}
}

const (
	scspHz    = 22579264 / 512 * 512 // nominal SCSP sample-tick base clock
	cdBlockHz = 19660800
	smpcHz    = 4000000
)

// Table holds the four precomputed ratio sets, one per (Standard, DotClock).
type Table [2][2]Domains

// Build precomputes all four ratio sets.
func Build() Table {
	var t Table
	for _, std := range []Standard{NTSC, PAL} {
		for _, dot := range []DotClock{Dot320, Dot352} {
			m := masterHz(std, dot)
			t[std][dot] = Domains{
				Master:  Ratio{1, 1},
				SCSP:    Ratio{scspHz, m},
				CDBlock: Ratio{cdBlockHz, m},
				SMPC:    Ratio{smpcHz, m},
			}
		}
	}
	return t
}

// For returns the precomputed domain ratios for the given standard/dot clock.
func (t Table) For(std Standard, dot DotClock) Domains {
	return t[std][dot]
}
