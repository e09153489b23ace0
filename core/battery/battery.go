package battery

import "math"

// Pack models a stationary battery with charge and discharge rate limits.
// A Pack is owned by exactly one engine instance or simulation run; callers
// that need concurrent access must serialize around Apply themselves.
type Pack struct {
	CapacityKWh    float64
	ChargeKWh      float64
	MaxDischargeKW float64
	MaxChargeKW    float64
}

// New returns a Pack with the given capacity and rate limits. The initial
// charge is clamped to [0, capacity].
func New(capacityKWh, initialKWh, maxDischargeKW, maxChargeKW float64) *Pack {
	p := &Pack{
		CapacityKWh:    capacityKWh,
		ChargeKWh:      initialKWh,
		MaxDischargeKW: maxDischargeKW,
		MaxChargeKW:    maxChargeKW,
	}
	p.clamp()
	return p
}

// DischargeHeadroomKW returns the maximum power the pack can still supply
// over a timestep of the given duration.
func (p *Pack) DischargeHeadroomKW(stepHours float64) float64 {
	if stepHours <= 0 {
		return 0
	}
	return math.Min(p.MaxDischargeKW, p.ChargeKWh/stepHours)
}

// ChargeHeadroomKW returns the maximum power the pack can still absorb over
// a timestep of the given duration.
func (p *Pack) ChargeHeadroomKW(stepHours float64) float64 {
	if stepHours <= 0 {
		return 0
	}
	return math.Min(p.MaxChargeKW, (p.CapacityKWh-p.ChargeKWh)/stepHours)
}

// Apply updates the charge level for the requested power over stepHours.
// Positive power discharges, negative power charges. The request is clamped
// to the rate limit and the remaining energy, never rejected; the power
// actually applied is returned and callers must use it, not the requested
// value, in any downstream accounting.
func (p *Pack) Apply(powerKW, stepHours float64) float64 {
	if stepHours <= 0 || powerKW == 0 || math.IsNaN(powerKW) {
		return 0
	}

	var actual float64
	if powerKW > 0 { // discharge
		actual = math.Min(powerKW, p.MaxDischargeKW)
		energy := actual * stepHours
		if energy > p.ChargeKWh {
			energy = p.ChargeKWh
			actual = energy / stepHours
		}
		p.ChargeKWh -= energy
	} else { // charge
		in := math.Min(-powerKW, p.MaxChargeKW)
		energy := in * stepHours
		if free := p.CapacityKWh - p.ChargeKWh; energy > free {
			energy = free
			in = energy / stepHours
		}
		p.ChargeKWh += energy
		actual = -in
	}

	p.clamp()
	return actual
}

func (p *Pack) clamp() {
	if p.ChargeKWh < 0 {
		p.ChargeKWh = 0
	}
	if p.ChargeKWh > p.CapacityKWh {
		p.ChargeKWh = p.CapacityKWh
	}
}
