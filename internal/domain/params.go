package domain

import "math"

// Water density in g/mm^3.
const waterDensity = 1e-3

// IntervalParams holds the bulk parameters of one interval's drop size
// distribution. Every field is zero for an interval with no drops.
type IntervalParams struct {
	Nt           float64 `json:"nt"`     // total concentration, m^-3
	W            float64 `json:"w"`      // liquid water content, g/m^3
	D0           float64 `json:"d0"`     // median volume diameter, mm
	Dm           float64 `json:"dm"`     // mass weighted mean diameter, mm
	Nw           float64 `json:"nw"`     // normalized intercept, mm^-1 m^-3
	Dmax         float64 `json:"dmax"`   // largest diameter with drops, mm
	N0           float64 `json:"n0"`     // exponential intercept
	Lambda       float64 `json:"lambda"` // exponential slope, mm^-1
	FluxRainRate float64 `json:"flux_rain_rate"`
}

// binWidths returns Spread, or the differences of BinEdges when no spread is
// attached. It returns nil when neither matches Diameter.
func (d *DropSizeDistribution) binWidths() []float64 {
	if len(d.Spread) > 0 && len(d.Spread) == len(d.Diameter) {
		return d.Spread
	}
	if len(d.BinEdges) == len(d.Diameter)+1 && len(d.Diameter) > 0 {
		w := make([]float64, len(d.Diameter))
		for i := range w {
			w[i] = d.BinEdges[i+1] - d.BinEdges[i]
		}
		return w
	}
	return nil
}

// Moment returns the m-th moment sum(D^m * Nd * dD) of every interval. All
// moments are zero when the distribution carries no bin geometry.
func (d *DropSizeDistribution) Moment(m float64) []float64 {
	out := make([]float64, d.Len())
	widths := d.binWidths()
	if widths == nil {
		return out
	}
	for t := range out {
		if t < len(d.Nd) {
			out[t] = moment(d.Nd[t], d.Diameter, widths, m)
		}
	}
	return out
}

func moment(nd, diameter, widths []float64, m float64) float64 {
	var sum float64
	for i := 0; i < len(nd) && i < len(diameter); i++ {
		sum += math.Pow(diameter[i], m) * nd[i] * widths[i]
	}
	return sum
}

// Parameterization computes the bulk parameters of every interval. D0 and Nw
// follow Bringi and Chandrasekar; N0 and Lambda fit an exponential
// distribution from the second and fourth moments. FluxRainRate integrates
// the drop flux with terminal fall speeds at airPressureMb.
func (d *DropSizeDistribution) Parameterization(airPressureMb float64) []IntervalParams {
	out := make([]IntervalParams, d.Len())
	widths := d.binWidths()
	if widths == nil {
		return out
	}
	speed := FallSpeed(d.Diameter, airPressureMb)
	for t := range out {
		if t < len(d.Nd) {
			out[t] = intervalParams(d.Nd[t], d.Diameter, widths, speed)
		}
	}
	return out
}

func intervalParams(nd, diameter, widths, speed []float64) IntervalParams {
	n := min(len(nd), len(diameter))
	var total float64
	for i := range n {
		total += nd[i]
	}
	if total == 0 {
		return IntervalParams{}
	}

	var p IntervalParams
	for i := range n {
		p.Nt += nd[i] * widths[i]
		p.W += nd[i] * widths[i] * math.Pow(diameter[i], 3)
		p.FluxRainRate += speed[i] * nd[i] * widths[i] * math.Pow(diameter[i], 3)
		if nd[i] != 0 {
			p.Dmax = diameter[i]
		}
	}
	p.W *= math.Pi / 6 * waterDensity
	p.FluxRainRate *= 0.6 * math.Pi * waterDensity

	m2 := moment(nd, diameter, widths, 2)
	m3 := moment(nd, diameter, widths, 3)
	m4 := moment(nd, diameter, widths, 4)
	if m3 != 0 {
		p.Dm = m4 / m3
		p.Nw = 256 / (math.Pi * waterDensity) * p.W / math.Pow(p.Dm, 4)
	}
	if m4 != 0 {
		p.Lambda = math.Sqrt(m2 * math.Gamma(5) / (m4 * math.Gamma(3)))
		p.N0 = m2 * math.Pow(p.Lambda, 3) / math.Gamma(3)
	}
	p.D0 = medianVolumeDiameter(nd[:n], diameter, widths)
	return p
}

// medianVolumeDiameter interpolates the diameter splitting the interval's
// water content in half.
func medianVolumeDiameter(nd, diameter, widths []float64) float64 {
	nonzero, last := 0, 0
	for i, v := range nd {
		if v != 0 {
			nonzero++
			last = i
		}
	}
	switch nonzero {
	case 0:
		return 0
	case 1:
		return diameter[last]
	}

	cum := make([]float64, len(nd))
	var acc float64
	for i := range nd {
		acc += nd[i] * widths[i] * math.Pow(diameter[i], 3)
		cum[i] = acc
	}
	half := cum[len(cum)-1] / 2

	cross := 0
	for cross < len(cum) && cum[cross] < half {
		cross++
	}
	cross--
	if cross < 0 {
		return diameter[0]
	}
	slope := (cum[cross+1] - cum[cross]) / (diameter[cross+1] - diameter[cross])
	return diameter[cross] + (half-cum[cross])/slope
}

// FallSpeed returns the terminal fall speed in m/s of drops of the given
// diameters in mm, scaled by (airPressureMb/1000)^0.4. The first class is
// below the instrument's detection limit and is forced to zero.
func FallSpeed(diameter []float64, airPressureMb float64) []float64 {
	adjust := math.Pow(airPressureMb/1000, 0.4)
	out := make([]float64, len(diameter))
	for i, dd := range diameter {
		if i == 0 {
			continue
		}
		out[i] = (9.65 - 10.3*math.Exp(-0.6*dd)) * adjust
	}
	return out
}
