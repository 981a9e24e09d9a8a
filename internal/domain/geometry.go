package domain

// Parsivel class geometry, mm for diameters and m/s for velocities.
var (
	parsivelDiameter = [BinCount]float64{
		0.06, 0.19, 0.32, 0.45, 0.58, 0.71, 0.84, 0.96, 1.09, 1.22, 1.42, 1.67,
		1.93, 2.19, 2.45, 2.83, 3.35, 3.86, 4.38, 4.89, 5.66,
		6.7, 7.72, 8.76, 9.78, 11.33, 13.39, 15.45, 17.51, 19.57, 22.15, 25.24,
	}

	parsivelSpread = [BinCount]float64{
		0.129, 0.129, 0.129, 0.129, 0.129, 0.129, 0.129, 0.129, 0.129, 0.129, 0.257,
		0.257, 0.257, 0.257, 0.257, 0.515, 0.515, 0.515, 0.515, 0.515, 1.030, 1.030,
		1.030, 1.030, 1.030, 2.060, 2.060, 2.060, 2.060, 2.060, 3.090, 3.090,
	}

	parsivelVelocity = [BinCount]float64{
		0.05, 0.15, 0.25, 0.35, 0.45, 0.55, 0.65, 0.75, 0.85, 0.95, 1.1, 1.3, 1.5, 1.7, 1.9,
		2.2, 2.6, 3, 3.4, 3.8, 4.4, 5.2, 6.0, 6.8, 7.6, 8.8, 10.4, 12.0, 13.6, 15.2,
		17.6, 20.8,
	}

	parsivelVelocitySpread = [BinCount]float64{
		.1, .1, .1, .1, .1, .1, .1, .1, .1, .1, .2, .2, .2, .2, .2, .4,
		.4, .4, .4, .4, .8, .8, .8, .8, .8, 1.6, 1.6, 1.6, 1.6, 1.6, 3.2, 3.2,
	}
)

// BinGeometry is the fixed class layout of the instrument. The zero value is
// empty; use ParsivelGeometry. Accessors return copies.
type BinGeometry struct {
	centers         [BinCount]float64
	spreads         [BinCount]float64
	velocities      [BinCount]float64
	velocitySpreads [BinCount]float64
	edges           [BinCount + 1]float64
}

// ParsivelGeometry returns the OTT Parsivel class geometry with its bin
// edges precomputed.
func ParsivelGeometry() BinGeometry {
	g := BinGeometry{
		centers:         parsivelDiameter,
		spreads:         parsivelSpread,
		velocities:      parsivelVelocity,
		velocitySpreads: parsivelVelocitySpread,
	}
	copy(g.edges[:], BinEdges(g.centers[:], g.spreads[:]))
	return g
}

// Centers returns the diameter class centers in mm.
func (g BinGeometry) Centers() []float64 { return append([]float64(nil), g.centers[:]...) }

// Spreads returns the diameter class widths in mm.
func (g BinGeometry) Spreads() []float64 { return append([]float64(nil), g.spreads[:]...) }

// VelocityCenters returns the fall velocity class centers in m/s.
func (g BinGeometry) VelocityCenters() []float64 {
	return append([]float64(nil), g.velocities[:]...)
}

// VelocitySpreads returns the fall velocity class widths in m/s.
func (g BinGeometry) VelocitySpreads() []float64 {
	return append([]float64(nil), g.velocitySpreads[:]...)
}

// Edges returns the BinCount+1 diameter bin edges.
func (g BinGeometry) Edges() []float64 { return append([]float64(nil), g.edges[:]...) }

// BinEdges returns len(centers)+1 edges: 0 followed by the upper boundary
// center+spread/2 of every bin. centers and spreads must have equal length.
func BinEdges(centers, spreads []float64) []float64 {
	edges := make([]float64, len(centers)+1)
	for i := range centers {
		edges[i+1] = centers[i] + spreads[i]/2
	}
	return edges
}
