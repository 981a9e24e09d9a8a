package domain

import "fmt"

// Dataset is a normalized, index aligned view of one raw file. Every series
// has one entry per decoded timestamp.
type Dataset struct {
	RainRate     []float64
	Reflectivity MaskedSeries
	NumParticles []int
	Time         []int
	Nd           [][]float64
	Velocity     [][]float64
	Raw          [][BinCount][BinCount]int
	Bins         []float64

	// ZeroedDropCounts counts Nd entries that held the sentinel.
	ZeroedDropCounts int
}

// Len returns the number of intervals.
func (d *Dataset) Len() int { return len(d.Time) }

// Normalize checks that every series in stream has one entry per timestamp
// and converts it into a Dataset. Sentinel reflectivity is masked and
// sentinel drop counts become 0. The stream is not modified.
//
// A series whose length differs from len(stream.Time) returns a
// *ShapeMismatchError naming the first offending field.
func Normalize(stream *RecordStream, centers, spreads []float64) (*Dataset, error) {
	if stream == nil {
		return nil, ErrNilStream
	}
	if len(centers) != len(spreads) {
		return nil, fmt.Errorf("%w: %d centers, %d spreads", ErrGeometryMismatch, len(centers), len(spreads))
	}
	if err := checkAlignment(stream, len(centers)); err != nil {
		return nil, err
	}

	n := len(stream.Time)
	ds := &Dataset{
		RainRate:     append(make([]float64, 0, n), stream.RainRate...),
		Reflectivity: MaskEqual(stream.Reflectivity, Sentinel),
		NumParticles: append(make([]int, 0, n), stream.ParticleCount...),
		Time:         append(make([]int, 0, n), stream.Time...),
		Nd:           make([][]float64, n),
		Velocity:     make([][]float64, n),
		Raw:          make([][BinCount][BinCount]int, n),
		Bins:         BinEdges(centers, spreads),
	}

	for i := range n {
		row := make([]float64, len(stream.DropCounts[i]))
		for j, v := range stream.DropCounts[i] {
			if v == Sentinel {
				ds.ZeroedDropCounts++
				v = 0
			}
			row[j] = v
		}
		ds.Nd[i] = row
		ds.Velocity[i] = append([]float64(nil), stream.Velocities[i]...)
		ds.Raw[i] = reshapeRaw(stream.RawCounts[i])
	}
	return ds, nil
}

func checkAlignment(stream *RecordStream, bins int) error {
	want := len(stream.Time)
	lengths := []struct {
		field string
		got   int
	}{
		{TagRainRate.String(), len(stream.RainRate)},
		{TagReflectivity.String(), len(stream.Reflectivity)},
		{TagParticleCount.String(), len(stream.ParticleCount)},
		{TagDropCounts.String(), len(stream.DropCounts)},
		{TagVelocities.String(), len(stream.Velocities)},
		{TagRawMatrix.String(), len(stream.RawCounts)},
	}
	for _, l := range lengths {
		if l.got != want {
			return &ShapeMismatchError{Field: l.field, Got: l.got, Want: want}
		}
	}

	for i, row := range stream.DropCounts {
		if len(row) != bins {
			return &ShapeMismatchError{Field: fmt.Sprintf("nd[%d]", i), Got: len(row), Want: bins}
		}
	}
	for i, row := range stream.Velocities {
		if len(row) != bins {
			return &ShapeMismatchError{Field: fmt.Sprintf("velocity[%d]", i), Got: len(row), Want: bins}
		}
	}
	for i, row := range stream.RawCounts {
		if len(row) != RawMatrixSize {
			return &ShapeMismatchError{Field: fmt.Sprintf("raw[%d]", i), Got: len(row), Want: RawMatrixSize}
		}
	}
	return nil
}

// reshapeRaw folds a flattened raw row into a matrix, row major.
func reshapeRaw(flat []int) [BinCount][BinCount]int {
	var m [BinCount][BinCount]int
	for i, v := range flat {
		m[i/BinCount][i%BinCount] = v
	}
	return m
}
