package domain

import (
	"time"

	"github.com/segmentio/ksuid"
)

// DropSizeDistribution is the hand-off value for downstream consumers. It
// owns the series it was built from; callers must not keep aliases.
type DropSizeDistribution struct {
	ID        string
	StationID string
	Source    string

	Time     []int // seconds of day
	Nd       [][]float64
	Spread   []float64
	RainRate []float64

	// Attached after construction by Reader.
	RawMatrix    [][BinCount][BinCount]int
	Z            MaskedSeries
	NumParticles []int
	Velocity     [][]float64
	Diameter     []float64
	BinEdges     []float64

	ProcessedAt time.Time
}

// NewDropSizeDistribution builds a distribution from its required series and
// assigns it a sortable unique ID.
func NewDropSizeDistribution(t []int, nd [][]float64, spread, rainRate []float64) *DropSizeDistribution {
	return &DropSizeDistribution{
		ID:          ksuid.New().String(),
		Time:        t,
		Nd:          nd,
		Spread:      spread,
		RainRate:    rainRate,
		ProcessedAt: clock.Now().UTC(),
	}
}

// Len returns the number of intervals.
func (d *DropSizeDistribution) Len() int { return len(d.Time) }

// IntervalRecord is one interval of a distribution, the unit published
// downstream. Reflectivity is nil when masked.
type IntervalRecord struct {
	DatasetID    string                   `json:"dataset_id"`
	StationID    string                   `json:"station_id,omitempty"`
	Source       string                   `json:"source"`
	Index        int                      `json:"index"`
	SecondsOfDay int                      `json:"seconds_of_day"`
	RainRate     float64                  `json:"rain_rate"`
	Reflectivity *float64                 `json:"reflectivity"`
	NumParticles int                      `json:"num_particles"`
	Nd           []float64                `json:"nd"`
	Velocity     []float64                `json:"velocity,omitempty"`
	Raw          *[BinCount][BinCount]int `json:"raw,omitempty"`
	BinEdges     []float64                `json:"bin_edges,omitempty"`
	Params       IntervalParams           `json:"params"`
	ProcessedAt  time.Time                `json:"processed_at"`
}

// StandardAirPressureMb is the surface pressure fall speeds are computed at.
const StandardAirPressureMb = 1000.0

// Intervals splits the distribution into one record per timestamp. Optional
// series that are shorter than Time are left empty for the missing entries.
func (d *DropSizeDistribution) Intervals() []IntervalRecord {
	out := make([]IntervalRecord, d.Len())
	params := d.Parameterization(StandardAirPressureMb)
	for i, sec := range d.Time {
		rec := IntervalRecord{
			DatasetID:    d.ID,
			StationID:    d.StationID,
			Source:       d.Source,
			Index:        i,
			SecondsOfDay: sec,
			BinEdges:     d.BinEdges,
			Params:       params[i],
			ProcessedAt:  d.ProcessedAt,
		}
		if i < len(d.RainRate) {
			rec.RainRate = d.RainRate[i]
		}
		if z, ok := d.Z.At(i); ok {
			rec.Reflectivity = &z
		}
		if i < len(d.NumParticles) {
			rec.NumParticles = d.NumParticles[i]
		}
		if i < len(d.Nd) {
			rec.Nd = d.Nd[i]
		}
		if i < len(d.Velocity) {
			rec.Velocity = d.Velocity[i]
		}
		if i < len(d.RawMatrix) {
			raw := d.RawMatrix[i]
			rec.Raw = &raw
		}
		out[i] = rec
	}
	return out
}

// Timestamp resolves interval i to an absolute time on the given UTC day.
// It reports false when i is not an interval of d.
func (d *DropSizeDistribution) Timestamp(day time.Time, i int) (time.Time, bool) {
	if i < 0 || i >= len(d.Time) {
		return time.Time{}, false
	}
	y, m, dd := day.UTC().Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC).Add(time.Duration(d.Time[i]) * time.Second), true
}
