package domain

import "io"

// ReadReport summarizes data quality for one decoded file.
type ReadReport struct {
	Lines              int
	Intervals          int
	Warnings           []MalformedRecord
	MaskedReflectivity int
	ZeroedDropCounts   int
}

// Reader turns raw files into drop size distributions using a fixed
// instrument geometry and conditional matrix. It holds no per-file state and
// is safe for concurrent use.
type Reader struct {
	geometry    BinGeometry
	conditional ConditionalMatrix
}

// NewReader creates a Reader for the given instrument context.
func NewReader(geometry BinGeometry, conditional ConditionalMatrix) *Reader {
	return &Reader{geometry: geometry, conditional: conditional}
}

// Geometry returns the reader's bin geometry.
func (r *Reader) Geometry() BinGeometry { return r.geometry }

// Conditional returns the loaded conditional matrix.
func (r *Reader) Conditional() ConditionalMatrix { return r.conditional }

// Read decodes and normalizes the raw file at path. The report is returned
// even when normalization fails so callers can log the skipped lines that
// caused it.
func (r *Reader) Read(path string) (*DropSizeDistribution, ReadReport, error) {
	stream, err := DecodeFile(path)
	if err != nil {
		return nil, ReadReport{}, err
	}
	dsd, report, err := r.build(stream)
	if dsd != nil {
		dsd.Source = path
	}
	return dsd, report, err
}

// ReadStream is Read for an already open stream.
func (r *Reader) ReadStream(src io.Reader, name string) (*DropSizeDistribution, ReadReport, error) {
	stream, err := DecodeReader(src)
	if err != nil {
		return nil, ReadReport{}, &FileAccessError{Path: name, Err: err}
	}
	dsd, report, err := r.build(stream)
	if dsd != nil {
		dsd.Source = name
	}
	return dsd, report, err
}

func (r *Reader) build(stream *RecordStream) (*DropSizeDistribution, ReadReport, error) {
	report := ReadReport{Lines: stream.Lines, Warnings: stream.Warnings}

	ds, err := Normalize(stream, r.geometry.Centers(), r.geometry.Spreads())
	if err != nil {
		return nil, report, err
	}
	report.Intervals = ds.Len()
	report.MaskedReflectivity = ds.Reflectivity.MaskedCount()
	report.ZeroedDropCounts = ds.ZeroedDropCounts

	dsd := NewDropSizeDistribution(ds.Time, ds.Nd, r.geometry.Spreads(), ds.RainRate)
	dsd.RawMatrix = ds.Raw
	dsd.Z = ds.Reflectivity
	dsd.NumParticles = ds.NumParticles
	dsd.Velocity = ds.Velocity
	dsd.Diameter = r.geometry.Centers()
	dsd.BinEdges = ds.Bins
	return dsd, report, nil
}
