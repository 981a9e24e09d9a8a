package domain

// MaskedSeries is a float series where some entries are flagged invalid.
// Masked entries keep their slot so indexes stay aligned with time.
type MaskedSeries struct {
	Values []float64
	Mask   []bool
}

// MaskEqual copies values and masks every entry exactly equal to sentinel.
func MaskEqual(values []float64, sentinel float64) MaskedSeries {
	s := MaskedSeries{
		Values: make([]float64, len(values)),
		Mask:   make([]bool, len(values)),
	}
	copy(s.Values, values)
	for i, v := range values {
		s.Mask[i] = v == sentinel
	}
	return s
}

// Len returns the number of entries, masked or not.
func (s MaskedSeries) Len() int { return len(s.Values) }

// IsMasked reports whether entry i is invalid.
func (s MaskedSeries) IsMasked(i int) bool {
	return i < len(s.Mask) && s.Mask[i]
}

// At returns entry i and whether it is valid.
func (s MaskedSeries) At(i int) (float64, bool) {
	if i < 0 || i >= len(s.Values) || s.IsMasked(i) {
		return 0, false
	}
	return s.Values[i], true
}

// Valid returns the unmasked values in order.
func (s MaskedSeries) Valid() []float64 {
	out := make([]float64, 0, len(s.Values))
	for i, v := range s.Values {
		if !s.IsMasked(i) {
			out = append(out, v)
		}
	}
	return out
}

// MaskedCount returns the number of masked entries.
func (s MaskedSeries) MaskedCount() int {
	n := 0
	for _, m := range s.Mask {
		if m {
			n++
		}
	}
	return n
}

// Mean averages the unmasked values. ok is false when nothing is valid.
func (s MaskedSeries) Mean() (mean float64, ok bool) {
	valid := s.Valid()
	if len(valid) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range valid {
		sum += v
	}
	return sum / float64(len(valid)), true
}
