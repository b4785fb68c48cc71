package frequency

import (
	"math"

	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/rng"
)

// Cutoff ranges used by the random transfer builders.
const (
	DefaultCutoffMin    = 1.0
	DefaultCutoffMax    = 25.0
	DefaultBandLowMax   = 12.5
	DefaultBandMinWidth = 5.0
)

// Range is a closed cutoff interval.
type Range struct {
	Min float64
	Max float64
}

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Transfer is a real-valued frequency-domain multiplier, row-major.
// Entry (u, v) applies to the zero-frequency-centred spectrum.
type Transfer struct {
	Rows int
	Cols int
	Data []float64
}

// NewTransfer allocates a zero transfer function.
func NewTransfer(rows, cols int) *Transfer {
	return &Transfer{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns entry (u, v).
func (t *Transfer) At(u, v int) float64 {
	return t.Data[u*t.Cols+v]
}

// Ones returns the identity transfer function.
func Ones(rows, cols int) *Transfer {
	t := NewTransfer(rows, cols)
	for i := range t.Data {
		t.Data[i] = 1
	}
	return t
}

// Complement returns 1 - t.
func (t *Transfer) Complement() *Transfer {
	out := NewTransfer(t.Rows, t.Cols)
	for i, v := range t.Data {
		out.Data[i] = 1 - v
	}
	return out
}

// Sub returns t - o.
func (t *Transfer) Sub(o *Transfer) (*Transfer, error) {
	if t.Rows != o.Rows || t.Cols != o.Cols {
		return nil, errors.New(errors.ErrCodeDimensionMismatch, "cannot subtract %dx%d transfer from %dx%d", o.Rows, o.Cols, t.Rows, t.Cols)
	}
	out := NewTransfer(t.Rows, t.Cols)
	for i := range t.Data {
		out.Data[i] = t.Data[i] - o.Data[i]
	}
	return out, nil
}

// Add returns t + o.
func (t *Transfer) Add(o *Transfer) (*Transfer, error) {
	if t.Rows != o.Rows || t.Cols != o.Cols {
		return nil, errors.New(errors.ErrCodeDimensionMismatch, "cannot add %dx%d transfer to %dx%d", o.Rows, o.Cols, t.Rows, t.Cols)
	}
	out := NewTransfer(t.Rows, t.Cols)
	for i := range t.Data {
		out.Data[i] = t.Data[i] + o.Data[i]
	}
	return out, nil
}

// Gaussian builds the normalized Gaussian transfer function.
//
// The grid spans rows x cols samples centred on the midpoint, so for even
// extents the centre falls between samples. The raw Gaussian is normalized as
// (g - max) / (max - min): the centre becomes 0 and the farthest corners -1.
// A grid with max == min (a single sample) normalizes to zero.
func Gaussian(rows, cols int, cutoff float64) (*Transfer, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParams, "invalid transfer extent %dx%d", rows, cols)
	}
	if math.IsNaN(cutoff) || math.IsInf(cutoff, 0) || cutoff <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParams, "cutoff frequency must be positive, got %v", cutoff)
	}

	t := gaussianRaw(rows, cols, cutoff)
	hi, lo := math.Inf(-1), math.Inf(1)
	for _, v := range t.Data {
		hi = math.Max(hi, v)
		lo = math.Min(lo, v)
	}
	span := hi - lo
	for i, v := range t.Data {
		if span == 0 {
			t.Data[i] = 0
			continue
		}
		t.Data[i] = (v - hi) / span
	}
	return t, nil
}

// gaussianRaw evaluates exp(-(x²+y²)/(2c²)) on the centred grid.
func gaussianRaw(rows, cols int, cutoff float64) *Transfer {
	t := NewTransfer(rows, cols)
	m := float64(rows-1) / 2
	n := float64(cols-1) / 2
	denom := 2 * cutoff * cutoff
	for i := 0; i < rows; i++ {
		y := float64(i) - m
		for j := 0; j < cols; j++ {
			x := float64(j) - n
			t.Data[i*cols+j] = math.Exp(-(x*x + y*y) / denom)
		}
	}
	return t
}

// LowPassAt returns Gaussian(rows, cols, cutoff).
func LowPassAt(rows, cols int, cutoff float64) (*Transfer, error) {
	return Gaussian(rows, cols, cutoff)
}

// HighPassAt returns 1 - Gaussian(rows, cols, cutoff).
func HighPassAt(rows, cols int, cutoff float64) (*Transfer, error) {
	g, err := Gaussian(rows, cols, cutoff)
	if err != nil {
		return nil, err
	}
	return g.Complement(), nil
}

// BandPassAt returns Gaussian(high) - Gaussian(low).
func BandPassAt(rows, cols int, low, high float64) (*Transfer, error) {
	gl, err := Gaussian(rows, cols, low)
	if err != nil {
		return nil, err
	}
	gh, err := Gaussian(rows, cols, high)
	if err != nil {
		return nil, err
	}
	return gh.Sub(gl)
}

// LowPass draws a cutoff from r (zero means [1, 25]) and builds the low-pass
// transfer function. One value is drawn from src.
func LowPass(src rng.Source, rows, cols int, r Range) (*Transfer, error) {
	c, err := drawCutoff(src, r)
	if err != nil {
		return nil, err
	}
	return LowPassAt(rows, cols, c)
}

// HighPass draws a cutoff from r (zero means [1, 25]) and builds the
// high-pass transfer function. One value is drawn from src.
func HighPass(src rng.Source, rows, cols int, r Range) (*Transfer, error) {
	c, err := drawCutoff(src, r)
	if err != nil {
		return nil, err
	}
	return HighPassAt(rows, cols, c)
}

// BandOptions configures [BandPass]. Zero fields take the defaults
// Low = [1, 12.5], MinWidth = 5, HighMax = 25.
type BandOptions struct {
	Low      Range
	MinWidth float64
	HighMax  float64
}

func (o BandOptions) withDefaults() BandOptions {
	if o.Low.IsZero() {
		o.Low = Range{DefaultCutoffMin, DefaultBandLowMax}
	}
	if o.MinWidth == 0 {
		o.MinWidth = DefaultBandMinWidth
	}
	if o.HighMax == 0 {
		o.HighMax = DefaultCutoffMax
	}
	return o
}

// BandPass draws the low cutoff from opts.Low, then the high cutoff from
// [low+MinWidth, HighMax], and returns Gaussian(high) - Gaussian(low).
func BandPass(src rng.Source, rows, cols int, opts BandOptions) (*Transfer, error) {
	opts = opts.withDefaults()
	if err := errors.ValidateRange("low cutoff", opts.Low.Min, opts.Low.Max); err != nil {
		return nil, err
	}
	if opts.Low.Min <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParams, "low cutoff must be positive, got %v", opts.Low.Min)
	}
	if opts.Low.Max+opts.MinWidth > opts.HighMax {
		return nil, errors.New(errors.ErrCodeInvalidParams,
			"band does not fit: low max %v + width %v exceeds high max %v", opts.Low.Max, opts.MinWidth, opts.HighMax)
	}
	low := src.Uniform(opts.Low.Min, opts.Low.Max)
	high := src.Uniform(low+opts.MinWidth, opts.HighMax)
	return BandPassAt(rows, cols, low, high)
}

func drawCutoff(src rng.Source, r Range) (float64, error) {
	if r.IsZero() {
		r = Range{DefaultCutoffMin, DefaultCutoffMax}
	}
	if err := errors.ValidateRange("cutoff", r.Min, r.Max); err != nil {
		return 0, err
	}
	if r.Min <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidParams, "cutoff range must be positive, got [%v, %v]", r.Min, r.Max)
	}
	return src.Uniform(r.Min, r.Max), nil
}
