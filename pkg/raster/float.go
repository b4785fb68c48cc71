package raster

import (
	"fmt"

	"github.com/matzehuels/imgaug/pkg/errors"
)

// Float is a row-major (rows, cols, channels) array of float64 samples.
// It shares the layout of [Raster].
type Float struct {
	Rows     int
	Cols     int
	Channels int
	Pix      []float64
}

// NewFloat allocates a zero-filled float raster.
// It panics if any dimension is not positive.
func NewFloat(rows, cols, channels int) *Float {
	if rows <= 0 || cols <= 0 || channels <= 0 {
		panic(fmt.Sprintf("raster: invalid shape %dx%dx%d", rows, cols, channels))
	}
	return &Float{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Pix:      make([]float64, rows*cols*channels),
	}
}

// FloatFromPix wraps pix as a float raster without copying.
func FloatFromPix(rows, cols, channels int, pix []float64) (*Float, error) {
	if rows <= 0 || cols <= 0 || channels <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid raster shape %dx%dx%d", rows, cols, channels)
	}
	if want := rows * cols * channels; len(pix) != want {
		return nil, errors.New(errors.ErrCodeDimensionMismatch, "pixel buffer has %d samples, want %d", len(pix), want)
	}
	return &Float{Rows: rows, Cols: cols, Channels: channels, Pix: pix}, nil
}

// At returns the sample at (row, col, ch), or 0 when out of bounds.
func (f *Float) At(row, col, ch int) float64 {
	if row < 0 || row >= f.Rows || col < 0 || col >= f.Cols || ch < 0 || ch >= f.Channels {
		return 0
	}
	return f.Pix[(row*f.Cols+col)*f.Channels+ch]
}

// ToFloat converts an 8-bit raster to float samples.
func (r *Raster) ToFloat() *Float {
	f := &Float{Rows: r.Rows, Cols: r.Cols, Channels: r.Channels, Pix: make([]float64, len(r.Pix))}
	for i, v := range r.Pix {
		f.Pix[i] = float64(v)
	}
	return f
}
