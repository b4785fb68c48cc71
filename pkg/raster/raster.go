// Package raster provides the pixel container shared by every imgaug operator.
//
// A [Raster] is a dense 3-dimensional array of 8-bit samples indexed by
// (row, column, channel) and stored row-major, so the samples of one pixel are
// adjacent and the pixels of one row are adjacent:
//
//	offset(row, col, ch) = (row*Cols + col)*Channels + ch
//
// Rows index the vertical axis and columns the horizontal axis, which matches
// the (x, y) convention used by the geometric kernel: x selects the row.
//
// [Float] is the floating-point sibling used at boundaries where pixel data is
// not yet quantized (for example, intensity operators fed with normalized data).
package raster

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/imgaug/pkg/errors"
)

// Raster is a row-major (rows, cols, channels) array of 8-bit samples.
type Raster struct {
	Rows     int
	Cols     int
	Channels int
	Pix      []uint8
}

// New allocates a zero-filled raster.
// It panics if any dimension is not positive.
func New(rows, cols, channels int) *Raster {
	if rows <= 0 || cols <= 0 || channels <= 0 {
		panic(fmt.Sprintf("raster: invalid shape %dx%dx%d", rows, cols, channels))
	}
	return &Raster{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Pix:      make([]uint8, rows*cols*channels),
	}
}

// FromPix wraps pix as a raster without copying.
// The buffer length must equal rows*cols*channels.
func FromPix(rows, cols, channels int, pix []uint8) (*Raster, error) {
	if rows <= 0 || cols <= 0 || channels <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid raster shape %dx%dx%d", rows, cols, channels)
	}
	if want := rows * cols * channels; len(pix) != want {
		return nil, errors.New(errors.ErrCodeDimensionMismatch, "pixel buffer has %d samples, want %d", len(pix), want)
	}
	return &Raster{Rows: rows, Cols: cols, Channels: channels, Pix: pix}, nil
}

// Offset returns the index of sample (row, col, ch) in Pix.
func (r *Raster) Offset(row, col, ch int) int {
	return (row*r.Cols+col)*r.Channels + ch
}

// At returns the sample at (row, col, ch), or 0 when out of bounds.
func (r *Raster) At(row, col, ch int) uint8 {
	if !r.inBounds(row, col, ch) {
		return 0
	}
	return r.Pix[r.Offset(row, col, ch)]
}

// Set stores v at (row, col, ch). Out-of-bounds writes are ignored.
func (r *Raster) Set(row, col, ch int, v uint8) {
	if !r.inBounds(row, col, ch) {
		return
	}
	r.Pix[r.Offset(row, col, ch)] = v
}

// Pixel returns the channel samples of pixel (row, col) as a sub-slice of Pix.
func (r *Raster) Pixel(row, col int) []uint8 {
	i := r.Offset(row, col, 0)
	return r.Pix[i : i+r.Channels]
}

// Row returns the samples of one row as a sub-slice of Pix.
func (r *Raster) Row(row int) []uint8 {
	if row < 0 || row >= r.Rows {
		return nil
	}
	stride := r.Cols * r.Channels
	return r.Pix[row*stride : (row+1)*stride]
}

func (r *Raster) inBounds(row, col, ch int) bool {
	return row >= 0 && row < r.Rows && col >= 0 && col < r.Cols && ch >= 0 && ch < r.Channels
}

// Len returns the number of samples.
func (r *Raster) Len() int {
	return len(r.Pix)
}

// Clone creates a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	c := &Raster{Rows: r.Rows, Cols: r.Cols, Channels: r.Channels, Pix: make([]uint8, len(r.Pix))}
	copy(c.Pix, r.Pix)
	return c
}

// Fill sets every sample to v.
func (r *Raster) Fill(v uint8) {
	for i := range r.Pix {
		r.Pix[i] = v
	}
}

// SameShape reports whether r and o have identical dimensions.
func (r *Raster) SameShape(o *Raster) bool {
	return r.Rows == o.Rows && r.Cols == o.Cols && r.Channels == o.Channels
}

// Equal reports whether r and o have the same shape and samples.
func (r *Raster) Equal(o *Raster) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.SameShape(o) && bytes.Equal(r.Pix, o.Pix)
}

// String returns a short shape description such as "raster(4x4x1)".
func (r *Raster) String() string {
	return fmt.Sprintf("raster(%dx%dx%d)", r.Rows, r.Cols, r.Channels)
}

// Validate checks that r is non-nil and its buffer matches its shape.
func Validate(r *Raster) error {
	if r == nil {
		return errors.New(errors.ErrCodeInvalidInput, "raster is nil")
	}
	if r.Rows <= 0 || r.Cols <= 0 || r.Channels <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid raster shape %dx%dx%d", r.Rows, r.Cols, r.Channels)
	}
	if want := r.Rows * r.Cols * r.Channels; len(r.Pix) != want {
		return errors.New(errors.ErrCodeDimensionMismatch, "pixel buffer has %d samples, want %d", len(r.Pix), want)
	}
	return nil
}
