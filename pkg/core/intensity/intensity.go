// Package intensity implements per-sample intensity operators: histogram
// equalization and inversion.
//
// Equalization builds one histogram over every sample of the raster, so the
// channels of a color image share a lookup table.
package intensity

import (
	"math"

	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/raster"
)

// Levels is the number of 8-bit intensity levels.
const Levels = 256

// MaxFloatLevel bounds the histogram size accepted by [EqualizeFloat].
const MaxFloatLevel = 1 << 20

// Equalize remaps r through the cumulative distribution of its samples:
// lut[v] = floor(255 * count(<= v) / total).
func Equalize(r *raster.Raster) (*raster.Raster, error) {
	if err := raster.Validate(r); err != nil {
		return nil, err
	}
	var hist [Levels]int
	for _, v := range r.Pix {
		hist[v]++
	}
	lut := cumulativeLUT(hist[:], len(r.Pix))

	out := raster.New(r.Rows, r.Cols, r.Channels)
	for i, v := range r.Pix {
		out.Pix[i] = lut[v]
	}
	return out, nil
}

// EqualizeFloat equalizes integer-valued samples held as floats. The
// histogram has max+1 bins; the output is 8-bit.
func EqualizeFloat(f *raster.Float) (*raster.Raster, error) {
	if err := validateFloat(f); err != nil {
		return nil, err
	}
	top := 0
	for i, v := range f.Pix {
		if v < 0 || v != math.Trunc(v) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "sample %d is %v, want a non-negative integer", i, v)
		}
		if v > MaxFloatLevel {
			return nil, errors.New(errors.ErrCodeInvalidInput, "sample %d is %v, exceeds %d", i, v, MaxFloatLevel)
		}
		top = max(top, int(v))
	}

	hist := make([]int, top+1)
	for _, v := range f.Pix {
		hist[int(v)]++
	}
	lut := cumulativeLUT(hist, len(f.Pix))

	out := raster.New(f.Rows, f.Cols, f.Channels)
	for i, v := range f.Pix {
		out.Pix[i] = lut[int(v)]
	}
	return out, nil
}

// cumulativeLUT uses integer arithmetic so the last bin maps to exactly 255.
func cumulativeLUT(hist []int, total int) []uint8 {
	lut := make([]uint8, len(hist))
	cum := 0
	for v, n := range hist {
		cum += n
		lut[v] = uint8(255 * int64(cum) / int64(total))
	}
	return lut
}

// Invert returns 255 - p for every sample.
func Invert(r *raster.Raster) (*raster.Raster, error) {
	if err := raster.Validate(r); err != nil {
		return nil, err
	}
	out := raster.New(r.Rows, r.Cols, r.Channels)
	for i, v := range r.Pix {
		out.Pix[i] = 255 - v
	}
	return out, nil
}

// InvertFloat scales f by 255/max, truncates to 8 bits and inverts.
// An all-zero input is black and inverts to 255.
func InvertFloat(f *raster.Float) (*raster.Raster, error) {
	if err := validateFloat(f); err != nil {
		return nil, err
	}
	top := 0.0
	for i, v := range f.Pix {
		if v < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "sample %d is negative: %v", i, v)
		}
		top = math.Max(top, v)
	}

	out := raster.New(f.Rows, f.Cols, f.Channels)
	for i, v := range f.Pix {
		var p uint8
		if top > 0 {
			p = uint8(math.Min(255, 255*v/top))
		}
		out.Pix[i] = 255 - p
	}
	return out, nil
}

func validateFloat(f *raster.Float) error {
	if f == nil {
		return errors.New(errors.ErrCodeInvalidInput, "raster is nil")
	}
	if _, err := raster.FloatFromPix(f.Rows, f.Cols, f.Channels, f.Pix); err != nil {
		return err
	}
	for i, v := range f.Pix {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "sample %d is not finite", i)
		}
	}
	return nil
}
