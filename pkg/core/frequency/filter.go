package frequency

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/raster"
)

// MidGray is written to every sample when the filtered raster is constant.
const MidGray uint8 = 128

// flatTolerance bounds the relative spread treated as a constant result.
// A constant input through the identity transfer picks up ~1e-13 of FFT noise.
const flatTolerance = 1e-9

// PaddedSize returns the extent a transfer function must have for a raster
// of rows x cols.
func PaddedSize(rows, cols int) (int, int) {
	return 2 * rows, 2 * cols
}

// Filter applies transfer functions with a chosen FFT backend.
// The zero value uses [BackendGonum].
type Filter struct {
	Backend Backend
}

// ApplyFilter filters src with the default backend.
func ApplyFilter(src *raster.Raster, tf *Transfer) (*raster.Raster, error) {
	return Filter{}.Apply(src, tf)
}

// Apply filters every channel of src with tf and rescales the result to
// [0, 255]. tf must be sized [PaddedSize] of src.
func (f Filter) Apply(src *raster.Raster, tf *Transfer) (*raster.Raster, error) {
	if err := raster.Validate(src); err != nil {
		return nil, err
	}
	if tf == nil {
		return nil, errors.New(errors.ErrCodeInvalidParams, "transfer function is nil")
	}
	p, q := PaddedSize(src.Rows, src.Cols)
	if tf.Rows != p || tf.Cols != q || len(tf.Data) != p*q {
		return nil, errors.New(errors.ErrCodeDimensionMismatch,
			"transfer function is %dx%d, want %dx%d", tf.Rows, tf.Cols, p, q)
	}

	tr, err := newTransformer(f.Backend, p, q)
	if err != nil {
		return nil, err
	}

	filtered, err := filterChannels(tr, src, tf)
	if err != nil {
		return nil, err
	}
	return rescale(filtered), nil
}

func filterChannels(tr transformer, src *raster.Raster, tf *Transfer) (*raster.Float, error) {
	h, w := src.Rows, src.Cols
	p, q := tf.Rows, tf.Cols
	top, left := h/2, w/2

	out := raster.NewFloat(h, w, src.Channels)
	grid := make([][]complex128, p)
	for i := range grid {
		grid[i] = make([]complex128, q)
	}

	for c := 0; c < src.Channels; c++ {
		for i := range grid {
			clear(grid[i])
		}
		for i := 0; i < h; i++ {
			for j := 0; j < w; j++ {
				grid[top+i][left+j] = complex(float64(src.At(i, j, c)), 0)
			}
		}

		spec := tr.forward(grid)

		// p and q are even, so the centring shift maps bin k to (k + n/2) mod n
		// and is its own inverse. Multiplying in place is shift, scale, unshift.
		for u := 0; u < p; u++ {
			su := (u + p/2) % p
			row := spec[u]
			for v := 0; v < q; v++ {
				row[v] *= complex(tf.At(su, (v+q/2)%q), 0)
			}
		}

		back := tr.inverse(spec)
		for i := 0; i < h; i++ {
			for j := 0; j < w; j++ {
				v := real(back[top+i][left+j])
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, errors.New(errors.ErrCodeInvalidInput, "filtered value at (%d, %d, %d) is not finite", i, j, c)
				}
				out.Pix[(i*w+j)*src.Channels+c] = v
			}
		}
	}
	return out, nil
}

// rescale maps values linearly onto [0, 255] using the joint min and max of
// all channels and truncates toward zero.
func rescale(in *raster.Float) *raster.Raster {
	out := raster.New(in.Rows, in.Cols, in.Channels)
	lo := floats.Min(in.Pix)
	hi := floats.Max(in.Pix)
	span := hi - lo
	if span <= flatTolerance*math.Max(1, math.Max(math.Abs(lo), math.Abs(hi))) {
		out.Fill(MidGray)
		return out
	}
	for i, v := range in.Pix {
		s := 255 * (v - lo) / span
		switch {
		case s < 0:
			s = 0
		case s > 255:
			s = 255
		}
		out.Pix[i] = uint8(s)
	}
	return out
}
