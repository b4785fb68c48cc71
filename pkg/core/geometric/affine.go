package geometric

import (
	"math"

	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/raster"
)

// Edge selects which rounded source coordinates may be sampled.
type Edge int

const (
	// EdgeStrict samples only when 0 < x < rows and 0 < y < cols.
	EdgeStrict Edge = iota
	// EdgeInclusive samples when 0 <= x < rows and 0 <= y < cols.
	EdgeInclusive
)

// String returns the policy name used in configuration files.
func (e Edge) String() string {
	switch e {
	case EdgeStrict:
		return "strict"
	case EdgeInclusive:
		return "inclusive"
	}
	return "unknown"
}

// ParseEdge parses "strict" or "inclusive". The empty string means strict.
func ParseEdge(s string) (Edge, error) {
	switch s {
	case "", "strict":
		return EdgeStrict, nil
	case "inclusive":
		return EdgeInclusive, nil
	}
	return EdgeStrict, errors.New(errors.ErrCodeInvalidParams, "invalid edge policy: %q (must be one of: strict, inclusive)", s)
}

// Options configures [ApplyAffine].
type Options struct {
	// Rows and Cols set the output extent. Zero means the input extent.
	Rows int
	Cols int

	// Edge is the bounds policy for source coordinates.
	Edge Edge
}

// Apply resamples src through m into a raster of the same extent using the
// strict edge policy.
func Apply(src *raster.Raster, m Matrix) (*raster.Raster, error) {
	return ApplyAffine(src, m, Options{})
}

// ApplyAffine resamples src through m by nearest-neighbour inverse mapping.
//
// For every output coordinate (i, j) the source coordinate M·(i, j, 1) is
// rounded half-to-even; if it passes the edge policy the whole pixel (all
// channels) is copied, otherwise the output pixel stays zero. A degenerate
// matrix is not an error: it simply maps everything out of bounds.
func ApplyAffine(src *raster.Raster, m Matrix, opts Options) (*raster.Raster, error) {
	if err := raster.Validate(src); err != nil {
		return nil, err
	}
	rows, cols := opts.Rows, opts.Cols
	if rows == 0 {
		rows = src.Rows
	}
	if cols == 0 {
		cols = src.Cols
	}
	if rows < 0 || cols < 0 {
		return nil, errors.New(errors.ErrCodeInvalidParams, "invalid output extent %dx%d", rows, cols)
	}

	lo := 1.0
	if opts.Edge == EdgeInclusive {
		lo = 0
	}
	hiX, hiY := float64(src.Rows), float64(src.Cols)

	out := raster.New(rows, cols, src.Channels)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x, y := m.Apply(float64(i), float64(j))
			x, y = math.RoundToEven(x), math.RoundToEven(y)
			// NaN fails every comparison and is skipped here.
			if !(x >= lo && x < hiX && y >= lo && y < hiY) {
				continue
			}
			copy(out.Pixel(i, j), src.Pixel(int(x), int(y)))
		}
	}
	return out, nil
}
