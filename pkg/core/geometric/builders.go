package geometric

import (
	"math"

	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/rng"
)

// Default parameter ranges for the random builders.
const (
	DefaultMaxTheta = 360.0
	DefaultScaleMin = 0.5
	DefaultScaleMax = 2.0
	DefaultMaxShift = 0.3
)

// Range is a closed parameter interval.
type Range struct {
	Min float64
	Max float64
}

// IsZero reports whether the range is unset.
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// FlipVertical reflects the row index about the horizontal midline of an
// image with rows rows.
func FlipVertical(rows int) Matrix {
	return Matrix{
		{-1, 0, float64(rows - 1)},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// FlipHorizontal reflects the column index about the vertical midline of an
// image with cols columns.
func FlipHorizontal(cols int) Matrix {
	return Matrix{
		{1, 0, 0},
		{0, -1, float64(cols - 1)},
		{0, 0, 1},
	}
}

// RotateOptions configures [Rotate].
type RotateOptions struct {
	// MaxTheta is the largest rotation in degrees. Zero means 360.
	MaxTheta float64

	// AboutOrigin rotates about (0, 0) instead of the image midpoint.
	AboutOrigin bool
}

// Rotate draws θ from [0, MaxTheta] degrees and builds the rotation matrix
// for an image of the given extent. One value is drawn from src.
func Rotate(src rng.Source, rows, cols int, opts RotateOptions) (Matrix, error) {
	maxTheta := opts.MaxTheta
	if maxTheta == 0 {
		maxTheta = DefaultMaxTheta
	}
	if err := errors.ValidateRange("max_theta", 0, maxTheta); err != nil {
		return Matrix{}, err
	}
	theta := src.Uniform(0, maxTheta) * math.Pi / 180.0
	return RotateMatrix(theta, rows, cols, !opts.AboutOrigin), nil
}

// RotateMatrix builds the rotation by theta radians.
//
// With recentre the matrix maps each output pixel back through a rotation
// about (rows/2, cols/2). Without it the standard matrix
// [[cos, -sin, 0], [sin, cos, 0], [0, 0, 1]] is returned.
func RotateMatrix(theta float64, rows, cols int, recentre bool) Matrix {
	c, s := math.Cos(theta), math.Sin(theta)
	if !recentre {
		return Matrix{
			{c, -s, 0},
			{s, c, 0},
			{0, 0, 1},
		}
	}
	cx, cy := float64(rows)/2, float64(cols)/2
	return Matrix{
		{c, s, (1-c)*cx - s*cy},
		{-s, c, s*cx + (1-c)*cy},
		{0, 0, 1},
	}
}

// ScaleOptions configures [Scale]. Zero ranges mean [0.5, 2.0].
type ScaleOptions struct {
	X Range
	Y Range
}

// Scale draws the x factor, then the y factor, and builds a diagonal matrix.
func Scale(src rng.Source, opts ScaleOptions) (Matrix, error) {
	xr, yr := opts.X, opts.Y
	if xr.IsZero() {
		xr = Range{DefaultScaleMin, DefaultScaleMax}
	}
	if yr.IsZero() {
		yr = Range{DefaultScaleMin, DefaultScaleMax}
	}
	if err := errors.ValidateRange("scale_x", xr.Min, xr.Max); err != nil {
		return Matrix{}, err
	}
	if err := errors.ValidateRange("scale_y", yr.Min, yr.Max); err != nil {
		return Matrix{}, err
	}
	sx := src.Uniform(xr.Min, xr.Max)
	sy := src.Uniform(yr.Min, yr.Max)
	return ScaleMatrix(sx, sy), nil
}

// ScaleMatrix returns diag(sx, sy, 1).
func ScaleMatrix(sx, sy float64) Matrix {
	return Matrix{
		{sx, 0, 0},
		{0, sy, 0},
		{0, 0, 1},
	}
}

// TranslateOptions configures [Translate]. Shifts are fractions of the row
// extent; zero means 0.3.
type TranslateOptions struct {
	MaxTX float64
	MaxTY float64
}

// Translate draws tx, then ty, as fractions in [-max, max] of the row extent
// and builds a pure translation. Both shifts are scaled by rows.
func Translate(src rng.Source, rows int, opts TranslateOptions) (Matrix, error) {
	maxTX, maxTY := opts.MaxTX, opts.MaxTY
	if maxTX == 0 {
		maxTX = DefaultMaxShift
	}
	if maxTY == 0 {
		maxTY = DefaultMaxShift
	}
	if err := errors.ValidateRange("max_tx", -maxTX, maxTX); err != nil {
		return Matrix{}, err
	}
	if err := errors.ValidateRange("max_ty", -maxTY, maxTY); err != nil {
		return Matrix{}, err
	}
	tx := float64(rows) * src.Uniform(-maxTX, maxTX)
	ty := float64(rows) * src.Uniform(-maxTY, maxTY)
	return TranslateMatrix(tx, ty), nil
}

// TranslateMatrix returns the translation by (tx, ty) pixels.
func TranslateMatrix(tx, ty float64) Matrix {
	return Matrix{
		{1, 0, tx},
		{0, 1, ty},
		{0, 0, 1},
	}
}
