package augment

import (
	"fmt"

	"github.com/matzehuels/imgaug/pkg/core/frequency"
	"github.com/matzehuels/imgaug/pkg/core/geometric"
	"github.com/matzehuels/imgaug/pkg/core/intensity"
	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/raster"
	"github.com/matzehuels/imgaug/pkg/rng"
)

func init() {
	register(Info{FlipVertical, "geometric", "mirror rows", false}, newAffine(FlipVertical,
		func(r *raster.Raster, _ rng.Source, _ Params) (geometric.Matrix, error) {
			return geometric.FlipVertical(r.Rows), nil
		}))
	register(Info{FlipHorizontal, "geometric", "mirror columns", false}, newAffine(FlipHorizontal,
		func(r *raster.Raster, _ rng.Source, _ Params) (geometric.Matrix, error) {
			return geometric.FlipHorizontal(r.Cols), nil
		}))
	register(Info{Rotate, "geometric", "rotate by a random angle", true}, newAffine(Rotate,
		func(r *raster.Raster, src rng.Source, p Params) (geometric.Matrix, error) {
			return geometric.Rotate(src, r.Rows, r.Cols, geometric.RotateOptions{
				MaxTheta:    p.MaxTheta,
				AboutOrigin: p.AboutOrigin,
			})
		}))
	register(Info{Resize, "geometric", "scale axes by random factors", true}, newAffine(Resize,
		func(_ *raster.Raster, src rng.Source, p Params) (geometric.Matrix, error) {
			return geometric.Scale(src, geometric.ScaleOptions{X: geomRange(p.ScaleX), Y: geomRange(p.ScaleY)})
		}))
	register(Info{Translate, "geometric", "shift by a random offset", true}, newAffine(Translate,
		func(r *raster.Raster, src rng.Source, p Params) (geometric.Matrix, error) {
			return geometric.Translate(src, r.Rows, geometric.TranslateOptions{MaxTX: p.MaxTX, MaxTY: p.MaxTY})
		}))

	register(Info{LowPass, "frequency", "gaussian low-pass filter with a random cutoff", true}, newSpectral(LowPass,
		func(src rng.Source, rows, cols int, p Params) (*frequency.Transfer, error) {
			return frequency.LowPass(src, rows, cols, freqRange(p.Cutoff))
		}))
	register(Info{HighPass, "frequency", "gaussian high-pass filter with a random cutoff", true}, newSpectral(HighPass,
		func(src rng.Source, rows, cols int, p Params) (*frequency.Transfer, error) {
			return frequency.HighPass(src, rows, cols, freqRange(p.Cutoff))
		}))
	register(Info{BandPass, "frequency", "difference-of-gaussians band-pass filter", true}, newSpectral(BandPass,
		func(src rng.Source, rows, cols int, p Params) (*frequency.Transfer, error) {
			return frequency.BandPass(src, rows, cols, frequency.BandOptions{
				Low:      freqRange(p.LowCutoff),
				MinWidth: p.BandWidth,
				HighMax:  p.HighCutoff,
			})
		}))

	register(Info{HistEq, "intensity", "histogram equalization", false}, newIntensity(HistEq, intensity.Equalize))
	register(Info{Invert, "intensity", "invert intensities", false}, newIntensity(Invert, intensity.Invert))
}

type matrixFunc func(r *raster.Raster, src rng.Source, p Params) (geometric.Matrix, error)

// affineOp builds a matrix per call and resamples into the input extent.
type affineOp struct {
	name   string
	params Params
	build  matrixFunc
}

func newAffine(name string, build matrixFunc) func(Params) Operator {
	return func(p Params) Operator {
		return &affineOp{name: name, params: p, build: build}
	}
}

func (o *affineOp) Name() string { return o.name }

func (o *affineOp) Apply(r *raster.Raster, src rng.Source) (*raster.Raster, error) {
	if err := raster.Validate(r); err != nil {
		return nil, err
	}
	m, err := o.build(r, src, o.params)
	if err != nil {
		return nil, err
	}
	return geometric.ApplyAffine(r, m, geometric.Options{Edge: o.params.edge()})
}

func (o *affineOp) Describe() string {
	p := o.params
	switch o.name {
	case Rotate:
		return fmt.Sprintf("%s(max_theta=%v, about_origin=%v, edge=%s)", o.name, orDefault(p.MaxTheta, geometric.DefaultMaxTheta), p.AboutOrigin, p.edge())
	case Resize:
		return fmt.Sprintf("%s(scale_x=%v, scale_y=%v, edge=%s)", o.name, rangeOrDefault(p.ScaleX, geometric.DefaultScaleMin, geometric.DefaultScaleMax),
			rangeOrDefault(p.ScaleY, geometric.DefaultScaleMin, geometric.DefaultScaleMax), p.edge())
	case Translate:
		return fmt.Sprintf("%s(max_tx=%v, max_ty=%v, edge=%s)", o.name, orDefault(p.MaxTX, geometric.DefaultMaxShift), orDefault(p.MaxTY, geometric.DefaultMaxShift), p.edge())
	}
	return fmt.Sprintf("%s(edge=%s)", o.name, p.edge())
}

type transferFunc func(src rng.Source, rows, cols int, p Params) (*frequency.Transfer, error)

// spectralOp builds a transfer function sized for the padded input.
type spectralOp struct {
	name   string
	params Params
	build  transferFunc
}

func newSpectral(name string, build transferFunc) func(Params) Operator {
	return func(p Params) Operator {
		return &spectralOp{name: name, params: p, build: build}
	}
}

func (o *spectralOp) Name() string { return o.name }

func (o *spectralOp) Apply(r *raster.Raster, src rng.Source) (*raster.Raster, error) {
	if err := raster.Validate(r); err != nil {
		return nil, err
	}
	rows, cols := frequency.PaddedSize(r.Rows, r.Cols)
	tf, err := o.build(src, rows, cols, o.params)
	if err != nil {
		return nil, err
	}
	return o.params.filter().Apply(r, tf)
}

func (o *spectralOp) Describe() string {
	p := o.params
	backend := p.filter().Backend
	if o.name == BandPass {
		return fmt.Sprintf("%s(low_cutoff=%v, band_width=%v, high_cutoff=%v, backend=%s)", o.name,
			rangeOrDefault(p.LowCutoff, frequency.DefaultCutoffMin, frequency.DefaultBandLowMax),
			orDefault(p.BandWidth, frequency.DefaultBandMinWidth), orDefault(p.HighCutoff, frequency.DefaultCutoffMax), backend)
	}
	return fmt.Sprintf("%s(cutoff=%v, backend=%s)", o.name,
		rangeOrDefault(p.Cutoff, frequency.DefaultCutoffMin, frequency.DefaultCutoffMax), backend)
}

// intensityOp applies a deterministic per-sample remap.
type intensityOp struct {
	name string
	fn   func(*raster.Raster) (*raster.Raster, error)
}

func newIntensity(name string, fn func(*raster.Raster) (*raster.Raster, error)) func(Params) Operator {
	return func(Params) Operator {
		return &intensityOp{name: name, fn: fn}
	}
}

func (o *intensityOp) Name() string { return o.name }

func (o *intensityOp) Apply(r *raster.Raster, _ rng.Source) (*raster.Raster, error) {
	if r == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "raster is nil")
	}
	return o.fn(r)
}

func (o *intensityOp) Describe() string { return o.name + "()" }

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func rangeOrDefault(r [2]float64, lo, hi float64) [2]float64 {
	if r == [2]float64{} {
		return [2]float64{lo, hi}
	}
	return r
}
