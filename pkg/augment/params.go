package augment

import (
	"github.com/matzehuels/imgaug/pkg/core/frequency"
	"github.com/matzehuels/imgaug/pkg/core/geometric"
	"github.com/matzehuels/imgaug/pkg/errors"
)

// Params holds every operator tunable. Zero values select the operator's
// defaults, so a zero Params reproduces the reference augmentation set.
// Operators ignore fields that do not apply to them.
type Params struct {
	// MaxTheta is the largest rotation in degrees (rotate). Zero selects
	// 360; leave rotate out of the run to keep images unrotated.
	MaxTheta float64 `json:"max_theta,omitempty" toml:"max_theta"`
	// AboutOrigin rotates about (0, 0) instead of the image midpoint (rotate).
	AboutOrigin bool `json:"about_origin,omitempty" toml:"about_origin"`

	// ScaleX and ScaleY are [min, max] scale factors (resize).
	ScaleX [2]float64 `json:"scale_x,omitempty" toml:"scale_x"`
	ScaleY [2]float64 `json:"scale_y,omitempty" toml:"scale_y"`

	// MaxTX and MaxTY bound the shift as a fraction of the row extent (translate).
	MaxTX float64 `json:"max_tx,omitempty" toml:"max_tx"`
	MaxTY float64 `json:"max_ty,omitempty" toml:"max_ty"`

	// Cutoff is the [min, max] cutoff range (lowpass, highpass).
	Cutoff [2]float64 `json:"cutoff,omitempty" toml:"cutoff"`
	// LowCutoff is the [min, max] range of the lower band edge (bandpass).
	LowCutoff [2]float64 `json:"low_cutoff,omitempty" toml:"low_cutoff"`
	// HighCutoff is the largest upper band edge (bandpass).
	HighCutoff float64 `json:"high_cutoff,omitempty" toml:"high_cutoff"`
	// BandWidth is the smallest gap between the band edges (bandpass).
	BandWidth float64 `json:"band_width,omitempty" toml:"band_width"`

	// Edge is the bounds policy of geometric operators: "strict" or "inclusive".
	Edge string `json:"edge,omitempty" toml:"edge"`
	// Backend is the FFT backend of frequency operators: "gonum" or "godsp".
	Backend string `json:"backend,omitempty" toml:"backend"`
}

// Validate checks the parameters that can be checked without an image.
func (p Params) Validate() error {
	if _, err := geometric.ParseEdge(p.Edge); err != nil {
		return err
	}
	if _, err := frequency.ParseBackend(p.Backend); err != nil {
		return err
	}
	if p.MaxTheta < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "max_theta must not be negative, got %v", p.MaxTheta)
	}
	ranges := []struct {
		name string
		r    [2]float64
	}{
		{"scale_x", p.ScaleX},
		{"scale_y", p.ScaleY},
		{"cutoff", p.Cutoff},
		{"low_cutoff", p.LowCutoff},
	}
	for _, f := range ranges {
		if err := errors.ValidateRange(f.name, f.r[0], f.r[1]); err != nil {
			return err
		}
		if f.r[0] < 0 {
			return errors.New(errors.ErrCodeInvalidParams, "%s must not be negative, got [%v, %v]", f.name, f.r[0], f.r[1])
		}
	}
	bounds := []struct {
		name string
		v    float64
	}{
		{"max_tx", p.MaxTX},
		{"max_ty", p.MaxTY},
		{"high_cutoff", p.HighCutoff},
		{"band_width", p.BandWidth},
	}
	for _, f := range bounds {
		if err := errors.ValidateRange(f.name, 0, f.v); err != nil {
			return err
		}
	}
	return nil
}

func (p Params) edge() geometric.Edge {
	e, _ := geometric.ParseEdge(p.Edge)
	return e
}

func (p Params) filter() frequency.Filter {
	b, _ := frequency.ParseBackend(p.Backend)
	return frequency.Filter{Backend: b}
}

func geomRange(r [2]float64) geometric.Range {
	return geometric.Range{Min: r[0], Max: r[1]}
}

func freqRange(r [2]float64) frequency.Range {
	return frequency.Range{Min: r[0], Max: r[1]}
}
