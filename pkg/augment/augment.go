// Package augment maps operator names to image augmentations.
//
// Every operator wraps one kernel call: a geometric transform built from a
// matrix builder, a frequency filter built from a transfer builder, or an
// intensity remap. Operators are stateless; randomness is drawn from the
// [rng.Source] passed to Apply, in a fixed order per operator.
//
//	op, err := augment.New("rotate", augment.Params{MaxTheta: 90})
//	out, err := op.Apply(img, rng.New(42))
package augment

import (
	"slices"

	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/raster"
	"github.com/matzehuels/imgaug/pkg/rng"
)

// Operator names.
const (
	FlipVertical   = "flip_vertical"
	FlipHorizontal = "flip_horizontal"
	Rotate         = "rotate"
	Resize         = "resize"
	Translate      = "translate"
	LowPass        = "lowpass"
	HighPass       = "highpass"
	BandPass       = "bandpass"
	HistEq         = "hist_eq"
	Invert         = "invert"
)

// Operator is a configured augmentation.
type Operator interface {
	// Name returns the registry name.
	Name() string
	// Apply transforms r into a new raster, drawing parameters from src.
	Apply(r *raster.Raster, src rng.Source) (*raster.Raster, error)
	// Describe returns a one-line description including parameters.
	Describe() string
}

// Info describes a registered operator.
type Info struct {
	Name        string `json:"name"`
	Kernel      string `json:"kernel"`
	Description string `json:"description"`
	// Random is true when Apply draws from its source.
	Random bool `json:"random"`
}

type entry struct {
	info Info
	ctor func(Params) Operator
}

var registry = map[string]entry{}

func register(info Info, ctor func(Params) Operator) {
	registry[info.Name] = entry{info: info, ctor: ctor}
}

// Names returns the registered operator names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the description of an operator.
func Lookup(name string) (Info, bool) {
	e, ok := registry[name]
	return e.info, ok
}

// All returns the descriptions of every operator, sorted by name.
func All() []Info {
	infos := make([]Info, 0, len(registry))
	for _, name := range Names() {
		infos = append(infos, registry[name].info)
	}
	return infos
}

// New returns the operator registered under name, configured with p.
func New(name string, p Params) (Operator, error) {
	if err := errors.ValidateOperatorName(name); err != nil {
		return nil, err
	}
	e, ok := registry[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownOperator, "unknown operator %q (available: %v)", name, Names())
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParams, err, "operator %s", name)
	}
	return e.ctor(p), nil
}

// Chain applies operators in order, feeding each the previous output.
type Chain []Operator

// Apply runs the chain. All operators draw from the same source.
func (c Chain) Apply(r *raster.Raster, src rng.Source) (*raster.Raster, error) {
	out := r
	for _, op := range c {
		next, err := op.Apply(out, src)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "apply %s", op.Name())
		}
		out = next
	}
	if out == r {
		return r.Clone(), nil
	}
	return out, nil
}

// Names returns the operator names of the chain.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, op := range c {
		names[i] = op.Name()
	}
	return names
}
