package augment

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/imgaug/pkg/core/geometric"
	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/raster"
	"github.com/matzehuels/imgaug/pkg/rng"
)

func sample(rows, cols, channels int) *raster.Raster {
	r := raster.New(rows, cols, channels)
	for i := range r.Pix {
		r.Pix[i] = uint8((i*29 + 7) % 256)
	}
	return r
}

func TestNames(t *testing.T) {
	want := []string{
		"bandpass", "flip_horizontal", "flip_vertical", "highpass", "hist_eq",
		"invert", "lowpass", "resize", "rotate", "translate",
	}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if len(All()) != len(want) {
		t.Errorf("len(All()) = %d, want %d", len(All()), len(want))
	}
}

func TestLookup(t *testing.T) {
	info, ok := Lookup(BandPass)
	if !ok {
		t.Fatal("Lookup(bandpass) not found")
	}
	if info.Kernel != "frequency" || !info.Random {
		t.Errorf("Lookup(bandpass) = %+v, want random frequency operator", info)
	}
	if _, ok := Lookup("sharpen"); ok {
		t.Error("Lookup(sharpen) should fail")
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		op     string
		params Params
		code   errors.Code
	}{
		{"unknown", "sharpen", Params{}, errors.ErrCodeUnknownOperator},
		{"malformed name", "Rotate!", Params{}, errors.ErrCodeUnknownOperator},
		{"bad edge", Rotate, Params{Edge: "wrap"}, errors.ErrCodeInvalidParams},
		{"bad backend", LowPass, Params{Backend: "fftw"}, errors.ErrCodeInvalidParams},
		{"inverted scale", Resize, Params{ScaleX: [2]float64{2, 1}}, errors.ErrCodeInvalidParams},
		{"negative theta", Rotate, Params{MaxTheta: -5}, errors.ErrCodeInvalidParams},
		{"negative shift", Translate, Params{MaxTX: -0.1}, errors.ErrCodeInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.op, tt.params)
			if !errors.Is(err, tt.code) {
				t.Errorf("New(%q) error = %v, want %s", tt.op, err, tt.code)
			}
		})
	}
}

func TestEveryOperator(t *testing.T) {
	src := sample(6, 5, 3)
	for _, info := range All() {
		t.Run(info.Name, func(t *testing.T) {
			op, err := New(info.Name, Params{})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if op.Name() != info.Name {
				t.Errorf("Name() = %q, want %q", op.Name(), info.Name)
			}
			if !strings.HasPrefix(op.Describe(), info.Name+"(") {
				t.Errorf("Describe() = %q, want prefix %q", op.Describe(), info.Name+"(")
			}

			fixed := &rng.Fixed{Values: []float64{0.3, 0.6}}
			out, err := op.Apply(src, fixed)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if !out.SameShape(src) {
				t.Errorf("output %s, want %s", out, src)
			}
			if got := fixed.Draws() > 0; got != info.Random {
				t.Errorf("drew %d values, Random = %v", fixed.Draws(), info.Random)
			}
		})
	}
}

func TestApplyDeterministic(t *testing.T) {
	src := sample(8, 8, 1)
	for _, name := range Names() {
		op, err := New(name, Params{})
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		a, err := op.Apply(src, rng.New(99))
		if err != nil {
			t.Fatalf("%s: Apply: %v", name, err)
		}
		b, err := op.Apply(src, rng.New(99))
		if err != nil {
			t.Fatalf("%s: Apply: %v", name, err)
		}
		if !a.Equal(b) {
			t.Errorf("%s: same seed produced different output", name)
		}
	}
}

func TestFlipVerticalOperator(t *testing.T) {
	src := sample(4, 3, 1)
	op, err := New(FlipVertical, Params{Edge: "inclusive"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := op.Apply(src, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want, _ := geometric.ApplyAffine(src, geometric.FlipVertical(4), geometric.Options{Edge: geometric.EdgeInclusive})
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got.Pix, want.Pix)
	}
}

func TestRotateOperatorZeroAngle(t *testing.T) {
	src := sample(5, 5, 1)
	op, _ := New(Rotate, Params{Edge: "inclusive"})
	got, err := op.Apply(src, &rng.Fixed{Values: []float64{0}})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !got.Equal(src) {
		t.Errorf("rotation by 0 changed the image: %v", got.Pix)
	}
}

func TestChain(t *testing.T) {
	src := sample(3, 3, 1)
	inv, _ := New(Invert, Params{})
	chain := Chain{inv, inv}

	got, err := chain.Apply(src, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !got.Equal(src) {
		t.Error("inverting twice should restore the image")
	}
	if diff := cmp.Diff([]string{"invert", "invert"}, chain.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	empty, err := Chain{}.Apply(src, nil)
	if err != nil {
		t.Fatalf("empty chain: %v", err)
	}
	if empty == src || !empty.Equal(src) {
		t.Error("empty chain should return an equal copy")
	}
}

func TestChainError(t *testing.T) {
	op, _ := New(HistEq, Params{})
	_, err := Chain{op}.Apply(&raster.Raster{Rows: 1, Cols: 1, Channels: 1}, nil)
	if !errors.Is(err, errors.ErrCodeDimensionMismatch) {
		t.Errorf("Apply() error = %v, want %s", err, errors.ErrCodeDimensionMismatch)
	}
}

func TestDescribeReflectsParams(t *testing.T) {
	a, _ := New(Rotate, Params{MaxTheta: 90})
	b, _ := New(Rotate, Params{MaxTheta: 45})
	if a.Describe() == b.Describe() {
		t.Errorf("Describe() should differ for different params: %s", a.Describe())
	}
	def, _ := New(Rotate, Params{})
	full, _ := New(Rotate, Params{MaxTheta: 360, Edge: "strict"})
	if def.Describe() != full.Describe() {
		t.Errorf("explicit defaults should describe like zero params: %s != %s", def.Describe(), full.Describe())
	}
}
