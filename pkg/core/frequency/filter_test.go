package frequency

import (
	"math"
	"testing"

	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/raster"
	"github.com/matzehuels/imgaug/pkg/rng"
)

var backends = []Backend{BackendGonum, BackendGoDSP}

// pattern returns a raster spanning the full 8-bit range.
func pattern(rows, cols, channels int) *raster.Raster {
	r := raster.New(rows, cols, channels)
	for i := range r.Pix {
		r.Pix[i] = uint8((i*37 + 11) % 256)
	}
	r.Pix[0] = 0
	r.Pix[len(r.Pix)-1] = 255
	return r
}

func maxAbsDiff(a, b *raster.Raster) int {
	d := 0
	for i := range a.Pix {
		v := int(a.Pix[i]) - int(b.Pix[i])
		if v < 0 {
			v = -v
		}
		d = max(d, v)
	}
	return d
}

func TestApplyFilterIdentity(t *testing.T) {
	shapes := [][3]int{{5, 7, 1}, {4, 4, 3}, {9, 2, 1}, {6, 3, 4}}
	for _, b := range backends {
		for _, s := range shapes {
			src := pattern(s[0], s[1], s[2])
			p, q := PaddedSize(src.Rows, src.Cols)

			got, err := Filter{Backend: b}.Apply(src, Ones(p, q))
			if err != nil {
				t.Fatalf("%s %v: Apply: %v", b, s, err)
			}
			if !got.SameShape(src) {
				t.Fatalf("%s %v: shape = %s, want %s", b, s, got, src)
			}
			if d := maxAbsDiff(got, src); d > 1 {
				t.Errorf("%s %v: identity filter differs by %d levels, want <= 1", b, s, d)
			}
		}
	}
}

func TestApplyFilterBinaryExact(t *testing.T) {
	src, _ := raster.FromPix(2, 2, 1, []uint8{0, 255, 255, 0})
	for _, b := range backends {
		got, err := Filter{Backend: b}.Apply(src, Ones(4, 4))
		if err != nil {
			t.Fatalf("%s: Apply: %v", b, err)
		}
		if !got.Equal(src) {
			t.Errorf("%s: got %v, want %v", b, got.Pix, src.Pix)
		}
	}
}

func TestBackendsAgree(t *testing.T) {
	r := rng.New(7)
	src := raster.New(8, 6, 3)
	for i := range src.Pix {
		src.Pix[i] = uint8(r.IntN(256))
	}
	tf, err := LowPassAt(16, 12, 5)
	if err != nil {
		t.Fatalf("LowPassAt: %v", err)
	}

	a, err := Filter{Backend: BackendGonum}.Apply(src, tf)
	if err != nil {
		t.Fatalf("gonum: %v", err)
	}
	b, err := Filter{Backend: BackendGoDSP}.Apply(src, tf)
	if err != nil {
		t.Fatalf("godsp: %v", err)
	}
	if d := maxAbsDiff(a, b); d > 1 {
		t.Errorf("backends differ by %d levels, want <= 1", d)
	}
}

func TestApplyFilterConstant(t *testing.T) {
	tests := []struct {
		name  string
		value uint8
		tf    func(p, q int) *Transfer
	}{
		{"zero image through low-pass", 0, func(p, q int) *Transfer {
			tf, _ := LowPassAt(p, q, 3)
			return tf
		}},
		{"constant image through identity", 100, Ones},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := raster.New(4, 5, 2)
			src.Fill(tt.value)
			p, q := PaddedSize(4, 5)
			got, err := ApplyFilter(src, tt.tf(p, q))
			if err != nil {
				t.Fatalf("ApplyFilter: %v", err)
			}
			for i, v := range got.Pix {
				if v != MidGray {
					t.Fatalf("Pix[%d] = %d, want %d", i, v, MidGray)
				}
			}
		})
	}
}

func TestApplyFilterSinglePixel(t *testing.T) {
	src, _ := raster.FromPix(1, 1, 1, []uint8{200})
	got, err := ApplyFilter(src, Ones(2, 2))
	if err != nil {
		t.Fatalf("ApplyFilter: %v", err)
	}
	if got.Pix[0] != MidGray {
		t.Errorf("Pix[0] = %d, want %d", got.Pix[0], MidGray)
	}
}

func TestApplyFilterRangeFull(t *testing.T) {
	src := pattern(6, 6, 1)
	tf, _ := HighPassAt(12, 12, 2)
	got, err := ApplyFilter(src, tf)
	if err != nil {
		t.Fatalf("ApplyFilter: %v", err)
	}
	lo, hi := uint8(255), uint8(0)
	for _, v := range got.Pix {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo != 0 || hi != 255 {
		t.Errorf("output range = [%d, %d], want [0, 255]", lo, hi)
	}
}

func TestApplyFilterErrors(t *testing.T) {
	src := raster.New(2, 2, 1)
	nan := Ones(4, 4)
	nan.Data[5] = math.NaN()

	tests := []struct {
		name string
		f    Filter
		src  *raster.Raster
		tf   *Transfer
		code errors.Code
	}{
		{"shape mismatch", Filter{}, src, Ones(3, 3), errors.ErrCodeDimensionMismatch},
		{"unpadded transfer", Filter{}, src, Ones(2, 2), errors.ErrCodeDimensionMismatch},
		{"nil transfer", Filter{}, src, nil, errors.ErrCodeInvalidParams},
		{"nil raster", Filter{}, nil, Ones(4, 4), errors.ErrCodeInvalidInput},
		{"non-finite result", Filter{}, src, nan, errors.ErrCodeInvalidInput},
		{"non-finite result godsp", Filter{Backend: BackendGoDSP}, src, nan, errors.ErrCodeInvalidInput},
		{"unknown backend", Filter{Backend: Backend(9)}, src, Ones(4, 4), errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.f.Apply(tt.src, tt.tf)
			if !errors.Is(err, tt.code) {
				t.Errorf("Apply() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{"", BackendGonum, false},
		{"gonum", BackendGonum, false},
		{"godsp", BackendGoDSP, false},
		{"go-dsp", BackendGoDSP, false},
		{"fftw", BackendGonum, true},
	}
	for _, tt := range tests {
		got, err := ParseBackend(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBackend(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBackend(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if s := BackendGoDSP.String(); s != "godsp" {
		t.Errorf("String() = %q, want %q", s, "godsp")
	}
}
