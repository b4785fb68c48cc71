package frequency

import (
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/matzehuels/imgaug/pkg/errors"
)

// Backend selects the FFT implementation.
type Backend int

const (
	// BackendGonum uses gonum.org/v1/gonum/dsp/fourier.
	BackendGonum Backend = iota
	// BackendGoDSP uses github.com/mjibson/go-dsp/fft.
	BackendGoDSP
)

// String returns the backend name used in configuration files.
func (b Backend) String() string {
	switch b {
	case BackendGonum:
		return "gonum"
	case BackendGoDSP:
		return "godsp"
	}
	return "unknown"
}

// ParseBackend parses "gonum" or "godsp". The empty string means gonum.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "", "gonum":
		return BackendGonum, nil
	case "godsp", "go-dsp":
		return BackendGoDSP, nil
	}
	return BackendGonum, errors.New(errors.ErrCodeInvalidParams, "invalid fft backend: %q (must be one of: gonum, godsp)", s)
}

// transformer computes 2D DFTs of a rectangular complex grid.
// Implementations may transform in place and must return the result.
type transformer interface {
	forward(a [][]complex128) [][]complex128
	inverse(a [][]complex128) [][]complex128
}

func newTransformer(b Backend, rows, cols int) (transformer, error) {
	switch b {
	case BackendGonum:
		return &gonumFFT{
			rowFFT: fourier.NewCmplxFFT(cols),
			colFFT: fourier.NewCmplxFFT(rows),
			rows:   rows,
			cols:   cols,
		}, nil
	case BackendGoDSP:
		return godspFFT{}, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "fft backend %d is not supported", int(b))
}

// gonumFFT runs 1D transforms along rows, then columns.
type gonumFFT struct {
	rowFFT *fourier.CmplxFFT
	colFFT *fourier.CmplxFFT
	rows   int
	cols   int
}

func (g *gonumFFT) forward(a [][]complex128) [][]complex128 {
	g.apply(a, true)
	return a
}

// inverse normalizes by 1/(rows·cols); gonum's Sequence is unnormalized.
func (g *gonumFFT) inverse(a [][]complex128) [][]complex128 {
	g.apply(a, false)
	scale := complex(1/float64(g.rows*g.cols), 0)
	for _, row := range a {
		for j := range row {
			row[j] *= scale
		}
	}
	return a
}

func (g *gonumFFT) apply(a [][]complex128, forward bool) {
	in := make([]complex128, g.cols)
	out := make([]complex128, g.cols)
	for _, row := range a {
		copy(in, row)
		if forward {
			g.rowFFT.Coefficients(out, in)
		} else {
			g.rowFFT.Sequence(out, in)
		}
		copy(row, out)
	}

	col := make([]complex128, g.rows)
	res := make([]complex128, g.rows)
	for x := 0; x < g.cols; x++ {
		for y := 0; y < g.rows; y++ {
			col[y] = a[y][x]
		}
		if forward {
			g.colFFT.Coefficients(res, col)
		} else {
			g.colFFT.Sequence(res, col)
		}
		for y := 0; y < g.rows; y++ {
			a[y][x] = res[y]
		}
	}
}

// godspFFT delegates to go-dsp, whose IFFT2 is already normalized.
type godspFFT struct{}

func (godspFFT) forward(a [][]complex128) [][]complex128 { return fft.FFT2(a) }
func (godspFFT) inverse(a [][]complex128) [][]complex128 { return fft.IFFT2(a) }
