// Package frequency implements frequency-domain filtering of rasters.
//
// # Pipeline
//
// [ApplyFilter] pads a raster of extent (H, W) with zeros to (2H, 2W),
// transforms every channel with a 2D DFT, shifts the zero frequency to the
// centre, multiplies by a [Transfer], shifts back, inverts the transform and
// crops the original region:
//
//	pad → FFT2 → shift → ×T → unshift → IFFT2 → real → crop → rescale
//
// The crop is the exact inverse of the padding: floor(H/2) rows are added
// above and ceil(H/2) below, and rows [floor(H/2), floor(H/2)+H) are kept.
// With the all-ones transfer ([Ones]) the output equals the input up to the
// final rescale.
//
// The cropped result (all channels together) is min-max rescaled to [0, 255]
// and truncated to 8 bits. A result that is constant, up to floating-point
// noise, becomes uniform [MidGray] rather than dividing by zero.
//
// # Transfer Functions
//
// [Gaussian] synthesizes exp(-(x²+y²)/(2c²)) on a centred grid and normalizes
// it as (g - max) / (max - min). This sign convention puts 0 at the centre and
// -1 at the far corners; [LowPass], [HighPass] and [BandPass] are built on it
// unchanged so results match the reference augmentation scripts.
//
// # FFT Backends
//
// Two interchangeable FFT implementations are available through [Filter]:
// gonum's dsp/fourier ([BackendGonum], the default) and go-dsp
// ([BackendGoDSP]). Both produce the same 8-bit output up to one level of
// rounding.
package frequency
