package raster

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/imgaug/pkg/errors"
)

// FromImage converts an image to a raster.
//
// Grayscale images (image.Gray, image.Gray16) become single-channel rasters;
// everything else becomes a 3-channel RGB raster with alpha discarded.
// The image bounds origin maps to (0, 0).
func FromImage(img image.Image) (*Raster, error) {
	if img == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image is nil")
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image is empty")
	}
	rows, cols := b.Dy(), b.Dx()

	switch src := img.(type) {
	case *image.Gray:
		r := New(rows, cols, 1)
		for y := 0; y < rows; y++ {
			start := (b.Min.Y+y-src.Rect.Min.Y)*src.Stride + (b.Min.X - src.Rect.Min.X)
			copy(r.Row(y), src.Pix[start:start+cols])
		}
		return r, nil
	case *image.Gray16:
		r := New(rows, cols, 1)
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				r.Pix[y*cols+x] = uint8(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
		}
		return r, nil
	}

	rgba := imaging.Clone(img)

	r := New(rows, cols, 3)
	for y := 0; y < rows; y++ {
		in := rgba.Pix[y*rgba.Stride : y*rgba.Stride+cols*4]
		out := r.Row(y)
		for x := 0; x < cols; x++ {
			out[x*3+0] = in[x*4+0]
			out[x*3+1] = in[x*4+1]
			out[x*3+2] = in[x*4+2]
		}
	}
	return r, nil
}

// ToImage converts a raster to an image.
//
// One channel yields *image.Gray, three channels *image.NRGBA (opaque) and
// four channels *image.NRGBA with the fourth channel as alpha.
func ToImage(r *Raster) (image.Image, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, r.Cols, r.Rows)

	switch r.Channels {
	case 1:
		img := image.NewGray(rect)
		for y := 0; y < r.Rows; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+r.Cols], r.Row(y))
		}
		return img, nil
	case 3, 4:
		img := image.NewNRGBA(rect)
		for y := 0; y < r.Rows; y++ {
			for x := 0; x < r.Cols; x++ {
				p := r.Pixel(y, x)
				c := color.NRGBA{R: p[0], G: p[1], B: p[2], A: 255}
				if r.Channels == 4 {
					c.A = p[3]
				}
				img.SetNRGBA(x, y, c)
			}
		}
		return img, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "cannot convert %d-channel raster to an image", r.Channels)
}
