package dataset

import (
	"bytes"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/raster"
)

// JPEGQuality is the quality used when encoding JPEG output.
const JPEGQuality = 95

// MaxPixels bounds the width*height of a decoded image. The frequency
// operators allocate a complex grid four times the pixel count.
const MaxPixels = 1 << 26

// Read returns the raw bytes of the image at path.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return data, nil
}

// Decode decodes an encoded image, applying any EXIF orientation.
// JPEG, PNG, GIF, BMP, TIFF and WebP are supported. Images larger than
// MaxPixels are rejected from their header before any pixel is decoded.
func Decode(data []byte) (*raster.Raster, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode image")
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, errors.New(errors.ErrCodeImageTooLarge,
			"image is %dx%d, exceeds %d pixels", cfg.Width, cfg.Height, MaxPixels)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecode, err, "decode image")
	}
	return raster.FromImage(img)
}

// SniffFormat reports the registered format name of an encoded image,
// such as "jpeg" or "webp".
func SniffFormat(data []byte) (string, error) {
	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDecode, err, "detect image format")
	}
	return name, nil
}

// Load reads and decodes the image at path.
func Load(path string) (*raster.Raster, error) {
	data, err := Read(path)
	if err != nil {
		return nil, err
	}
	r, err := Decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return r, nil
}

// ParseFormat resolves an output format from a name or extension such as
// "png", ".jpg" or "tiff".
func ParseFormat(name string) (imaging.Format, error) {
	ext := strings.ToLower(name)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	f, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidFormat, "unsupported output format %q (supported: jpeg, png, gif, tiff, bmp)", name)
	}
	return f, nil
}

// ContentType returns the MIME type of an output format.
func ContentType(f imaging.Format) string {
	switch f {
	case imaging.JPEG:
		return "image/jpeg"
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	case imaging.TIFF:
		return "image/tiff"
	case imaging.BMP:
		return "image/bmp"
	}
	return "application/octet-stream"
}

// Encode writes r to w in format f.
func Encode(w io.Writer, r *raster.Raster, f imaging.Format) error {
	img, err := raster.ToImage(r)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode %s", f)
	}
	return nil
}

// EncodeBytes encodes r in format f.
func EncodeBytes(r *raster.Raster, f imaging.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, r, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save encodes r in the format implied by the extension of path, creating
// parent directories as needed.
func Save(path string, r *raster.Raster) error {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	data, err := EncodeBytes(r, f)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile writes encoded image bytes to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
