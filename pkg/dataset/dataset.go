// Package dataset locates, loads and stores the images of an augmentation
// run.
//
// Images are expected in the layout
//
//	<root>/<variant>/<split>/<class>/.../<image>
//
// where variant "original" holds the source images. Augmented copies are
// written to a sibling tree whose variant component is the operator name,
// see [OutputPath].
package dataset

import (
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/rng"
)

// Layout defaults.
const (
	DefaultVariant = "original"
	DefaultSplit   = "train"
	// AnyVariant matches every variant directory.
	AnyVariant = "*"
)

// DefaultExtensions are the image extensions matched by [Scan].
var DefaultExtensions = []string{".jpeg", ".jpg", ".png"}

// ScanOptions configures [Scan]. Zero fields take the defaults.
type ScanOptions struct {
	// Variant is the first path component below root. "*" matches any.
	Variant string
	// Split is the second path component, for example "train" or "val".
	Split string
	// Extensions are matched case-insensitively, with the leading dot.
	Extensions []string
}

func (o ScanOptions) withDefaults() ScanOptions {
	if o.Variant == "" {
		o.Variant = DefaultVariant
	}
	if o.Split == "" {
		o.Split = DefaultSplit
	}
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions
	}
	return o
}

// Scan returns the images below root/<variant>/<split>, at any depth,
// sorted lexically.
func Scan(root string, opts ScanOptions) ([]string, error) {
	opts = opts.withDefaults()
	if root == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "image directory cannot be empty")
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if d.IsDir() {
			if len(parts) == 1 && opts.Variant != AnyVariant && parts[0] != opts.Variant {
				return filepath.SkipDir
			}
			if len(parts) == 2 && parts[1] != opts.Split {
				return filepath.SkipDir
			}
			return nil
		}
		if len(parts) < 3 || !hasExtension(path, opts.Extensions) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image directory %s", root)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "scan %s", root)
	}
	slices.Sort(paths)
	return paths, nil
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// Subsample keeps ceil(pct/100 * len(paths)) paths chosen at random from
// src, preserving their order. pct must be in (0, 100].
func Subsample(paths []string, pct float64, src *rng.Rand) ([]string, error) {
	if err := errors.ValidatePercent("subsample_pct", pct); err != nil {
		return nil, err
	}
	n := len(paths)
	keep := int(math.Ceil(pct / 100 * float64(n)))
	if keep >= n {
		return slices.Clone(paths), nil
	}
	idx := src.Perm(n)[:keep]
	slices.Sort(idx)
	out := make([]string, keep)
	for i, j := range idx {
		out[i] = paths[j]
	}
	return out, nil
}

// OutputPath returns the path for the augmentation op of the image at path:
// every component equal to "original" is replaced by op.
func OutputPath(path, op string) (string, error) {
	if err := errors.ValidateOperatorName(op); err != nil {
		return "", err
	}
	parts := strings.Split(filepath.ToSlash(path), "/")
	found := false
	for i, p := range parts {
		if p == DefaultVariant {
			parts[i] = op
			found = true
		}
	}
	if !found {
		return "", errors.New(errors.ErrCodeInvalidPath, "path %s has no %q component", path, DefaultVariant)
	}
	return filepath.FromSlash(strings.Join(parts, "/")), nil
}
