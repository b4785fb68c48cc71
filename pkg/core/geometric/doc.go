// Package geometric implements affine resampling of rasters by inverse mapping.
//
// # Inverse Mapping
//
// [ApplyAffine] walks the output raster and, for every output coordinate
// (i, j), asks the transform matrix where that pixel came from:
//
//	(x, y, 1) = M · (i, j, 1)
//
// x indexes input rows and y input columns. The source coordinates are rounded
// half-to-even (the rounding of Python's round, which the reference
// augmentation scripts used) and sampled without interpolation.
//
// # Edge Policy
//
// The default policy, [EdgeStrict], only samples when
//
//	0 < round(x) < rows  and  0 < round(y) < cols
//
// so row 0 and column 0 of the input are never read. This is the behaviour the
// reference scripts shipped with and it is kept for compatibility. Callers
// that want every input pixel to be reachable pass [EdgeInclusive]. Pixels
// whose source falls outside the accepted region keep their zero value.
//
// # Matrix Builders
//
// [FlipVertical], [FlipHorizontal], [RotateMatrix], [ScaleMatrix] and
// [TranslateMatrix] build matrices from fixed values. [Rotate], [Scale] and
// [Translate] draw their parameters from an injected [rng.Source]; the order of
// draws is fixed so a seeded source reproduces the same matrix.
//
// Rotation is recentred about the image midpoint by default. Set
// RotateOptions.AboutOrigin for the origin-anchored rotation; rotating about
// (0, 0) sends most of the image out of bounds.
package geometric
