package geometric_test

import (
	"fmt"

	"github.com/matzehuels/imgaug/pkg/core/geometric"
	"github.com/matzehuels/imgaug/pkg/raster"
)

func ExampleApplyAffine() {
	src, _ := raster.FromPix(3, 2, 1, []uint8{0, 1, 10, 11, 20, 21})
	flip := geometric.FlipVertical(src.Rows)

	strict, _ := geometric.ApplyAffine(src, flip, geometric.Options{})
	inclusive, _ := geometric.ApplyAffine(src, flip, geometric.Options{Edge: geometric.EdgeInclusive})

	fmt.Println(strict.Pix)
	fmt.Println(inclusive.Pix)
	// Output:
	// [0 21 0 11 0 0]
	// [20 21 10 11 0 1]
}
