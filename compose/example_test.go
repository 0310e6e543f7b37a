package compose_test

import (
	"fmt"
	"math"

	"github.com/gogpu/affine/compose"
	"github.com/gogpu/affine/m3"
)

func ExampleCompose() {
	set := compose.Set[m3.Matrix3]{
		compose.Translation: m3.Translation(10, 0),
		compose.Rotation:    m3.Rotation(math.Pi / 2),
	}
	// Rotation is last in the queue, so it is applied to the point first.
	m := compose.Compose(compose.M3, compose.Queue{compose.Translation, compose.Rotation}, set)
	p := m3.TransformPoint(m, m3.V2(1, 0))
	fmt.Printf("%.0f %.0f\n", p[0], p[1])
	// Output: 10 -1
}
