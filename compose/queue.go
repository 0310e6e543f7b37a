package compose

import (
	"fmt"
	"strings"

	"github.com/gogpu/affine/m3"
	"github.com/gogpu/affine/m4"
)

// Queue is the authoritative composition order of a frame.
type Queue []Kind

var (
	// DefaultQueue composes as projection last and pivot recentering
	// first: vertices are moved to the pivot, scaled, rotated, translated
	// and finally projected.
	DefaultQueue = Queue{Projection, Translation, Rotation, Scale, PivotRecenter}

	// TutorialQueue is the order the classic 2D tutorial scenes insert
	// their transforms in. Scale is applied after rotation and
	// translation, so it scales the translation too.
	TutorialQueue = Queue{Projection, Scale, Translation, Rotation}
)

// ParseQueue parses kind names into a validated Queue.
func ParseQueue(names []string) (Queue, error) {
	q := make(Queue, 0, len(names))
	for _, n := range names {
		k, err := ParseKind(n)
		if err != nil {
			return nil, err
		}
		q = append(q, k)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Validate reports unknown or repeated kinds. Compose does not call it; an
// unvalidated queue still composes, with unknown kinds skipped.
func (q Queue) Validate() error {
	var seen [PivotRecenter + 1]bool
	for i, k := range q {
		if !k.Valid() {
			return fmt.Errorf("%w at position %d: %d", ErrUnknownKind, i, uint8(k))
		}
		if seen[k] {
			return fmt.Errorf("%w at position %d: %s", ErrDuplicateKind, i, k)
		}
		seen[k] = true
	}
	return nil
}

// Contains reports whether k is in q.
func (q Queue) Contains(k Kind) bool {
	for _, v := range q {
		if v == k {
			return true
		}
	}
	return false
}

// Strings returns the kind names in order.
func (q Queue) Strings() []string {
	out := make([]string, len(q))
	for i, k := range q {
		out[i] = k.String()
	}
	return out
}

func (q Queue) String() string {
	return "[" + strings.Join(q.Strings(), " ") + "]"
}

// Pivot2D returns the recentering step that moves the pivot (px, py) to
// the origin. A later Translation places the object back in the scene.
func Pivot2D(px, py float64) m3.Matrix3 {
	return m3.Translation(-px, -py)
}

// Pivot3D is the 3D form of Pivot2D.
func Pivot3D(px, py, pz float64) m4.Matrix4 {
	return m4.Translation(-px, -py, -pz)
}
