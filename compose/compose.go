package compose

import (
	"github.com/gogpu/affine/m3"
	"github.com/gogpu/affine/m4"
)

// Algebra supplies the two operations the fold needs for a matrix type.
type Algebra[M any] struct {
	Identity func() M
	Multiply func(a, b M) M
}

var (
	// M3 composes 2D transforms.
	M3 = Algebra[m3.Matrix3]{Identity: m3.Identity, Multiply: m3.Multiply}

	// M4 composes 3D transforms.
	M4 = Algebra[m4.Matrix4]{Identity: m4.Identity, Multiply: m4.Multiply}
)

// Set maps each kind to its matrix for one frame.
type Set[M any] map[Kind]M

// Step is one tagged element of a Transforms sequence.
type Step[M any] struct {
	Kind   Kind
	Matrix M
}

// Transforms is an explicit ordered sequence of tagged transforms.
type Transforms[M any] []Step[M]

// Compose folds set in queue order. Kinds absent from set are skipped.
// The result is a fresh value; neither queue nor set is modified.
func Compose[M any](alg Algebra[M], queue Queue, set Set[M]) M {
	acc := alg.Identity()
	for _, k := range queue {
		m, ok := set[k]
		if !ok {
			continue
		}
		acc = alg.Multiply(acc, m)
	}
	return acc
}

// Fold multiplies the steps of ts in order, the same way Compose does.
func Fold[M any](alg Algebra[M], ts Transforms[M]) M {
	acc := alg.Identity()
	for _, s := range ts {
		acc = alg.Multiply(acc, s.Matrix)
	}
	return acc
}

// ComposeNamed is Compose keyed by name strings, for callers that still
// carry transforms in a string map. Names missing from named are skipped.
func ComposeNamed[M any](alg Algebra[M], names []string, named map[string]M) M {
	acc := alg.Identity()
	for _, n := range names {
		if m, ok := named[n]; ok {
			acc = alg.Multiply(acc, m)
		}
	}
	return acc
}

// Ordered returns the present entries of s as a Transforms sequence in
// queue order. Fold of the result equals Compose(alg, queue, s).
func (s Set[M]) Ordered(queue Queue) Transforms[M] {
	out := make(Transforms[M], 0, len(queue))
	for _, k := range queue {
		if m, ok := s[k]; ok {
			out = append(out, Step[M]{Kind: k, Matrix: m})
		}
	}
	return out
}

// Kinds returns the tags of ts in order.
func (ts Transforms[M]) Kinds() Queue {
	q := make(Queue, len(ts))
	for i, s := range ts {
		q[i] = s.Kind
	}
	return q
}
