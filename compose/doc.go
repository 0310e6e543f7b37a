// Package compose folds an ordered set of elementary transforms into the
// single matrix a frame uploads.
//
// A Queue lists transform kinds in authoring order. Compose starts from
// the identity and multiplies each present transform onto the right of the
// accumulator:
//
//	acc = Multiply(acc, set[kind])
//
// Because Multiply(a, b) applies b first, the last kind in the queue acts on
// vertices first and the first kind acts last. The projection therefore
// leads the queue. Kinds missing from the set are skipped and leave the
// accumulator unchanged.
//
// The fold is generic over the matrix type through Algebra, with M3 and M4
// provided for the m3 and m4 packages.
package compose
