// Package notation is the music notation model of the editor: pitches,
// durations, notes, ties and rests, their segmentation into bars, and the
// layout that aligns bars across tracks and supports hit-testing.
//
// Everything here is synchronous and in-memory. Nothing is safe for
// concurrent use; callers serialize access to a composition.
package notation
