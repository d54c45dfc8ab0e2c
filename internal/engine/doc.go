// Package engine keeps two representations of an annotated text mutually
// consistent: a flat token array the UI edits directly, and a canonical log
// of operations anchored to the immutable original token sequence. Apply is
// the forward transform (operations to tokens), Derive the inverse; moves
// are tracked at the token level only and never appear in the log.
package engine
