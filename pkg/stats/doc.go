// Package stats computes survey and conference statistics.
//
// Statistics are not stored; they are recomputed from the response rows each
// time they are requested or broadcast.
package stats
