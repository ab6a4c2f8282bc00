// Package domain holds the plain data types shared by the daily contribution
// workflow: the run date, stage identifiers and policies, per-stage results
// and the run report.
//
// It has no dependencies outside the standard library and contains no I/O.
package domain
