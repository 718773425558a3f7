// Package sketch manages the lifecycle of sketches: small interactive
// terminal programs that are written, built with an external toolchain and
// shown in a terminal pane.
//
// A Manager owns the on-disk catalog and a registry of running process
// handles. Status is never stored; it is derived on every query from
// registry membership and from what is present on disk:
//
//	registered            -> running
//	build artifact exists -> ready
//	source exists         -> created
//	otherwise             -> not a sketch
//
// The registry lives in memory, so a sketch is only "running" for the
// Manager that launched it. Long-lived callers (the picker, a blocking
// run) call StopAll before exiting.
package sketch
