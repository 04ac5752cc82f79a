// Package indicator drives the two hardware indicator lights.
//
// A Device is one addressable light with a trigger mode and a binary
// brightness; LED implements it over a Linux sysfs LED directory. Pair groups
// the two lights into the Panel the sequencer and the controller write to.
// Every Panel write is best-effort: failures are logged and counted, never
// returned.
package indicator
