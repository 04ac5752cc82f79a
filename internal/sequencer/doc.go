// Package sequencer runs timed indicator patterns on a background goroutine.
//
// At most one pattern runs per Sequencer. Stop cancels the run and waits for
// its goroutine to return, so a caller may write to the panel right after Stop
// without racing the pattern. Every wait inside a pattern is cancellable.
package sequencer
