// Package watch re-runs a callback when any of a fixed set of files changes.
//
// The parent directory of every target is watched rather than the file
// itself, so editors that save by writing a temp file and renaming it over
// the target are still seen. Bursts of events are collapsed by a debouncer
// into one callback after a quiet period.
package watch
