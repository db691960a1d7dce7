// Package history stores validation reports so past runs can be listed and
// audited.
//
// An Entry is the persisted form of an engine.Report plus where the record
// came from. Storage backends live in the storage subpackage; age and count
// based pruning lives in retention.
package history
