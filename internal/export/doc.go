// Package export serialises the scene when an export is requested.
//
// The store only carries an "export requested" flag. The Exporter watches
// it, hands the object collection to an Encoder, writes the result to the
// export directory, and always clears the flag afterwards, whether the
// export succeeded or not. Failures go to the SetOnError callback.
//
//	SetExporting(true) ──► Change{SliceExport} ──► Exporter.run
//	                                                 │
//	                                   Encoder.Encode(objects) ──► dir/filename
//	                                                 │
//	                                     SetExporting(false)  (always)
package export
