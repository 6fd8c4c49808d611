// Package tasks runs bulk operations against a shelf server with progress reporting.
//
// # Import
//
// [Importer.Import] adds a batch of books (usually read back from a CSV or JSON
// export) through a [BookClient]:
//
//  1. A producer goroutine waits on a [rate.Limiter] and feeds jobs to a bounded worker pool.
//  2. Each worker adds the book with its status, then restores reading progress with a
//     follow-up update when it is non-zero.
//  3. Books the server already tracks (a conflict) are counted as skipped, not failed.
//
// # Progress Reporting
//
// Progress is sent as [ProgressUpdate] values on an optional channel. Sends use select
// with default, so a slow or absent reader never blocks an import.
package tasks
