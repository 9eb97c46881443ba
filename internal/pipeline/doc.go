// Package pipeline turns FASTA inputs into GC tracks. Each Job (one input,
// one output) is handled by a single worker that owns its reader, window
// state and sink; jobs run concurrently up to Config.Threads.
package pipeline
