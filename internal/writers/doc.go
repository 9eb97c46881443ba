// Package writers turns GC samples into track files.
//
// Design:
//   - Every format is a Sink; the scanner never knows which one is in use.
//   - Formats register a Factory in init(); callers go through Open.
//   - Sinks never close the destination they were given; the caller owns it.
package writers
