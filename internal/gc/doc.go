// Package gc contains the sliding-window GC-content core. It never imports
// app, writers, cli, or pipeline; keep it domain-only.
//
// Positions are 1-based. Percentages are computed with real division and
// truncated to an integer by Sample.Value.
package gc
