package download

// Package download implements the bounded-concurrency download queue. A Manager
// owns the backlog and the active set, admits at most MaxConcurrent jobs at a
// time, runs one worker goroutine per admitted job, aggregates per-job progress
// into a global percentage, and reports everything to a single event handler in
// the order it happened.
