package model

// Package model defines domain data structures used across the app: download
// jobs, stream variants offered by a media provider, and the job status state
// machine. Structures are plain data; transitions are checked explicitly.
