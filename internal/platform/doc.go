package platform

// Package platform contains OS/platform integration and external service glue:
// the YouTube media provider, playlist expansion via ytdlp, filesystem helpers,
// log file setup, and OS open/reveal.
