// Package audio finishes audio-only downloads: the stream is moved to an .mp3
// name and, when enabled, tagged with ID3v2 title, artist, source URL and an
// optional front cover built from the video thumbnail.
//
// No re-encoding happens here; the container bytes are kept as downloaded.
//
//	finisher := audio.NewFinisher(audio.Options{Tag: true, EmbedCover: true}, platform.NewHTTPClient())
//	path, err := finisher.Finish(ctx, job, info, downloadedPath)
package audio
