// Package ffmpeg builds transcoder command lines, runs them with merged
// stdout/stderr streamed line by line, classifies failures from the output
// tail, and answers the read-only introspection queries (-codecs, -formats,
// -hwaccels).
//
// Processes are always started from an argument vector through os/exec and
// never through a shell, so paths containing spaces, quotes or shell
// metacharacters reach ffmpeg verbatim.
package ffmpeg
