// Package ffmpeg invokes the ffmpeg binary to stitch still images into a
// short clip. Command execution sits behind the Executor interface so stage
// tests can exercise failure handling without a real encoder installed.
package ffmpeg
