// Package logging provides a simple leveled logging interface for the
// project processing pipeline.
//
// Pipeline stages log informational checkpoints at the start and end of
// validation, extraction, and rendering; everything noisier sits behind
// the DEBUG level.
//
// The log level is configured via the LOG_LEVEL environment variable
// (or DEBUG=true as a shortcut for the debug level).
package logging
