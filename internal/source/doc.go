// Package source turns image references into pixel buffers for the
// analysis pipeline.
//
// The pipeline itself never performs I/O or decoding; it consumes
// caller-owned buffers. This package provides the standard collaborator
// that fills that role: a Decoder function that fetches an image by URL or
// local path, decodes it, normalizes it to 8-bit RGBA, and optionally
// bounds its dimensions before analysis.
//
// Decoders are injected into the server and CLI as an explicit capability
// parameter rather than reached for ambiently, so tests can substitute a
// stub decoder without touching the network or the filesystem.
//
// # Supported References
//
//   - "http://..." and "https://..." URLs, fetched with the configured
//     HTTP client (context cancellation and deadlines apply to the fetch)
//   - anything else is treated as a local file path
//
// Supported formats are PNG, JPEG, and GIF.
package source
