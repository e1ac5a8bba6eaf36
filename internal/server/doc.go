// Package server exposes the analysis pipeline as a stateless JSON API.
//
// Every endpoint is an independent request/response exchange: the server
// holds no per-request state beyond the lifetime of the handler call, and
// no result is cached between requests.
//
// # Endpoints
//
//	POST /api/segment        {"imageUrl": ...}
//	POST /api/color-palette  {"imageUrl": ..., "colorCount": 3}
//	POST /api/depth          {"imageUrl": ...}
//
// # Error Model
//
// Errors fall into two classes:
//
//   - Input errors (missing or blank imageUrl, colorCount below 1) return
//     400 with a descriptive message. No image is fetched or decoded.
//   - Processing errors (fetch/decode failure, a stage returning an error)
//     return 500 with a generic message; details are logged server-side
//     only.
//
// A photo in which no wall candidate survives validation is neither class:
// the pipeline synthesizes a fallback region and the request succeeds with
// a degraded result. Detection weakness never blocks the caller's workflow.
//
// # Mask Transport
//
// The segmentation mask is a binary raster the size of the input image. On
// the wire it is encoded as a base64 PNG (white = wall, black = background)
// so clients can overlay it directly.
//
// # Logging
//
// Each request is assigned a UUID and logged with method, path, status,
// and duration. Processing error details appear only in these logs.
package server
