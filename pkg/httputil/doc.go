// Package httputil provides HTTP infrastructure for fetching remote images:
// preview rasters referenced by URL and reference images handed to the
// generation backend.
//
//   - [Retry]: automatic retry with exponential backoff for transient
//     failures (network errors, 5xx responses, 429 rate limits)
//   - [FetchImage]: download and decode a raster with retry
//
// Defaults are 3 attempts with a 1 second base delay, doubling per retry.
package httputil
