// Package assets fetches and decodes garment and body images.
//
// A [Fetcher] turns an asset url into bytes: [FileFetcher] reads from an
// asset root directory, [HTTPFetcher] downloads with retries, and [Router]
// dispatches on the url scheme. [DecodeImage] and [DecodeSize] decode PNG,
// JPEG, GIF and WebP.
//
// [Memo] is the session-scoped cache: one entry per key, concurrent
// requests for the same key share a single load, and failed loads are not
// remembered so a later request can retry.
package assets
