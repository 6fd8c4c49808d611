// Package services implements the HTTP clients used by shelf.
//
// # Catalog
//
// [OpenLibraryService] implements [Catalog] against the Open Library search API.
// Every request waits on a shared [rate.Limiter]. Catalog failures are never
// surfaced to callers: transport errors, non-2xx statuses, and undecodable
// bodies are logged and produce an empty result list.
//
// Cover images are addressed by cover ID with [OpenLibraryService.CoverImageURL].
//
// # API Client
//
// [APIService] is the raw JSON client the CLI uses to talk to a running shelf
// server. It attaches the stored session token as a bearer credential and
// decodes the server's {success, data, error} envelope.
package services
