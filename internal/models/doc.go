// Package models defines the domain entities of the shelf book tracker.
//
// Persistent entities:
//   - [User] : registered account; the bcrypt password hash never leaves the server
//   - [Session] : server-side session row named by a signed token
//   - [Book] : one user's tracked relationship to one catalog book
//   - [Activity] : immutable human-readable log line about a user action
//
// Entities use unexported fields with accessors so that invariants (status enum,
// progress bounds) are checked by [Model.Validate] before persistence. Each type
// implements [json.Marshaler] with the public view sent over the HTTP API.
package models
