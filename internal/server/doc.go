// Package server provides HTTP routing, middleware, and the JSON API handlers for shelf.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /books"), so an unknown
// method on a known path answers 405. Requests that match no route still get a JSON envelope.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// Handlers dispatch on [http.Request.Pattern].
//
// # Envelope
//
// Every JSON response has the shape {"success": bool, "data"?: any, "error"?: string} plus
// endpoint-specific top-level keys such as "sessionToken". Errors are mapped from the shared
// sentinels: validation 400, auth 401, not found 404, conflict 409, and anything else 500 with
// a generic message while the cause is logged.
//
// # Sessions
//
// The session middleware reads a token from the session cookie or an "Authorization: Bearer" header,
// resolves it with [auth.Service.CurrentUser] and stores the user in the request context. It never
// rejects a request; handlers that need a user answer 401 themselves.
package server
