// Package auth owns user identity: registration, password login, and sessions.
//
// Passwords are hashed with bcrypt. A login creates a row in the sessions table
// and hands the caller an HS256-signed JWT whose "jti" claim names that row and
// whose "sub" claim is the user ID. A token is accepted only while its signature
// checks, its "exp" has not passed, and its session row still exists, so logout
// revokes a token immediately by deleting the row.
//
// The HTTP layer stores the resolved [models.User] in the request context with
// [WithUser]; handlers read it back with [UserFromContext] or [RequireUser].
package auth
