// Package library implements a user's book collection and activity feed.
//
// [Service] validates input at the boundary, scopes every record operation to
// its owner, and records an activity entry after each successful book mutation.
// Activity writes are best effort: they run as separate statements after the
// primary write and a failure is only logged.
package library
