// Package session exposes the process-wide authenticated-user state machine:
// bootstrap from stored tokens, login/register/logout, profile refresh, and
// email verification. It is the sole subscriber of the API client's logout
// broadcast and guarantees that a cached user never outlives its tokens.
package session
