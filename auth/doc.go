// Package auth implements the token lifecycle engine for the delivery-io
// gateway: signing and verifying the access/refresh token pair, moving
// tokens in and out of session cookies, and gating protected routes.
//
// The package is stateless by design. All session state lives in the
// signed tokens themselves; the only process-wide values are the two
// signing secrets, which are loaded once and never mutated.
package auth
