// Package cookie provides a small cookie manager that guarantees one
// canonical attribute set for both writing and clearing cookies.
//
// A cookie cleared with different Path/Domain/HttpOnly attributes than it was
// set with survives in some browsers. The Manager closes that gap: Delete
// reuses the exact defaults Set used, emitting Max-Age=0 and an epoch
// Expires so the cookie is discarded immediately.
package cookie
