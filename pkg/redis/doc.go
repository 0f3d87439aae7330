// Package redis provides connection bootstrapping for go-redis with retry
// logic and a health check helper. The auth service uses it to back the
// provider access-token cache that survives across requests within one
// process group.
package redis
