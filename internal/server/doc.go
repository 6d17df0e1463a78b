// Package server exposes the audit pipeline over HTTP. It provides a
// synchronous scan endpoint and a health endpoint, with graceful
// shutdown wired to context cancellation.
package server
