// Package app wires the application together: configuration, logging,
// metrics, the websocket hub, the search service and the HTTP router,
// plus the server lifecycle with graceful shutdown.
package app
