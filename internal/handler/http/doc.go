// Package http implements the HTTP transport of the ingest server.
//
// It exposes route wiring, request handlers and middleware. Request tracing,
// access logging and gzip request bodies are handled here before requests
// are delegated to the service layer.
package http
