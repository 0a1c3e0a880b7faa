// Package server runs the ingest server HTTP listener: startup, signal
// handling and graceful shutdown.
package server
