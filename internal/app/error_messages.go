// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the ingest
// server handlers.
//
// Msg* constants are the response bodies written for server-side failures,
// where the underlying error text must not reach the client.
package app

const (
	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgStorageUnavailable is returned when the receipt database cannot be
	// reached. The client keeps the operation and retries later.
	MsgStorageUnavailable = "storage is temporarily unavailable"
)

// PublicMessage returns the body to send for a response with status. Client
// errors keep detail; server errors are replaced by a fixed message.
func PublicMessage(status int, detail string) string {
	switch {
	case status == 503:
		return MsgStorageUnavailable
	case status >= 500:
		return MsgInternalServerError
	default:
		return detail
	}
}
