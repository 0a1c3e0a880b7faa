// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrUnreadableBody is returned when the request body cannot be read or
	// exceeds the size limit.
	ErrUnreadableBody = errors.New("request body could not be read")

	// ErrMalformedPayload is returned when the request body is not valid JSON.
	ErrMalformedPayload = errors.New("request body is not valid JSON")
)
