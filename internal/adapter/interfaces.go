// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the outbound transport of the field client.
//
// The sync engine depends only on [RemoteSubmitter]: one call delivers one
// queued operation and returns nil (delivered) or an error (rejected, with the
// error text as the reason). Which endpoint an operation kind maps to is owned
// here, by [Router], so new kinds are added by registering a [KindHandler]
// without touching the engine.
//
// HTTP status codes are mapped by mapHTTPError onto the sentinel values in
// errors.go so callers can use [errors.Is] (e.g. [ErrUnprocessable] for 422).
package adapter

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-field-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_submitter_mock.go -package=mock

// RemoteSubmitter delivers one queued operation to the remote service.
//
// Delivery is at-least-once: the same (kind, payload) may be submitted again
// when a success response was lost. Implementations must keep that safe for
// remote state, e.g. by sending the operation id as an idempotency key (it is
// available through utils.GetOperationIDFromContext).
type RemoteSubmitter interface {
	// Submit sends payload to the route registered for kind. A nil error
	// means delivered; any error means rejected.
	Submit(ctx context.Context, kind models.OperationKind, payload json.RawMessage) error
}

// KindHandler delivers the payload of a single operation kind.
type KindHandler interface {
	Handle(ctx context.Context, payload json.RawMessage) error
}

// KindHandlerFunc adapts an ordinary function to [KindHandler].
type KindHandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Handle calls f(ctx, payload).
func (f KindHandlerFunc) Handle(ctx context.Context, payload json.RawMessage) error {
	return f(ctx, payload)
}

// Pinger reports whether the remote service is reachable.
type Pinger interface {
	// Ping returns nil when the remote answered with a 2xx status.
	Ping(ctx context.Context) error
}
