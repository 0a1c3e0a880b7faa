package models

import (
	"encoding/json"
	"time"
)

// OperationKind names the remote resource a queued operation targets.
// The submitter uses it to pick a route; the queue never branches on it.
type OperationKind string

const (
	// KindCheckIn is a site check-in captured in the field.
	KindCheckIn OperationKind = "check-in"

	// KindPhoto is a captured photo (base64 data plus content type).
	KindPhoto OperationKind = "photo"

	// KindTestimonial is a recorded customer testimonial.
	KindTestimonial OperationKind = "testimonial"

	// KindNote is a free-form text note.
	KindNote OperationKind = "note"
)

// OperationKinds lists every kind known to this build, in display order.
var OperationKinds = []OperationKind{KindCheckIn, KindPhoto, KindTestimonial, KindNote}

// Valid reports whether k is one of [OperationKinds].
func (k OperationKind) Valid() bool {
	for _, known := range OperationKinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k OperationKind) String() string {
	return string(k)
}

// QueuedOperation is one pending mutation awaiting delivery to the remote API.
//
// ID and EnqueuedAt are fixed at enqueue time. RetryCount only ever grows: it is
// incremented once per failed delivery attempt and the operation is evicted
// when it reaches the configured maximum.
type QueuedOperation struct {
	// ID is a client-generated UUIDv7, unique within the queue.
	ID string `json:"id"`

	// Kind selects the remote route for this operation.
	Kind OperationKind `json:"kind"`

	// Payload is the exact body the remote endpoint expects. It is carried
	// verbatim and never inspected by the queue or the sync engine.
	Payload json.RawMessage `json:"payload"`

	// EnqueuedAt is the capture time.
	EnqueuedAt time.Time `json:"enqueuedAt"`

	// RetryCount is the number of failed delivery attempts so far.
	RetryCount int `json:"retryCount"`

	// ApproximateSize is the byte length of Payload at enqueue time.
	// Diagnostics only.
	ApproximateSize int `json:"approximateSize"`
}

// Clone returns a deep copy of op so that snapshots handed to readers never
// share the payload buffer with the queue.
func (op QueuedOperation) Clone() QueuedOperation {
	if op.Payload != nil {
		payload := make(json.RawMessage, len(op.Payload))
		copy(payload, op.Payload)
		op.Payload = payload
	}
	return op
}
