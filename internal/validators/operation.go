package validators

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-field-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldOperationID targets the idempotency key of the operation.
	FieldOperationID = "operation_id"

	// FieldKind targets the operation kind.
	FieldKind = "kind"

	// FieldPayload targets the per-kind payload rules.
	FieldPayload = "payload"
)

const (
	maxOperationIDLength = 128
	maxTextLength        = 10_000
)

// payloadRules lists, per kind, the string fields that must be present and
// non-blank.
var payloadRules = map[models.OperationKind][]string{
	models.KindCheckIn:     {"site_id"},
	models.KindPhoto:       {"content_type", "data"},
	models.KindTestimonial: {"author", "text"},
	models.KindNote:        {"text"},
}

type OperationValidator struct {
}

func NewOperationValidator() Validator {
	return &OperationValidator{}
}

// Validate accepts a models.Receipt (or pointer). With no fields every rule
// is applied.
func (v *OperationValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Receipt:
		return v.validateReceipt(value, fields...)
	case *models.Receipt:
		return v.validateReceipt(*value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *OperationValidator) validateReceipt(r models.Receipt, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldOperationID, FieldKind, FieldPayload}
	}

	for _, field := range fields {
		var err error
		switch field {
		case FieldOperationID:
			err = validateOperationID(r.OperationID)
		case FieldKind:
			if !r.Kind.Valid() {
				err = fmt.Errorf("%w: %q", ErrInvalidKind, r.Kind)
			}
		case FieldPayload:
			err = validatePayload(r.Kind, r.Payload)
		default:
			err = fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func validateOperationID(id string) error {
	if strings.TrimSpace(id) == "" || len(id) > maxOperationIDLength {
		return ErrInvalidOperationID
	}
	return nil
}

func validatePayload(kind models.OperationKind, payload json.RawMessage) error {
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil || obj == nil {
		return ErrPayloadNotObject
	}

	rules, ok := payloadRules[kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	for _, name := range rules {
		s, ok := obj[name].(string)
		if !ok || strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}

	switch kind {
	case models.KindCheckIn:
		if err := validateCoordinate(obj, "latitude", 90); err != nil {
			return err
		}
		return validateCoordinate(obj, "longitude", 180)
	case models.KindPhoto:
		if _, err := base64.StdEncoding.DecodeString(obj["data"].(string)); err != nil {
			return fmt.Errorf("%w: data is not base64", ErrInvalidField)
		}
		if !strings.HasPrefix(obj["content_type"].(string), "image/") {
			return fmt.Errorf("%w: content_type must be an image type", ErrInvalidField)
		}
	case models.KindTestimonial, models.KindNote:
		if len(obj["text"].(string)) > maxTextLength {
			return fmt.Errorf("%w: text longer than %d bytes", ErrInvalidField, maxTextLength)
		}
	}

	return nil
}

// validateCoordinate checks an optional numeric field against ±limit.
func validateCoordinate(obj map[string]any, name string, limit float64) error {
	raw, present := obj[name]
	if !present {
		return nil
	}

	value, ok := raw.(float64)
	if !ok || value < -limit || value > limit {
		return fmt.Errorf("%w: %s", ErrInvalidField, name)
	}
	return nil
}
