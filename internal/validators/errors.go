package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidOperationID = errors.New("invalid operation id")
	ErrInvalidKind        = errors.New("invalid operation kind")
	ErrPayloadNotObject   = errors.New("payload must be a JSON object")
	ErrMissingField       = errors.New("required field is missing")
	ErrInvalidField       = errors.New("field has invalid value")
)
