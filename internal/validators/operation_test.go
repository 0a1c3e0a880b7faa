// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-field-sync/models"
)

func receipt(kind models.OperationKind, payload string) models.Receipt {
	return models.Receipt{OperationID: "op-1", Kind: kind, Payload: json.RawMessage(payload)}
}

func TestNewOperationValidator(t *testing.T) {
	v := NewOperationValidator()
	require.NotNil(t, v)
	_, ok := v.(*OperationValidator)
	assert.True(t, ok)
}

func TestOperationValidator_UnsupportedType(t *testing.T) {
	err := NewOperationValidator().Validate(context.Background(), "string")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestOperationValidator_Payloads(t *testing.T) {
	tests := []struct {
		name    string
		r       models.Receipt
		wantErr error
	}{
		{name: "check-in valid", r: receipt(models.KindCheckIn, `{"site_id":"s-1","latitude":52.1,"longitude":-0.4}`)},
		{name: "check-in missing site", r: receipt(models.KindCheckIn, `{"latitude":1}`), wantErr: ErrMissingField},
		{name: "check-in blank site", r: receipt(models.KindCheckIn, `{"site_id":"  "}`), wantErr: ErrMissingField},
		{name: "check-in bad latitude", r: receipt(models.KindCheckIn, `{"site_id":"s","latitude":91}`), wantErr: ErrInvalidField},
		{name: "check-in latitude not a number", r: receipt(models.KindCheckIn, `{"site_id":"s","longitude":"east"}`), wantErr: ErrInvalidField},
		{name: "photo valid", r: receipt(models.KindPhoto, `{"content_type":"image/png","data":"iVBORw0KGgo="}`)},
		{name: "photo missing data", r: receipt(models.KindPhoto, `{"content_type":"image/png"}`), wantErr: ErrMissingField},
		{name: "photo not base64", r: receipt(models.KindPhoto, `{"content_type":"image/png","data":"%%%"}`), wantErr: ErrInvalidField},
		{name: "photo not an image", r: receipt(models.KindPhoto, `{"content_type":"text/plain","data":"AAAA"}`), wantErr: ErrInvalidField},
		{name: "testimonial valid", r: receipt(models.KindTestimonial, `{"author":"Ann","text":"Great crew"}`)},
		{name: "testimonial missing author", r: receipt(models.KindTestimonial, `{"text":"Great crew"}`), wantErr: ErrMissingField},
		{name: "note valid", r: receipt(models.KindNote, `{"text":"gate locked"}`)},
		{name: "note too long", r: receipt(models.KindNote, `{"text":"`+strings.Repeat("a", maxTextLength+1)+`"}`), wantErr: ErrInvalidField},
		{name: "array payload", r: receipt(models.KindNote, `["text"]`), wantErr: ErrPayloadNotObject},
		{name: "null payload", r: receipt(models.KindNote, `null`), wantErr: ErrPayloadNotObject},
		{name: "malformed payload", r: receipt(models.KindNote, `{`), wantErr: ErrPayloadNotObject},
		{name: "unknown kind", r: receipt(models.OperationKind("invoice"), `{}`), wantErr: ErrInvalidKind},
		{name: "missing operation id", r: models.Receipt{Kind: models.KindNote, Payload: json.RawMessage(`{"text":"x"}`)}, wantErr: ErrInvalidOperationID},
	}

	v := NewOperationValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.r)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOperationValidator_FieldScoping(t *testing.T) {
	v := NewOperationValidator()
	r := models.Receipt{Kind: models.KindNote, Payload: json.RawMessage(`{"text":"x"}`)}

	// без operation_id, но проверяем только payload
	assert.NoError(t, v.Validate(context.Background(), &r, FieldPayload))
	assert.ErrorIs(t, v.Validate(context.Background(), &r, FieldOperationID), ErrInvalidOperationID)
	assert.ErrorIs(t, v.Validate(context.Background(), &r, "unknown"), ErrUnknownField)
}
