package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-field-sync/internal/app"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"

	// maxOperationBody bounds a single payload; photos arrive base64-encoded.
	maxOperationBody = 8 << 20
)

func (h *Handler) acceptOperation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)
	kind := models.OperationKind(chi.URLParam(r, "kind"))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxOperationBody))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		log.Err(err).Str("func", "*Handler.acceptOperation").Msg("error reading request body")
		h.reject(w, kind, ErrUnreadableBody.Error(), status)
		return
	}

	if !json.Valid(body) {
		log.Error().Str("func", "*Handler.acceptOperation").Msg("invalid JSON was passed")
		h.reject(w, kind, ErrMalformedPayload.Error(), http.StatusBadRequest)
		return
	}

	traceID, _ := utils.GetTraceIDFromContext(ctx)
	operationID := r.Header.Get(idempotencyKeyHeader)

	response, err := h.services.ReceiptService.Accept(ctx, kind, operationID, traceID, body)
	if err != nil {
		status := statusFromError(err)
		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Err(err).Str("func", "*Handler.acceptOperation").
			Str("kind", kind.String()).Str("operation_id", operationID).Msg("operation rejected")
		h.reject(w, kind, err.Error(), status)
		return
	}

	status := http.StatusCreated
	if response.Duplicate {
		status = http.StatusOK
		h.observer.OperationDuplicate(kind)
	} else {
		h.observer.OperationAccepted(kind)
	}

	if _, err = utils.WriteJSON(w, response, status); err != nil {
		log.Err(err).Str("func", "*Handler.acceptOperation").Msg("error writing response")
	}
}

func (h *Handler) reject(w http.ResponseWriter, kind models.OperationKind, msg string, status int) {
	h.observer.OperationRejected(kind, status)
	http.Error(w, app.PublicMessage(status, msg), status)
}
