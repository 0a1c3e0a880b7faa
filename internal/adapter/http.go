package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/utils"
	"github.com/MKhiriev/go-field-sync/models"
)

const (
	operationsPath = "/api/operations/"

	headerIdempotencyKey = "Idempotency-Key"
	headerTraceID        = "X-Trace-ID"
)

type httpRemote struct {
	client    *utils.HTTPClient
	probePath string
	uuid      *utils.UUIDGenerator

	logger *logger.Logger
}

// NewHTTPSubmitter builds a [Router] with one HTTP handler per known
// operation kind. Every handler POSTs the raw payload to
// /api/operations/{kind} on the remote configured in adapterCfg.
//
// Returns [ErrInvalidAddress] (wrapped) if adapterCfg.HTTPAddress is empty or
// cannot be parsed as a URL.
func NewHTTPSubmitter(adapterCfg config.ClientAdapter, logger *logger.Logger) (*Router, error) {
	remote, err := newHTTPRemote(adapterCfg, logger)
	if err != nil {
		return nil, err
	}

	router := NewRouter()
	for _, kind := range models.OperationKinds {
		router.Register(kind, remote.kindHandler(kind))
	}

	return router, nil
}

// NewHTTPPinger returns a [Pinger] that GETs adapterCfg.ProbePath.
func NewHTTPPinger(adapterCfg config.ClientAdapter, logger *logger.Logger) (Pinger, error) {
	return newHTTPRemote(adapterCfg, logger)
}

func newHTTPRemote(adapterCfg config.ClientAdapter, logger *logger.Logger) (*httpRemote, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	return &httpRemote{
		client:    utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		probePath: adapterCfg.ProbePath,
		uuid:      utils.NewUUIDGenerator(),
		logger:    logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpRemote) kindHandler(kind models.OperationKind) KindHandler {
	path := operationsPath + url.PathEscape(kind.String())

	return KindHandlerFunc(func(ctx context.Context, payload json.RawMessage) error {
		req := h.request(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody([]byte(payload))

		if id, ok := utils.GetOperationIDFromContext(ctx); ok {
			req.SetHeader(headerIdempotencyKey, id)
		}

		resp, err := req.Post(path)
		if err != nil {
			return fmt.Errorf("submit %s: %w", kind, err)
		}

		h.logger.Debug().
			Str("kind", kind.String()).
			Int("status", resp.StatusCode()).
			Dur("elapsed", resp.Time()).
			Msg("submit response")

		if err = mapHTTPError(resp); err != nil {
			return fmt.Errorf("submit %s: %w", kind, err)
		}
		return nil
	})
}

// Ping implements [Pinger].
func (h *httpRemote) Ping(ctx context.Context) error {
	resp, err := h.request(ctx).Get(h.probePath)
	if err != nil {
		return fmt.Errorf("ping request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemote) request(ctx context.Context) *resty.Request {
	traceID, ok := utils.GetTraceIDFromContext(ctx)
	if !ok {
		traceID = h.uuid.Generate()
	}

	return h.client.R().
		SetContext(ctx).
		SetHeader(headerTraceID, traceID)
}
