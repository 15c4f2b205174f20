// Package webhook serves the chat platform skill endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "pension-webhook/internal/common/errors"
	"pension-webhook/internal/common/logger"
	"pension-webhook/internal/common/metrics"
	"pension-webhook/internal/common/observability"
	"pension-webhook/internal/common/validation"
	"pension-webhook/internal/lookup"
	"pension-webhook/internal/models"
)

const RequestIDHeader = "X-Request-ID"

type Handler struct {
	config       *Config
	service      *lookup.Service
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
	obs          *observability.Observability
}

// NewHandler builds the check-pension handler. obs may be nil.
func NewHandler(config *Config, service *lookup.Service, log logger.Logger, obs *observability.Observability) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"component": "webhook"})
	return &Handler{
		config:       config,
		service:      service,
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
		obs:          obs,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, requestID)
	log := h.logger.WithFields(map[string]interface{}{"requestId": requestID})

	ctx := r.Context()
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	result, err := h.execute(ctx, w, r, log)

	text, status := lookup.Format(result, err)
	outcome := lookup.Outcome(result, err)
	if err != nil {
		h.errorHandler.HandleRequestError(requestID, lookup.Classify(err))
	}

	elapsed := time.Since(start)
	metrics.WebhookRequests.WithLabelValues(outcome).Inc()
	metrics.WebhookRequestDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	h.obs.RecordLookup(ctx, outcome)
	h.obs.RecordLookupDuration(ctx, elapsed, outcome)

	log.Info("response sent", map[string]interface{}{
		"outcome":    outcome,
		"status":     status,
		"durationMs": elapsed.Milliseconds(),
	})

	writeJSON(w, status, models.NewSimpleTextResponse(text), log)
}

// execute never panics; a recovered panic is returned as an error.
func (h *Handler) execute(ctx context.Context, w http.ResponseWriter, r *http.Request, log logger.Logger) (result lookup.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = apperrors.NewInternalError(fmt.Errorf("%v", rec))
		}
	}()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes))
	if err != nil {
		return lookup.Result{}, apperrors.NewFormatError(fmt.Sprintf("read body: %v", err))
	}

	input, err := parseInput(body)
	if err != nil {
		return lookup.Result{}, err
	}
	log.Info("utterance received", map[string]interface{}{"utterance": input})

	q, result, err := h.service.Check(ctx, input)
	if err != nil {
		return lookup.Result{}, err
	}
	log.Debug("lookup resolved", map[string]interface{}{
		"name":           q.Name,
		"employeeId":     q.EmployeeID,
		"classification": string(result.Classification),
	})
	return result, nil
}

// parseInput validates the skill payload and returns the trimmed utterance.
func parseInput(body []byte) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", apperrors.NewFormatError("empty body")
	}

	vr, err := validation.ValidateSkillRequest(body)
	if err != nil {
		return "", apperrors.NewFormatError(fmt.Sprintf("malformed json: %v", err))
	}
	if !vr.Valid {
		return "", apperrors.NewFormatError(strings.Join(vr.GetErrorMessages(), "; "))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var req models.SkillRequest
	if err := dec.Decode(&req); err != nil {
		return "", apperrors.NewFormatError(fmt.Sprintf("decode body: %v", err))
	}

	input := req.Input()
	if input == "" {
		return "", apperrors.NewFormatError("neither action.params.user_input nor utterance is set")
	}
	return input, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, log logger.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("failed to write response", map[string]interface{}{
			"status": status,
			"error":  err.Error(),
		})
	}
}
