// internal/common/errors/handler.go
package errors

// ErrorHandler classifies and logs errors caught at the request boundary.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleRequestError normalizes err and logs it. User-correctable errors are
// logged at warn, everything else at error.
func (h *ErrorHandler) HandleRequestError(requestID string, err error) *StandardError {
	stdErr := Normalize(err)
	if stdErr == nil {
		return nil
	}

	fields := map[string]interface{}{
		"requestId":     requestID,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
		"status":        HTTPStatus(stdErr.Code),
	}

	if stdErr.Code == ErrCodeFormatError {
		h.logger.Warn("request rejected", fields)
	} else {
		h.logger.Error("request failed", fields)
	}

	return stdErr
}
