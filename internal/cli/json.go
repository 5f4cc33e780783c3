package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/wastewise/wastewise/internal/errors"
)

// Machine mode flag - when true, outputs JSON and suppresses human-friendly decorations
var machineMode bool

// MachineMode returns true if machine-readable output is enabled
func MachineMode() bool {
	return machineMode
}

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound     = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid      = "CONFIG_INVALID"
	ErrCodeRequestFailed      = "REQUEST_FAILED"
	ErrCodeBackendUnreachable = "BACKEND_UNREACHABLE"
	ErrCodeBadResponse        = "BAD_RESPONSE"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeUnknown            = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONError writes an error response to the writer.
func WriteJSONError(w io.Writer, code, message, suggestion string, details interface{}) error {
	env := JSONEnvelope{
		Success: false,
		Error: &JSONError{
			Code:       code,
			Message:    message,
			Suggestion: suggestion,
			Details:    details,
		},
	}
	return writeJSONEnvelope(w, env)
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: false, Error: ErrorToJSON(err)})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// writeJSONLine writes the envelope on a single line, for streamed output.
func writeJSONLine(w io.Writer, data interface{}) error {
	return json.NewEncoder(w).Encode(JSONEnvelope{Success: true, Data: data})
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var wwErr *errors.Error
	if stderrors.As(err, &wwErr) {
		jsonErr := &JSONError{
			Code:       mapErrorCode(wwErr.Code, wwErr.Message),
			Message:    wwErr.Message,
			Suggestion: wwErr.Suggestion,
		}
		if wwErr.Op != "" {
			details := map[string]interface{}{"operation": wwErr.Op}
			if wwErr.Status != 0 {
				details["status"] = wwErr.Status
			}
			if wwErr.Cause != nil {
				details["cause"] = wwErr.Cause.Error()
			}
			jsonErr.Details = details
		}
		return jsonErr
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		msgLower := strings.ToLower(message)
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrRequest:
		return ErrCodeRequestFailed
	case errors.ErrNetwork:
		return ErrCodeBackendUnreachable
	case errors.ErrDecode:
		return ErrCodeBadResponse
	case errors.ErrInput:
		return ErrCodeInvalidInput
	}
	return ErrCodeUnknown
}

// emit writes data as a JSON envelope in machine mode, or calls human otherwise.
func emit(w io.Writer, data interface{}, human func() error) error {
	if machineMode {
		return WriteJSONSuccess(w, data)
	}
	return human()
}
