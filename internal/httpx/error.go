// Package httpx writes JSON responses and the error envelope shared by
// middleware and handlers.
package httpx

import "net/http"

type ErrorEnvelope struct {
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"requestId"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := RequestIDFromContext(r.Context())
	if requestID == "" {
		requestID = w.Header().Get(RequestIDHeader)
	}
	WriteJSON(w, status, ErrorEnvelope{
		Error:     ErrorBody{Code: code, Message: message, Details: details},
		RequestID: requestID,
	})
}
