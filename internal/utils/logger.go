package utils

import (
	"context"
	"log"
	"strings"
)

type requestIDKey struct{}

// WithRequestID tags ctx so services called with it log the request id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFrom returns the id set by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// LogEvent prints one tagged line: "[MODULE] action=... request_id=... msg=...".
// request_id is left out for events that do not come from an HTTP request.
// Keep message to ids and counts; never log passenger details.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		log.Printf("[%s] action=%s msg=%s", strings.ToUpper(module), action, message)
		return
	}
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}
