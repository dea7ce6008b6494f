package testutil

import (
	"net/http"
	"time"

	"chancery/pkg/requestcontext"
)

// WithActor stamps the request context with an authenticated chancery user,
// the way the auth middleware would.
func WithActor(req *http.Request, actor string) *http.Request {
	ctx := requestcontext.WithActor(req.Context(), actor)
	return req.WithContext(ctx)
}

// WithRequestID stamps the request context with a request ID.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	return req.WithContext(ctx)
}

// WithFixedTime pins the request time so handlers produce deterministic
// timestamps.
func WithFixedTime(req *http.Request, now time.Time) *http.Request {
	ctx := requestcontext.WithTime(req.Context(), now)
	return req.WithContext(ctx)
}
