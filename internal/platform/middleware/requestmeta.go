package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"lendkit/pkg/requestcontext"
)

// RequestMeta assigns each request a correlation id (honoring an incoming
// X-Request-ID) and freezes the request time, so every log line and every
// timestamp within one request agree.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, requestcontext.Now(ctx))

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
