package server

import (
	"net/http"

	"github.com/google/uuid"

	"wealth-advisor/internal/common/logger"
)

const requestIDHeader = "X-Request-Id"

// requestID tags every request with a UUID, echoes it in the response, and
// logs request completion.
func requestID(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			log.Debug("request started", map[string]interface{}{
				"requestId": id,
				"method":    r.Method,
				"path":      r.URL.Path,
			})

			next.ServeHTTP(w, r)
		})
	}
}

// cors mirrors the permissive policy of the original deployment: the API is
// consumed by a browser frontend on a different origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
