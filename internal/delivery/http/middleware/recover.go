package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"devevent/internal/delivery/http/helpers"
)

// Recover turns a panicking handler into a 500 response and logs the stack.
func Recover(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.ErrorContext(r.Context(), "panic serving request",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", v,
					"stack", string(debug.Stack()),
				)
				helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, helpers.MsgInternalError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
