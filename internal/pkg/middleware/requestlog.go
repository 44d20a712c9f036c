package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"gowms/internal/api/response"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger atribui um X-Request-ID (o do cliente, se for UUID), registra método, caminho, status e duração,
// e converte panics em 500.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := clientRequestID(r.Header.Get("X-Request-ID"))
			w.Header().Set("X-Request-ID", requestID)
			r = r.WithContext(context.WithValue(r.Context(), RequestIDKey, requestID))

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				if p := recover(); p != nil {
					response.Error(rec, r, log, apperror.NewInternalError("panic no handler", fmt.Errorf("%v", p)))
				}
				log.Info("Requisição HTTP", map[string]interface{}{
					"request_id":  requestID,
					"method":      r.Method,
					"path":        r.URL.Path,
					"status":      rec.status,
					"duration_ms": time.Since(start).Milliseconds(),
				})
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

// clientRequestID aceita apenas um UUID vindo do cliente; qualquer outro valor é trocado por um novo.
func clientRequestID(header string) string {
	if len(header) <= 45 {
		if id, err := uuid.Parse(header); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}

// RequestIDFromContext devolve o id atribuído pelo RequestLogger.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
