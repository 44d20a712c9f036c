package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"gowms/internal/api/response"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/cache"
	"gowms/internal/pkg/logger"
)

// RateLimitError é devolvido com status 429.
type RateLimitError struct{}

func (RateLimitError) Error() string    { return "Limite de requisições excedido" }
func (RateLimitError) Category() string { return "RATE_LIMIT" }
func (RateLimitError) HTTPStatus() int  { return http.StatusTooManyRequests }
func (RateLimitError) Message() string {
	return "Muitas requisições. Aguarde um momento e tente novamente."
}
func (RateLimitError) Unwrap() error { return nil }

var _ apperror.AppError = RateLimitError{}

// RateLimiter limita requisições por IP numa janela fixa, contando no cache.
// Se o cache falhar a requisição segue: o limite não deve derrubar a API. limit <= 0 desliga.
func RateLimiter(client cache.Client, limit int, window time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate-limit:" + ip

			count, err := client.Incr(r.Context(), key, window)
			if err != nil {
				log.Warn("Falha ao consultar o rate limit no cache.", map[string]interface{}{"error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				response.Error(w, r, log, RateLimitError{})
				return
			}

			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			next.ServeHTTP(w, r)
		})
	}
}
