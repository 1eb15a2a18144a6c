package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

// HeaderInternalToken заголовок с токеном для внутренних эндпоинтов
const HeaderInternalToken = "X-Internal-Token"

const msgInvalidInternalToken = "некорректный внутренний токен"

// InternalToken пропускает только запросы с совпадающим X-Internal-Token.
// Пустой token закрывает эндпоинты полностью.
func InternalToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderInternalToken)
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				handlers.RespondUnauthorized(w, msgInvalidInternalToken)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
