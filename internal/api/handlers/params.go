package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ErrInvalidID возвращается для нечислового или неположительного ID
var ErrInvalidID = errors.New("invalid id")

// PathID извлекает положительный int64 из переменной маршрута
func PathID(r *http.Request, name string) (int64, error) {
	return parseID(mux.Vars(r)[name])
}

// QueryID извлекает положительный int64 из query параметра
func QueryID(r *http.Request, name string) (int64, error) {
	return parseID(r.URL.Query().Get(name))
}

// QueryDate извлекает дату YYYY-MM-DD в часовом поясе loc, пустое значение - nil
func QueryDate(r *http.Request, name string, loc *time.Location) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	date, err := time.ParseInLocation(domain.DateFormat, raw, loc)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// QueryString возвращает указатель на непустой query параметр
func QueryString(r *http.Request, name string) *string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	return &raw
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
