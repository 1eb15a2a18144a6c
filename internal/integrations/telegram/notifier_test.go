package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbot "github.com/go-telegram/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/notification"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

func newTestNotifier(t *testing.T, handler http.HandlerFunc) *Notifier {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	n, err := NewNotifier("123:token", logger.NewNop(), tgbot.WithServerURL(srv.URL), tgbot.WithSkipGetMe())
	require.NoError(t, err)
	return n
}

func TestNotifier_Send(t *testing.T) {
	var path string
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":     true,
			"result": map[string]interface{}{"message_id": 77, "date": 0, "chat": map[string]interface{}{"id": 42, "type": "private"}},
		})
	})

	err := n.Send(context.Background(), notification.Recipient{UserID: 42}, "Напоминание")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "/sendMessage"), path)
}

func TestNotifier_SendFailure(t *testing.T) {
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`))
	})

	err := n.Send(context.Background(), notification.Recipient{UserID: 42}, "text")
	assert.ErrorIs(t, err, ErrSendFailed)
}

func TestNotifier_NoUser(t *testing.T) {
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})

	err := n.Send(context.Background(), notification.Recipient{Phone: "+79990000000"}, "text")
	assert.ErrorIs(t, err, notification.ErrNoDestination)
}
