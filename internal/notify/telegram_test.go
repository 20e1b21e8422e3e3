package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barberbook/internal/model"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

var booking = model.Booking{
	Slot:    model.BookingSlot{Date: model.Date{Year: 2025, Month: time.June, Day: 14}, Time: model.At(11)},
	Service: "Corte",
}

func TestNotifyBooking(t *testing.T) {
	s := &fakeSender{}
	err := New(s, 42, nil).NotifyBooking(context.Background(), booking, "hola")
	require.NoError(t, err)

	require.Len(t, s.sent, 1)
	msg, ok := s.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "📥 Nueva reserva 2025-06-14 11:00\n\nhola", msg.Text)
}

func TestNotifyBooking_Error(t *testing.T) {
	s := &fakeSender{err: errors.New("forbidden")}
	err := New(s, 42, nil).NotifyBooking(context.Background(), booking, "hola")
	assert.ErrorContains(t, err, "forbidden")
}

func TestNewTelegram_AgainstFakeAPI(t *testing.T) {
	var sentText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"barber","username":"barber_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "42", r.FormValue("chat_id"))
			sentText = r.FormValue("text")
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tg, err := NewTelegram("token", srv.URL+"/bot%s/%s", 42, srv.Client(), nil)
	require.NoError(t, err)
	require.NoError(t, tg.NotifyBooking(context.Background(), booking, "hola"))
	assert.Contains(t, sentText, "hola")
}
