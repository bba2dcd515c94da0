package sender_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/puneetkushwaha/Mom-sKitchen-Backend/sender"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "+919876543210", sender.FormatPhone("9876543210"))
	assert.Equal(t, "+14155550100", sender.FormatPhone("+14155550100"))
	assert.Equal(t, "", sender.FormatPhone("  "))
}

func TestTwilioConfig_PlaceholderIsUnconfigured(t *testing.T) {
	assert.False(t, sender.TwilioConfig{}.Configured())
	assert.False(t, sender.TwilioConfig{AccountSID: "your_sid_here", AuthToken: "x"}.Configured())
	assert.True(t, sender.TwilioConfig{AccountSID: "AC123", AuthToken: "x"}.Configured())
}

func TestNewSenders_FallsBackToLog(t *testing.T) {
	s := sender.NewSenders(sender.SMTPConfig{}, sender.TwilioConfig{AccountSID: "your_sid_here"}, zap.NewNop())

	res, err := s.Chat.SendChat(context.Background(), "9876543210", "hello")
	require.NoError(t, err)
	assert.Equal(t, sender.ProviderLog, res.Provider)

	res, err = s.Email.SendEmail(context.Background(), "a@b.c", "subj", "<p>x</p>")
	require.NoError(t, err)
	assert.Equal(t, sender.ProviderLog, res.Provider)
}

func TestTwilioSender_SendChat_PrefixesWhatsApp(t *testing.T) {
	var gotTo, gotFrom, gotBody, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotPath = r.URL.Path
		gotTo = r.PostForm.Get("To")
		gotFrom = r.PostForm.Get("From")
		gotBody = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM42"}`))
	}))
	defer srv.Close()

	tw, err := sender.NewTwilioSender(sender.TwilioConfig{
		AccountSID:   "AC123",
		AuthToken:    "secret",
		WhatsAppFrom: "+14155238886",
		BaseURL:      srv.URL,
	})
	require.NoError(t, err)

	res, err := tw.SendChat(context.Background(), "9876543210", "Order packed")
	require.NoError(t, err)
	assert.Equal(t, "SM42", res.MessageID)
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "whatsapp:+919876543210", gotTo)
	assert.Equal(t, "whatsapp:+14155238886", gotFrom)
	assert.Equal(t, "Order packed", gotBody)
}

func TestTwilioSender_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid To"}`))
	}))
	defer srv.Close()

	tw, err := sender.NewTwilioSender(sender.TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15005550006",
		BaseURL:    srv.URL,
	})
	require.NoError(t, err)

	_, err = tw.SendSMS(context.Background(), "123", "hi")
	assert.Error(t, err)
}

func TestSMTPSender_StalledServerReleasesConnection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	closed := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			closed <- err
			return
		}
		defer conn.Close()
		// never send the greeting; wait for the client to hang up
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, err = conn.Read(make([]byte, 1))
		closed <- err
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	s, err := sender.NewSMTPSender(sender.SMTPConfig{Host: host, Port: port, Username: "kitchen", Password: "secret"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = s.SendEmail(ctx, "asha@example.com", "Order", "<p>hi</p>")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	select {
	case readErr := <-closed:
		var netErr net.Error
		if assert.Error(t, readErr) && errors.As(readErr, &netErr) {
			assert.False(t, netErr.Timeout(), "client should close the connection, not leave it open")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server never saw the connection close")
	}
}
