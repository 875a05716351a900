package inbox

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LArkema/dctransistor-project/internal/config"
)

const rawNotification = "From: notifications@stripe.com\r\nSubject: Payment received\r\n\r\npi_abc123\n"

func gmailTestServer(t *testing.T, modified *[]string) *httptest.Server {
	t.Helper()

	encoded := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(rawNotification))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gmail_test", r.Header.Get("Authorization"))
		assert.Equal(t, "is:unread from:notifications@stripe.com subject:Payment", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"messages":[{"id":"msg-1"}]}`)
	})
	mux.HandleFunc("GET /users/me/messages/msg-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "raw", r.URL.Query().Get("format"))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":           "msg-1",
			"raw":          encoded,
			"internalDate": "1767225600000",
		})
	})
	mux.HandleFunc("POST /users/me/messages/msg-1/modify", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			RemoveLabelIds []string `json:"removeLabelIds"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"UNREAD"}, body.RemoveLabelIds)
		*modified = append(*modified, "msg-1")
		fmt.Fprint(w, `{}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGmailClient_SearchUnread(t *testing.T) {
	var modified []string
	srv := gmailTestServer(t, &modified)
	c := NewGmailClient(config.InboxConfig{APIBase: srv.URL, Token: "gmail_test", UserID: "me"})

	msgs, err := c.SearchUnread(context.Background(), "notifications@stripe.com", "Payment")
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	assert.Equal(t, "msg-1", msgs[0].ID)
	assert.Contains(t, msgs[0].Raw, "pi_abc123")
	assert.Equal(t, time.UnixMilli(1767225600000), msgs[0].Date)
}

func TestGmailClient_MarkRead(t *testing.T) {
	var modified []string
	srv := gmailTestServer(t, &modified)
	c := NewGmailClient(config.InboxConfig{APIBase: srv.URL, Token: "gmail_test", UserID: "me"})

	require.NoError(t, c.MarkRead(context.Background(), "msg-1"))
	assert.Equal(t, []string{"msg-1"}, modified)
}

func TestGmailClient_SearchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	c := NewGmailClient(config.InboxConfig{APIBase: srv.URL, Token: "stale", UserID: "me"})

	_, err := c.SearchUnread(context.Background(), "notifications@stripe.com", "Payment")
	assert.ErrorContains(t, err, "status 401")
}
