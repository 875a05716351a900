package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMIMEMessage_MultipartAlternative(t *testing.T) {
	raw, err := buildMIMEMessage(Email{
		FromName: "DCTransistor Orders",
		From:     "orders@dctransistor.com",
		ReplyTo:  "orders@dctransistor.com",
		To:       []string{"ada@example.com"},
		Subject:  "Confirmation: DCTransistor Board Order 2042-1111",
		TextBody: "plain body",
		HTMLBody: "<p>html body</p>",
	}, "dctransistor.com")
	require.NoError(t, err)

	assert.Contains(t, raw, "From: DCTransistor Orders <orders@dctransistor.com>\r\n")
	assert.Contains(t, raw, "To: ada@example.com\r\n")
	assert.Contains(t, raw, "Reply-To: orders@dctransistor.com\r\n")
	assert.Contains(t, raw, "Subject: Confirmation: DCTransistor Board Order 2042-1111\r\n")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, raw, "plain body")
	assert.Contains(t, raw, "<p>html body</p>")
	assert.Contains(t, raw, "Message-ID: <")
	assert.Contains(t, raw, "@dctransistor.com>")
}

func TestBuildMIMEMessage_TextOnly(t *testing.T) {
	raw, err := buildMIMEMessage(Email{
		From:     "orders@dctransistor.com",
		To:       []string{"operator@dctransistor.com"},
		Subject:  "NEW LOCAL PICKUP",
		TextBody: "Receipt 2042-1111",
	}, "dctransistor.com")
	require.NoError(t, err)

	assert.NotContains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, raw, "Receipt 2042-1111")
	// Bare address when no display name is set.
	assert.Contains(t, raw, "From: orders@dctransistor.com\r\n")
}

func TestBuildMIMEMessage_Validation(t *testing.T) {
	cases := []struct {
		name string
		e    Email
	}{
		{"no recipient", Email{From: "a@b.c", Subject: "s", TextBody: "t"}},
		{"no from", Email{To: []string{"a@b.c"}, Subject: "s", TextBody: "t"}},
		{"no subject", Email{From: "a@b.c", To: []string{"a@b.c"}, TextBody: "t"}},
		{"no body", Email{From: "a@b.c", To: []string{"a@b.c"}, Subject: "s"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildMIMEMessage(tc.e, "local")
			assert.Error(t, err)
		})
	}
}

func TestFormatAddress_EncodesDisplayName(t *testing.T) {
	out := formatAddress("Müşteri Hizmetleri", "help@example.com")
	assert.True(t, strings.HasPrefix(out, "=?utf-8?q?"))
	assert.True(t, strings.HasSuffix(out, "<help@example.com>"))
}
