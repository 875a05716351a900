package payments

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LArkema/dctransistor-project/internal/config"
)

func stripeTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /payment_intents/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"id":"pi_abc","latest_charge":"ch_abc"}`)
	})
	mux.HandleFunc("GET /charges/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{
			"id": "ch_abc",
			"amount_captured": 2500,
			"receipt_url": "https://pay.example.com/r/2042",
			"receipt_number": "2042-1111",
			"shipping": {
				"name": "Ada Lovelace",
				"address": {"line1": "1600 Pennsylvania Ave NW", "city": "Washington", "state": "DC", "postal_code": "20500", "country": "US"}
			},
			"billing_details": {"email": "ada@example.com"}
		}`)
	})
	mux.HandleFunc("GET /receipts/", func(w http.ResponseWriter, r *http.Request) {
		// Receipt pages are public; no auth header expected.
		assert.Empty(t, r.Header.Get("Authorization"))
		fmt.Fprint(w, "<html>receipt</html>")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func stripeTestClient(srv *httptest.Server) *StripeClient {
	return NewStripeClient(config.StripeConfig{APIBase: srv.URL, Token: "sk_test"})
}

func TestStripeClient_PaymentIntent(t *testing.T) {
	srv := stripeTestServer(t)
	c := stripeTestClient(srv)

	pi, err := c.PaymentIntent(context.Background(), "pi_abc")
	require.NoError(t, err)
	assert.Equal(t, "pi_abc", pi.ID)
	assert.Equal(t, "ch_abc", pi.LatestCharge)
}

func TestStripeClient_Charge(t *testing.T) {
	srv := stripeTestServer(t)
	c := stripeTestClient(srv)

	ch, err := c.Charge(context.Background(), "ch_abc")
	require.NoError(t, err)
	assert.Equal(t, 2500, ch.AmountCaptured)
	assert.Equal(t, "2042-1111", ch.ReceiptNumber)
	assert.Equal(t, "Ada Lovelace", ch.Shipping.Name)
	assert.Equal(t, "20500", ch.Shipping.Address.PostalCode)
	assert.Equal(t, "ada@example.com", ch.BillingDetails.Email)
}

func TestStripeClient_Receipt(t *testing.T) {
	srv := stripeTestServer(t)
	c := stripeTestClient(srv)

	html, err := c.Receipt(context.Background(), srv.URL+"/receipts/2042")
	require.NoError(t, err)
	assert.Equal(t, "<html>receipt</html>", html)
}

func TestStripeClient_BadToken(t *testing.T) {
	srv := stripeTestServer(t)
	c := NewStripeClient(config.StripeConfig{APIBase: srv.URL, Token: "wrong"})

	_, err := c.PaymentIntent(context.Background(), "pi_abc")
	assert.ErrorContains(t, err, "status 401")
}
