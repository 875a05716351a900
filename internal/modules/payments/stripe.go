package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LArkema/dctransistor-project/internal/config"
)

// StripeClient talks to the processor's REST API with a pre-configured
// bearer token. Auth flows are out of scope; the token is injected.
type StripeClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewStripeClient(cfg config.StripeConfig) *StripeClient {
	return &StripeClient{
		baseURL: cfg.APIBase,
		token:   cfg.Token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *StripeClient) PaymentIntent(ctx context.Context, id string) (PaymentIntent, error) {
	var pi PaymentIntent
	if err := c.getJSON(ctx, c.baseURL+"/payment_intents/"+id, &pi); err != nil {
		return PaymentIntent{}, fmt.Errorf("payment intent %s: %w", id, err)
	}
	return pi, nil
}

func (c *StripeClient) Charge(ctx context.Context, id string) (Charge, error) {
	var ch Charge
	if err := c.getJSON(ctx, c.baseURL+"/charges/"+id, &ch); err != nil {
		return Charge{}, fmt.Errorf("charge %s: %w", id, err)
	}
	return ch, nil
}

// Receipt fetches the rendered HTML receipt. Receipt URLs are public and
// unauthenticated.
func (c *StripeClient) Receipt(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("receipt fetch: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return "", fmt.Errorf("receipt fetch: status %d", res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *StripeClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return fmt.Errorf("status %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
