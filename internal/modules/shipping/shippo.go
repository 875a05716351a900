package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LArkema/dctransistor-project/internal/config"
)

// ShippoClient implements Broker against the Shippo REST API.
type ShippoClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewShippoClient(cfg config.ShippoConfig) *ShippoClient {
	return &ShippoClient{
		baseURL: cfg.APIBase,
		token:   cfg.Token,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *ShippoClient) CreateTransaction(ctx context.Context, req TransactionRequest) (Transaction, []byte, error) {
	var tr Transaction
	raw, err := c.post(ctx, c.baseURL+"/transactions/", req, &tr)
	if err != nil {
		return Transaction{}, raw, fmt.Errorf("broker transaction: %w", err)
	}
	return tr, raw, nil
}

func (c *ShippoClient) GetTransaction(ctx context.Context, objectID string) (Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transactions/"+objectID, nil)
	if err != nil {
		return Transaction{}, err
	}
	req.Header.Set("Authorization", "ShippoToken "+c.token)

	res, err := c.http.Do(req)
	if err != nil {
		return Transaction{}, fmt.Errorf("broker transaction %s: %w", objectID, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return Transaction{}, fmt.Errorf("broker transaction %s: status %d", objectID, res.StatusCode)
	}

	var tr Transaction
	if err := json.NewDecoder(res.Body).Decode(&tr); err != nil {
		return Transaction{}, err
	}
	return tr, nil
}

func (c *ShippoClient) SchedulePickup(ctx context.Context, req PickupRequest) (Pickup, []byte, error) {
	var p Pickup
	raw, err := c.post(ctx, c.baseURL+"/pickups/", req, &p)
	if err != nil {
		return Pickup{}, raw, fmt.Errorf("broker pickup: %w", err)
	}
	return p, raw, nil
}

// post sends JSON and returns the raw response body alongside the decoded
// value so callers can log broker rejections verbatim.
func (c *ShippoClient) post(ctx context.Context, url string, payload any, out any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "ShippoToken "+c.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 400 {
		return raw, fmt.Errorf("status %d", res.StatusCode)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return raw, err
	}
	return raw, nil
}
