package inbox

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/LArkema/dctransistor-project/internal/config"
)

// GmailClient implements Client against the Gmail REST API with a
// pre-configured bearer token.
type GmailClient struct {
	baseURL string
	token   string
	userID  string
	http    *http.Client
}

func NewGmailClient(cfg config.InboxConfig) *GmailClient {
	return &GmailClient{
		baseURL: cfg.APIBase,
		token:   cfg.Token,
		userID:  cfg.UserID,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type gmailMessageRef struct {
	ID string `json:"id"`
}

type gmailListResponse struct {
	Messages []gmailMessageRef `json:"messages"`
}

type gmailMessage struct {
	ID           string `json:"id"`
	Raw          string `json:"raw"`
	InternalDate string `json:"internalDate"` // epoch millis as string
}

func (c *GmailClient) SearchUnread(ctx context.Context, from, subject string) ([]Message, error) {
	q := fmt.Sprintf("is:unread from:%s subject:%s", from, subject)
	listURL := fmt.Sprintf("%s/users/%s/messages?q=%s", c.baseURL, c.userID, url.QueryEscape(q))

	var list gmailListResponse
	if err := c.do(ctx, http.MethodGet, listURL, nil, &list); err != nil {
		return nil, fmt.Errorf("inbox search: %w", err)
	}

	out := make([]Message, 0, len(list.Messages))
	for _, ref := range list.Messages {
		msgURL := fmt.Sprintf("%s/users/%s/messages/%s?format=raw", c.baseURL, c.userID, ref.ID)
		var gm gmailMessage
		if err := c.do(ctx, http.MethodGet, msgURL, nil, &gm); err != nil {
			return nil, fmt.Errorf("inbox fetch %s: %w", ref.ID, err)
		}

		raw, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(gm.Raw)
		if err != nil {
			return nil, fmt.Errorf("inbox decode %s: %w", ref.ID, err)
		}

		ms, _ := strconv.ParseInt(gm.InternalDate, 10, 64)
		out = append(out, Message{
			ID:   gm.ID,
			Date: time.UnixMilli(ms),
			Raw:  string(raw),
		})
	}
	return out, nil
}

func (c *GmailClient) MarkRead(ctx context.Context, id string) error {
	modURL := fmt.Sprintf("%s/users/%s/messages/%s/modify", c.baseURL, c.userID, id)
	body := map[string]any{"removeLabelIds": []string{"UNREAD"}}
	if err := c.do(ctx, http.MethodPost, modURL, body, nil); err != nil {
		return fmt.Errorf("inbox mark read %s: %w", id, err)
	}
	return nil
}

func (c *GmailClient) do(ctx context.Context, method, rawURL string, body any, out any) error {
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return fmt.Errorf("status %d", res.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
