package mailerrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"bookstore/util/httpx"
)

type httpRepo struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTP talks to a JSON transactional-mail API. With an empty baseURL
// it degrades to a no-op so local dev works without a mail account.
func NewHTTP(baseURL, apiKey string) Repo {
	return &httpRepo{baseURL: baseURL, apiKey: apiKey, client: httpx.Client()}
}

func (r *httpRepo) Send(ctx context.Context, m Mail) error {
	if r.baseURL == "" {
		return nil
	}

	body := map[string]any{
		"to":      m.To,
		"name":    m.Name,
		"subject": m.Subject,
		"body":    m.Body,
	}
	b, _ := json.Marshal(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/messages", bytes.NewReader(b))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mailer send failed: %s", resp.Status)
	}
	return nil
}
