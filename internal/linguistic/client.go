package linguistic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to a remote linguist-server.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 1500 * time.Millisecond
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// TokensRequest is the wire body of the stopword and stem endpoints.
type TokensRequest struct {
	Tokens []string `json:"tokens"`
}

// TextRequest is the wire body of the tokenize endpoint.
type TextRequest struct {
	Text string `json:"text"`
}

type TokensResponse struct {
	Tokens []string `json:"tokens"`
}

func (c *Client) Tokenize(ctx context.Context, text string) ([]string, error) {
	return c.call(ctx, "/v1/tokenize", TextRequest{Text: text})
}

func (c *Client) RemoveStopwords(ctx context.Context, tokens []string) ([]string, error) {
	return c.call(ctx, "/v1/stopwords", TokensRequest{Tokens: tokens})
}

func (c *Client) Stem(ctx context.Context, tokens []string) ([]string, error) {
	return c.call(ctx, "/v1/stem", TokensRequest{Tokens: tokens})
}

func (c *Client) call(ctx context.Context, path string, payload any) ([]string, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("linguistic service is not configured")
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("linguistic service %s status=%d body=%s", path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out TokensResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	if out.Tokens == nil {
		out.Tokens = []string{}
	}
	return out.Tokens, nil
}
