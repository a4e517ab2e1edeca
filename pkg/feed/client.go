package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client downloads the raw vehicle position payload from the realtime feed.
type Client struct {
	URL       string
	UserAgent string

	httpClient *http.Client
}

func NewClient(url string, userAgent string, timeout time.Duration) *Client {
	return &Client{
		URL:       url,
		UserAgent: userAgent,

		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.URL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}
