// Package github is a thin read-only client for the repository listing
// endpoint of the GitHub REST API.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Client lists a user's public repositories with a static token.
// Callers treat every failure mode (network, 404, rate limit) the same,
// so errors carry no taxonomy.
type Client struct {
	http    *http.Client
	token   string
	baseURL string
}

func NewClient(token string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		token:   token,
		baseURL: defaultBaseURL,
	}
}

// Repos fetches the five most recently created repositories for a
// username, returning the upstream JSON untouched.
func (c *Client) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	u := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc", c.baseURL, url.PathEscape(username))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "service-social-go")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github responded %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
