package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const latestReleaseURL = "https://api.github.com/repos/regenrek/metarbar/releases/latest"

// RegistryClient retrieves the latest version.
type RegistryClient interface {
	LatestVersion(ctx context.Context) (string, error)
}

// ReleaseClient fetches versions from GitHub releases.
type ReleaseClient struct {
	HTTPClient *http.Client
	UserAgent  string
}

type latestReleaseResponse struct {
	TagName string `json:"tag_name"`
}

// LatestVersion implements RegistryClient.
func (c ReleaseClient) LatestVersion(ctx context.Context) (version string, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, latestReleaseURL, nil)
	if err != nil {
		return "", fmt.Errorf("release request: %w", err)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = "metarbar/auto-update"
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("release request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("release close response: %w", cerr)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release status %d", resp.StatusCode)
	}
	var payload latestReleaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("release decode: %w", err)
	}
	if strings.TrimSpace(payload.TagName) == "" {
		return "", fmt.Errorf("release response missing tag")
	}
	return payload.TagName, nil
}
