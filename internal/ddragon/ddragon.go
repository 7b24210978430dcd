// Package ddragon fetches static game data from the Data Dragon CDN: the
// list of published patch versions and the champion id to name mapping.
package ddragon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	baseURL        = "https://ddragon.leagueoflegends.com"
	requestTimeout = 30 * time.Second
)

// Client represents a Data Dragon client.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new Data Dragon client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Versions returns all published patch versions, newest first.
func (c *Client) Versions(ctx context.Context) ([]string, error) {
	var versions []string
	if err := c.get(ctx, baseURL+"/api/versions.json", &versions); err != nil {
		return nil, fmt.Errorf("failed to get versions: %w", err)
	}
	return versions, nil
}

// LatestVersion returns the newest published patch version.
func (c *Client) LatestVersion(ctx context.Context) (string, error) {
	versions, err := c.Versions(ctx)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("no versions published")
	}
	return versions[0], nil
}

type championFile struct {
	Data map[string]championEntry `json:"data"`
}

type championEntry struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// ChampionNames returns the champion id to display name mapping for a patch
// version.
func (c *Client) ChampionNames(ctx context.Context, version string) (map[int]string, error) {
	url := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", baseURL, version)

	var file championFile
	if err := c.get(ctx, url, &file); err != nil {
		return nil, fmt.Errorf("failed to get champion data for %s: %w", version, err)
	}

	names := make(map[int]string, len(file.Data))
	for _, entry := range file.Data {
		id, err := strconv.Atoi(entry.Key)
		if err != nil {
			return nil, fmt.Errorf("bad champion key %q: %w", entry.Key, err)
		}
		names[id] = entry.Name
	}
	return names, nil
}

func (c *Client) get(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return json.Unmarshal(body, result)
}

// PatchPrefix reduces a full game version (e.g. "14.10.591.2325") to its
// major.minor patch label (e.g. "14.10").
func PatchPrefix(gameVersion string) string {
	parts := strings.SplitN(gameVersion, ".", 3)
	if len(parts) < 2 {
		return gameVersion
	}
	return parts[0] + "." + parts[1]
}
