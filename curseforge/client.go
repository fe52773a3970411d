package curseforge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"curse-update-proxy/config"
)

// ErrModNotFound is returned by GetMod when the API answers 404.
var ErrModNotFound = errors.New("mod not found")

// StatusError is a non-2xx answer from the API or the download CDN.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api request to %s failed: status %d, body: %s", e.URL, e.StatusCode, e.Body)
}

// Client handles communication with the CurseForge addon API.
type Client struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// NewClient creates a new CurseForge API client using the provided configuration.
func NewClient(cfg config.Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("USERAGENT is not configured")
	}
	if cfg.CurseAPIURL == "" {
		return nil, fmt.Errorf("CURSE_API_URL is not configured")
	}

	return &Client{
		BaseURL:   cfg.CurseAPIURL,
		UserAgent: cfg.UserAgent,
		HTTPClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}, nil
}

func (c *Client) makeRequest(ctx context.Context, fullURL string, isBinary bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.UserAgent)
	if isBinary {
		req.Header.Set("Accept", "application/octet-stream")
	} else {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return resp, &StatusError{StatusCode: resp.StatusCode, URL: fullURL, Body: string(bodyBytes)}
	}

	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, target any) (*http.Response, error) {
	resp, err := c.makeRequest(ctx, c.BaseURL+path, false)
	if err != nil {
		return resp, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return resp, fmt.Errorf("failed to decode json response: %w", err)
	}
	return resp, nil
}

// GetMod retrieves the addon record for modID. A 404 from the API is reported as ErrModNotFound.
func (c *Client) GetMod(ctx context.Context, modID int) (*Mod, error) {
	var mod Mod
	_, err := c.getJSON(ctx, "/addon/"+url.PathEscape(strconv.Itoa(modID)), &mod)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, ErrModNotFound
		}
		return nil, fmt.Errorf("failed to get mod %d: %w", modID, err)
	}
	return &mod, nil
}

// GetFiles retrieves every published file of modID.
func (c *Client) GetFiles(ctx context.Context, modID int) ([]File, error) {
	var files []File
	_, err := c.getJSON(ctx, "/addon/"+url.PathEscape(strconv.Itoa(modID))+"/files", &files)
	if err != nil {
		return nil, fmt.Errorf("failed to get files for mod %d: %w", modID, err)
	}
	return files, nil
}

// DownloadFile fetches downloadURL into memory.
func (c *Client) DownloadFile(ctx context.Context, downloadURL string) ([]byte, error) {
	resp, err := c.makeRequest(ctx, downloadURL, true)
	if err != nil {
		return nil, fmt.Errorf("failed to start download from %s: %w", downloadURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read download from %s: %w", downloadURL, err)
	}
	return data, nil
}
