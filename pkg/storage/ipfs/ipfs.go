// Package ipfs stores payloads through the Kubo RPC API (/api/v0/add).
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/roboricindustries/raycon-notify/pkg/storage"
)

const defaultTimeout = 60 * time.Second

type Config struct {
	// APIURL is the RPC base, e.g. http://127.0.0.1:5001
	APIURL string
	// Pin keeps the payload on the node that received it.
	Pin bool
	// CIDVersion of returned pointers, 0 or 1.
	CIDVersion int
}

var _ storage.Store = (*Client)(nil)

type Client struct {
	base string
	cfg  Config
	http *http.Client
}

// New returns a client; a nil httpClient gets a default with a 60s timeout.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(cfg.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid ipfs api url %q", cfg.APIURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		base: strings.TrimRight(cfg.APIURL, "/"),
		cfg:  cfg,
		http: httpClient,
	}, nil
}

type addResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

// Put uploads payload and returns its CID.
func (c *Client) Put(ctx context.Context, payload []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "payload.json")
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(payload); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("pin", fmt.Sprint(c.cfg.Pin))
	q.Set("cid-version", fmt.Sprint(c.cfg.CIDVersion))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/v0/add?"+q.Encode(), &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ipfs add: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ipfs add: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out addResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ipfs add: decode response: %w", err)
	}
	if out.Hash == "" {
		return "", fmt.Errorf("ipfs add: response without hash")
	}
	return out.Hash, nil
}

// Get reads a payload back by CID.
func (c *Client) Get(ctx context.Context, cid string) ([]byte, error) {
	q := url.Values{}
	q.Set("arg", cid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/v0/cat?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ipfs cat: %w", err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, storage.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("ipfs cat: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
