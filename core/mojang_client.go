package core

// Mojang Client (§4.1, §6): a thin HTTP client against the upstream
// profile API. Grounded on the teacher's IPFSService (core/ipfs.go) shape —
// a small struct wrapping a pooled *http.Client plus a logger, with one
// method per upstream call built from http.NewRequestWithContext.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// MojangClientConfig carries the upstream base URLs and per-request
// timeout (§6 configuration).
type MojangClientConfig struct {
	UUIDBaseURL      string // https://api.mojang.com/users/profiles/minecraft
	UUIDsBaseURL     string // https://api.mojang.com/profiles/minecraft
	ProfileBaseURL   string // https://sessionserver.mojang.com/session/minecraft/profile
	TextureAllowHost string // textures.minecraft.net
	RequestTimeout   time.Duration
}

// DefaultMojangClientConfig returns the exact upstream paths from §6.
func DefaultMojangClientConfig() MojangClientConfig {
	return MojangClientConfig{
		UUIDBaseURL:      "https://api.mojang.com/users/profiles/minecraft",
		UUIDsBaseURL:     "https://api.mojang.com/profiles/minecraft",
		ProfileBaseURL:   "https://sessionserver.mojang.com/session/minecraft/profile",
		TextureAllowHost: "textures.minecraft.net",
		RequestTimeout:   5 * time.Second,
	}
}

// MojangClient issues the four upstream operations of §4.1.
type MojangClient struct {
	cfg    MojangClientConfig
	client *http.Client
	log    *logrus.Logger
}

// NewMojangClient constructs a MojangClient sharing one pooled *http.Client
// across all calls (§5: "the HTTP client is a shared pooled client").
func NewMojangClient(cfg MojangClientConfig, log *logrus.Logger) *MojangClient {
	return &MojangClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		log: log,
	}
}

type rawUUIDResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Legacy bool   `json:"legacy"`
	Demo   bool   `json:"demo"`
}

func (r rawUUIDResponse) toPayload() (UuidPayload, error) {
	id, err := ParseUUID(r.ID)
	if err != nil {
		return UuidPayload{}, NewError(KindInternal, "malformed uuid in upstream response", err)
	}
	return UuidPayload{Name: r.Name, UUID: id, Legacy: r.Legacy, Demo: r.Demo}, nil
}

// GetUUID issues GET {UUIDBaseURL}/{name} (§6). A 2xx body is a hit; 204/404
// is reported via the bool return being false; anything else classifies to
// a *Error of KindRateLimited or KindUnavailable.
func (c *MojangClient) GetUUID(ctx context.Context, name string) (UuidPayload, bool, error) {
	u := c.cfg.UUIDBaseURL + "/" + url.PathEscape(name)
	resp, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return UuidPayload{}, false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound:
		return UuidPayload{}, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return UuidPayload{}, false, NewError(KindRateLimited, "uuid lookup rate limited", nil)
	case resp.StatusCode >= 500:
		return UuidPayload{}, false, NewError(KindUnavailable, fmt.Sprintf("uuid lookup upstream %d", resp.StatusCode), nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return UuidPayload{}, false, NewError(KindUnavailable, fmt.Sprintf("uuid lookup unexpected status %d", resp.StatusCode), nil)
	}

	var raw rawUUIDResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return UuidPayload{}, false, NewError(KindInternal, "malformed uuid response body", err)
	}
	payload, err := raw.toPayload()
	if err != nil {
		return UuidPayload{}, false, err
	}
	return payload, true, nil
}

// GetUUIDs issues POST {UUIDsBaseURL} with up to 10 names (§4.1, §6). The
// returned list is unordered and sparse — callers re-associate by
// lowercased name.
func (c *MojangClient) GetUUIDs(ctx context.Context, names []string) ([]UuidPayload, error) {
	if len(names) > 10 {
		return nil, NewError(KindInvalidInput, "batch uuid lookup limited to 10 names", nil)
	}
	body, err := json.Marshal(names)
	if err != nil {
		return nil, NewError(KindInternal, "encode batch uuid request", err)
	}
	resp, err := c.do(ctx, http.MethodPost, c.cfg.UUIDsBaseURL, strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewError(KindRateLimited, "batch uuid lookup rate limited", nil)
	case resp.StatusCode >= 500:
		return nil, NewError(KindUnavailable, fmt.Sprintf("batch uuid lookup upstream %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, NewError(KindUnavailable, fmt.Sprintf("batch uuid lookup unexpected status %d", resp.StatusCode), nil)
	}

	var raws []rawUUIDResponse
	if err := json.NewDecoder(resp.Body).Decode(&raws); err != nil {
		return nil, NewError(KindInternal, "malformed batch uuid response body", err)
	}
	out := make([]UuidPayload, 0, len(raws))
	for _, r := range raws {
		p, err := r.toPayload()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

type rawProperty struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Signature string `json:"signature,omitempty"`
}

type rawProfileResponse struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Properties []rawProperty `json:"properties"`
}

// GetProfile issues GET {ProfileBaseURL}/{uuid}[?unsigned=false] (§4.1, §6).
// Signed and unsigned results must be cached under distinct logical keys by
// the caller (§4.4) — this method just speaks the wire contract.
func (c *MojangClient) GetProfile(ctx context.Context, id UUID, signed bool) (ProfilePayload, bool, error) {
	u := c.cfg.ProfileBaseURL + "/" + strings.ReplaceAll(id.String(), "-", "")
	if signed {
		u += "?unsigned=false"
	}
	resp, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return ProfilePayload{}, false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotFound:
		return ProfilePayload{}, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return ProfilePayload{}, false, NewError(KindRateLimited, "profile lookup rate limited", nil)
	case resp.StatusCode >= 500:
		return ProfilePayload{}, false, NewError(KindUnavailable, fmt.Sprintf("profile lookup upstream %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return ProfilePayload{}, false, NewError(KindUnavailable, fmt.Sprintf("profile lookup unexpected status %d", resp.StatusCode), nil)
	}

	var raw rawProfileResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return ProfilePayload{}, false, NewError(KindInternal, "malformed profile response body", err)
	}
	pid, err := ParseUUID(raw.ID)
	if err != nil {
		return ProfilePayload{}, false, NewError(KindInternal, "malformed uuid in profile response", err)
	}
	props := make([]Property, 0, len(raw.Properties))
	for _, p := range raw.Properties {
		props = append(props, Property{Name: p.Name, Value: p.Value, Signature: p.Signature})
	}
	return ProfilePayload{UUID: pid, Name: raw.Name, Properties: props}, true, nil
}

// GetTextureBytes fetches raw PNG bytes from textureURL, rejecting any URL
// whose host is not the exact allow-listed texture host (§4.1, §6).
func (c *MojangClient) GetTextureBytes(ctx context.Context, textureURL string) ([]byte, bool, error) {
	parsed, err := url.Parse(textureURL)
	if err != nil {
		return nil, false, NewError(KindInvalidInput, "malformed texture url", err)
	}
	if !strings.EqualFold(parsed.Host, c.cfg.TextureAllowHost) {
		return nil, false, NewError(KindInvalidInput, "texture url host not allow-listed", nil)
	}

	resp, err := c.do(ctx, http.MethodGet, textureURL, nil)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, false, NewError(KindRateLimited, "texture fetch rate limited", nil)
	case resp.StatusCode >= 500:
		return nil, false, NewError(KindUnavailable, fmt.Sprintf("texture fetch upstream %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, false, NewError(KindUnavailable, fmt.Sprintf("texture fetch unexpected status %d", resp.StatusCode), nil)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, NewError(KindUnavailable, "texture fetch body read", err)
	}
	return b, true, nil
}

// do issues req and classifies transport-level failures (as opposed to
// HTTP status codes, handled by each call site) as KindUnavailable.
func (c *MojangClient) do(ctx context.Context, method, u string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, NewError(KindInternal, "build upstream request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("url", u).Debug("mojang upstream transport failure")
		return nil, NewError(KindUnavailable, "upstream transport failure", err)
	}
	return resp, nil
}
