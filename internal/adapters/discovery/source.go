// Package discovery keeps the RPC endpoint pool filled from configured sources.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Source yields candidate endpoint URLs.
type Source interface {
	Name() string
	Endpoints(ctx context.Context) ([]string, error)
}

// StaticSource returns a fixed list of endpoints.
type StaticSource struct {
	endpoints []string
}

// Compile-time check to ensure StaticSource implements Source
var _ Source = (*StaticSource)(nil)

// NewStaticSource creates a source over a copy of endpoints.
func NewStaticSource(endpoints []string) *StaticSource {
	cp := make([]string, len(endpoints))
	copy(cp, endpoints)
	return &StaticSource{endpoints: cp}
}

// Name implements Source.
func (s *StaticSource) Name() string { return "static" }

// Endpoints implements Source.
func (s *StaticSource) Endpoints(_ context.Context) ([]string, error) {
	cp := make([]string, len(s.endpoints))
	copy(cp, s.endpoints)
	return cp, nil
}

// chainEntry is one chain of a chainlist document. An rpc item is either a URL
// string or an object carrying a "url" field.
type chainEntry struct {
	ChainID int64             `json:"chainId"`
	RPC     []json.RawMessage `json:"rpc"`
}

// ChainlistSource reads public RPC URLs of one chain from a chainlist JSON document.
type ChainlistSource struct {
	url        string
	chainID    int64
	httpClient *http.Client
}

// Compile-time check to ensure ChainlistSource implements Source
var _ Source = (*ChainlistSource)(nil)

// NewChainlistSource creates a chainlist source.
func NewChainlistSource(listURL string, chainID int64, httpClient *http.Client) (*ChainlistSource, error) {
	if listURL == "" {
		return nil, errors.New("chainlist url cannot be empty")
	}
	if chainID <= 0 {
		return nil, fmt.Errorf("invalid chain id %d", chainID)
	}
	if httpClient == nil {
		return nil, errors.New("http client cannot be nil")
	}
	return &ChainlistSource{url: listURL, chainID: chainID, httpClient: httpClient}, nil
}

// Name implements Source.
func (s *ChainlistSource) Name() string { return "chainlist" }

// Endpoints implements Source. Templated URLs (API key placeholders) and
// websocket URLs are skipped.
func (s *ChainlistSource) Endpoints(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create chainlist request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chainlist: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("chainlist request failed with status %s", resp.Status)
	}

	var chains []chainEntry
	if err := json.NewDecoder(resp.Body).Decode(&chains); err != nil {
		return nil, fmt.Errorf("failed to decode chainlist: %w", err)
	}

	for _, chain := range chains {
		if chain.ChainID != s.chainID {
			continue
		}
		out := make([]string, 0, len(chain.RPC))
		for _, raw := range chain.RPC {
			if u, ok := usableRPCURL(raw); ok {
				out = append(out, u)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("chain %d not found in chainlist", s.chainID)
}

func usableRPCURL(raw json.RawMessage) (string, bool) {
	var candidate string
	if err := json.Unmarshal(raw, &candidate); err != nil {
		var obj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return "", false
		}
		candidate = obj.URL
	}

	candidate = strings.TrimSpace(candidate)
	if candidate == "" || strings.Contains(candidate, "${") {
		return "", false
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	return candidate, true
}
