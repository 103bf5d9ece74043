package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	v1 "flagfeed/pkg/api/v1"
	"flagfeed/pkg/constraints"
)

// Fetcher is the network collaborator invoked on every poll tick. Any
// error means "keep the previous snapshot"; the poller never retries
// within a tick.
type Fetcher interface {
	FetchEnabledFeatures(ctx context.Context, host string, headers map[string]string) ([]v1.FeatureRecord, error)
}

// HTTPFetcher fetches snapshots from a flagfeed service over HTTP.
type HTTPFetcher struct {
	httpClient *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *HTTPFetcher) FetchEnabledFeatures(ctx context.Context, host string, headers map[string]string) ([]v1.FeatureRecord, error) {
	url := host + constraints.SnapshotPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build snapshot request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch snapshot: unexpected status %d", resp.StatusCode)
	}

	var res v1.SnapshotResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode snapshot response: %w", err)
	}
	return res.Data, nil
}
