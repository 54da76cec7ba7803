// Package bankdirectory lists the banks known to the VietQR network.
package bankdirectory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fadhlanhapp/congno-backend/models"
)

// DefaultTTL is how long a fetched list is served before refetching
const DefaultTTL = 24 * time.Hour

// Directory fetches and caches the VietQR bank list.
// Upstream failures degrade to an empty list.
type Directory struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	ttl        time.Duration
}

// NewDirectory creates a directory backed by cache; nil selects an in-memory cache
func NewDirectory(baseURL string, cache Cache) *Directory {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.vietqr.io/v2"
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Directory{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
		ttl:        DefaultTTL,
	}
}

type banksResponse struct {
	Data []models.BankInfo `json:"data"`
}

// Banks returns the cached list, fetching it when the cache is cold
func (d *Directory) Banks(ctx context.Context) []models.BankInfo {
	if banks, ok := d.cache.Get(ctx); ok {
		return banks
	}
	banks, err := d.Refresh(ctx)
	if err != nil {
		log.Printf("level=warn component=bank_directory msg=\"serving empty bank list\" err=%v", err)
		return []models.BankInfo{}
	}
	return banks
}

// Refresh fetches the list from upstream and replaces the cached copy.
// A failed fetch leaves the cache untouched.
func (d *Directory) Refresh(ctx context.Context) ([]models.BankInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/banks", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bank list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bank list returned status %d", resp.StatusCode)
	}

	var payload banksResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode bank list: %w", err)
	}
	banks := payload.Data
	if banks == nil {
		banks = []models.BankInfo{}
	}

	d.cache.Set(ctx, banks, d.ttl)
	return banks, nil
}
