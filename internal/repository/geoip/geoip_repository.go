package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const unknownLocation = "Unknown"

type GeoIPRepository struct {
	baseURL string
	client  *http.Client
}

func NewGeoIPRepository(baseURL string) *GeoIPRepository {
	if baseURL == "" {
		baseURL = "http://ip-api.com/json"
	}

	return &GeoIPRepository{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type lookupResponse struct {
	Status  string `json:"status"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Lookup resolves an IP to "City, Country". Best effort: any failure yields
// "Unknown" with no error, visitor tracking never blocks on it.
func (r *GeoIPRepository) Lookup(ctx context.Context, ip string) string {
	url := fmt.Sprintf("%s/%s", r.baseURL, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return unknownLocation
	}

	res, err := r.client.Do(req)
	if err != nil {
		return unknownLocation
	}
	defer res.Body.Close()

	var data lookupResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return unknownLocation
	}

	if data.Status == "fail" || data.City == "" {
		return unknownLocation
	}

	return fmt.Sprintf("%s, %s", data.City, data.Country)
}
