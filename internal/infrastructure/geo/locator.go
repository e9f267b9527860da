// Package geo resolves the operator's current position through an
// external HTTP lookup service. The result is purely informational and
// never feeds a remote ledger call.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chemtrack/chemical-tracker/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// Locator queries a geolocation endpoint expected to answer with
// {"latitude": <float>, "longitude": <float>}.
type Locator struct {
	url    string
	client *http.Client
}

func NewLocator(url string, timeout time.Duration) *Locator {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Locator{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (l *Locator) Current(ctx context.Context) (*domain.Coordinates, error) {
	if l.url == "" {
		return nil, domain.ErrLocationUnavailable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("location request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.ErrLocationDenied
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", domain.ErrLocationUnavailable, resp.StatusCode)
	}

	var coords domain.Coordinates
	if err := json.NewDecoder(resp.Body).Decode(&coords); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLocationUnavailable, err)
	}
	return &coords, nil
}
