package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultPriceURL is the CoinGecko simple-price endpoint for BCH in USD.
const DefaultPriceURL = "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin-cash&vs_currencies=usd"

// PriceClient fetches the current BCH/USD exchange rate. A failed lookup
// is never fatal to the wallet session: callers display "unavailable" and
// move on.
type PriceClient struct {
	url    string
	client *http.Client
}

// NewPriceClient creates a price client. An empty url uses DefaultPriceURL.
func NewPriceClient(url string) *PriceClient {
	if url == "" {
		url = DefaultPriceURL
	}
	return &PriceClient{
		url: url,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// priceResponse maps the CoinGecko simple-price JSON shape.
type priceResponse struct {
	BitcoinCash struct {
		USD float64 `json:"usd"`
	} `json:"bitcoin-cash"`
}

// USDPrice returns the current USD price of one BCH, or ErrPriceUnavailable
// if the source cannot produce a quote.
func (p *PriceClient) USDPrice(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: create request: %v", ErrPriceUnavailable, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: HTTP %d", ErrPriceUnavailable, resp.StatusCode)
	}

	var pr priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", ErrPriceUnavailable, err)
	}
	if pr.BitcoinCash.USD <= 0 {
		return 0, fmt.Errorf("%w: missing quote", ErrPriceUnavailable)
	}

	return pr.BitcoinCash.USD, nil
}
