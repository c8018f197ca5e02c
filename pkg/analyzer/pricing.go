package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const findingServiceURL = "https://svcs.ebay.com/services/search/FindingService/v1"

// Sold prices outside this range are treated as noise (parts lots,
// typo listings) and excluded from the median.
const (
	minSoldPrice = 2
	maxSoldPrice = 5000
)

// DefaultStartPrice is used when price research yields nothing.
const DefaultStartPrice = 34.99

// PriceResearcher estimates a start price for an item
type PriceResearcher interface {
	// MedianSoldPrice returns the median sold price for the keywords in
	// the category, or 0 if no usable data was found.
	MedianSoldPrice(ctx context.Context, keywords, categoryID string) (float64, error)
}

// FindingClient researches sold prices via the eBay Finding API
// findCompletedItems operation.
type FindingClient struct {
	appID  string
	apiURL string
	client *http.Client
}

// NewFindingClient creates a Finding API client for the given app ID
func NewFindingClient(appID string, client *http.Client) *FindingClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &FindingClient{appID: appID, apiURL: findingServiceURL, client: client}
}

// Finding API responses wrap every field in single-element arrays.
type findingResponse struct {
	FindCompletedItemsResponse []struct {
		SearchResult []struct {
			Item []findingItem `json:"item"`
		} `json:"searchResult"`
	} `json:"findCompletedItemsResponse"`
}

type findingItem struct {
	SellingStatus []struct {
		SellingState []string `json:"sellingState"`
		CurrentPrice []struct {
			Value string `json:"__value__"`
		} `json:"currentPrice"`
	} `json:"sellingStatus"`
}

// MedianSoldPrice queries completed listings and returns the median of
// prices that actually sold within the plausible range.
func (f *FindingClient) MedianSoldPrice(ctx context.Context, keywords, categoryID string) (float64, error) {
	if f.appID == "" || keywords == "" {
		return 0, nil
	}

	params := url.Values{}
	params.Set("OPERATION-NAME", "findCompletedItems")
	params.Set("SERVICE-VERSION", "1.13.0")
	params.Set("SECURITY-APPNAME", f.appID)
	params.Set("RESPONSE-DATA-FORMAT", "JSON")
	params.Set("REST-PAYLOAD", "true")
	params.Set("keywords", keywords)
	params.Set("categoryId", categoryID)
	params.Set("itemFilter(0).name", "SoldItemsOnly")
	params.Set("itemFilter(0).value", "true")
	params.Set("paginationInput.entriesPerPage", "50")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("finding api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("finding api: status %d", resp.StatusCode)
	}

	var parsed findingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode finding response: %w", err)
	}

	prices := soldPrices(parsed)
	if len(prices) == 0 {
		return 0, nil
	}
	return median(prices), nil
}

func soldPrices(parsed findingResponse) []float64 {
	var prices []float64
	for _, outer := range parsed.FindCompletedItemsResponse {
		for _, result := range outer.SearchResult {
			for _, item := range result.Item {
				for _, status := range item.SellingStatus {
					if len(status.SellingState) == 0 || !strings.EqualFold(status.SellingState[0], "EndedWithSales") {
						continue
					}
					for _, p := range status.CurrentPrice {
						val, err := strconv.ParseFloat(p.Value, 64)
						if err != nil {
							continue
						}
						if val >= minSoldPrice && val <= maxSoldPrice {
							prices = append(prices, val)
						}
					}
				}
			}
		}
	}
	return prices
}

func median(prices []float64) float64 {
	sort.Float64s(prices)
	n := len(prices)
	if n%2 == 1 {
		return prices[n/2]
	}
	return (prices[n/2-1] + prices[n/2]) / 2
}

// ResearchPrice wraps MedianSoldPrice with the fallback default. A
// research failure logs and falls back rather than blocking export.
func ResearchPrice(ctx context.Context, researcher PriceResearcher, keywords, categoryID string) float64 {
	if researcher == nil {
		return DefaultStartPrice
	}
	price, err := researcher.MedianSoldPrice(ctx, keywords, categoryID)
	if err != nil {
		slog.Warn("Price research failed", "keywords", keywords, "error", err)
		return DefaultStartPrice
	}
	if price == 0 {
		return DefaultStartPrice
	}
	return price
}
