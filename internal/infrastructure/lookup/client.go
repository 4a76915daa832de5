package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/retailscan/backend/internal/domain/scan"
	"github.com/retailscan/backend/internal/domain/shared"
)

// maxResponseSize caps the lookup response body (1MB)
const maxResponseSize = 1 * 1024 * 1024

// Client is an HTTP client for the third-party barcode lookup service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a lookup client against the given base URL. The timeout
// bounds the whole HTTP exchange; resolution additionally applies its own
// per-call context deadline.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("lookup"),
	}
}

// fetchResponse is the provider's flat response body: the product fields at
// the top level, plus a notAvailable flag. A structured miss comes back
// either as HTTP 404 or as notAvailable=true with a 200.
type fetchResponse struct {
	scan.LookupResult
	NotAvailable bool `json:"notAvailable"`
}

// Fetch retrieves product metadata for a barcode
func (c *Client) Fetch(ctx context.Context, barcode string) (*scan.LookupResult, error) {
	endpoint := fmt.Sprintf("%s/fetch-product?barcode=%s", c.baseURL, url.QueryEscape(barcode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", shared.ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, shared.ErrNotAvailable
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", shared.ErrLookupFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", shared.ErrLookupFailed, err)
	}

	var payload fetchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Warn("unparseable lookup response",
			zap.String("barcode", barcode),
			zap.Int("body_size", len(body)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: decode response: %v", shared.ErrLookupFailed, err)
	}

	// An empty name with no explicit flag still means the provider had
	// nothing usable for this barcode.
	if payload.NotAvailable || payload.Name == "" {
		return nil, shared.ErrNotAvailable
	}

	result := payload.LookupResult
	return &result, nil
}

// Ensure Client implements WebProductLookup
var _ scan.WebProductLookup = (*Client)(nil)
