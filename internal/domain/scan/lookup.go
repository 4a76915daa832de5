package scan

import "context"

// LookupResult holds the third-party product metadata returned by the web
// product lookup service. Price keeps the provider's string representation
// (comma-decimal) until the pipeline normalizes it.
type LookupResult struct {
	Name     string  `json:"name"`
	Price    string  `json:"price"`
	ImageURL string  `json:"image"`
	Category string  `json:"category"`
	InStock  bool    `json:"isInStock"`
	Quantity *string `json:"quantity"`
}

// WebProductLookup fetches third-party product metadata by barcode.
//
// Fetch returns shared.ErrNotAvailable (possibly wrapped) when the service
// explicitly signals the barcode is unknown. Any other error means the call
// failed transport-wise or returned an unparseable body.
type WebProductLookup interface {
	Fetch(ctx context.Context, barcode string) (*LookupResult, error)
}
