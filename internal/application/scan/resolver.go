package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailscan/backend/internal/domain/catalog"
	"github.com/retailscan/backend/internal/domain/scan"
	"github.com/retailscan/backend/internal/domain/shared"
)

// Resolver orchestrates barcode resolution: product store lookup, web
// product lookup fallback, category matching and settings default injection.
//
// Settings are passed explicitly into every Resolve call; the resolver holds
// no ambient configuration beyond its collaborators.
type Resolver struct {
	products      catalog.ProductRepository
	categories    catalog.CategoryRepository
	lookup        scan.WebProductLookup
	lookupTimeout time.Duration
	logger        *zap.Logger
}

// NewResolver creates a new Resolver. lookupTimeout bounds only the web
// product lookup step; store lookups are assumed local and fast. A zero
// timeout disables the bound.
func NewResolver(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	lookup scan.WebProductLookup,
	lookupTimeout time.Duration,
	logger *zap.Logger,
) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		products:      products,
		categories:    categories,
		lookup:        lookup,
		lookupTimeout: lookupTimeout,
		logger:        logger,
	}
}

// Resolve resolves a barcode to a stored product or a draft pending operator
// confirmation. Every failure past input validation degrades to a draft so
// the operator always has a next action; only an empty barcode is rejected.
func (r *Resolver) Resolve(ctx context.Context, barcode string, settings scan.Settings) (*scan.Outcome, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, shared.ErrInvalidInput
	}

	product, err := r.products.FindByBarcode(ctx, barcode)
	if err == nil {
		// Authoritative fast path: no fallback calls are made.
		return scan.FoundOutcome(product), nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		r.logger.Error("product store lookup failed",
			zap.String("barcode", barcode),
			zap.Error(err),
		)
		return scan.DraftOutcome(r.errorDraft(barcode, settings, err)), nil
	}

	result, err := r.fetchExternal(ctx, barcode)
	if err != nil {
		if errors.Is(err, shared.ErrNotAvailable) {
			return scan.DraftOutcome(r.notAvailableDraft(barcode, settings)), nil
		}
		// Transport failures and malformed responses degrade identically
		// to a manual-entry draft with a diagnostic.
		r.logger.Warn("web product lookup failed",
			zap.String("barcode", barcode),
			zap.Error(err),
		)
		return scan.DraftOutcome(r.errorDraft(barcode, settings, err)), nil
	}

	return scan.DraftOutcome(r.webDraft(ctx, barcode, settings, result)), nil
}

// fetchExternal calls the web product lookup, bounded by the configured
// timeout when one is set.
func (r *Resolver) fetchExternal(ctx context.Context, barcode string) (*scan.LookupResult, error) {
	if r.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.lookupTimeout)
		defer cancel()
	}
	return r.lookup.Fetch(ctx, barcode)
}

// webDraft builds a draft from a successful external lookup. Each attribute
// takes the externally supplied value when present, otherwise the settings
// default. The selling price is always the settings default regardless of the
// external price; that is a business policy, not a gap fill.
func (r *Resolver) webDraft(ctx context.Context, barcode string, settings scan.Settings, result *scan.LookupResult) *scan.Draft {
	seed := r.seedProduct(barcode, settings)
	seed.Name = result.Name
	// External images pass through unmodified; downstream display assumes
	// canonical provenance.
	seed.ImageURL = result.ImageURL
	if result.Quantity != nil && *result.Quantity != "" {
		seed.Quantity = *result.Quantity
	}

	// The external price is normalized (comma decimal to point) for the
	// operator-facing description even though the selling price stays at
	// the configured default.
	normalizedPrice := NormalizePrice(result.Price)
	seed.Description = describeLookup(result, normalizedPrice)

	if matched := r.matchCategory(ctx, result.Category); matched != nil {
		seed.CategoryID = matched
	}

	return &scan.Draft{
		Product: seed,
		Barcode: barcode,
		Source:  scan.DraftSourceWeb,
	}
}

// notAvailableDraft builds the manual-entry draft for an explicit external
// "not found". Only the barcode and settings defaults are populated; the
// empty name forces mandatory manual entry.
func (r *Resolver) notAvailableDraft(barcode string, settings scan.Settings) *scan.Draft {
	return &scan.Draft{
		Product:      r.seedProduct(barcode, settings),
		Barcode:      barcode,
		Source:       scan.DraftSourceWeb,
		NotAvailable: true,
	}
}

// errorDraft builds the manual-entry draft for a lookup failure, carrying a
// human-readable diagnostic for display.
func (r *Resolver) errorDraft(barcode string, settings scan.Settings, cause error) *scan.Draft {
	return &scan.Draft{
		Product:    r.seedProduct(barcode, settings),
		Barcode:    barcode,
		Source:     scan.DraftSourceError,
		Diagnostic: fmt.Sprintf("lookup failed for barcode %s: %v", barcode, cause),
	}
}

// seedProduct builds an unpersisted product carrying the barcode and the
// settings-derived defaults. The zero ID marks it as a draft.
func (r *Resolver) seedProduct(barcode string, settings scan.Settings) catalog.Product {
	return catalog.Product{
		Barcode:          barcode,
		SellingPrice:     settings.DefaultSellingPrice,
		PurchasePrice:    settings.DefaultPurchasePrice,
		CategoryID:       settings.DefaultCategoryID,
		Stock:            settings.DefaultStock,
		MinStock:         settings.DefaultMinStock,
		ExpiryNotifyDays: settings.DefaultExpiryNotifyDays,
	}
}

// matchCategory runs the category matcher against the store's stable,
// alphabetically ordered category list. A listing failure only costs the
// match; the draft falls back to the settings default category.
func (r *Resolver) matchCategory(ctx context.Context, text string) *uuid.UUID {
	known, err := r.categories.FindAllOrdered(ctx)
	if err != nil {
		r.logger.Warn("category listing failed, skipping category match", zap.Error(err))
		return nil
	}
	return catalog.MatchCategory(text, known)
}

// NormalizePrice converts a comma-decimal price representation to a
// point-decimal one, e.g. "12,50" -> "12.50"
func NormalizePrice(price string) string {
	return strings.ReplaceAll(strings.TrimSpace(price), ",", ".")
}

// describeLookup renders the external metadata the draft does not keep as
// structured fields into the operator-facing description.
func describeLookup(result *scan.LookupResult, normalizedPrice string) string {
	parts := make([]string, 0, 3)
	if result.Category != "" {
		parts = append(parts, "Category: "+result.Category)
	}
	inStock := "No"
	if result.InStock {
		inStock = "Yes"
	}
	parts = append(parts, "In Stock: "+inStock)
	if normalizedPrice != "" {
		parts = append(parts, "Listed Price: "+normalizedPrice)
	}
	return strings.Join(parts, ", ")
}
