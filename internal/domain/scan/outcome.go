package scan

import (
	"github.com/retailscan/backend/internal/domain/catalog"
)

// DraftSource indicates which path produced a draft
type DraftSource string

const (
	// DraftSourceWeb marks drafts built from (or after consulting) the web lookup
	DraftSourceWeb DraftSource = "web"
	// DraftSourceError marks drafts produced because the web lookup failed
	DraftSourceError DraftSource = "error"
)

// Draft is an unpersisted product awaiting operator confirmation, together
// with the raw barcode that produced it. The barcode is carried even when no
// external data was obtained so the caller can always pre-fill a form.
type Draft struct {
	Product      catalog.Product
	Barcode      string
	Source       DraftSource
	NotAvailable bool
	Diagnostic   string
}

// Outcome is the tagged result of a barcode resolution. Exactly one of
// Found and Draft is set.
type Outcome struct {
	Found *catalog.Product
	Draft *Draft
}

// FoundOutcome wraps a stored product hit
func FoundOutcome(product *catalog.Product) *Outcome {
	return &Outcome{Found: product}
}

// DraftOutcome wraps a draft pending operator confirmation
func DraftOutcome(draft *Draft) *Outcome {
	return &Outcome{Draft: draft}
}

// IsFound reports whether the barcode resolved to a stored product
func (o *Outcome) IsFound() bool {
	return o.Found != nil
}
