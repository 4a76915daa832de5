package feed

import (
	"github.com/retailscan/backend/internal/domain/catalog"
)

// ChangeType is the kind of row-level change carried by the feed
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Valid reports whether the change type is one of the known kinds
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeInsert, ChangeUpdate, ChangeDelete:
		return true
	}
	return false
}

// ProductChange is a typed product table change event
type ProductChange struct {
	Type ChangeType       `json:"event_type"`
	New  *catalog.Product `json:"new,omitempty"`
	Old  *catalog.Product `json:"old,omitempty"`
}

// CategoryChange is a typed category table change event
type CategoryChange struct {
	Type ChangeType        `json:"event_type"`
	New  *catalog.Category `json:"new,omitempty"`
	Old  *catalog.Category `json:"old,omitempty"`
}

// Unsubscribe releases a change feed subscription. Implementations must make
// it idempotent and safe to call multiple times.
type Unsubscribe func()

// Publisher pushes change events into the feed
type Publisher interface {
	PublishProduct(change ProductChange)
	PublishCategory(change CategoryChange)
}

// Subscriber consumes the external change feed. Setup failure yields a no-op
// Unsubscribe rather than an error surfaced to the caller.
type Subscriber interface {
	Subscribe(onProduct func(ProductChange), onCategory func(CategoryChange)) Unsubscribe
}
