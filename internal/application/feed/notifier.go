package feed

import (
	"go.uber.org/zap"

	"github.com/retailscan/backend/internal/domain/feed"
)

// Notifier is a change feed consumer that renders human-readable change
// notices. It is deliberately separate from the Listener so data-layer event
// forwarding stays free of presentation concerns.
type Notifier struct {
	logger *zap.Logger
}

// NewNotifier creates a new Notifier
func NewNotifier(logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{logger: logger}
}

// OnProductChange logs a notice for a product table change
func (n *Notifier) OnProductChange(change feed.ProductChange) {
	fields := []zap.Field{zap.String("event_type", string(change.Type))}

	switch change.Type {
	case feed.ChangeDelete:
		if change.Old != nil {
			fields = append(fields, zap.String("name", change.Old.Name))
		}
		n.logger.Info("product removed", fields...)
	default:
		if change.New != nil {
			fields = append(fields,
				zap.String("name", change.New.Name),
				zap.String("barcode", change.New.Barcode),
			)
			if change.New.IsLowStock() {
				fields = append(fields, zap.Bool("low_stock", true))
			}
		}
		n.logger.Info("product changed", fields...)
	}
}

// OnCategoryChange logs a notice for a category table change
func (n *Notifier) OnCategoryChange(change feed.CategoryChange) {
	fields := []zap.Field{zap.String("event_type", string(change.Type))}
	if change.New != nil {
		fields = append(fields, zap.String("name", change.New.Name))
	} else if change.Old != nil {
		fields = append(fields, zap.String("name", change.Old.Name))
	}
	n.logger.Info("category changed", fields...)
}
