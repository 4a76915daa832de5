package feed

import (
	"sync"

	"go.uber.org/zap"

	"github.com/retailscan/backend/internal/domain/feed"
)

// consumer is one registered callback pair
type consumer struct {
	onProduct  func(feed.ProductChange)
	onCategory func(feed.CategoryChange)
}

// Listener consumes the external change feed and re-dispatches shape-checked,
// typed events to registered consumers. It does pure event forwarding; any
// side effect (notification display, cache refresh) belongs to a consumer.
//
// One consumer's failure never prevents delivery to the others or aborts the
// underlying subscription.
type Listener struct {
	source feed.Subscriber
	logger *zap.Logger

	mu        sync.Mutex
	nextID    int
	consumers map[int]consumer
	stop      feed.Unsubscribe
}

// NewListener creates a new Listener over the given feed source
func NewListener(source feed.Subscriber, logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener{
		source:    source,
		logger:    logger,
		consumers: make(map[int]consumer),
	}
}

// Start attaches the listener to the feed source. A no-op while already
// started; the returned error is always nil today but kept for future
// sources with fallible setup.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		return nil
	}
	l.stop = l.source.Subscribe(l.dispatchProduct, l.dispatchCategory)
	return nil
}

// Stop releases the source subscription. Idempotent: repeated calls are
// no-ops. A later Start opens a fresh subscription that Stop releases in
// turn.
func (l *Listener) Stop() {
	l.mu.Lock()
	stop := l.stop
	l.stop = nil
	l.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Subscribe registers a callback pair and returns an idempotent unsubscribe.
// Either callback may be nil when the consumer only cares about one table.
func (l *Listener) Subscribe(onProduct func(feed.ProductChange), onCategory func(feed.CategoryChange)) feed.Unsubscribe {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.consumers[id] = consumer{onProduct: onProduct, onCategory: onCategory}
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.consumers, id)
			l.mu.Unlock()
		})
	}
}

func (l *Listener) dispatchProduct(change feed.ProductChange) {
	if !change.Type.Valid() {
		l.logger.Warn("dropping product change with unknown event type",
			zap.String("event_type", string(change.Type)),
		)
		return
	}
	for _, c := range l.snapshot() {
		if c.onProduct != nil {
			l.safeCall(func() { c.onProduct(change) })
		}
	}
}

func (l *Listener) dispatchCategory(change feed.CategoryChange) {
	if !change.Type.Valid() {
		l.logger.Warn("dropping category change with unknown event type",
			zap.String("event_type", string(change.Type)),
		)
		return
	}
	for _, c := range l.snapshot() {
		if c.onCategory != nil {
			l.safeCall(func() { c.onCategory(change) })
		}
	}
}

// snapshot copies the consumer list so dispatch runs without holding the lock
func (l *Listener) snapshot() []consumer {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]consumer, 0, len(l.consumers))
	for _, c := range l.consumers {
		out = append(out, c)
	}
	return out
}

// safeCall shields the dispatch loop from a panicking consumer
func (l *Listener) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("change feed consumer panicked", zap.Any("panic", r))
		}
	}()
	fn()
}
