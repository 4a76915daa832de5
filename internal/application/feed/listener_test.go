package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retailscan/backend/internal/domain/catalog"
	"github.com/retailscan/backend/internal/domain/feed"
)

// fakeSource is an in-memory feed.Subscriber that exposes its dispatch
// functions so tests can inject events
type fakeSource struct {
	onProduct       func(feed.ProductChange)
	onCategory      func(feed.CategoryChange)
	unsubscribeCall int
}

func (s *fakeSource) Subscribe(onProduct func(feed.ProductChange), onCategory func(feed.CategoryChange)) feed.Unsubscribe {
	s.onProduct = onProduct
	s.onCategory = onCategory
	return func() { s.unsubscribeCall++ }
}

func productChange(t feed.ChangeType) feed.ProductChange {
	product, _ := catalog.NewProduct("Milk 1L")
	return feed.ProductChange{Type: t, New: product}
}

func TestListener_ForwardsProductChanges(t *testing.T) {
	source := &fakeSource{}
	listener := NewListener(source, nil)
	assert.NoError(t, listener.Start())

	var received []feed.ProductChange
	listener.Subscribe(func(c feed.ProductChange) {
		received = append(received, c)
	}, nil)

	source.onProduct(productChange(feed.ChangeInsert))
	source.onProduct(productChange(feed.ChangeUpdate))

	assert.Len(t, received, 2)
	assert.Equal(t, feed.ChangeInsert, received[0].Type)
	assert.Equal(t, feed.ChangeUpdate, received[1].Type)
}

func TestListener_ForwardsCategoryChanges(t *testing.T) {
	source := &fakeSource{}
	listener := NewListener(source, nil)
	assert.NoError(t, listener.Start())

	var received []feed.CategoryChange
	listener.Subscribe(nil, func(c feed.CategoryChange) {
		received = append(received, c)
	})

	category, _ := catalog.NewCategory("Dairy", "")
	source.onCategory(feed.CategoryChange{Type: feed.ChangeInsert, New: category})

	assert.Len(t, received, 1)
}

func TestListener_DropsUnknownEventType(t *testing.T) {
	source := &fakeSource{}
	listener := NewListener(source, nil)
	assert.NoError(t, listener.Start())

	var received []feed.ProductChange
	listener.Subscribe(func(c feed.ProductChange) {
		received = append(received, c)
	}, nil)

	source.onProduct(productChange("TRUNCATE"))

	assert.Empty(t, received)
}

func TestListener_PanickingConsumerDoesNotBlockOthers(t *testing.T) {
	source := &fakeSource{}
	listener := NewListener(source, nil)
	assert.NoError(t, listener.Start())

	listener.Subscribe(func(feed.ProductChange) {
		panic("notification display failed")
	}, nil)

	delivered := 0
	listener.Subscribe(func(feed.ProductChange) {
		delivered++
	}, nil)

	source.onProduct(productChange(feed.ChangeInsert))

	assert.Equal(t, 1, delivered)
}

func TestListener_UnsubscribeIdempotent(t *testing.T) {
	source := &fakeSource{}
	listener := NewListener(source, nil)
	assert.NoError(t, listener.Start())

	delivered := 0
	unsubscribe := listener.Subscribe(func(feed.ProductChange) {
		delivered++
	}, nil)

	unsubscribe()
	unsubscribe()
	unsubscribe()

	source.onProduct(productChange(feed.ChangeInsert))

	assert.Zero(t, delivered)
}

func TestListener_StopReleasesSourceExactlyOnce(t *testing.T) {
	source := &fakeSource{}
	listener := NewListener(source, nil)
	assert.NoError(t, listener.Start())

	listener.Stop()
	listener.Stop()

	assert.Equal(t, 1, source.unsubscribeCall)
}

func TestListener_RestartAfterStopReleasesNewSubscription(t *testing.T) {
	source := &fakeSource{}
	listener := NewListener(source, nil)

	assert.NoError(t, listener.Start())
	listener.Stop()

	assert.NoError(t, listener.Start())
	listener.Stop()

	assert.Equal(t, 2, source.unsubscribeCall)
}

func TestNotifier_ImplementsConsumerSignatures(t *testing.T) {
	source := &fakeSource{}
	listener := NewListener(source, nil)
	assert.NoError(t, listener.Start())

	notifier := NewNotifier(nil)
	listener.Subscribe(notifier.OnProductChange, notifier.OnCategoryChange)

	// Delivery must not panic even for delete events with only Old set.
	product, _ := catalog.NewProduct("Milk 1L")
	source.onProduct(feed.ProductChange{Type: feed.ChangeDelete, Old: product})
}
