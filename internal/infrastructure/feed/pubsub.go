package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/retailscan/backend/internal/domain/feed"
)

const (
	// ProductChannel carries row-level product change events
	ProductChannel = "feed:products"
	// CategoryChannel carries row-level category change events
	CategoryChannel = "feed:categories"

	publishTimeout = 5 * time.Second
	closeTimeout   = 5 * time.Second
)

// RedisPublisher pushes change events onto per-table Redis Pub/Sub channels
type RedisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPublisher creates a publisher using an existing Redis client.
// The caller retains ownership of the client.
func NewRedisPublisher(client *redis.Client, logger *zap.Logger) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{
		client: client,
		logger: logger.Named("feed"),
	}
}

// PublishProduct publishes a product change event. Publish failures are
// logged, not surfaced: the feed is advisory and must never fail the write
// that triggered it.
func (p *RedisPublisher) PublishProduct(change feed.ProductChange) {
	p.publish(ProductChannel, change)
}

// PublishCategory publishes a category change event
func (p *RedisPublisher) PublishCategory(change feed.CategoryChange) {
	p.publish(CategoryChannel, change)
}

func (p *RedisPublisher) publish(channel string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal change event",
			zap.String("channel", channel),
			zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		p.logger.Error("Failed to publish change event",
			zap.String("channel", channel),
			zap.Error(err))
		return
	}

	p.logger.Debug("Published change event", zap.String("channel", channel))
}

// Ensure RedisPublisher implements Publisher
var _ feed.Publisher = (*RedisPublisher)(nil)

// RedisSubscriber consumes the per-table change channels and forwards typed
// events to the registered callbacks
type RedisSubscriber struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisSubscriber creates a subscriber using an existing Redis client.
// The caller retains ownership of the client.
func NewRedisSubscriber(client *redis.Client, logger *zap.Logger) *RedisSubscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSubscriber{
		client: client,
		logger: logger.Named("feed"),
	}
}

// Subscribe attaches to both change channels and dispatches incoming events.
// Setup failure is logged and yields a no-op Unsubscribe so callers can
// always release unconditionally.
func (s *RedisSubscriber) Subscribe(onProduct func(feed.ProductChange), onCategory func(feed.CategoryChange)) feed.Unsubscribe {
	ctx, cancel := context.WithCancel(context.Background())

	pubsub := s.client.Subscribe(ctx, ProductChannel, CategoryChannel)

	setupCtx, setupCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := pubsub.Receive(setupCtx)
	setupCancel()
	if err != nil {
		s.logger.Error("Failed to subscribe to change feed", zap.Error(err))
		pubsub.Close()
		cancel()
		return func() {}
	}

	s.logger.Info("Subscribed to change feed",
		zap.Strings("channels", []string{ProductChannel, CategoryChannel}))

	done := make(chan struct{})
	go s.consume(ctx, pubsub, onProduct, onCategory, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			pubsub.Close()
			select {
			case <-done:
			case <-time.After(closeTimeout):
				s.logger.Warn("Timeout waiting for change feed consumer to stop")
			}
		})
	}
}

func (s *RedisSubscriber) consume(
	ctx context.Context,
	pubsub *redis.PubSub,
	onProduct func(feed.ProductChange),
	onCategory func(feed.CategoryChange),
	done chan<- struct{},
) {
	defer close(done)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Change feed subscription stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				s.logger.Info("Change feed channel closed")
				return
			}
			s.dispatch(msg, onProduct, onCategory)
		}
	}
}

func (s *RedisSubscriber) dispatch(
	msg *redis.Message,
	onProduct func(feed.ProductChange),
	onCategory func(feed.CategoryChange),
) {
	switch msg.Channel {
	case ProductChannel:
		var change feed.ProductChange
		if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
			s.logger.Error("Failed to unmarshal product change",
				zap.String("channel", msg.Channel),
				zap.Error(err))
			return
		}
		onProduct(change)
	case CategoryChannel:
		var change feed.CategoryChange
		if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
			s.logger.Error("Failed to unmarshal category change",
				zap.String("channel", msg.Channel),
				zap.Error(err))
			return
		}
		onCategory(change)
	default:
		s.logger.Warn("Message on unexpected channel", zap.String("channel", msg.Channel))
	}
}

// Ensure RedisSubscriber implements Subscriber
var _ feed.Subscriber = (*RedisSubscriber)(nil)
