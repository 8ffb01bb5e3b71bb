// Package event publishes asset lifecycle events to Kafka.
package event

import (
	"context"
	"fmt"

	"github.com/glowmart/storefront/internal/domain"
	"github.com/glowmart/storefront/pkg/kafka"
	"github.com/glowmart/storefront/pkg/logger"
)

// Topic and event type constants for the asset stream.
const (
	TopicAssets = "storefront.assets"

	TypeAssetIngested = "asset.ingested"
	TypeAssetUpdated  = "asset.updated"
	TypeAssetDeleted  = "asset.deleted"

	aggregateType = "asset"
	sourceService = "storefront-assets"
)

// AssetPayload is the event body shared by all asset lifecycle events.
type AssetPayload struct {
	ID       string      `json:"id"`
	Kind     domain.Kind `json:"kind"`
	Name     string      `json:"name,omitempty"`
	Slug     string      `json:"slug"`
	Active   bool        `json:"active"`
	ImageURL string      `json:"image_url,omitempty"`
}

// Publisher emits asset lifecycle events. Implementations must not block
// the request path longer than the producer's write timeout.
type Publisher interface {
	AssetIngested(ctx context.Context, a *domain.Asset) error
	AssetUpdated(ctx context.Context, a *domain.Asset) error
	AssetDeleted(ctx context.Context, a *domain.Asset) error
}

// KafkaPublisher implements Publisher on the shared Kafka producer.
type KafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher creates a Kafka-backed asset event publisher.
func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) AssetIngested(ctx context.Context, a *domain.Asset) error {
	return p.publish(ctx, TypeAssetIngested, a)
}

func (p *KafkaPublisher) AssetUpdated(ctx context.Context, a *domain.Asset) error {
	return p.publish(ctx, TypeAssetUpdated, a)
}

func (p *KafkaPublisher) AssetDeleted(ctx context.Context, a *domain.Asset) error {
	return p.publish(ctx, TypeAssetDeleted, a)
}

func (p *KafkaPublisher) publish(ctx context.Context, eventType string, a *domain.Asset) error {
	payload := AssetPayload{
		ID:     a.ID,
		Kind:   a.Kind,
		Name:   a.Name,
		Slug:   a.Slug,
		Active: a.Active,
	}
	if a.Image != nil {
		payload.ImageURL = a.Image.URL
	}

	evt, err := kafka.NewEvent(eventType, a.ID, aggregateType, sourceService, payload)
	if err != nil {
		return fmt.Errorf("build %s event: %w", eventType, err)
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt = evt.WithCorrelationID(cid)
	}
	return p.producer.Publish(ctx, TopicAssets, evt)
}

// NoopPublisher discards all events. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) AssetIngested(context.Context, *domain.Asset) error { return nil }
func (NoopPublisher) AssetUpdated(context.Context, *domain.Asset) error  { return nil }
func (NoopPublisher) AssetDeleted(context.Context, *domain.Asset) error  { return nil }
