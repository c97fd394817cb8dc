package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/bookcrews/community-platform/internal/model"
	"github.com/bookcrews/community-platform/pkg/metrics"
)

const (
	// StreamName is the name of the recommendation activity stream.
	StreamName = "RECO"

	// SubjectPrefix is the prefix for all recommendation subjects.
	SubjectPrefix = "reco"
)

// ChatTurnEvent records one completed conversational turn.
type ChatTurnEvent struct {
	SessionID          string                     `json:"session_id"`
	ExchangeCount      int                        `json:"exchange_count"`
	HasRecommendations bool                       `json:"has_recommendations"`
	Source             model.RecommendationSource `json:"source,omitempty"`
	CreatedAt          time.Time                  `json:"created_at"`
}

// TrendingRefreshEvent records a trending cache population.
type TrendingRefreshEvent struct {
	Forced    bool                       `json:"forced"`
	Source    model.RecommendationSource `json:"source"`
	Count     int                        `json:"count"`
	CreatedAt time.Time                  `json:"created_at"`
}

// Publisher publishes recommendation activity events.
type Publisher interface {
	PublishChatTurn(ctx context.Context, ev *ChatTurnEvent)
	PublishTrendingRefresh(ctx context.Context, ev *TrendingRefreshEvent)
}

// StreamPublisher publishes events to JetStream.
type StreamPublisher struct {
	client *Client
}

// NewStreamPublisher creates a JetStream-backed publisher.
func NewStreamPublisher(client *Client) *StreamPublisher {
	return &StreamPublisher{client: client}
}

// EnsureStream ensures the activity stream exists.
func (p *StreamPublisher) EnsureStream(ctx context.Context) error {
	js := p.client.JetStream()

	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Recommendation chat and trending activity",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// PublishChatTurn publishes a chat turn event, best-effort.
func (p *StreamPublisher) PublishChatTurn(ctx context.Context, ev *ChatTurnEvent) {
	subject := fmt.Sprintf("%s.chat.%s", SubjectPrefix, ev.SessionID)
	p.publish(ctx, "chat", subject, ev)
}

// PublishTrendingRefresh publishes a trending refresh event, best-effort.
func (p *StreamPublisher) PublishTrendingRefresh(ctx context.Context, ev *TrendingRefreshEvent) {
	subject := fmt.Sprintf("%s.trending.refresh", SubjectPrefix)
	p.publish(ctx, "trending", subject, ev)
}

func (p *StreamPublisher) publish(ctx context.Context, class, subject string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		metrics.EventsPublished.WithLabelValues(class, "error").Inc()
		return
	}

	if _, err := p.client.JetStream().Publish(ctx, subject, data); err != nil {
		metrics.EventsPublished.WithLabelValues(class, "error").Inc()
		p.client.logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
		return
	}
	metrics.EventsPublished.WithLabelValues(class, "ok").Inc()
}

// Noop is a Publisher that drops all events. Used when NATS is disabled.
type Noop struct{}

// PublishChatTurn implements Publisher.
func (Noop) PublishChatTurn(context.Context, *ChatTurnEvent) {}

// PublishTrendingRefresh implements Publisher.
func (Noop) PublishTrendingRefresh(context.Context, *TrendingRefreshEvent) {}
