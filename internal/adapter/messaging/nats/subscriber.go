package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

// ListingEventHandler reacts to one listing event.
type ListingEventHandler func(ctx context.Context, subject string, ev domain.ListingEvent) error

// CatalogSubjects are the events that change which listings are in the feed
// or how they rank. Offer events decode into ListingEvent through listing_id.
var CatalogSubjects = []string{
	domain.SubjectListingApproved,
	domain.SubjectListingRejected,
	domain.SubjectListingDeleted,
	domain.SubjectOfferCreated,
}

type Subscriber struct {
	conn   *nats.Conn
	logger *logger.Logger
	subs   []*nats.Subscription
}

func NewSubscriber(conn *nats.Conn, log *logger.Logger) *Subscriber {
	return &Subscriber{conn: conn, logger: log.Named("NATSSubscriber")}
}

// Subscribe registers handler on every subject in subjects.
func (s *Subscriber) Subscribe(subjects []string, handler ListingEventHandler) error {
	for _, subject := range subjects {
		sub, err := s.conn.Subscribe(subject, s.dispatch(handler))
		if err != nil {
			s.Close()
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		s.subs = append(s.subs, sub)
		s.logger.Info("Subscribed", zap.String("subject", subject))
	}
	return nil
}

func (s *Subscriber) dispatch(handler ListingEventHandler) nats.MsgHandler {
	return func(msg *nats.Msg) {
		ctx := context.Background()
		if msg.Header != nil {
			ctx = otel.GetTextMapPropagator().Extract(ctx, HeaderCarrier(msg.Header))
		}
		ctx, span := tracer.Start(ctx, "NATS.Consume."+msg.Subject)
		defer span.End()

		var ev domain.ListingEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			s.logger.Warn("Dropping malformed event", zap.String("subject", msg.Subject), zap.Error(err))
			span.RecordError(err)
			return
		}
		if err := handler(ctx, msg.Subject, ev); err != nil {
			s.logger.Error("Event handler failed", zap.String("subject", msg.Subject), zap.String("listing_id", ev.ListingID), zap.Error(err))
			span.RecordError(err)
		}
	}
}

// Close removes all subscriptions.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Warn("Failed to unsubscribe", zap.String("subject", sub.Subject), zap.Error(err))
		}
	}
	s.subs = nil
}
