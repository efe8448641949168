// Package notification defines the delivery contract the reminder pipeline
// hands messages to. Delivery transports live outside this service; the
// default implementation only logs.
package notification

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Message is a reminder ready for delivery.
type Message struct {
	Recipient string
	Title     string
	Body      string
}

// Notifier delivers messages to guests.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

var ErrMissingRecipient = errors.New("missing_recipient")

type logNotifier struct {
	log *zap.Logger
}

// NewLogNotifier returns a Notifier that records deliveries in the log.
func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log.Named("notification")}
}

func (n *logNotifier) Send(_ context.Context, msg Message) error {
	if strings.TrimSpace(msg.Recipient) == "" {
		return ErrMissingRecipient
	}
	n.log.Info("reminder dispatched",
		zap.String("recipient", msg.Recipient),
		zap.String("title", msg.Title),
		zap.String("body", msg.Body),
	)
	return nil
}
