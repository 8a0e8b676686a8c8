package notify

import (
	"context"

	"service-courier-dispatch/internal/logx"
)

// LogNotifier writes notifications to the log. It is used when no broker is
// configured.
type LogNotifier struct {
	logger logx.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger logx.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.logger.Info("notification",
		logx.Event("notification_sent"),
		logx.String("type", string(n.Kind)),
		logx.String("target", n.Target()),
		logx.String("delivery_id", n.DeliveryID),
		logx.String("offer_id", n.OfferID),
	)
	return nil
}
