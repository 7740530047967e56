package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/imrishuroy/go-restaurant-backoffice/internal/analytics"
)

// Notifier delivers alerts to operators.
type Notifier interface {
	Notify(ctx context.Context, a analytics.Alert) error
}

// Sender publishes a message body with string attributes; *aws.Publisher satisfies it.
type Sender interface {
	Send(ctx context.Context, messageBody string, attributes map[string]string) error
}

// Message is the alert envelope put on the alerts queue.
type Message struct {
	analytics.Alert
	RaisedAt time.Time `json:"raised_at"`
}

// SQSNotifier publishes alerts as JSON messages.
type SQSNotifier struct {
	sender  Sender
	nowFunc func() time.Time
}

// NewSQSNotifier returns a notifier that publishes through sender.
func NewSQSNotifier(sender Sender) *SQSNotifier {
	return &SQSNotifier{sender: sender, nowFunc: time.Now}
}

func (n *SQSNotifier) Notify(ctx context.Context, a analytics.Alert) error {
	body, err := json.Marshal(Message{Alert: a, RaisedAt: n.nowFunc().UTC()})
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	attrs := map[string]string{
		"severity": string(a.Severity),
		"item_id":  a.ItemID,
		"order_id": a.OrderID,
	}
	if err := n.sender.Send(ctx, string(body), attrs); err != nil {
		return fmt.Errorf("notify %q: %w", a.Title, err)
	}
	return nil
}

// LogNotifier writes alerts to the process log. Used when no alerts queue is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, a analytics.Alert) error {
	log.Printf("[alert] severity=%s title=%q msg=%q", a.Severity, a.Title, a.Message)
	return nil
}

// NotifyAll sends every alert and returns how many were delivered. Delivery continues past
// failures; the first error is returned.
func NotifyAll(ctx context.Context, n Notifier, alerts []analytics.Alert) (int, error) {
	var firstErr error
	sent := 0
	for _, a := range alerts {
		if err := n.Notify(ctx, a); err != nil {
			log.Printf("[notify] ERROR title=%q err=%v", a.Title, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sent++
	}
	return sent, firstErr
}
