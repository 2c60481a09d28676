package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/scrap_market/pkg/events"
	"github.com/Skotchmaster/scrap_market/pkg/logging"
)

// publish sends an event after the write it describes has committed.
// A failed publish is logged and never reaches the caller.
func publish(ctx context.Context, p events.Publisher, topic string, key uint, event map[string]any) {
	if p == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(pubCtx, topic, fmt.Sprint(key), event); err != nil {
		logging.FromContext(ctx).Error("publish_event_error", "topic", topic, "type", event["type"], "error", err)
	}
}
