package visibility

import (
	"context"
	"strings"

	"github.com/Alwanly/fleet-dashboard/pkg/logger"
	"github.com/Alwanly/fleet-dashboard/pkg/pubsub"
)

const (
	MessageVisible = "visible"
	MessageHidden  = "hidden"
)

// PubSubSource reads visibility reports published on a pub/sub channel
// by the host surface. Payloads are "visible" or "hidden"; anything else
// is logged and ignored.
type PubSubSource struct {
	sub     pubsub.Subscriber
	channel string
	logger  *logger.CanonicalLogger
}

func NewPubSubSource(sub pubsub.Subscriber, channel string, log *logger.CanonicalLogger) *PubSubSource {
	if log == nil {
		log = logger.NewNop()
	}
	return &PubSubSource{sub: sub, channel: channel, logger: log.Component("visibility")}
}

func (p *PubSubSource) Open(ctx context.Context, set func(bool)) error {
	msgs, err := p.sub.Subscribe(ctx, p.channel)
	if err != nil {
		return err
	}
	go p.listen(ctx, msgs, set)
	return nil
}

func (p *PubSubSource) listen(ctx context.Context, msgs <-chan pubsub.Message, set func(bool)) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-msgs:
			if !ok {
				return
			}
			visible, known := ParseMessage(m.Payload)
			if !known {
				p.logger.Debug("ignoring visibility message", logger.String("payload", m.Payload))
				continue
			}
			set(visible)
		}
	}
}

func (p *PubSubSource) Close() error {
	return p.sub.Unsubscribe(context.Background(), p.channel)
}

// ParseMessage interprets a visibility payload.
func ParseMessage(payload string) (visible bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(payload)) {
	case MessageVisible, "true", "1":
		return true, true
	case MessageHidden, "false", "0":
		return false, true
	}
	return false, false
}

// Announce publishes a visibility report for PubSubSource readers.
func Announce(ctx context.Context, pub pubsub.Publisher, channel string, visible bool) error {
	msg := MessageHidden
	if visible {
		msg = MessageVisible
	}
	return pub.Publish(ctx, channel, msg)
}
