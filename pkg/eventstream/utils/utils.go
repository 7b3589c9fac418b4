// Package eventstreamutils creates the configured chat stream publisher.
package eventstreamutils

import (
	"fmt"

	"github.com/sxpeea/sxpeea/pkg/eventstream"
	"github.com/sxpeea/sxpeea/pkg/eventstream/kafka"
	"github.com/sxpeea/sxpeea/pkg/eventstream/nop"
)

type NewPublisherOpts struct {
	// ProviderType is "nop" or "kafka". Empty means "nop".
	ProviderType string
	Brokers      []string
	Topic        string
}

func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	switch o.ProviderType {
	case "", "nop":
		return nop.NewPublisher(), nil
	case "kafka":
		return kafka.NewPublisher(kafka.Config{
			Brokers: o.Brokers,
			Topic:   o.Topic,
		})
	default:
		return nil, fmt.Errorf("unsupported eventstream provider: %s", o.ProviderType)
	}
}
