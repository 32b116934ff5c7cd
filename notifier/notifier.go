package notifier

import (
	"context"
	"errors"
)

// ErrDelivery marks a message or photo that did not reach the channel
var ErrDelivery = errors.New("delivery failed")

// Notifier delivers text and images to the configured channel
type Notifier interface {
	SendText(ctx context.Context, message string) error
	SendPhoto(ctx context.Context, path, caption string) error
}
