package framework

import (
	"context"
	"time"
)

// MessageSource adapts a message queue to the subscriber loop.
type MessageSource interface {
	// Consume pulls one message, blocking until one arrives or timeout
	// passes. nil message with nil error means timeout.
	Consume(queue string, timeout time.Duration, ttr time.Duration) (*Message, error)

	// Ack removes a processed message.
	Ack(queue string, jobID string) error
}

// Logger is the minimal logging surface the framework needs.
type Logger interface {
	Debugf(ctx context.Context, format string, args ...interface{})
	Infof(ctx context.Context, format string, args ...interface{})
	Warnf(ctx context.Context, format string, args ...interface{})
	Errorf(ctx context.Context, format string, args ...interface{})
}
