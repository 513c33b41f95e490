package framework

import "time"

// SubscriberConfig tunes the pull loop.
type SubscriberConfig struct {
	QueueName    string
	Concurrency  int
	Timeout      time.Duration // single poll timeout
	TTR          time.Duration // time-to-run before redelivery
	Rate         time.Duration // pause between polls
	ErrorBackoff time.Duration
}

// ProcessorConfig tunes the handling side.
type ProcessorConfig struct {
	Concurrency int
	BufferSize  int
	Timeout     time.Duration // per-message processing timeout
}
