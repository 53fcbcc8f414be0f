package publisher

// Publisher represents a service for publishing refresh events
type Publisher interface {
	// Publish publishes a message to the event stream
	Publish(message []byte) error

	// TrimStream trims the event stream to the configured maximum length
	TrimStream() error

	// Close closes the publisher connection
	Close() error
}
