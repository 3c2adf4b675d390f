package publisher

// Publisher represents a service for publishing scraped records to
// downstream consumers. Publishing is best-effort: failures are logged by
// the caller, never fatal to the request.
type Publisher interface {
	// Publish publishes a message under the given key
	Publish(key string, message []byte) error

	// Close closes the publisher connection
	Close() error
}
