package notifier

// Notifier represents a service for sending deal alerts
type Notifier interface {
	// Notify sends a notification message
	Notify(text string) error

	// Close closes the notifier connection
	Close() error
}
