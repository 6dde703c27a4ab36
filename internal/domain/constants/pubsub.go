package constants

// Pub/Sub providers.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Event types carried in the "event_type" message attribute.
const (
	EventTypePasswordResetRequested = "password_reset.requested"
)
