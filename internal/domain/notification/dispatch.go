package notification

// Credentials identify the sending business number. A zero field falls back to
// the process-wide configuration.
type Credentials struct {
	PhoneNumberID string
	AccessToken   string
}

// SendResult is the outcome of a message the provider accepted.
type SendResult struct {
	MessageID string `json:"message_id"`
	Success   bool   `json:"success"`
}
