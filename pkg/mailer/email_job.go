package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Text is the plain fallback; Template plus Data selects a rendered HTML body.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "verify_email", "welcome"
	Data     map[string]any `json:"data,omitempty"`
}
