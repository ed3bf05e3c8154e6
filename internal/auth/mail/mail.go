// Package mail is the outbound email boundary. Messages are templated on
// the provider side; the service only supplies a template id and the
// dynamic data to fill it with.
package mail

import "context"

// Message is one templated email.
type Message struct {
	To         string
	TemplateID string
	Data       map[string]string
}

// Mailer sends templated messages. A send failure never unwinds whatever
// state the caller already committed (issued keys stay valid).
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
