package mail

import (
	"context"
	"log/slog"
)

// LogMailer writes messages to the log instead of sending them. Used in
// development where no mail provider is configured.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	logger := m.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []any{
		slog.String("to", msg.To),
		slog.String("template_id", msg.TemplateID),
	}
	for k, v := range msg.Data {
		attrs = append(attrs, slog.String("data."+k, v))
	}

	logger.InfoContext(ctx, "mail send (log mailer)", attrs...)
	return nil
}
