package mail

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer writes messages to a zap logger instead of delivering them.
// It is intended for local development where no SMTP relay exists.
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer returns a Mailer backed by the supplied logger.
func NewLogMailer(log *zap.Logger) *LogMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.log.Warn("email delivery disabled; message logged instead",
		zap.Strings("to", dedupeAddresses(msg.To)),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
