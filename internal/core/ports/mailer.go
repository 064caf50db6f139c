package ports

import "context"

// MailMessage is a rendered email ready for delivery.
type MailMessage struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer delivers a single message synchronously.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// MailEnqueuer hands a message to the background delivery queue. Enqueue
// reports false when the queue is full; the request path never blocks on
// delivery.
type MailEnqueuer interface {
	Enqueue(msg MailMessage) bool
}
