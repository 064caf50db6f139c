package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/barracks/account-service/internal/api/metrics"
	"github.com/barracks/account-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// MailDispatcher moves mail delivery off the request path. Messages go into
// a bounded channel drained by a fixed worker pool; a full queue rejects
// the message instead of blocking, and delivery failures are logged, never
// propagated back to the request.
type MailDispatcher struct {
	queue   chan ports.MailMessage
	mailer  ports.Mailer
	workers int
	log     zerolog.Logger
}

// NewMailDispatcher creates a dispatcher with numWorkers delivery workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &MailDispatcher{
		queue:   make(chan ports.MailMessage, channelBuffer),
		mailer:  mailer,
		workers: numWorkers,
		log:     log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		go d.runWorker(ctx, i)
	}
}

// Enqueue offers a message to the queue without blocking. Returns false
// when the buffer is full; the caller decides whether dropping is worth a
// warning.
func (d *MailDispatcher) Enqueue(msg ports.MailMessage) bool {
	select {
	case d.queue <- msg:
		metrics.MailQueueDepth.Set(float64(len(d.queue)))
		return true
	default:
		return false
	}
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-d.queue:
			if !ok {
				return
			}
			metrics.MailQueueDepth.Set(float64(len(d.queue)))

			timer := metrics.NewMailSendTimer()
			err := d.mailer.Send(ctx, msg)
			timer.ObserveDuration()

			if err != nil {
				metrics.MailFailuresTotal.Inc()
				d.log.Error().Err(err).
					Str("to", msg.To).
					Str("subject", msg.Subject).
					Int("worker_id", id).
					Msg("mail delivery failed")
			}
		}
	}
}
