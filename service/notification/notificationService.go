// Package notification drains the confirmation queue and sends order
// emails. Delivery is best effort: a failed send is logged and the
// message acked so one bad address never wedges the stream.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mailerrepo "bookstore/repository/mailer"
	"bookstore/util/queue"
)

type Source interface {
	Next(ctx context.Context, consumer string) (string, *queue.OrderConfirmation, error)
	Ack(ctx context.Context, msgID string) error
}

type Worker struct {
	q        Source
	mailer   mailerrepo.Repo
	log      *slog.Logger
	consumer string
}

func NewWorker(q Source, mailer mailerrepo.Repo, log *slog.Logger, consumer string) *Worker {
	if consumer == "" {
		consumer = "notifier-1"
	}
	return &Worker{q: q, mailer: mailer, log: log, consumer: consumer}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		msgID, n, err := w.q.Next(ctx, w.consumer)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.log.Error("notification read failed", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
			}
			continue
		}
		if n == nil {
			continue
		}

		w.Handle(ctx, n)

		if err := w.q.Ack(ctx, msgID); err != nil {
			w.log.Error("notification ack failed", "msg_id", msgID, "err", err)
		}
	}
}

// Handle sends one confirmation. Errors are logged, never returned up
// to a request path.
func (w *Worker) Handle(ctx context.Context, n *queue.OrderConfirmation) {
	m := mailerrepo.Mail{
		To:      n.Email,
		Name:    n.Name,
		Subject: fmt.Sprintf("Order %s confirmed", n.OrderNumber),
		Body: fmt.Sprintf(
			"Hi %s,\n\nwe received your order %s for a total of $%.2f. "+
				"Bring your claim code to the store to pick it up.\n",
			n.Name, n.OrderNumber, n.Total),
	}
	if err := w.mailer.Send(ctx, m); err != nil {
		w.log.Error("confirmation mail failed",
			"order_id", n.OrderID, "order_number", n.OrderNumber, "err", err)
		return
	}
	w.log.Info("confirmation mail sent", "order_id", n.OrderID, "to", n.Email)
}
