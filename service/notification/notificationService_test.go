package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	mailerrepo "bookstore/repository/mailer"
	"bookstore/util/queue"
)

type mailerMock struct {
	sent []mailerrepo.Mail
	err  error
}

func (m *mailerMock) Send(ctx context.Context, mail mailerrepo.Mail) error {
	m.sent = append(m.sent, mail)
	return m.err
}

func testWorker(m *mailerMock) *Worker {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWorker(nil, m, log, "test")
}

func TestHandle_SendsMail(t *testing.T) {
	m := &mailerMock{}
	w := testWorker(m)

	w.Handle(context.Background(), &queue.OrderConfirmation{
		OrderID:     7,
		OrderNumber: "ORD-20250101120000-ab12cd",
		Email:       "buyer@example.com",
		Name:        "Ana",
		Total:       76.25,
	})

	require.Len(t, m.sent, 1)
	require.Equal(t, "buyer@example.com", m.sent[0].To)
	require.Contains(t, m.sent[0].Subject, "ORD-20250101120000-ab12cd")
	require.Contains(t, m.sent[0].Body, "$76.25")
}

func TestHandle_SendFailureIsSwallowed(t *testing.T) {
	m := &mailerMock{err: errors.New("smtp relay down")}
	w := testWorker(m)

	// must not panic or propagate
	w.Handle(context.Background(), &queue.OrderConfirmation{OrderID: 7, Email: "x@y.z"})
	require.Len(t, m.sent, 1)
}
