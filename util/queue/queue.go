// Package queue is a small Redis-streams job queue used for best-effort
// notification dispatch. A handler failure is logged by the consumer
// and the message acked anyway.
package queue

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type OrderConfirmation struct {
	OrderID     int64
	OrderNumber string
	Email       string
	Name        string
	Total       float64
}

type Queue struct {
	client *redis.Client
	stream string
	group  string
	block  time.Duration
	maxLen int64
	once   sync.Once
}

func New(client *redis.Client, stream, group string) *Queue {
	return &Queue{
		client: client,
		stream: stream,
		group:  group,
		block:  5 * time.Second,
		maxLen: 10000,
	}
}

func (q *Queue) Enqueue(ctx context.Context, n OrderConfirmation) error {
	return q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		MaxLen: q.maxLen,
		Approx: true,
		Values: map[string]any{
			"order_id":     strconv.FormatInt(n.OrderID, 10),
			"order_number": n.OrderNumber,
			"email":        n.Email,
			"name":         n.Name,
			"total":        strconv.FormatFloat(n.Total, 'f', 2, 64),
		},
	}).Err()
}

func (q *Queue) ensureGroup(ctx context.Context) error {
	var err error
	q.once.Do(func() {
		err = q.client.XGroupCreateMkStream(ctx, q.stream, q.group, "0").Err()
		if err != nil && strings.Contains(err.Error(), "BUSYGROUP") {
			err = nil
		}
	})
	return err
}

// Next blocks for the next pending confirmation. It returns the message
// ID for acking plus the decoded payload. A nil message with nil error
// means the read timed out and the caller should loop.
func (q *Queue) Next(ctx context.Context, consumer string) (string, *OrderConfirmation, error) {
	if err := q.ensureGroup(ctx); err != nil {
		return "", nil, err
	}
	res, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.group,
		Consumer: consumer,
		Streams:  []string{q.stream, ">"},
		Count:    1,
		Block:    q.block,
	}).Result()
	if err == redis.Nil {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	if len(res) == 0 || len(res[0].Messages) == 0 {
		return "", nil, nil
	}
	msg := res[0].Messages[0]
	return msg.ID, decode(msg.Values), nil
}

func (q *Queue) Ack(ctx context.Context, msgID string) error {
	return q.client.XAck(ctx, q.stream, q.group, msgID).Err()
}

func decode(values map[string]any) *OrderConfirmation {
	n := &OrderConfirmation{}
	if s, ok := values["order_id"].(string); ok {
		n.OrderID, _ = strconv.ParseInt(s, 10, 64)
	}
	if s, ok := values["order_number"].(string); ok {
		n.OrderNumber = s
	}
	if s, ok := values["email"].(string); ok {
		n.Email = s
	}
	if s, ok := values["name"].(string); ok {
		n.Name = s
	}
	if s, ok := values["total"].(string); ok {
		n.Total, _ = strconv.ParseFloat(s, 64)
	}
	return n
}
