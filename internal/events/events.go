// Package events publishes domain events after state changes have been committed.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"
)

const (
	TopicOrders        = "medicart.orders"
	TopicPrescriptions = "medicart.prescriptions"
)

const (
	TypeOrderCreated         = "order.created"
	TypeOrderStatusChanged   = "order.status_changed"
	TypePrescriptionVerified = "prescription.verified"
)

// Event is the JSON payload written to the broker
type Event struct {
	Type        string    `json:"type"`
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Status      string    `json:"status"`
	TotalAmount *float64  `json:"total_amount,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e Event) key() []byte { return []byte(strconv.FormatUint(uint64(e.ID), 10)) }

func (e Event) encode() ([]byte, error) { return json.Marshal(e) }

type Publisher interface {
	Publish(ctx context.Context, topic string, e Event) error
	Close() error
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }
func (Nop) Close() error                                 { return nil }
