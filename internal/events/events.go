package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TopicRecordCreated   = "record.created"
	TopicBalanceAdjusted = "balance.adjusted"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	// PublishBatch sends events of the same topic in one round trip.
	PublishBatch(ctx context.Context, topic string, events []any) error
}

// RecordCreated is emitted once a record has been committed.
type RecordCreated struct {
	RecordID   uuid.UUID       `json:"record_id"`
	OwnerID    uuid.UUID       `json:"owner_id"`
	Type       string          `json:"type"`
	AccountIDs []uuid.UUID     `json:"account_ids"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// BalanceAdjusted is emitted when the reconciler synthesized an adjustment.
type BalanceAdjusted struct {
	AccountID uuid.UUID       `json:"account_id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	RecordID  uuid.UUID       `json:"record_id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

func (Nop) PublishBatch(context.Context, string, []any) error { return nil }
