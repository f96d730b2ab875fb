package record

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/money/internal/currency"
	"github.com/MrJamesThe3rd/money/internal/events"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=record
type Repository interface {
	CreateRecord(ctx context.Context, r *Record) error
	CreateRecords(ctx context.Context, rs []*Record) error
	GetRecord(ctx context.Context, ownerID, id uuid.UUID) (*Record, error)
	ListRecords(ctx context.Context, filter ListFilter) ([]*Record, error)
	DeleteRecord(ctx context.Context, ownerID, id uuid.UUID) error
}

// AccountLookup resolves the currency of an account owned by ownerID.
// found is false when the account does not exist or belongs to someone else.
type AccountLookup interface {
	AccountCurrency(ctx context.Context, ownerID, accountID uuid.UUID) (code string, found bool, err error)
}

type CategoryLookup interface {
	CategoryExists(ctx context.Context, ownerID, categoryID uuid.UUID) (bool, error)
}

type Service struct {
	repo       Repository
	accounts   AccountLookup
	categories CategoryLookup
	currencies *currency.Service
	publisher  events.Publisher
}

func NewService(
	repo Repository,
	accounts AccountLookup,
	categories CategoryLookup,
	currencies *currency.Service,
	publisher events.Publisher,
) *Service {
	return &Service{
		repo:       repo,
		accounts:   accounts,
		categories: categories,
		currencies: currencies,
		publisher:  publisher,
	}
}

type CreateParams struct {
	OwnerID       uuid.UUID
	Title         string
	Description   string
	Amount        decimal.Decimal
	Type          Type
	AccountID     *uuid.UUID
	FromAccountID *uuid.UUID
	ToAccountID   *uuid.UUID
	CategoryID    *uuid.UUID
	PaymentMethod PaymentMethod
	Currency      string
	OccurredAt    time.Time
}

type ListFilter struct {
	OwnerID   uuid.UUID
	AccountID *uuid.UUID
	Type      *Type
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Record, error) {
	r, err := s.build(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateRecord(ctx, r); err != nil {
		return nil, err
	}

	s.publishCreated(ctx, r)

	return r, nil
}

// CreateBatch validates every entry before persisting any of them. The batch
// is stored atomically.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Record, error) {
	if len(params) == 0 {
		return nil, nil
	}

	records := make([]*Record, 0, len(params))

	for i, p := range params {
		r, err := s.build(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		records = append(records, r)
	}

	if err := s.repo.CreateRecords(ctx, records); err != nil {
		return nil, fmt.Errorf("create records: %w", err)
	}

	s.publishCreatedBatch(ctx, records)

	return records, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Record, error) {
	return s.repo.GetRecord(ctx, ownerID, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Record, error) {
	return s.repo.ListRecords(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.DeleteRecord(ctx, ownerID, id)
}

// build validates params against the record rules and returns the
// record ready to be stored. Nothing is written.
func (s *Service) build(ctx context.Context, p CreateParams) (*Record, error) {
	if !p.Type.Valid() {
		return nil, ErrInvalidType
	}

	if !p.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, ErrMissingTitle
	}

	if !p.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	accountCurrency, err := s.checkAccounts(ctx, p)
	if err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(p.Currency))
	if code == "" {
		code = accountCurrency
	}

	if code != accountCurrency {
		return nil, ErrCurrencyMismatch
	}

	cur, err := s.currencies.Resolve(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if !cur.FitsScale(p.Amount) {
		return nil, ErrInvalidAmount
	}

	if p.CategoryID != nil {
		ok, err := s.categories.CategoryExists(ctx, p.OwnerID, *p.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("checking category: %w", err)
		}

		if !ok {
			return nil, ErrCategoryNotOwned
		}
	}

	occurred := p.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}

	return &Record{
		OwnerID:       p.OwnerID,
		Title:         title,
		Description:   p.Description,
		Amount:        p.Amount,
		Type:          p.Type,
		AccountID:     p.AccountID,
		FromAccountID: p.FromAccountID,
		ToAccountID:   p.ToAccountID,
		CategoryID:    p.CategoryID,
		PaymentMethod: p.PaymentMethod,
		Currency:      cur.Code,
		OccurredAt:    occurred,
	}, nil
}

// checkAccounts enforces the account shape for the record type and returns
// the currency shared by the accounts involved.
func (s *Service) checkAccounts(ctx context.Context, p CreateParams) (string, error) {
	if p.Type != TypeTransfer {
		if p.FromAccountID != nil || p.ToAccountID != nil {
			return "", ErrUnexpectedAccount
		}

		if p.AccountID == nil {
			return "", ErrMissingAccount
		}

		return s.ownedCurrency(ctx, p.OwnerID, *p.AccountID)
	}

	if p.AccountID != nil {
		return "", ErrUnexpectedAccount
	}

	if p.FromAccountID == nil || p.ToAccountID == nil {
		return "", ErrMissingTransferLeg
	}

	if *p.FromAccountID == *p.ToAccountID {
		return "", ErrSameAccount
	}

	from, err := s.ownedCurrency(ctx, p.OwnerID, *p.FromAccountID)
	if err != nil {
		return "", err
	}

	to, err := s.ownedCurrency(ctx, p.OwnerID, *p.ToAccountID)
	if err != nil {
		return "", err
	}

	if from != to {
		return "", ErrCurrencyMismatch
	}

	return from, nil
}

func (s *Service) ownedCurrency(ctx context.Context, ownerID, accountID uuid.UUID) (string, error) {
	code, found, err := s.accounts.AccountCurrency(ctx, ownerID, accountID)
	if err != nil {
		return "", fmt.Errorf("looking up account: %w", err)
	}

	if !found {
		return "", ErrAccountNotOwned
	}

	return code, nil
}

func createdEvent(r *Record) events.RecordCreated {
	return events.RecordCreated{
		RecordID:   r.ID,
		OwnerID:    r.OwnerID,
		Type:       string(r.Type),
		AccountIDs: r.AccountIDs(),
		Amount:     r.Amount,
		Currency:   r.Currency,
		OccurredAt: r.OccurredAt,
	}
}

func (s *Service) publishCreated(ctx context.Context, r *Record) {
	if err := s.publisher.Publish(ctx, events.TopicRecordCreated, createdEvent(r)); err != nil {
		slog.WarnContext(ctx, "failed to publish record event", "record_id", r.ID, "error", err)
	}
}

func (s *Service) publishCreatedBatch(ctx context.Context, records []*Record) {
	batch := make([]any, 0, len(records))
	for _, r := range records {
		batch = append(batch, createdEvent(r))
	}

	if err := s.publisher.PublishBatch(ctx, events.TopicRecordCreated, batch); err != nil {
		slog.WarnContext(ctx, "failed to publish record events", "count", len(batch), "error", err)
	}
}
