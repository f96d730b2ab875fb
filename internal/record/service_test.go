package record_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/money/internal/currency"
	"github.com/MrJamesThe3rd/money/internal/events"
	"github.com/MrJamesThe3rd/money/internal/record"
)

type publisherSpy struct {
	topics  []string
	batches [][]any
	err     error
}

func (p *publisherSpy) Publish(_ context.Context, topic string, _ any) error {
	p.topics = append(p.topics, topic)
	return p.err
}

func (p *publisherSpy) PublishBatch(_ context.Context, topic string, batch []any) error {
	p.topics = append(p.topics, topic)
	p.batches = append(p.batches, batch)

	return p.err
}

type mocks struct {
	repo       *record.MockRepository
	accounts   *record.MockAccountLookup
	categories *record.MockCategoryLookup
	publisher  *publisherSpy
}

func newService(t *testing.T) (*record.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	currencies, err := currency.NewService("EUR")
	require.NoError(t, err)

	m := mocks{
		repo:       record.NewMockRepository(ctrl),
		accounts:   record.NewMockAccountLookup(ctrl),
		categories: record.NewMockCategoryLookup(ctrl),
		publisher:  &publisherSpy{},
	}

	return record.NewService(m.repo, m.accounts, m.categories, currencies, m.publisher), m
}

func TestService_Create(t *testing.T) {
	owner := uuid.New()
	accountA := uuid.New()
	accountB := uuid.New()
	category := uuid.New()
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	expense := func() record.CreateParams {
		return record.CreateParams{
			OwnerID:       owner,
			Title:         "Groceries",
			Amount:        decimal.RequireFromString("42.10"),
			Type:          record.TypeExpense,
			AccountID:     &accountA,
			PaymentMethod: record.PaymentDebitCard,
			OccurredAt:    date,
		}
	}

	transferParams := func() record.CreateParams {
		return record.CreateParams{
			OwnerID:       owner,
			Title:         "Savings",
			Amount:        decimal.RequireFromString("100"),
			Type:          record.TypeTransfer,
			FromAccountID: &accountA,
			ToAccountID:   &accountB,
			PaymentMethod: record.PaymentTransfer,
			OccurredAt:    date,
		}
	}

	type testCase struct {
		name      string
		params    func() record.CreateParams
		setupMock func(m mocks)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Expense",
			params: expense,
			setupMock: func(m mocks) {
				m.accounts.EXPECT().AccountCurrency(gomock.Any(), owner, accountA).Return("EUR", true, nil)
				m.repo.EXPECT().
					CreateRecord(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *record.Record) error {
						assert.Equal(t, "EUR", r.Currency)
						assert.Equal(t, date, r.OccurredAt)
						r.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:   "Transfer",
			params: transferParams,
			setupMock: func(m mocks) {
				m.accounts.EXPECT().AccountCurrency(gomock.Any(), owner, accountA).Return("EUR", true, nil)
				m.accounts.EXPECT().AccountCurrency(gomock.Any(), owner, accountB).Return("EUR", true, nil)
				m.repo.EXPECT().CreateRecord(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "WithOwnedCategory",
			params: func() record.CreateParams {
				p := expense()
				p.CategoryID = &category
				return p
			},
			setupMock: func(m mocks) {
				m.accounts.EXPECT().AccountCurrency(gomock.Any(), owner, accountA).Return("EUR", true, nil)
				m.categories.EXPECT().CategoryExists(gomock.Any(), owner, category).Return(true, nil)
				m.repo.EXPECT().CreateRecord(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "ForeignCategory",
			params: func() record.CreateParams {
				p := expense()
				p.CategoryID = &category
				return p
			},
			setupMock: func(m mocks) {
				m.accounts.EXPECT().AccountCurrency(gomock.Any(), owner, accountA).Return("EUR", true, nil)
				m.categories.EXPECT().CategoryExists(gomock.Any(), owner, category).Return(false, nil)
			},
			wantErr: record.ErrCategoryNotOwned,
		},
		{
			name: "ZeroAmount",
			params: func() record.CreateParams {
				p := expense()
				p.Amount = decimal.Zero
				return p
			},
			wantErr: record.ErrInvalidAmount,
		},
		{
			name: "NegativeAmount",
			params: func() record.CreateParams {
				p := expense()
				p.Amount = decimal.RequireFromString("-5")
				return p
			},
			wantErr: record.ErrInvalidAmount,
		},
		{
			name: "ExcessPrecision",
			params: func() record.CreateParams {
				p := expense()
				p.Amount = decimal.RequireFromString("1.005")
				return p
			},
			setupMock: func(m mocks) {
				m.accounts.EXPECT().AccountCurrency(gomock.Any(), owner, accountA).Return("EUR", true, nil)
			},
			wantErr: record.ErrInvalidAmount,
		},
		{
			name: "UnknownType",
			params: func() record.CreateParams {
				p := expense()
				p.Type = "gift"
				return p
			},
			wantErr: record.ErrInvalidType,
		},
		{
			name: "UnknownPaymentMethod",
			params: func() record.CreateParams {
				p := expense()
				p.PaymentMethod = "barter"
				return p
			},
			wantErr: record.ErrInvalidPaymentMethod,
		},
		{
			name: "MissingTitle",
			params: func() record.CreateParams {
				p := expense()
				p.Title = "  "
				return p
			},
			wantErr: record.ErrMissingTitle,
		},
		{
			name: "MissingAccount",
			params: func() record.CreateParams {
				p := expense()
				p.AccountID = nil
				return p
			},
			wantErr: record.ErrMissingAccount,
		},
		{
			name: "ExpenseWithTransferLeg",
			params: func() record.CreateParams {
				p := expense()
				p.ToAccountID = &accountB
				return p
			},
			wantErr: record.ErrUnexpectedAccount,
		},
		{
			name: "AccountNotOwned",
			params: expense,
			setupMock: func(m mocks) {
				m.accounts.EXPECT().AccountCurrency(gomock.Any(), owner, accountA).Return("", false, nil)
			},
			wantErr: record.ErrAccountNotOwned,
		},
		{
			name: "CurrencyMismatch",
			params: func() record.CreateParams {
				p := expense()
				p.Currency = "usd"
				return p
			},
			setupMock: func(m mocks) {
				m.accounts.EXPECT().AccountCurrency(gomock.Any(), owner, accountA).Return("EUR", true, nil)
			},
			wantErr: record.ErrCurrencyMismatch,
		},
		{
			name: "TransferSameAccount",
			params: func() record.CreateParams {
				p := transferParams()
				p.ToAccountID = &accountA
				return p
			},
			wantErr: record.ErrSameAccount,
		},
		{
			name: "TransferMissingLeg",
			params: func() record.CreateParams {
				p := transferParams()
				p.FromAccountID = nil
				return p
			},
			wantErr: record.ErrMissingTransferLeg,
		},
		{
			name: "TransferWithAccount",
			params: func() record.CreateParams {
				p := transferParams()
				p.AccountID = &accountA
				return p
			},
			wantErr: record.ErrUnexpectedAccount,
		},
		{
			name:   "TransferAcrossCurrencies",
			params: transferParams,
			setupMock: func(m mocks) {
				m.accounts.EXPECT().AccountCurrency(gomock.Any(), owner, accountA).Return("EUR", true, nil)
				m.accounts.EXPECT().AccountCurrency(gomock.Any(), owner, accountB).Return("USD", true, nil)
			},
			wantErr: record.ErrCurrencyMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.Create(context.Background(), tt.params())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, record.ErrInvalid)
				assert.Nil(t, got)
				assert.Empty(t, m.publisher.topics)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Equal(t, []string{events.TopicRecordCreated}, m.publisher.topics)
		})
	}
}

func TestService_Create_RepoError(t *testing.T) {
	svc, m := newService(t)
	owner := uuid.New()
	account := uuid.New()

	m.accounts.EXPECT().AccountCurrency(gomock.Any(), owner, account).Return("EUR", true, nil)
	m.repo.EXPECT().CreateRecord(gomock.Any(), gomock.Any()).Return(errors.New("db error"))

	got, err := svc.Create(context.Background(), record.CreateParams{
		OwnerID:       owner,
		Title:         "Salary",
		Amount:        decimal.NewFromInt(2000),
		Type:          record.TypeIncome,
		AccountID:     &account,
		PaymentMethod: record.PaymentTransfer,
	})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, record.ErrInvalid)
	assert.Nil(t, got)
}

func TestService_Create_PublishFailureIgnored(t *testing.T) {
	svc, m := newService(t)
	m.publisher.err = errors.New("broker down")

	owner := uuid.New()
	account := uuid.New()

	m.accounts.EXPECT().AccountCurrency(gomock.Any(), owner, account).Return("EUR", true, nil)
	m.repo.EXPECT().CreateRecord(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Create(context.Background(), record.CreateParams{
		OwnerID:       owner,
		Title:         "Salary",
		Amount:        decimal.NewFromInt(2000),
		Type:          record.TypeIncome,
		AccountID:     &account,
		PaymentMethod: record.PaymentTransfer,
	})

	require.NoError(t, err)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestService_CreateBatch_RejectsWholeBatch(t *testing.T) {
	svc, m := newService(t)
	owner := uuid.New()
	account := uuid.New()

	m.accounts.EXPECT().AccountCurrency(gomock.Any(), owner, account).Return("EUR", true, nil)

	params := []record.CreateParams{
		{
			OwnerID:       owner,
			Title:         "Coffee",
			Amount:        decimal.RequireFromString("2.50"),
			Type:          record.TypeExpense,
			AccountID:     &account,
			PaymentMethod: record.PaymentCash,
		},
		{
			OwnerID:       owner,
			Title:         "Broken",
			Amount:        decimal.Zero,
			Type:          record.TypeExpense,
			AccountID:     &account,
			PaymentMethod: record.PaymentCash,
		},
	}

	got, err := svc.CreateBatch(context.Background(), params)

	assert.ErrorIs(t, err, record.ErrInvalidAmount)
	assert.Nil(t, got)
}

func TestService_CreateBatch(t *testing.T) {
	svc, m := newService(t)
	owner := uuid.New()
	account := uuid.New()

	m.accounts.EXPECT().AccountCurrency(gomock.Any(), owner, account).Return("EUR", true, nil).Times(2)
	m.repo.EXPECT().
		CreateRecords(gomock.Any(), gomock.Len(2)).
		Return(nil)

	params := []record.CreateParams{
		{OwnerID: owner, Title: "A", Amount: decimal.NewFromInt(1), Type: record.TypeIncome, AccountID: &account, PaymentMethod: record.PaymentCash},
		{OwnerID: owner, Title: "B", Amount: decimal.NewFromInt(2), Type: record.TypeExpense, AccountID: &account, PaymentMethod: record.PaymentCash},
	}

	got, err := svc.CreateBatch(context.Background(), params)

	require.NoError(t, err)
	assert.Len(t, got, 2)

	assert.Equal(t, []string{events.TopicRecordCreated}, m.publisher.topics)
	require.Len(t, m.publisher.batches, 1)
	require.Len(t, m.publisher.batches[0], 2)

	for i, e := range m.publisher.batches[0] {
		created, ok := e.(events.RecordCreated)
		require.True(t, ok)
		assert.Equal(t, got[i].ID, created.RecordID)
	}
}

func TestService_List(t *testing.T) {
	svc, m := newService(t)
	filter := record.ListFilter{OwnerID: uuid.New()}

	m.repo.EXPECT().
		ListRecords(gomock.Any(), filter).
		Return([]*record.Record{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	got, err := svc.List(context.Background(), filter)

	require.NoError(t, err)
	assert.Len(t, got, 2)
}
