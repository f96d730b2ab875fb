package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/money/internal/account"
	"github.com/MrJamesThe3rd/money/internal/category"
	"github.com/MrJamesThe3rd/money/internal/currency"
	"github.com/MrJamesThe3rd/money/internal/events"
	"github.com/MrJamesThe3rd/money/internal/importer"
	"github.com/MrJamesThe3rd/money/internal/memstore"
	"github.com/MrJamesThe3rd/money/internal/record"
)

const statement = `Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;UBER TRIP LISBOA;-12,40;987,60
09-01-2026;09-01-2026;SALARIO ACME;1.000,00;1.000,00
`

type fixture struct {
	importer   *importer.Service
	accounts   *account.Service
	categories *category.Service
	records    *record.Service
	owner      uuid.UUID
	account    *account.Account
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	currencies, err := currency.NewService("EUR")
	require.NoError(t, err)

	store := memstore.New()
	accounts := account.NewService(store, currencies, events.Nop{})
	categories := category.NewService(store)
	records := record.NewService(store, accounts, categories, currencies, events.Nop{})

	owner := uuid.New()
	acc, err := accounts.Create(context.Background(), account.CreateParams{OwnerID: owner, Name: "Checking"})
	require.NoError(t, err)

	return fixture{
		importer:   importer.NewService(records, categories),
		accounts:   accounts,
		categories: categories,
		records:    records,
		owner:      owner,
		account:    acc,
	}
}

func TestService_Import(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	transport, err := f.categories.Create(ctx, category.CreateParams{OwnerID: f.owner, Name: "Transport"})
	require.NoError(t, err)

	_, err = f.categories.Learn(ctx, f.owner, "uber", transport.ID)
	require.NoError(t, err)

	got, err := f.importer.Import(ctx, importer.ImportParams{
		OwnerID:   f.owner,
		AccountID: f.account.ID,
		Bank:      importer.BankCGD,
		File:      strings.NewReader(statement),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, record.TypeExpense, got[0].Type)
	require.NotNil(t, got[0].CategoryID)
	assert.Equal(t, transport.ID, *got[0].CategoryID)
	assert.Equal(t, "EUR", got[0].Currency)

	assert.Equal(t, record.TypeIncome, got[1].Type)
	assert.Nil(t, got[1].CategoryID)

	bal, _, err := f.accounts.Balance(ctx, f.owner, f.account.ID)
	require.NoError(t, err)
	assert.Equal(t, "987.60", bal.StringFixed(2))
}

func TestService_Import_UnknownBank(t *testing.T) {
	f := newFixture(t)

	_, err := f.importer.Import(context.Background(), importer.ImportParams{
		OwnerID:   f.owner,
		AccountID: f.account.ID,
		Bank:      "bpi",
		File:      strings.NewReader(statement),
	})

	assert.ErrorIs(t, err, importer.ErrUnknownBank)
}

func TestService_Import_ForeignAccountStoresNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	stranger := uuid.New()

	_, err := f.importer.Import(ctx, importer.ImportParams{
		OwnerID:   stranger,
		AccountID: f.account.ID,
		Bank:      importer.BankCGD,
		File:      strings.NewReader(statement),
	})
	assert.ErrorIs(t, err, record.ErrAccountNotOwned)

	rs, err := f.records.List(ctx, record.ListFilter{OwnerID: f.owner})
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestService_Import_BadStatement(t *testing.T) {
	f := newFixture(t)

	_, err := f.importer.Import(context.Background(), importer.ImportParams{
		OwnerID:   f.owner,
		AccountID: f.account.ID,
		Bank:      importer.BankCGD,
		File:      strings.NewReader("Date;Amount\n"),
	})

	assert.ErrorIs(t, err, importer.ErrInvalidStatement)
}
