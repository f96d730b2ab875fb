package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/money/internal/importer/cgd"
	"github.com/MrJamesThe3rd/money/internal/record"
)

type RecordCreator interface {
	CreateBatch(ctx context.Context, params []record.CreateParams) ([]*record.Record, error)
}

type CategorySuggester interface {
	Suggest(ctx context.Context, ownerID uuid.UUID, rawDescription string) (*uuid.UUID, error)
}

type Service struct {
	parsers    map[Bank]Parser
	records    RecordCreator
	categories CategorySuggester
}

func NewService(records RecordCreator, categories CategorySuggester) *Service {
	return &Service{
		parsers: map[Bank]Parser{
			BankCGD: cgd.NewParser(),
		},
		records:    records,
		categories: categories,
	}
}

type ImportParams struct {
	OwnerID   uuid.UUID
	AccountID uuid.UUID
	Bank      Bank
	File      io.Reader
}

// Import parses the statement and stores every row as a record of the
// account. Either all rows are stored or none.
func (s *Service) Import(ctx context.Context, params ImportParams) ([]*record.Record, error) {
	parser, ok := s.parsers[params.Bank]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBank, params.Bank)
	}

	entries, err := parser.Parse(params.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidStatement, params.Bank, err)
	}

	for i := range entries {
		entries[i].OwnerID = params.OwnerID
		entries[i].AccountID = &params.AccountID

		categoryID, err := s.categories.Suggest(ctx, params.OwnerID, entries[i].Description)
		if err != nil {
			return nil, fmt.Errorf("suggesting category: %w", err)
		}

		entries[i].CategoryID = categoryID
	}

	records, err := s.records.CreateBatch(ctx, entries)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "imported statement",
		"bank", params.Bank, "account_id", params.AccountID, "records", len(records))

	return records, nil
}
