package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/money/internal/record"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads a record row from the scanner.
// Expected column order matches selectRecordColumns.
func scanRecord(s scanner) (*record.Record, error) {
	var r record.Record

	var typeStr, methodStr string

	if err := s.Scan(
		&r.ID, &r.OwnerID, &r.Title, &r.Description, &r.Amount, &typeStr,
		&r.AccountID, &r.FromAccountID, &r.ToAccountID, &r.CategoryID,
		&methodStr, &r.Currency, &r.OccurredAt, &r.CreatedAt,
	); err != nil {
		return nil, err
	}

	r.Type = record.Type(typeStr)
	r.PaymentMethod = record.PaymentMethod(methodStr)

	return &r, nil
}

const selectRecordColumns = `
	r.id, r.owner_id, r.title, r.description, r.amount, r.type,
	r.account_id, r.from_account_id, r.to_account_id, r.category_id,
	r.payment_method, r.currency, r.occurred_at, r.created_at
`

const insertRecordQuery = `
	INSERT INTO records (
		owner_id, title, description, amount, type,
		account_id, from_account_id, to_account_id, category_id,
		payment_method, currency, occurred_at, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
	RETURNING id, created_at
`

// Insert writes r through q and fills its generated fields.
func Insert(ctx context.Context, q Querier, r *record.Record) error {
	err := q.QueryRowContext(ctx, insertRecordQuery,
		r.OwnerID,
		r.Title,
		r.Description,
		r.Amount,
		r.Type,
		r.AccountID,
		r.FromAccountID,
		r.ToAccountID,
		r.CategoryID,
		r.PaymentMethod,
		r.Currency,
		r.OccurredAt,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating record: %w", err)
	}

	return nil
}

func (s *Store) CreateRecord(ctx context.Context, r *record.Record) error {
	return Insert(ctx, s.db, r)
}

// CreateRecords inserts the batch in one database transaction.
func (s *Store) CreateRecords(ctx context.Context, rs []*record.Record) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, r := range rs {
		if err := Insert(ctx, dbTx, r); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetRecord(ctx context.Context, ownerID, id uuid.UUID) (*record.Record, error) {
	query := `SELECT ` + selectRecordColumns + `
		FROM records r
		WHERE r.id = $1 AND r.owner_id = $2`

	r, err := scanRecord(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, record.ErrNotFound
		}

		return nil, fmt.Errorf("getting record: %w", err)
	}

	return r, nil
}

func (s *Store) ListRecords(ctx context.Context, filter record.ListFilter) ([]*record.Record, error) {
	query := `SELECT ` + selectRecordColumns + `
		FROM records r
		WHERE r.owner_id = $1`

	args := []any{filter.OwnerID}
	argIdx := 2

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND (r.account_id = $%d OR r.from_account_id = $%d OR r.to_account_id = $%d)", argIdx, argIdx, argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND r.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND r.occurred_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND r.occurred_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY r.occurred_at DESC, r.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []*record.Record

	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating record rows: %w", err)
	}

	return records, nil
}

func (s *Store) DeleteRecord(ctx context.Context, ownerID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}

	if n == 0 {
		return record.ErrNotFound
	}

	return nil
}
