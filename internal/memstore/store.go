// Package memstore keeps every entity in process memory. It backs the
// "memory" storage backend and mirrors the semantics of the postgres stores:
// owner scoping, unique names per owner, cascading deletes and
// single-snapshot balance sums.
package memstore

import (
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/money/internal/account"
	"github.com/MrJamesThe3rd/money/internal/category"
	"github.com/MrJamesThe3rd/money/internal/record"
	"github.com/MrJamesThe3rd/money/internal/user"
)

// Store is safe for concurrent use. A transaction returned by Begin holds the
// store lock until it commits or rolls back.
type Store struct {
	mu         sync.Mutex
	accounts   map[uuid.UUID]*account.Account
	records    []*record.Record
	categories map[uuid.UUID]*category.Category
	rules      []*category.Rule
	users      map[uuid.UUID]*user.User
}

func New() *Store {
	return &Store{
		accounts:   make(map[uuid.UUID]*account.Account),
		categories: make(map[uuid.UUID]*category.Category),
		users:      make(map[uuid.UUID]*user.User),
	}
}

var (
	_ account.Repository  = (*Store)(nil)
	_ record.Repository   = (*Store)(nil)
	_ category.Repository = (*Store)(nil)
	_ user.Repository     = (*Store)(nil)
)

func cloneAccount(a *account.Account) *account.Account {
	c := *a
	return &c
}

func cloneRecord(r *record.Record) *record.Record {
	c := *r
	c.AccountID = cloneID(r.AccountID)
	c.FromAccountID = cloneID(r.FromAccountID)
	c.ToAccountID = cloneID(r.ToAccountID)
	c.CategoryID = cloneID(r.CategoryID)

	return &c
}

func cloneID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}

	c := *id

	return &c
}
