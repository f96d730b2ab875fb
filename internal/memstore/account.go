package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/money/internal/account"
	"github.com/MrJamesThe3rd/money/internal/balance"
	"github.com/MrJamesThe3rd/money/internal/record"
)

func (s *Store) GetAccount(_ context.Context, ownerID, id uuid.UUID) (*account.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok || a.OwnerID != ownerID {
		return nil, account.ErrNotFound
	}

	return &account.Snapshot{
		Account: cloneAccount(a),
		Sums:    balance.FromRecords(id, s.records),
	}, nil
}

func (s *Store) ListAccounts(_ context.Context, ownerID uuid.UUID) ([]*account.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snaps []*account.Snapshot

	for id, a := range s.accounts {
		if a.OwnerID != ownerID {
			continue
		}

		snaps = append(snaps, &account.Snapshot{
			Account: cloneAccount(a),
			Sums:    balance.FromRecords(id, s.records),
		})
	}

	sort.Slice(snaps, func(i, j int) bool {
		a, b := snaps[i].Account, snaps[j].Account
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.Name < b.Name
		}

		return a.CreatedAt.Before(b.CreatedAt)
	})

	return snaps, nil
}

// DeleteAccount removes the account and every record touching it.
func (s *Store) DeleteAccount(_ context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok || a.OwnerID != ownerID {
		return account.ErrNotFound
	}

	delete(s.accounts, id)

	kept := s.records[:0]
	for _, r := range s.records {
		if !r.Touches(id) {
			kept = append(kept, r)
		}
	}

	s.records = kept

	return nil
}

func (s *Store) Begin(_ context.Context) (account.Tx, error) {
	s.mu.Lock()

	return &accountTx{
		store:    s,
		accounts: make(map[uuid.UUID]*account.Account),
	}, nil
}

// accountTx stages writes and applies them on Commit. The store lock is held
// for its whole lifetime.
type accountTx struct {
	store    *Store
	accounts map[uuid.UUID]*account.Account
	records  []*record.Record
	done     bool
}

func (tx *accountTx) lookup(id uuid.UUID) (*account.Account, bool) {
	if a, ok := tx.accounts[id]; ok {
		return a, true
	}

	a, ok := tx.store.accounts[id]

	return a, ok
}

func (tx *accountTx) nameTaken(a *account.Account) bool {
	seen := make(map[uuid.UUID]bool, len(tx.accounts))

	for id, other := range tx.accounts {
		seen[id] = true

		if id != a.ID && other.OwnerID == a.OwnerID && other.Name == a.Name {
			return true
		}
	}

	for id, other := range tx.store.accounts {
		if seen[id] {
			continue
		}

		if id != a.ID && other.OwnerID == a.OwnerID && other.Name == a.Name {
			return true
		}
	}

	return false
}

// LockAccount is a no-op: the transaction already holds the store lock.
func (tx *accountTx) LockAccount(context.Context, uuid.UUID) error {
	return nil
}

func (tx *accountTx) GetAccount(_ context.Context, ownerID, id uuid.UUID) (*account.Account, error) {
	a, ok := tx.lookup(id)
	if !ok || a.OwnerID != ownerID {
		return nil, account.ErrNotFound
	}

	return cloneAccount(a), nil
}

func (tx *accountTx) CreateAccount(_ context.Context, a *account.Account) error {
	a.ID = uuid.New()
	if tx.nameTaken(a) {
		return account.ErrDuplicateName
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	tx.accounts[a.ID] = cloneAccount(a)

	return nil
}

func (tx *accountTx) UpdateAccount(_ context.Context, a *account.Account) error {
	existing, ok := tx.lookup(a.ID)
	if !ok || existing.OwnerID != a.OwnerID {
		return account.ErrNotFound
	}

	if tx.nameTaken(a) {
		return account.ErrDuplicateName
	}

	a.UpdatedAt = time.Now().UTC()

	tx.accounts[a.ID] = cloneAccount(a)

	return nil
}

func (tx *accountTx) Sums(_ context.Context, accountID uuid.UUID) (balance.Sums, error) {
	all := make([]*record.Record, 0, len(tx.store.records)+len(tx.records))
	all = append(all, tx.store.records...)
	all = append(all, tx.records...)

	return balance.FromRecords(accountID, all), nil
}

func (tx *accountTx) CreateRecord(_ context.Context, r *record.Record) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now().UTC()

	tx.records = append(tx.records, cloneRecord(r))

	return nil
}

func (tx *accountTx) Commit() error {
	if tx.done {
		return nil
	}

	for id, a := range tx.accounts {
		tx.store.accounts[id] = a
	}

	tx.store.records = append(tx.store.records, tx.records...)

	tx.finish()

	return nil
}

func (tx *accountTx) Rollback() error {
	if tx.done {
		return nil
	}

	tx.finish()

	return nil
}

func (tx *accountTx) finish() {
	tx.done = true
	tx.store.mu.Unlock()
}
