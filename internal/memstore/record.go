package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/money/internal/record"
)

func (s *Store) CreateRecord(ctx context.Context, r *record.Record) error {
	return s.CreateRecords(ctx, []*record.Record{r})
}

func (s *Store) CreateRecords(_ context.Context, rs []*record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	for _, r := range rs {
		r.ID = uuid.New()
		r.CreatedAt = now
		s.records = append(s.records, cloneRecord(r))
	}

	return nil
}

func (s *Store) GetRecord(_ context.Context, ownerID, id uuid.UUID) (*record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.ID == id && r.OwnerID == ownerID {
			return cloneRecord(r), nil
		}
	}

	return nil, record.ErrNotFound
}

// ListRecords returns matching records ordered by occurred_at then
// created_at, most recent first.
func (s *Store) ListRecords(_ context.Context, filter record.ListFilter) ([]*record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*record.Record

	// Walk newest insertion first so full ties keep that order.
	for i := len(s.records) - 1; i >= 0; i-- {
		if !matches(s.records[i], filter) {
			continue
		}

		out = append(out, cloneRecord(s.records[i]))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}

		return out[i].OccurredAt.After(out[j].OccurredAt)
	})

	return out, nil
}

func matches(r *record.Record, f record.ListFilter) bool {
	if r.OwnerID != f.OwnerID {
		return false
	}

	if f.AccountID != nil && !r.Touches(*f.AccountID) {
		return false
	}

	if f.Type != nil && r.Type != *f.Type {
		return false
	}

	if f.StartDate != nil && r.OccurredAt.Before(*f.StartDate) {
		return false
	}

	if f.EndDate != nil && r.OccurredAt.After(*f.EndDate) {
		return false
	}

	return true
}

func (s *Store) DeleteRecord(_ context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if r.ID == id && r.OwnerID == ownerID {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}

	return record.ErrNotFound
}
