package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/money/internal/category"
)

func (s *Store) CreateCategory(_ context.Context, c *category.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.categories {
		if other.OwnerID == c.OwnerID && other.Name == c.Name {
			return category.ErrDuplicateName
		}
	}

	now := time.Now().UTC()
	c.ID = uuid.New()
	c.CreatedAt = now
	c.UpdatedAt = now

	stored := *c
	s.categories[c.ID] = &stored

	return nil
}

func (s *Store) GetCategory(_ context.Context, ownerID, id uuid.UUID) (*category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok || c.OwnerID != ownerID {
		return nil, category.ErrNotFound
	}

	out := *c

	return &out, nil
}

func (s *Store) ListCategories(_ context.Context, ownerID uuid.UUID) ([]*category.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*category.Category

	for _, c := range s.categories {
		if c.OwnerID != ownerID {
			continue
		}

		cp := *c
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

// DeleteCategory removes the category and its rules and detaches it from
// records.
func (s *Store) DeleteCategory(_ context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok || c.OwnerID != ownerID {
		return category.ErrNotFound
	}

	delete(s.categories, id)

	for _, r := range s.records {
		if r.CategoryID != nil && *r.CategoryID == id {
			r.CategoryID = nil
		}
	}

	kept := s.rules[:0]
	for _, rule := range s.rules {
		if rule.CategoryID != id {
			kept = append(kept, rule)
		}
	}

	s.rules = kept

	return nil
}

func (s *Store) FindRule(_ context.Context, ownerID uuid.UUID, rawDescription string) (*uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	desc := strings.ToLower(rawDescription)

	var best *category.Rule

	for _, rule := range s.rules {
		if rule.OwnerID != ownerID || !strings.Contains(desc, strings.ToLower(rule.Pattern)) {
			continue
		}

		if best == nil || len(rule.Pattern) > len(best.Pattern) ||
			(len(rule.Pattern) == len(best.Pattern) && !rule.CreatedAt.Before(best.CreatedAt)) {
			best = rule
		}
	}

	if best == nil {
		return nil, nil
	}

	id := best.CategoryID

	return &id, nil
}

func (s *Store) CreateRule(_ context.Context, r *category.Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = uuid.New()
	r.CreatedAt = time.Now().UTC()

	stored := *r
	s.rules = append(s.rules, &stored)

	return nil
}
