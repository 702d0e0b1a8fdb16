// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrItemNotFound is returned when no catalog item matches an identifier
var ErrItemNotFound = errors.New("product not found")

// Loader supplies catalog items at startup
type Loader interface {
	LoadItems(ctx context.Context) ([]Item, error)
}

// StaticLoader serves the built-in catalog
type StaticLoader struct{}

// LoadItems returns DefaultItems
func (StaticLoader) LoadItems(context.Context) ([]Item, error) {
	return DefaultItems(), nil
}

// Service is the read-only catalog. It is safe for concurrent use because
// nothing mutates it after NewService returns.
type Service struct {
	items []Item
	index map[string]int
}

// NewService loads items once from loader and indexes them by ID
func NewService(ctx context.Context, loader Loader, logger logrus.FieldLogger) (*Service, error) {
	items, err := loader.LoadItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	s, err := newServiceFromItems(items)
	if err != nil {
		return nil, err
	}

	logger.WithField("items", len(s.items)).Info("Catalog loaded")
	return s, nil
}

func newServiceFromItems(items []Item) (*Service, error) {
	s := &Service{
		items: make([]Item, len(items)),
		index: make(map[string]int, len(items)),
	}
	copy(s.items, items)

	for i, item := range s.items {
		if item.ID == "" {
			return nil, fmt.Errorf("catalog item %q has an empty id", item.Name)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("catalog item %s has a negative price", item.ID)
		}
		if _, dup := s.index[item.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog item id %s", item.ID)
		}
		s.index[item.ID] = i
	}

	return s, nil
}

// Items returns every item in catalog order
func (s *Service) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Featured returns the first n items
func (s *Service) Featured(n int) []Item {
	if n > len(s.items) {
		n = len(s.items)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Item, n)
	copy(out, s.items[:n])
	return out
}

// Count returns the number of items
func (s *Service) Count() int {
	return len(s.items)
}

// Get resolves an item by identifier
func (s *Service) Get(id string) (Item, error) {
	i, ok := s.index[id]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return s.items[i], nil
}
