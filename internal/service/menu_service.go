package service

import (
	"context"
	"strings"
	"time"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/repository"
	"github.com/google/uuid"
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

// MenuService handles business logic for one menu collection
type MenuService struct {
	repo repository.MenuRepository
	kind models.MenuKind
	now  Clock
}

// NewMenuService creates a menu service bound to kind
func NewMenuService(repo repository.MenuRepository, kind models.MenuKind) *MenuService {
	return &MenuService{
		repo: repo,
		kind: kind,
		now:  time.Now,
	}
}

// WithClock replaces the time source.
func (s *MenuService) WithClock(clock Clock) *MenuService {
	s.now = clock
	return s
}

func (s *MenuService) Kind() models.MenuKind {
	return s.kind
}

// List returns every item of the collection
func (s *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.repo.List(ctx, s.kind)
	if err != nil {
		return nil, storageError("list "+string(s.kind), err)
	}
	for i := range items {
		normalizeReviews(&items[i])
	}
	return items, nil
}

// Get returns an item by ID
func (s *MenuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("id", "is required")
	}
	item, err := s.repo.Get(ctx, s.kind, id)
	if err != nil {
		return nil, storageError("get "+string(s.kind), err)
	}
	normalizeReviews(item)
	return item, nil
}

// Create stores a new item. Available defaults to true and the preparation
// time to the collection default.
func (s *MenuService) Create(ctx context.Context, in models.MenuItemInput) (*models.MenuItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := s.checkCategory(in.Category); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	item := models.MenuItem{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       *in.Price,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		Available:   true,
		Reviews:     []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Available != nil {
		item.Available = *in.Available
	}
	prep := s.kind.DefaultPreparationTime()
	if in.PreparationTime != nil {
		prep = *in.PreparationTime
	}
	item.PreparationTime = &prep

	if err := s.repo.Insert(ctx, s.kind, item); err != nil {
		return nil, storageError("insert "+string(s.kind), err)
	}
	return &item, nil
}

// Update merges patch over the stored item and refreshes UpdatedAt.
func (s *MenuService) Update(ctx context.Context, id string, patch models.MenuItemPatch) (*models.MenuItem, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, invalid("name", "must not be empty")
	}
	if patch.Category != nil {
		if err := s.checkCategory(*patch.Category); err != nil {
			return nil, err
		}
	}

	return s.modify(ctx, id, func(item *models.MenuItem) error {
		patch.Apply(item)
		return nil
	})
}

// Delete removes an item. Orders referencing it by name are left untouched.
func (s *MenuService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("id", "is required")
	}
	if err := s.repo.Delete(ctx, s.kind, id); err != nil {
		return storageError("delete "+string(s.kind), err)
	}
	return nil
}

// AddReview appends a customer review.
func (s *MenuService) AddReview(ctx context.Context, id, review string) (*models.MenuItem, error) {
	review = strings.TrimSpace(review)
	if review == "" {
		return nil, invalid("review", "must not be empty")
	}
	return s.modify(ctx, id, func(item *models.MenuItem) error {
		item.Reviews = append(item.Reviews, review)
		return nil
	})
}

// RemoveReview deletes the review at index.
func (s *MenuService) RemoveReview(ctx context.Context, id string, index int) (*models.MenuItem, error) {
	return s.modify(ctx, id, func(item *models.MenuItem) error {
		if index < 0 || index >= len(item.Reviews) {
			return ErrNotFound
		}
		item.Reviews = append(item.Reviews[:index], item.Reviews[index+1:]...)
		return nil
	})
}

func (s *MenuService) modify(ctx context.Context, id string, change func(*models.MenuItem) error) (*models.MenuItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	createdAt := item.CreatedAt
	if err := change(item); err != nil {
		return nil, err
	}
	item.ID = id
	item.CreatedAt = createdAt
	item.UpdatedAt = s.now().UTC()

	if err := s.repo.Replace(ctx, s.kind, *item); err != nil {
		return nil, storageError("update "+string(s.kind), err)
	}
	return item, nil
}

// checkCategory only allows categories on dishes.
func (s *MenuService) checkCategory(category string) error {
	if category != "" && s.kind != models.KindDish {
		return invalid("category", "is only supported for dishes")
	}
	return nil
}

func normalizeReviews(item *models.MenuItem) {
	if item.Reviews == nil {
		item.Reviews = []string{}
	}
}
