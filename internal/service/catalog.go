package service

import (
	"context"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
	"golang.org/x/sync/errgroup"
)

// Catalog is the read-only union of the dish, drink and side collections.
type Catalog struct {
	dishes *MenuService
	drinks *MenuService
	sides  *MenuService
}

// NewCatalog combines the three menu services
func NewCatalog(dishes, drinks, sides *MenuService) *Catalog {
	return &Catalog{dishes: dishes, drinks: drinks, sides: sides}
}

// Menu reads the three collections concurrently and fails if any read fails.
func (c *Catalog) Menu(ctx context.Context) (*models.Menu, error) {
	var menu models.Menu
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := c.dishes.List(gctx)
		menu.Dishes = items
		return err
	})
	g.Go(func() error {
		items, err := c.drinks.List(gctx)
		menu.Drinks = items
		return err
	})
	g.Go(func() error {
		items, err := c.sides.List(gctx)
		menu.Sides = items
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &menu, nil
}

// AvailableMenu is Menu restricted to items flagged available.
func (c *Catalog) AvailableMenu(ctx context.Context) (*models.Menu, error) {
	menu, err := c.Menu(ctx)
	if err != nil {
		return nil, err
	}
	available := menu.Available()
	return &available, nil
}
