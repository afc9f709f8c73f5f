package models

import (
	"strings"
	"time"
)

// MenuKind identifies one of the three menu collections.
type MenuKind string

const (
	KindDish  MenuKind = "dishes"
	KindDrink MenuKind = "drinks"
	KindSide  MenuKind = "sides"
)

// MenuKinds lists the catalog collections in the order they are read back to callers.
var MenuKinds = []MenuKind{KindDish, KindDrink, KindSide}

// Valid reports whether k names a known collection.
func (k MenuKind) Valid() bool {
	switch k {
	case KindDish, KindDrink, KindSide:
		return true
	}
	return false
}

// Collection returns the document collection backing k.
func (k MenuKind) Collection() string {
	return string(k)
}

// DefaultPreparationTime is used when an item carries no preparation time.
func (k MenuKind) DefaultPreparationTime() int {
	switch k {
	case KindDrink:
		return 2
	case KindSide:
		return 10
	default:
		return 15
	}
}

// Dish categories
const (
	CategoryEntree  = "entree"
	CategoryPlat    = "plat"
	CategoryDessert = "dessert"
)

// MenuItem is a dish, drink or side. Orders reference it by Name only.
type MenuItem struct {
	ID              string    `json:"id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	Description     string    `json:"description" bson:"description"`
	Price           float64   `json:"price" bson:"price"`
	Category        string    `json:"category,omitempty" bson:"category,omitempty"`
	ImageURL        string    `json:"imageUrl" bson:"imageUrl"`
	Available       bool      `json:"available" bson:"available"`
	PreparationTime *int      `json:"preparationTime,omitempty" bson:"preparationTime,omitempty"`
	Reviews         []string  `json:"reviews" bson:"reviews"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PreparationMinutes returns the item's preparation time, falling back to the kind default.
func (m MenuItem) PreparationMinutes(kind MenuKind) int {
	if m.PreparationTime != nil && *m.PreparationTime > 0 {
		return *m.PreparationTime
	}
	return kind.DefaultPreparationTime()
}

// MenuItemInput is the body accepted when creating a menu item.
type MenuItemInput struct {
	Name            string   `json:"name" validate:"required"`
	Description     string   `json:"description"`
	Price           *float64 `json:"price" validate:"required,gte=0"`
	Category        string   `json:"category" validate:"omitempty,oneof=entree plat dessert"`
	ImageURL        string   `json:"imageUrl"`
	Available       *bool    `json:"available"`
	PreparationTime *int     `json:"preparationTime" validate:"omitempty,gte=1"`
}

// MenuItemPatch carries the fields of a partial update. Nil fields are left untouched.
type MenuItemPatch struct {
	Name            *string   `json:"name"`
	Description     *string   `json:"description"`
	Price           *float64  `json:"price" validate:"omitempty,gte=0"`
	Category        *string   `json:"category" validate:"omitempty,oneof=entree plat dessert"`
	ImageURL        *string   `json:"imageUrl"`
	Available       *bool     `json:"available"`
	PreparationTime *int      `json:"preparationTime" validate:"omitempty,gte=1"`
	Reviews         *[]string `json:"reviews"`
}

// Apply merges the patch over item.
func (p MenuItemPatch) Apply(item *MenuItem) {
	if p.Name != nil {
		item.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}
	if p.Available != nil {
		item.Available = *p.Available
	}
	if p.PreparationTime != nil {
		item.PreparationTime = p.PreparationTime
	}
	if p.Reviews != nil {
		item.Reviews = append([]string{}, (*p.Reviews)...)
	}
}

// Menu is the union of the three collections.
type Menu struct {
	Dishes []MenuItem `json:"dishes"`
	Drinks []MenuItem `json:"drinks"`
	Sides  []MenuItem `json:"sides"`
}

// Items returns the items of the given kind.
func (m Menu) Items(kind MenuKind) []MenuItem {
	switch kind {
	case KindDish:
		return m.Dishes
	case KindDrink:
		return m.Drinks
	case KindSide:
		return m.Sides
	}
	return nil
}

// Available keeps only items flagged available.
func (m Menu) Available() Menu {
	return Menu{
		Dishes: filterAvailable(m.Dishes),
		Drinks: filterAvailable(m.Drinks),
		Sides:  filterAvailable(m.Sides),
	}
}

// Len counts every item across the three collections.
func (m Menu) Len() int {
	return len(m.Dishes) + len(m.Drinks) + len(m.Sides)
}

func filterAvailable(items []MenuItem) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if item.Available {
			out = append(out, item)
		}
	}
	return out
}
