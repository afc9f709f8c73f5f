package vapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
)

const menuHeader = "MENU COMPLET DU RESTAURANT:"

type menuSection struct {
	title string
	kind  models.MenuKind
	items []models.MenuItem
}

// RenderMenu formats the menu as text grouped by section, each item with its
// price and preparation time. Sections without items are left out.
// Callers pass the menu already filtered to available items.
func RenderMenu(menu models.Menu) string {
	var entrees, plats, desserts []models.MenuItem
	for _, dish := range menu.Dishes {
		switch dish.Category {
		case models.CategoryEntree:
			entrees = append(entrees, dish)
		case models.CategoryDessert:
			desserts = append(desserts, dish)
		default:
			plats = append(plats, dish)
		}
	}

	sections := []menuSection{
		{title: "ENTRÉES", kind: models.KindDish, items: entrees},
		{title: "PLATS PRINCIPAUX", kind: models.KindDish, items: plats},
		{title: "DESSERTS", kind: models.KindDish, items: desserts},
		{title: "BOISSONS", kind: models.KindDrink, items: menu.Drinks},
		{title: "ACCOMPAGNEMENTS", kind: models.KindSide, items: menu.Sides},
	}

	var b strings.Builder
	b.WriteString(menuHeader)
	written := 0
	for _, section := range sections {
		if len(section.items) == 0 {
			continue
		}
		written++
		fmt.Fprintf(&b, "\n\n%s:", section.title)
		for _, item := range sortedByName(section.items) {
			fmt.Fprintf(&b, "\n- %s: %s DA (%d min)", item.Name, formatPrice(item.Price), item.PreparationMinutes(section.kind))
		}
	}
	if written == 0 {
		b.WriteString("\n\nAucun article n'est disponible pour le moment.")
	}
	return b.String()
}

func sortedByName(items []models.MenuItem) []models.MenuItem {
	out := append([]models.MenuItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
