package models

import "testing"

func TestParseOrderType(t *testing.T) {
	tests := []struct {
		raw    string
		want   OrderType
		wantOK bool
	}{
		{"dine-in", OrderDineIn, true},
		{"DINE_IN", OrderDineIn, true},
		{"takeaway", OrderTakeaway, true},
		{"takeout", OrderTakeaway, true},
		{" Takeaway ", OrderTakeaway, true},
		{"delivery", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseOrderType(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseOrderType(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range OrderStatuses {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []OrderStatus{"", "cancelled", "PENDING"} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestMenuItem_PreparationMinutes(t *testing.T) {
	twenty := 20
	zero := 0

	tests := []struct {
		name string
		item MenuItem
		kind MenuKind
		want int
	}{
		{"explicit", MenuItem{PreparationTime: &twenty}, KindDrink, 20},
		{"dish default", MenuItem{}, KindDish, 15},
		{"side default", MenuItem{}, KindSide, 10},
		{"drink default", MenuItem{}, KindDrink, 2},
		{"zero falls back", MenuItem{PreparationTime: &zero}, KindDish, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.PreparationMinutes(tt.kind); got != tt.want {
				t.Errorf("PreparationMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMenu_Available(t *testing.T) {
	menu := Menu{
		Dishes: []MenuItem{{Name: "A", Available: true}, {Name: "C", Available: false}},
		Drinks: []MenuItem{{Name: "Eau", Available: true}},
		Sides:  []MenuItem{{Name: "Frites", Available: false}},
	}

	available := menu.Available()
	if available.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", available.Len())
	}
	if available.Dishes[0].Name != "A" {
		t.Errorf("Dishes[0] = %s, want A", available.Dishes[0].Name)
	}
	if len(available.Sides) != 0 {
		t.Errorf("expected no sides, got %d", len(available.Sides))
	}
	if menu.Len() != 4 {
		t.Errorf("source menu modified: Len() = %d", menu.Len())
	}
}

func TestMenuItemPatch_Apply(t *testing.T) {
	item := MenuItem{Name: "Couscous", Price: 800, Available: true, Reviews: []string{"bon"}}

	name := "  Couscous royal "
	price := 1200.0
	available := false
	reviews := []string{"bon", "excellent"}
	MenuItemPatch{Name: &name, Price: &price, Available: &available, Reviews: &reviews}.Apply(&item)

	if item.Name != "Couscous royal" {
		t.Errorf("Name = %q", item.Name)
	}
	if item.Price != 1200 {
		t.Errorf("Price = %v", item.Price)
	}
	if item.Available {
		t.Error("Available should be false")
	}
	if len(item.Reviews) != 2 {
		t.Errorf("Reviews = %v", item.Reviews)
	}

	reviews[0] = "changed"
	if item.Reviews[0] != "bon" {
		t.Error("Apply should copy the reviews slice")
	}
}
