package core

import "testing"

func TestNewGroceryItemClampsAndDefaults(t *testing.T) {
	it := NewGroceryItem("appels", -2, Money{Cents: -50}, "")
	if it.Quantity != 0 {
		t.Fatalf("negative quantity should clamp to 0, got %v", it.Quantity)
	}
	if it.UnitPrice.Cents != 0 {
		t.Fatalf("negative unit price should clamp to 0, got %d", it.UnitPrice.Cents)
	}
	if it.Store != DefaultStore {
		t.Fatalf("empty store should default to %q, got %q", DefaultStore, it.Store)
	}
	if it.ID == "" {
		t.Fatal("item should get a fresh identifier")
	}
	if it.CreatedAt.IsZero() {
		t.Fatal("item should get a creation timestamp")
	}
}

func TestLineTotal(t *testing.T) {
	cases := []struct {
		qty   float64
		cents int64
		want  int64
	}{
		{2, 500, 1000},
		{2.5, 100, 250},
		{3, 33, 99},
		{0.333, 100, 33}, // rounds at the line, not at the end
		{0, 500, 0},
	}
	for _, tc := range cases {
		it := GroceryItem{Quantity: tc.qty, UnitPrice: Money{Cents: tc.cents}}
		if got := it.LineTotal().Cents; got != tc.want {
			t.Fatalf("%v × %d expected %d, got %d", tc.qty, tc.cents, tc.want, got)
		}
	}
}

func TestGroceryItemValidate(t *testing.T) {
	valid := NewGroceryItem("melk", 1, Money{Cents: 120}, "Aldi")
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid item should pass, got %v", err)
	}

	noName := valid
	noName.Name = "  "
	if err := noName.Validate(); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings should validate, got %v", err)
	}
	s.CurrencyCode = "EURO"
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for 4-letter currency code")
	}
}
