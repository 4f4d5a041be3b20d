package currency

import (
	"testing"

	"boodschappen/internal/core"
)

func TestNew(t *testing.T) {
	svc, err := New("EUR")
	if err != nil {
		t.Fatalf("EUR should parse: %v", err)
	}
	if svc.Code() != "EUR" {
		t.Fatalf("expected code EUR, got %q", svc.Code())
	}
	if svc.Symbol() != "€" {
		t.Fatalf("expected symbol €, got %q", svc.Symbol())
	}

	if _, err := New("NOPE"); err == nil {
		t.Fatal("expected error for unknown code")
	}
}

func TestFormat(t *testing.T) {
	svc, err := New("EUR")
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "€12,34"},
		{500, "€5,00"},
		{5, "€0,05"},
		{0, "€0,00"},
		{-50, "-€0,50"},
	}
	for _, tc := range cases {
		if got := svc.Format(core.Money{Cents: tc.cents}); got != tc.want {
			t.Fatalf("%d expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}

func TestFormatFallbackSymbol(t *testing.T) {
	svc, err := New("CHF")
	if err != nil {
		t.Fatal(err)
	}
	if got := svc.Format(core.Money{Cents: 100}); got != "CHF 1,00" {
		t.Fatalf("expected code fallback, got %q", got)
	}
}
