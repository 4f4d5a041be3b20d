package ledger

import (
	"testing"
	"time"

	"boodschappen/internal/core"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAddItemDefaults(t *testing.T) {
	l := New(nil)
	it := l.AddItem("appels", 2, core.Money{Cents: 500}, "")
	if it.Store != core.DefaultStore {
		t.Fatalf("expected default store, got %q", it.Store)
	}
	if got := l.TotalOfView().Cents; got != 1000 {
		t.Fatalf("expected view total 1000, got %d", got)
	}
}

func TestAddItemRegistersNewStore(t *testing.T) {
	l := New(nil)
	var seen []string
	l.OnNewStore(func(s string) { seen = append(seen, s) })

	l.AddItem("appels", 1, core.Money{Cents: 100}, "Aldi")
	l.AddItem("peren", 1, core.Money{Cents: 100}, "winkel Aldi") // same canonical store
	l.AddItem("melk", 1, core.Money{Cents: 100}, "Colruyt")

	if len(seen) != 2 || seen[0] != "Aldi" || seen[1] != "Colruyt" {
		t.Fatalf("expected hook for Aldi and Colruyt, got %v", seen)
	}
}

func TestCloseWeekConservation(t *testing.T) {
	l := New(nil)
	l.AddItem("appels", 2, core.Money{Cents: 500}, "Aldi")
	l.AddItem("melk", 1, core.Money{Cents: 120}, "Colruyt")
	standing := l.AddItem("koffie", 1, core.Money{Cents: 600}, "Aldi")
	standing.Recurring = true
	l.UpdateItem(standing)

	before := l.TotalOfView()
	week := l.CloseWeek()
	if week.Cents != before.Cents {
		t.Fatalf("CloseWeek should return the pre-close basket total %d, got %d", before.Cents, week.Cents)
	}
	if got := l.MonthCarry().Cents; got != week.Cents {
		t.Fatalf("carry should equal folded week total %d, got %d", week.Cents, got)
	}

	items := l.Items()
	if len(items) != 1 || !items[0].Recurring {
		t.Fatalf("only the recurring item should survive, got %v", items)
	}

	// Carry accumulates over a second close.
	l.AddItem("thee", 1, core.Money{Cents: 300}, "Aldi")
	second := l.CloseWeek()
	want := week.Cents + second.Cents
	if got := l.MonthCarry().Cents; got != want {
		t.Fatalf("carry should accumulate to %d, got %d", want, got)
	}
}

func TestLazyMonthRollover(t *testing.T) {
	now := time.Date(2026, 3, 28, 12, 0, 0, 0, time.UTC)
	l := New(func() time.Time { return now })
	l.AddItem("appels", 2, core.Money{Cents: 500}, "Aldi")
	rec := l.AddItem("koffie", 1, core.Money{Cents: 600}, "Aldi")
	rec.Recurring = true
	l.UpdateItem(rec)
	l.CloseWeek()

	// Cross the month boundary; the next query must purge and reset.
	now = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	items := l.Items()
	if len(items) != 1 || items[0].ID != rec.ID {
		t.Fatalf("expected only the recurring item after rollover, got %v", items)
	}
	if got := l.MonthCarry().Cents; got != 0 {
		t.Fatalf("carry should reset on rollover, got %d", got)
	}
	if l.MonthKey() != "2026-04" {
		t.Fatalf("month key should catch up, got %q", l.MonthKey())
	}
}

func TestCloseMonthAdvancesKey(t *testing.T) {
	clock := fixedClock(time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC))
	l := New(clock)
	l.AddItem("appels", 1, core.Money{Cents: 100}, "Aldi")
	l.CloseWeek()

	l.CloseMonth()
	if l.MonthKey() != "2027-01" {
		t.Fatalf("expected forward roll to 2027-01, got %q", l.MonthKey())
	}
	if l.MonthCarry().Cents != 0 || len(l.items) != 0 {
		t.Fatal("close month should purge and reset carry")
	}
}

func TestClearMonthRederivesKey(t *testing.T) {
	clock := fixedClock(time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC))
	l := New(clock)
	l.AddItem("appels", 1, core.Money{Cents: 100}, "Aldi")
	l.CloseWeek()

	l.ClearMonth()
	if l.MonthKey() != "2026-06" {
		t.Fatalf("clear month should keep the current month, got %q", l.MonthKey())
	}
	if l.MonthCarry().Cents != 0 {
		t.Fatal("clear month should reset carry")
	}
}

func TestTotalByStoreCanonicalMatch(t *testing.T) {
	l := New(nil)
	l.AddItem("appels", 2, core.Money{Cents: 100}, "Aldi")
	l.AddItem("melk", 1, core.Money{Cents: 120}, "winkel ALDI!")
	l.AddItem("brood", 1, core.Money{Cents: 250}, "Colruyt")

	if got := l.TotalByStore("aldi").Cents; got != 320 {
		t.Fatalf("expected 320 for aldi, got %d", got)
	}
	if got := l.TotalByStore("store Colruyt").Cents; got != 250 {
		t.Fatalf("expected 250 for Colruyt, got %d", got)
	}
}

func TestStoreBreakdownSorted(t *testing.T) {
	l := New(nil)
	l.AddItem("melk", 1, core.Money{Cents: 734}, "colruyt")
	l.AddItem("appels", 1, core.Money{Cents: 500}, "Aldi")

	got := l.StoreBreakdown()
	if len(got) != 2 {
		t.Fatalf("expected 2 stores, got %d", len(got))
	}
	if got[0].Store != "Aldi" || got[1].Store != "colruyt" {
		t.Fatalf("expected case-insensitive order Aldi, colruyt; got %v", got)
	}
	if got[0].Amount.Cents+got[1].Amount.Cents != 1234 {
		t.Fatalf("per-store sums should add up to the basket total")
	}
}

func TestTotalThisMonthIncludesCarry(t *testing.T) {
	l := New(nil)
	l.Restore(nil, l.MonthKey(), core.Money{Cents: 2000})
	l.AddItem("appels", 1, core.Money{Cents: 500}, "Aldi")

	if got := l.TotalThisMonth().Cents; got != 2500 {
		t.Fatalf("expected carry+view 2500, got %d", got)
	}
}

func TestCanonicalStoreName(t *testing.T) {
	cases := []struct{ in, out string }{
		{"Aldi", "aldi"},
		{"winkel Aldi", "aldi"},
		{"store  Albert   Heijn", "albert heijn"},
		{"C&A!", "ca"},
		{"  Lidl  ", "lidl"},
	}
	for _, tc := range cases {
		if got := CanonicalStoreName(tc.in); got != tc.out {
			t.Fatalf("%q expected %q, got %q", tc.in, tc.out, got)
		}
	}
}
