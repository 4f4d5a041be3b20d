package chat

import (
	"strings"
	"testing"

	"boodschappen/internal/core"
)

func euroFormatter() *Formatter {
	return NewFormatter(func() string { return "€" })
}

func TestAddSuccessReply(t *testing.T) {
	f := euroFormatter()
	item := core.GroceryItem{
		Name:      "appels",
		Quantity:  2,
		UnitPrice: core.Money{Cents: 500},
		Store:     "Aldi",
	}
	got := f.AddSuccess(item)
	want := "Toegevoegd: 2 × appels in Aldi.\nPrijs/stuk: €5,00 • Totaal: €10,00."
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestStoreTotalReply(t *testing.T) {
	f := euroFormatter()
	got := f.StoreTotal("Aldi", core.Money{Cents: 1234})
	if got != "Totaal in Aldi: €12,34." {
		t.Fatalf("got %q", got)
	}
}

func TestStoreBreakdownReply(t *testing.T) {
	f := euroFormatter()
	got := f.StoreBreakdown([]core.StoreTotal{
		{Store: "Aldi", Amount: core.Money{Cents: 500}},
		{Store: "Colruyt", Amount: core.Money{Cents: 734}},
	})
	want := "Totalen per winkel:\n• Aldi: €5,00\n• Colruyt: €7,34"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	if got := f.StoreBreakdown(nil); got != "Je lijst is nog leeg." {
		t.Fatalf("empty list reply wrong: %q", got)
	}
}

func TestTotalReplies(t *testing.T) {
	f := euroFormatter()
	if got := f.WeekTotal(core.Money{Cents: 1234}); got != "Totaal deze week: €12,34." {
		t.Fatalf("week reply: %q", got)
	}
	want := "Totaal deze maand: €25,00 (inclusief reeds geboekte weken)."
	if got := f.MonthTotal(core.Money{Cents: 2500}); got != want {
		t.Fatalf("month reply: %q", got)
	}

	combined := f.CurrentView(core.Money{Cents: 500}, core.Money{Cents: 2500})
	lines := strings.Split(combined, "\n")
	if len(lines) != 2 {
		t.Fatalf("combined reply should be two lines, got %q", combined)
	}
	if !strings.Contains(lines[0], "€5,00") || !strings.Contains(lines[1], "€25,00") {
		t.Fatalf("combined reply content wrong: %q", combined)
	}
}

func TestHelpRepliesAreDistinct(t *testing.T) {
	f := euroFormatter()
	if f.AddHelp() == f.GenericHelp() {
		t.Fatal("add-syntax help must differ from the generic fallback")
	}
	if f.StoreMissing() == f.GenericHelp() {
		t.Fatal("missing-store reply must differ from the generic fallback")
	}
	if f.NotReady() != "De chat is nog niet klaar om te gebruiken." {
		t.Fatalf("not-ready reply fixture changed: %q", f.NotReady())
	}
}
