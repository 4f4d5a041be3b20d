package chat

import (
	"strings"
	"testing"

	"boodschappen/internal/core"
	"boodschappen/internal/ledger"
)

// testSession wires an interpreter to a real ledger the way the service
// layer does in production.
type testSession struct {
	ledger *ledger.Ledger
	interp *Interpreter
}

func newTestSession() *testSession {
	l := ledger.New(nil)
	s := &testSession{ledger: l}
	s.interp = NewInterpreter(Handlers{
		Items: l.Items,
		AddItem: func(name string, quantity float64, unitPrice core.Money, store string) {
			l.AddItem(name, quantity, unitPrice, store)
		},
		MonthCarry:     l.MonthCarry,
		CurrencySymbol: func() string { return "€" },
		CurrencyCode:   func() string { return "EUR" },
	})
	return s
}

func TestRespondNotConfigured(t *testing.T) {
	i := NewInterpreter(Handlers{})
	if got := i.Respond("totaal"); got != "De chat is nog niet klaar om te gebruiken." {
		t.Fatalf("got %q", got)
	}
}

func TestRespondEmptyInput(t *testing.T) {
	s := newTestSession()
	got := s.interp.Respond("   ")
	if !strings.Contains(got, "voeg toe 2 appels") {
		t.Fatalf("empty input should prompt with examples, got %q", got)
	}
	if len(s.ledger.Items()) != 0 {
		t.Fatal("empty input must not mutate the ledger")
	}
}

func TestRespondAddTotalPrice(t *testing.T) {
	s := newTestSession()
	got := s.interp.Respond("voeg toe 2 appels voor 10 euro in Aldi")
	if !strings.HasPrefix(got, "Toegevoegd: 2 × appels in Aldi.") {
		t.Fatalf("unexpected reply %q", got)
	}

	items := s.ledger.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	it := items[0]
	if it.Name != "appels" || it.Quantity != 2 || it.UnitPrice.Cents != 500 || it.Store != "Aldi" {
		t.Fatalf("stored item wrong: %#v", it)
	}
}

func TestRespondAddPerUnitPrice(t *testing.T) {
	s := newTestSession()
	s.interp.Respond("voeg toe 2 appels voor elk 1 euro in Colruyt")

	it := s.ledger.Items()[0]
	if it.UnitPrice.Cents != 100 {
		t.Fatalf("per-unit price should stay 1.00, got %d cents", it.UnitPrice.Cents)
	}
	if got := it.LineTotal().Cents; got != 200 {
		t.Fatalf("line total should be 2.00, got %d cents", got)
	}
}

func TestRespondAddSyntaxInvalidLeavesLedgerUnchanged(t *testing.T) {
	s := newTestSession()
	got := s.interp.Respond("voeg toe appels voor 10 euro")
	if !strings.Contains(got, "voeg toe <aantal>") {
		t.Fatalf("expected add-specific help, got %q", got)
	}
	if len(s.ledger.Items()) != 0 {
		t.Fatal("malformed add must not mutate the ledger")
	}
}

func TestRespondStoreBreakdown(t *testing.T) {
	s := newTestSession()
	s.interp.Respond("voeg toe 1 appels voor 5 euro in Aldi")
	s.interp.Respond("voeg toe 1 melk voor 7,34 in Colruyt")

	got := s.interp.Respond("totaal per winkel")
	want := "Totalen per winkel:\n• Aldi: €5,00\n• Colruyt: €7,34"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRespondMonthTotalIncludesCarry(t *testing.T) {
	s := newTestSession()
	s.ledger.Restore(nil, s.ledger.MonthKey(), core.Money{Cents: 2000})
	s.interp.Respond("voeg toe 1 brood voor 5 euro")

	got := s.interp.Respond("totaal deze maand")
	if got != "Totaal deze maand: €25,00 (inclusief reeds geboekte weken)." {
		t.Fatalf("got %q", got)
	}
}

func TestRespondStoreScopedTotal(t *testing.T) {
	s := newTestSession()
	s.interp.Respond("voeg toe 2 appels voor 10 euro in Aldi")
	s.interp.Respond("voeg toe 1 melk voor 2 euro in Colruyt")

	if got := s.interp.Respond("totaal in Aldi"); got != "Totaal in Aldi: €10,00." {
		t.Fatalf("got %q", got)
	}
}

func TestRespondCurrentViewCombined(t *testing.T) {
	s := newTestSession()
	s.ledger.Restore(nil, s.ledger.MonthKey(), core.Money{Cents: 1000})
	s.interp.Respond("voeg toe 1 kaas voor 4 euro")

	got := s.interp.Respond("totaal")
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two-line combined reply, got %q", got)
	}
	if !strings.Contains(lines[0], "€4,00") || !strings.Contains(lines[1], "€14,00") {
		t.Fatalf("combined totals wrong: %q", got)
	}
}

func TestRespondUnrecognized(t *testing.T) {
	s := newTestSession()
	got := s.interp.Respond("doe eens iets")
	if !strings.Contains(got, "Probeer een van deze opdrachten") {
		t.Fatalf("expected generic help, got %q", got)
	}
}
