package chat

import (
	"fmt"
	"strings"

	"boodschappen/internal/core"
)

// Reply fixtures. The help blocks are presentation detail, but the
// distinction between the add-specific help and the generic fallback is a
// contract, as is every total format below.
const (
	msgNotReady  = "De chat is nog niet klaar om te gebruiken."
	msgEmptyList = "Je lijst is nog leeg."

	msgEmptyInput = "Typ een opdracht, bijvoorbeeld:\n" +
		"• voeg toe 2 appels voor 10 euro in Aldi\n" +
		"• totaal\n" +
		"• totaal per winkel"

	msgAddHelp = "Die voeg toe-opdracht begrijp ik niet helemaal.\n" +
		"Gebruik: voeg toe <aantal> <naam> voor [elk] <prijs> [euro] [in <winkel>]\n" +
		"Bijvoorbeeld: voeg toe 2 appels voor 10 euro in Aldi"

	msgStoreMissing = "Welke winkel bedoel je? Probeer bijvoorbeeld: totaal in Aldi."

	msgGenericHelp = "Dat begrijp ik niet. Probeer een van deze opdrachten:\n" +
		"• voeg toe 2 appels voor 10 euro in Aldi\n" +
		"• totaal deze week\n" +
		"• totaal deze maand\n" +
		"• totaal per winkel\n" +
		"• totaal in Aldi"
)

// Formatter renders executed intents into reply text. The currency symbol
// comes from an injected accessor so no symbol table lives in this package.
type Formatter struct {
	symbol func() string
}

func NewFormatter(symbol func() string) *Formatter {
	return &Formatter{symbol: symbol}
}

func (f *Formatter) amount(m core.Money) string {
	return core.FormatAmount(m, f.symbol())
}

// AddSuccess is the two-line confirmation for a stored item.
func (f *Formatter) AddSuccess(item core.GroceryItem) string {
	return fmt.Sprintf("Toegevoegd: %s × %s in %s.\nPrijs/stuk: %s • Totaal: %s.",
		core.FormatQuantity(item.Quantity), item.Name, item.Store,
		f.amount(item.UnitPrice), f.amount(item.LineTotal()))
}

func (f *Formatter) StoreTotal(store string, amount core.Money) string {
	return fmt.Sprintf("Totaal in %s: %s.", store, f.amount(amount))
}

// StoreBreakdown lists one bullet per store, already sorted by the caller.
func (f *Formatter) StoreBreakdown(totals []core.StoreTotal) string {
	if len(totals) == 0 {
		return msgEmptyList
	}
	var b strings.Builder
	b.WriteString("Totalen per winkel:")
	for _, st := range totals {
		b.WriteString(fmt.Sprintf("\n• %s: %s", st.Store, f.amount(st.Amount)))
	}
	return b.String()
}

func (f *Formatter) WeekTotal(amount core.Money) string {
	return fmt.Sprintf("Totaal deze week: %s.", f.amount(amount))
}

func (f *Formatter) MonthTotal(amount core.Money) string {
	return fmt.Sprintf("Totaal deze maand: %s (inclusief reeds geboekte weken).", f.amount(amount))
}

// CurrentView is the combined reply for a bare "totaal".
func (f *Formatter) CurrentView(view, month core.Money) string {
	return fmt.Sprintf("Totaal van je lijst: %s.\n%s", f.amount(view), f.MonthTotal(month))
}

func (f *Formatter) NotReady() string      { return msgNotReady }
func (f *Formatter) EmptyInput() string    { return msgEmptyInput }
func (f *Formatter) AddHelp() string       { return msgAddHelp }
func (f *Formatter) StoreMissing() string  { return msgStoreMissing }
func (f *Formatter) GenericHelp() string   { return msgGenericHelp }
