package chat

import (
	"log/slog"
	"strings"

	"boodschappen/internal/core"
	"boodschappen/internal/ledger"
)

// Handlers is the capability set the host injects before the first call.
// It decouples the interpreter from the concrete ledger storage and from
// settings. All accessors must be set; otherwise every call answers with
// the not-ready reply.
type Handlers struct {
	Items          func() []core.GroceryItem
	AddItem        func(name string, quantity float64, unitPrice core.Money, store string)
	MonthCarry     func() core.Money
	CurrencySymbol func() string
	CurrencyCode   func() string
}

func (h Handlers) configured() bool {
	return h.Items != nil && h.AddItem != nil && h.MonthCarry != nil &&
		h.CurrencySymbol != nil && h.CurrencyCode != nil
}

// Interpreter is the orchestrator: it parses raw text, executes the intent
// against the ledger accessors and renders the reply. It holds no state of
// its own besides the stateless parser and formatter, so one value serves a
// whole session.
type Interpreter struct {
	parser    *Parser
	formatter *Formatter
	handlers  Handlers
}

func NewInterpreter(handlers Handlers) *Interpreter {
	return &Interpreter{
		parser:    NewParser(),
		handlers:  handlers,
		formatter: NewFormatter(handlers.CurrencySymbol),
	}
}

// Respond is atomic from the caller's perspective: it reads the ledger,
// performs at most one mutation and returns a reply. It never panics; every
// failure path is a reply string.
func (i *Interpreter) Respond(text string) string {
	if !i.handlers.configured() {
		return msgNotReady
	}
	if strings.TrimSpace(text) == "" {
		return i.formatter.EmptyInput()
	}

	intent := i.parser.Parse(text)
	slog.Debug("Parsed chat command", "intent", intentName(intent))

	switch v := intent.(type) {
	case AddItem:
		return i.respondAdd(v)
	case TotalQuery:
		return i.respondTotal(v)
	case Unrecognized:
		switch v.Reason {
		case ReasonAddSyntax:
			return i.formatter.AddHelp()
		case ReasonStoreMissing:
			return i.formatter.StoreMissing()
		default:
			return i.formatter.GenericHelp()
		}
	}
	return i.formatter.GenericHelp()
}

func (i *Interpreter) respondAdd(v AddItem) string {
	i.handlers.AddItem(v.Name, v.Quantity, v.UnitPrice, v.Store)

	confirmed := core.GroceryItem{
		Name:      v.Name,
		Quantity:  v.Quantity,
		UnitPrice: v.UnitPrice,
		Store:     v.Store,
	}
	if confirmed.Store == "" {
		confirmed.Store = core.DefaultStore
	}
	return i.formatter.AddSuccess(confirmed)
}

func (i *Interpreter) respondTotal(v TotalQuery) string {
	items := i.handlers.Items()

	switch v.Scope {
	case ScopeByStore:
		want := ledger.CanonicalStoreName(v.Store)
		var total core.Money
		for _, it := range items {
			if ledger.CanonicalStoreName(it.Store) == want {
				total = total.Add(it.LineTotal())
			}
		}
		return i.formatter.StoreTotal(v.Store, total)
	case ScopeAllStores:
		return i.formatter.StoreBreakdown(ledger.BreakdownOf(items))
	case ScopeThisWeek:
		return i.formatter.WeekTotal(ledger.TotalOf(items))
	case ScopeThisMonth:
		month := i.handlers.MonthCarry().Add(ledger.TotalOf(items))
		return i.formatter.MonthTotal(month)
	default: // ScopeCurrentView
		view := ledger.TotalOf(items)
		return i.formatter.CurrentView(view, i.handlers.MonthCarry().Add(view))
	}
}

func intentName(in Intent) string {
	switch in.(type) {
	case AddItem:
		return "add_item"
	case TotalQuery:
		return "total_query"
	default:
		return "unrecognized"
	}
}
