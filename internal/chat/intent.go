// Package chat interprets free-form Dutch/English grocery commands against
// the ledger: it tokenizes raw text into a structured intent, executes the
// intent through injected accessors and renders a reply string.
package chat

import "boodschappen/internal/core"

// Scope selects which slice of the ledger a total query covers.
type Scope int

const (
	// ScopeCurrentView is the bare "totaal" reply: live basket plus month.
	ScopeCurrentView Scope = iota
	ScopeThisWeek
	ScopeThisMonth
	ScopeByStore
	ScopeAllStores
)

// Reason distinguishes the fallback replies for unparsable input.
type Reason int

const (
	ReasonGeneric Reason = iota
	// ReasonAddSyntax: the add keyword matched but quantity, price or name
	// extraction failed. No ledger mutation may happen on this path.
	ReasonAddSyntax
	// ReasonStoreMissing: a store-scoped total was asked without a store.
	ReasonStoreMissing
)

// Intent is the structured result of parsing one input string. It is
// constructed fresh per input, consumed once and never persisted.
type Intent interface {
	intent()
}

// AddItem appends one purchase to the ledger.
type AddItem struct {
	Name      string
	Quantity  float64
	UnitPrice core.Money
	Store     string // empty means the ledger default
}

// TotalQuery computes a monetary total over the ledger.
type TotalQuery struct {
	Scope Scope
	Store string // set for ScopeByStore
}

// Unrecognized carries only the reason for the fallback reply.
type Unrecognized struct {
	Reason Reason
}

func (AddItem) intent()      {}
func (TotalQuery) intent()   {}
func (Unrecognized) intent() {}
