package core

// StoreTotal represents an amount aggregated by store display name.
type StoreTotal struct {
	Store  string
	Amount Money
}

// MonthSummary is a compact snapshot of the ledger used by read surfaces:
// the live basket value, the carried-over weeks, and the per-store split.
type MonthSummary struct {
	MonthKey   string
	ViewTotal  Money
	MonthCarry Money
	MonthTotal Money
	ByStore    []StoreTotal
}
