package chat

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"boodschappen/internal/core"
)

// Parser converts raw input text into an Intent. It never fails: unparsable
// input maps to Unrecognized. Matching is case-insensitive on a trimmed
// working copy; item names are sliced from the original-case text.
type Parser struct {
	numRe *regexp.Regexp
}

func NewParser() *Parser {
	return &Parser{
		// A numeric token: digits with at most one fractional separator,
		// starting at a word boundary.
		numRe: regexp.MustCompile(`\b\d+(?:[.,]\d+)?`),
	}
}

var (
	addKeywords       = []string{"voeg toe ", "add "}
	storeTotalMarkers = []string{"totaal in ", "totaal bij ", "total in ", "total at "}
	allStoresMarkers  = []string{"totaal per winkel", "total per store", "per winkel totaal"}
	weekMarkers       = []string{"totaal deze week", "total this week"}
	monthMarkers      = []string{"totaal deze maand", "totaal maand", "total this month"}
	priceSeparators   = []string{" voor ", " for "}
	storeSeparators   = []string{" in ", " bij ", " at "}
	perUnitMarkers    = []string{" elk ", " per stuk ", " each "}
	trailingUnitWords = map[string]bool{"stuks": true, "stuk": true, "x": true, "×": true}
)

// Parse dispatches over an ordered pattern cascade; the ordering is a
// contract, since several patterns can match the same phrase.
func (p *Parser) Parse(text string) Intent {
	// Euro markers are noise for every pattern; drop them to a token
	// boundary before building the lower-cased working copy.
	raw := strings.TrimSpace(strings.ReplaceAll(text, "€", " "))
	low := strings.ToLower(raw)
	if low == "" {
		return Unrecognized{Reason: ReasonGeneric}
	}

	// 1. add-item command
	for _, kw := range addKeywords {
		if strings.HasPrefix(low, kw) {
			if intent, ok := p.parseAdd(raw, low); ok {
				return intent
			}
			return Unrecognized{Reason: ReasonAddSyntax}
		}
	}

	// 2. store-scoped total. Padding restores the token boundary when the
	// input ends at the preposition, which is the missing-store case.
	padded := low + " "
	for _, marker := range storeTotalMarkers {
		if idx := strings.Index(padded, marker); idx >= 0 {
			store := cleanStoreName(padded[idx+len(marker):])
			if store == "" {
				return Unrecognized{Reason: ReasonStoreMissing}
			}
			return TotalQuery{Scope: ScopeByStore, Store: store}
		}
	}

	// 3. all-stores breakdown
	for _, marker := range allStoresMarkers {
		if strings.Contains(low, marker) {
			return TotalQuery{Scope: ScopeAllStores}
		}
	}

	// 4. week total
	for _, marker := range weekMarkers {
		if strings.Contains(low, marker) {
			return TotalQuery{Scope: ScopeThisWeek}
		}
	}
	if low == "totaal week" {
		return TotalQuery{Scope: ScopeThisWeek}
	}

	// 5. month total
	for _, marker := range monthMarkers {
		if strings.Contains(low, marker) {
			return TotalQuery{Scope: ScopeThisMonth}
		}
	}

	// 6. bare total: combined view+month reply
	if low == "totaal" || low == "total" {
		return TotalQuery{Scope: ScopeCurrentView}
	}
	if strings.Contains(low, "totaal") && !strings.Contains(low, "week") && !strings.Contains(low, "maand") {
		return TotalQuery{Scope: ScopeCurrentView}
	}

	return Unrecognized{Reason: ReasonGeneric}
}

// parseAdd extracts quantity, price, name and store from
// "voeg toe <aantal> <naam> voor [elk] <prijs> [euro] [in|bij <winkel>]".
func (p *Parser) parseAdd(raw, low string) (Intent, bool) {
	qtyLoc := p.numRe.FindStringIndex(low)
	if qtyLoc == nil {
		return nil, false
	}
	quantity, err := core.ParseQuantity(low[qtyLoc[0]:qtyLoc[1]])
	if err != nil {
		return nil, false
	}

	// Earliest price separator ("voor"/"for") wins.
	sepIdx, sepLen := -1, 0
	for _, sep := range priceSeparators {
		if i := strings.Index(low, sep); i >= 0 && (sepIdx == -1 || i < sepIdx) {
			sepIdx, sepLen = i, len(sep)
		}
	}

	// Price: first numeric token after the separator; when that window is
	// empty, fall back to the first numeric token anywhere. The fallback is
	// deliberately permissive and mirrors the original behaviour.
	priceTok := ""
	if sepIdx >= 0 {
		tail := low[sepIdx+sepLen:]
		if loc := p.numRe.FindStringIndex(tail); loc != nil {
			priceTok = tail[loc[0]:loc[1]]
		}
	}
	if priceTok == "" {
		priceTok = low[qtyLoc[0]:qtyLoc[1]]
	}
	priceCents, err := core.ParseDecimalToCents(priceTok)
	if err != nil {
		return nil, false
	}

	// Name: strictly between the quantity token and the separator, taken
	// from the original-case text so capitalization survives.
	nameSrc := raw
	if len(raw) != len(low) {
		nameSrc = low
	}
	name := ""
	if sepIdx >= qtyLoc[1] {
		name = strings.TrimSpace(nameSrc[qtyLoc[1]:sepIdx])
	}
	name = stripUnitWords(name)
	if name == "" {
		return nil, false
	}

	// Store: text after the last " in "/" bij "/" at ".
	store := ""
	lastIdx, lastLen := -1, 0
	for _, sep := range storeSeparators {
		if i := strings.LastIndex(low, sep); i > lastIdx {
			lastIdx, lastLen = i, len(sep)
		}
	}
	if lastIdx >= 0 {
		store = cleanStoreName(low[lastIdx+lastLen:])
	}

	// "elk"/"per stuk"/"each" anywhere makes the price per-unit; otherwise
	// it is a total spread over the quantity, with a max(qty,1) floor so a
	// zero quantity degrades instead of dividing by zero.
	unitCents := priceCents
	if !containsAny(" "+low+" ", perUnitMarkers) {
		divisor := math.Max(quantity, 1)
		unitCents = int64(math.Round(float64(priceCents) / divisor))
	}

	return AddItem{
		Name:      name,
		Quantity:  quantity,
		UnitPrice: core.Money{Cents: unitCents},
		Store:     store,
	}, true
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// stripUnitWords drops trailing unit words ("stuks", "x", ...) from a name.
func stripUnitWords(name string) string {
	fields := strings.Fields(name)
	for len(fields) > 0 && trailingUnitWords[strings.ToLower(fields[len(fields)-1])] {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

// cleanStoreName trims a raw store fragment: strip a leading
// "winkel "/"store " prefix, collapse whitespace and title-case the words.
func cleanStoreName(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "winkel ")
	s = strings.TrimPrefix(s, "store ")
	fields := strings.Fields(s)
	for i, f := range fields {
		runes := []rune(f)
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}
