package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"boodschappen/internal/core"
)

const summaryCacheKey = "current-month"

type chatRequest struct {
	Text string `json:"text"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type itemResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Quantity       float64   `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	UnitPrice      string    `json:"unit_price"`
	LineTotalCents int64     `json:"line_total_cents"`
	LineTotal      string    `json:"line_total"`
	Store          string    `json:"store"`
	Recurring      bool      `json:"recurring"`
	Checked        bool      `json:"checked"`
	CreatedAt      time.Time `json:"created_at"`
}

type storeTotalResponse struct {
	Store      string `json:"store"`
	TotalCents int64  `json:"total_cents"`
	Total      string `json:"total"`
}

type summaryResponse struct {
	MonthKey        string               `json:"month_key"`
	ViewTotalCents  int64                `json:"view_total_cents"`
	ViewTotal       string               `json:"view_total"`
	MonthCarryCents int64                `json:"month_carry_cents"`
	MonthCarry      string               `json:"month_carry"`
	MonthTotalCents int64                `json:"month_total_cents"`
	MonthTotal      string               `json:"month_total"`
	ByStore         []storeTotalResponse `json:"by_store"`
}

type addItemRequest struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice string  `json:"unit_price"`
	Store     string  `json:"store"`
	Recurring bool    `json:"recurring"`
}

type updateItemRequest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice string  `json:"unit_price"`
	Store     string  `json:"store"`
	Recurring bool    `json:"recurring"`
	Checked   bool    `json:"checked"`
}

func (s *Server) itemToResponse(item core.GroceryItem) itemResponse {
	total := item.LineTotal()
	return itemResponse{
		ID:             item.ID,
		Name:           item.Name,
		Quantity:       item.Quantity,
		UnitPriceCents: item.UnitPrice.Cents,
		UnitPrice:      s.session.FormatAmount(item.UnitPrice),
		LineTotalCents: total.Cents,
		LineTotal:      s.session.FormatAmount(total),
		Store:          item.Store,
		Recurring:      item.Recurring,
		Checked:        item.Checked,
		CreatedAt:      item.CreatedAt,
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	reply := s.session.Respond(r.Context(), sanitizeInput(req.Text))
	s.summaryCache.Purge()
	writeJSON(w, r, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listItems(w, r)
	case http.MethodPost:
		s.createItem(w, r)
	case http.MethodPut:
		s.updateItem(w, r)
	case http.MethodDelete:
		s.deleteItem(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items := s.session.Items(r.Context())
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, s.itemToResponse(item))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	name := sanitizeInput(req.Name)
	if name == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "name is required")
		return
	}
	price, err := core.ParseDecimalToCents(req.UnitPrice)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid unit price")
		return
	}

	item, err := s.session.AddItem(r.Context(), name, req.Quantity, core.Money{Cents: price}, sanitizeInput(req.Store))
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to persist new item", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to save item")
		return
	}
	if req.Recurring {
		item.Recurring = true
		if _, err := s.session.UpdateItem(r.Context(), item); err != nil {
			slog.ErrorContext(r.Context(), "Failed to mark item recurring", "error", err, "item_id", item.ID)
		}
	}

	s.summaryCache.Purge()
	writeJSON(w, r, http.StatusCreated, s.itemToResponse(item))
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "id is required")
		return
	}
	price, err := core.ParseDecimalToCents(req.UnitPrice)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid unit price")
		return
	}

	store := sanitizeInput(req.Store)
	if store == "" {
		store = core.DefaultStore
	}
	item := core.GroceryItem{
		ID:        req.ID,
		Name:      sanitizeInput(req.Name),
		Quantity:  req.Quantity,
		UnitPrice: core.Money{Cents: price},
		Store:     store,
		Recurring: req.Recurring,
		Checked:   req.Checked,
	}
	if err := item.Validate(); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.session.UpdateItem(r.Context(), item)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to persist item update", "error", err, "item_id", req.ID)
		writeError(w, r, http.StatusInternalServerError, "failed to save item")
		return
	}
	if !updated {
		writeError(w, r, http.StatusNotFound, "item not found")
		return
	}

	// Re-read the stored item so the response carries the original
	// creation timestamp.
	for _, stored := range s.session.Items(r.Context()) {
		if stored.ID == item.ID {
			item = stored
			break
		}
	}

	s.summaryCache.Purge()
	writeJSON(w, r, http.StatusOK, s.itemToResponse(item))
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, r, http.StatusUnprocessableEntity, "id is required")
		return
	}

	removed, err := s.session.RemoveItem(r.Context(), id)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to persist item removal", "error", err, "item_id", id)
		writeError(w, r, http.StatusInternalServerError, "failed to save removal")
		return
	}
	if !removed {
		writeError(w, r, http.StatusNotFound, "item not found")
		return
	}

	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if cached, ok := s.summaryCache.Get(summaryCacheKey); ok {
		writeJSON(w, r, http.StatusOK, cached)
		return
	}

	summary := s.session.Summary(r.Context())
	resp := summaryResponse{
		MonthKey:        summary.MonthKey,
		ViewTotalCents:  summary.ViewTotal.Cents,
		ViewTotal:       s.session.FormatAmount(summary.ViewTotal),
		MonthCarryCents: summary.MonthCarry.Cents,
		MonthCarry:      s.session.FormatAmount(summary.MonthCarry),
		MonthTotalCents: summary.MonthTotal.Cents,
		MonthTotal:      s.session.FormatAmount(summary.MonthTotal),
		ByStore:         make([]storeTotalResponse, 0, len(summary.ByStore)),
	}
	for _, st := range summary.ByStore {
		resp.ByStore = append(resp.ByStore, storeTotalResponse{
			Store:      st.Store,
			TotalCents: st.Amount.Cents,
			Total:      s.session.FormatAmount(st.Amount),
		})
	}

	s.summaryCache.Set(summaryCacheKey, resp)
	writeJSON(w, r, http.StatusOK, resp)
}

type settingsPayload struct {
	CurrencyCode string   `json:"currency_code"`
	Theme        string   `json:"theme"`
	ShowPrice    bool     `json:"show_price"`
	KnownStores  []string `json:"known_stores,omitempty"`
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings := s.session.Settings()
		writeJSON(w, r, http.StatusOK, settingsPayload{
			CurrencyCode: settings.CurrencyCode,
			Theme:        settings.Theme,
			ShowPrice:    settings.ShowPrice,
			KnownStores:  settings.KnownStores,
		})
	case http.MethodPut:
		var req settingsPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}
		settings := core.Settings{
			CurrencyCode: strings.ToUpper(strings.TrimSpace(req.CurrencyCode)),
			Theme:        sanitizeInput(req.Theme),
			ShowPrice:    req.ShowPrice,
		}
		if err := s.session.UpdateSettings(r.Context(), settings); err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.summaryCache.Purge()
		writeJSON(w, r, http.StatusOK, req)
	default:
		w.Header().Set("Allow", "GET, PUT")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type closeWeekResponse struct {
	WeekTotalCents  int64  `json:"week_total_cents"`
	WeekTotal       string `json:"week_total"`
	MonthCarryCents int64  `json:"month_carry_cents"`
	MonthCarry      string `json:"month_carry"`
}

func (s *Server) handleCloseWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	weekTotal, err := s.session.CloseWeek(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to persist week close", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to save week close")
		return
	}

	carry := s.session.Summary(r.Context()).MonthCarry
	s.summaryCache.Purge()
	writeJSON(w, r, http.StatusOK, closeWeekResponse{
		WeekTotalCents:  weekTotal.Cents,
		WeekTotal:       s.session.FormatAmount(weekTotal),
		MonthCarryCents: carry.Cents,
		MonthCarry:      s.session.FormatAmount(carry),
	})
}

func (s *Server) handleCloseMonth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	newKey, err := s.session.CloseMonth(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to persist month close", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to save month close")
		return
	}

	s.summaryCache.Purge()
	writeJSON(w, r, http.StatusOK, map[string]string{
		"month_key": newKey,
	})
}

func (s *Server) handleClearMonth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.session.ClearMonth(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Failed to persist month clear", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to save month clear")
		return
	}

	s.summaryCache.Purge()
	w.WriteHeader(http.StatusNoContent)
}
