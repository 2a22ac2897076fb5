package handlers

import (
	"net/http"

	"nftmarket/internal/middleware"
	"nftmarket/internal/money"
)

func (h *Handler) ListMyTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query()
	limit := parseInt(query.Get("limit"), 50)
	page := parseInt(query.Get("page"), 1)
	offset := (page - 1) * limit
	rows, err := h.transactions.ListByUser(r.Context(), userID, query.Get("type"), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	transactions := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, transactionJSON(row))
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

func (h *Handler) AdminListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parseInt(query.Get("limit"), 50)
	page := parseInt(query.Get("page"), 1)
	offset := (page - 1) * limit
	rows, err := h.transactions.ListAll(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	transactions := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, transactionJSON(row))
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

func (h *Handler) ListMyBalances(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rows, err := h.balances.GetByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load balances")
		return
	}
	balances := make(map[string]string, len(rows))
	for _, row := range rows {
		balances[row.Network] = money.FormatMinor(row.Amount)
	}
	respondJSON(w, http.StatusOK, map[string]any{"balances": balances})
}
