package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"nftmarket/internal/middleware"
	"nftmarket/internal/money"
)

// AdminListUsers returns users with their balances attached, paginated.
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r.URL.Query())
	rows, total, err := h.users.List(r.Context(), params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	users := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		entry := userJSON(row)
		balances, err := h.balances.GetByUser(r.Context(), row.ID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "unable to load balances")
			return
		}
		balanceMap := make(map[string]string, len(balances))
		for _, b := range balances {
			balanceMap[b.Network] = money.FormatMinor(b.Amount)
		}
		entry["balances"] = balanceMap
		users = append(users, entry)
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"users":      users,
		"pagination": paginate(params, total),
	})
}

type promoteRequest struct {
	UserID string `json:"userId"`
}

func (h *Handler) PromoteUser(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req promoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.accounts.Promote(r.Context(), adminID, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		h.serviceError(w, err, "unable to promote user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "promoted"})
}

func (h *Handler) DetailedStats(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	stats, err := h.reports.Detailed(r.Context(), start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to compute stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parseInt(query.Get("limit"), 50)
	page := parseInt(query.Get("page"), 1)
	offset := (page - 1) * limit
	rows, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit logs")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.Reconcile(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to reconcile balances")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
