package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nftmarket/internal/middleware"
	"nftmarket/internal/services"
	"nftmarket/internal/store"
)

type submitWithdrawalRequest struct {
	Amount          string `json:"amount"`
	Network         string `json:"network"`
	Type            string `json:"type"`
	Destination     string `json:"destination"`
	DestinationType string `json:"destinationType"`
	Note            string `json:"note"`
}

func (h *Handler) SubmitWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req submitWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amount, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	withdrawalID, err := h.requests.SubmitWithdrawal(r.Context(), services.SubmitWithdrawalInput{
		UserID:          userID,
		Amount:          amount,
		Network:         req.Network,
		Type:            req.Type,
		Destination:     req.Destination,
		DestinationType: req.DestinationType,
		Note:            req.Note,
	})
	if err != nil {
		h.serviceError(w, err, "unable to submit withdrawal")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{
		"id":     withdrawalID,
		"status": store.StatusPending,
	})
}

func (h *Handler) ListMyWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	params := parseListParams(r.URL.Query())
	rows, total, err := h.withdrawals.ListByUser(r.Context(), userID, params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load withdrawals")
		return
	}
	h.respondWithdrawalList(w, rows, params, total)
}

func (h *Handler) AdminListWithdrawals(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r.URL.Query())
	rows, total, err := h.withdrawals.ListAll(r.Context(), params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load withdrawals")
		return
	}
	h.respondWithdrawalList(w, rows, params, total)
}

func (h *Handler) respondWithdrawalList(w http.ResponseWriter, rows []store.Withdrawal, params store.ListParams, total int) {
	withdrawals := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		withdrawals = append(withdrawals, withdrawalJSON(row))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"withdrawals": withdrawals,
		"pagination":  paginate(params, total),
	})
}

func (h *Handler) ProcessWithdrawal(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	withdrawalID := chi.URLParam(r, "id")
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	var err error
	switch req.Action {
	case "approve":
		err = h.approvals.ApproveWithdrawal(r.Context(), adminID, withdrawalID, req.AdminNote)
	case "decline":
		err = h.approvals.DeclineWithdrawal(r.Context(), adminID, withdrawalID, req.AdminNote)
	default:
		respondError(w, http.StatusBadRequest, "action must be approve or decline")
		return
	}
	if err != nil {
		h.serviceError(w, err, "unable to process withdrawal")
		return
	}
	withdrawal, err := h.withdrawals.GetByID(r.Context(), withdrawalID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load withdrawal")
		return
	}
	respondJSON(w, http.StatusOK, withdrawalJSON(withdrawal))
}
