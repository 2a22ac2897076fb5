package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nftmarket/internal/middleware"
	"nftmarket/internal/services"
	"nftmarket/internal/store"
)

type submitDepositRequest struct {
	Amount     string   `json:"amount"`
	Network    string   `json:"network"`
	ProofFiles []string `json:"proofFiles"`
	Note       string   `json:"note"`
}

func (h *Handler) SubmitDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req submitDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amount, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	proof, _ := json.Marshal(req.ProofFiles)
	depositID, err := h.requests.SubmitDeposit(r.Context(), services.SubmitDepositInput{
		UserID:     userID,
		Amount:     amount,
		Network:    req.Network,
		ProofFiles: string(proof),
		Note:       req.Note,
	})
	if err != nil {
		h.serviceError(w, err, "unable to submit deposit")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{
		"id":     depositID,
		"status": store.StatusPending,
	})
}

func (h *Handler) ListMyDeposits(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	params := parseListParams(r.URL.Query())
	rows, total, err := h.deposits.ListByUser(r.Context(), userID, params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load deposits")
		return
	}
	h.respondDepositList(w, rows, params, total)
}

func (h *Handler) AdminListDeposits(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r.URL.Query())
	rows, total, err := h.deposits.ListAll(r.Context(), params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load deposits")
		return
	}
	h.respondDepositList(w, rows, params, total)
}

func (h *Handler) respondDepositList(w http.ResponseWriter, rows []store.Deposit, params store.ListParams, total int) {
	deposits := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		deposits = append(deposits, depositJSON(row))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"deposits":   deposits,
		"pagination": paginate(params, total),
	})
}

type processRequest struct {
	Action    string `json:"action"`
	AdminNote string `json:"adminNote"`
}

func (h *Handler) ProcessDeposit(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	depositID := chi.URLParam(r, "id")
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	var err error
	switch req.Action {
	case "approve":
		err = h.approvals.ApproveDeposit(r.Context(), adminID, depositID, req.AdminNote)
	case "decline":
		err = h.approvals.DeclineDeposit(r.Context(), adminID, depositID, req.AdminNote)
	default:
		respondError(w, http.StatusBadRequest, "action must be approve or decline")
		return
	}
	if err != nil {
		h.serviceError(w, err, "unable to process deposit")
		return
	}
	deposit, err := h.deposits.GetByID(r.Context(), depositID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load deposit")
		return
	}
	respondJSON(w, http.StatusOK, depositJSON(deposit))
}
