package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"nftmarket/internal/validator"
)

type newsletterRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *Handler) NewsletterSubscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.newsletter.Subscribe(r.Context(), tx, uuid.NewString(), req.Email, req.Name)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to subscribe")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "subscribed"})
}

func (h *Handler) NewsletterUnsubscribe(w http.ResponseWriter, r *http.Request) {
	var req newsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		affected, err = h.newsletter.Unsubscribe(r.Context(), tx, req.Email)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to unsubscribe")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "no active subscription for that email")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "unsubscribed"})
}

func (h *Handler) AdminListNewsletter(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r.URL.Query())
	rows, total, err := h.newsletter.List(r.Context(), params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load subscriptions")
		return
	}
	subscriptions := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		subscriptions = append(subscriptions, newsletterJSON(row))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"subscriptions": subscriptions,
		"pagination":    paginate(params, total),
	})
}
