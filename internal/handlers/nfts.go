package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"nftmarket/internal/middleware"
	"nftmarket/internal/services"
	"nftmarket/internal/store"
)

type submitNFTRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  string `json:"categoryId"`
	FloorPrice  string `json:"floorPrice"`
	ArtworkURL  string `json:"artworkUrl"`
}

func (h *Handler) SubmitNFT(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req submitNFTRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.CategoryID == "" {
		respondError(w, http.StatusBadRequest, "name and categoryId are required")
		return
	}
	floorPrice, err := parseAmountMinor(req.FloorPrice)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid floor price")
		return
	}
	nftID, err := h.nftService.Submit(r.Context(), services.SubmitNFTInput{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		FloorPrice:  floorPrice,
		ArtworkURL:  req.ArtworkURL,
	})
	if err != nil {
		h.serviceError(w, err, "unable to submit nft")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{
		"id":     nftID,
		"status": store.StatusPending,
	})
}

// ListNFTs returns the caller's own NFTs; admins see every submission.
func (h *Handler) ListNFTs(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	params := parseListParams(r.URL.Query())

	var (
		rows  []store.NFT
		total int
		err   error
	)
	if role == store.RoleAdmin {
		rows, total, err = h.nfts.ListAll(r.Context(), params)
	} else {
		rows, total, err = h.nfts.ListByOwner(r.Context(), userID, params)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load nfts")
		return
	}
	nfts := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		nfts = append(nfts, nftJSON(row))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"nfts":       nfts,
		"pagination": paginate(params, total),
	})
}

func (h *Handler) GetNFT(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	nft, err := h.nfts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	if nft.OwnerID != userID && role != store.RoleAdmin {
		respondError(w, http.StatusForbidden, "not allowed")
		return
	}
	respondJSON(w, http.StatusOK, nftJSON(nft))
}

// ProcessNFT handles approve, decline and toggle-active through one route.
// Approve and decline are admin-only; toggle-active is open to the owner.
func (h *Handler) ProcessNFT(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())
	nftID := chi.URLParam(r, "id")
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	switch req.Action {
	case "approve":
		if role != store.RoleAdmin {
			respondError(w, http.StatusForbidden, "admin privileges required")
			return
		}
		if err := h.nftService.Approve(r.Context(), userID, nftID, req.AdminNote); err != nil {
			h.serviceError(w, err, "unable to approve nft")
			return
		}
	case "decline":
		if role != store.RoleAdmin {
			respondError(w, http.StatusForbidden, "admin privileges required")
			return
		}
		if err := h.nftService.Decline(r.Context(), userID, nftID, req.AdminNote); err != nil {
			h.serviceError(w, err, "unable to decline nft")
			return
		}
	case "toggle-active":
		if _, err := h.nftService.ToggleActive(r.Context(), userID, role, nftID); err != nil {
			h.serviceError(w, err, "unable to toggle nft")
			return
		}
	default:
		respondError(w, http.StatusBadRequest, "action must be approve, decline or toggle-active")
		return
	}
	nft, err := h.nfts.GetByID(r.Context(), nftID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load nft")
		return
	}
	respondJSON(w, http.StatusOK, nftJSON(nft))
}
