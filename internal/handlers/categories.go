package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"nftmarket/internal/middleware"
	"nftmarket/internal/money"
	"nftmarket/internal/store"
)

func (h *Handler) ListActiveCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.categories.ListActive(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load categories")
		return
	}
	respondJSON(w, http.StatusOK, categoryListJSON(rows))
}

func (h *Handler) AdminListCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := h.categories.ListAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load categories")
		return
	}
	respondJSON(w, http.StatusOK, categoryListJSON(rows))
}

func categoryListJSON(rows []store.Category) []map[string]any {
	categories := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, categoryJSON(row))
	}
	return categories
}

type categoryRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	CoverImage    string `json:"coverImage"`
	MinFloorPrice string `json:"minFloorPrice"`
	MintFee       string `json:"mintFee"`
	IsActive      *bool  `json:"isActive"`
}

func (h *Handler) decodeCategory(r *http.Request) (store.CategoryInput, error) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return store.CategoryInput{}, errInvalidPayload
	}
	if req.Name == "" {
		return store.CategoryInput{}, errMissingName
	}
	minFloor, err := parseAmountMinor(req.MinFloorPrice)
	if err != nil {
		return store.CategoryInput{}, err
	}
	// A free mint is allowed, so the fee only has to parse, not be positive.
	mintFee, err := money.ParseMinor(req.MintFee)
	if err != nil || mintFee < 0 {
		return store.CategoryInput{}, errInvalidAmount
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	return store.CategoryInput{
		Name:          req.Name,
		Description:   req.Description,
		CoverImage:    req.CoverImage,
		MinFloorPrice: minFloor,
		MintFee:       mintFee,
		IsActive:      isActive,
	}, nil
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.UserIDFromContext(r.Context())
	input, err := h.decodeCategory(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.ID = uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.categories.Create(r.Context(), tx, input); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"name": input.Name})
		return h.audit.Log(r.Context(), tx, adminID, "category.create", "category", input.ID, string(data))
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "category name already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create category")
		return
	}
	category, err := h.categories.GetByID(r.Context(), input.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load category")
		return
	}
	respondJSON(w, http.StatusCreated, categoryJSON(category))
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.UserIDFromContext(r.Context())
	categoryID := chi.URLParam(r, "id")
	if _, err := h.categories.GetByID(r.Context(), categoryID); err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	input, err := h.decodeCategory(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.ID = categoryID
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.categories.Update(r.Context(), tx, input); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{"name": input.Name})
		return h.audit.Log(r.Context(), tx, adminID, "category.update", "category", categoryID, string(data))
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "category name already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to update category")
		return
	}
	category, err := h.categories.GetByID(r.Context(), categoryID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load category")
		return
	}
	respondJSON(w, http.StatusOK, categoryJSON(category))
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.UserIDFromContext(r.Context())
	categoryID := chi.URLParam(r, "id")
	if _, err := h.categories.GetByID(r.Context(), categoryID); err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	count, err := h.categories.CountNFTs(r.Context(), categoryID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to check category usage")
		return
	}
	if count > 0 {
		respondError(w, http.StatusBadRequest, "category has nfts and cannot be deleted")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		if err := h.categories.Delete(r.Context(), tx, categoryID); err != nil {
			return err
		}
		return h.audit.Log(r.Context(), tx, adminID, "category.delete", "category", categoryID, "{}")
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete category")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
