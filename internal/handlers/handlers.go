package handlers

import (
	"encoding/json"
	"net/http"

	"nftmarket/internal/store"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

type pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

func paginate(params store.ListParams, total int) pagination {
	size := params.PageSize()
	page := params.Page
	if page < 1 {
		page = 1
	}
	pages := (total + size - 1) / size
	return pagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: size,
	}
}

func strOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
