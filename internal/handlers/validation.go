package handlers

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"nftmarket/internal/money"
	"nftmarket/internal/store"
)

var (
	errInvalidAmount  = errors.New("invalid amount")
	errInvalidPayload = errors.New("invalid payload")
	errMissingName    = errors.New("name is required")
)

func parseAmountMinor(raw string) (int64, error) {
	amount, err := money.ParseMinor(raw)
	if err != nil || amount <= 0 {
		return 0, errInvalidAmount
	}
	return amount, nil
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func parseListParams(query url.Values) store.ListParams {
	return store.ListParams{
		Page:      parseInt(query.Get("page"), 1),
		Limit:     parseInt(query.Get("limit"), 20),
		Search:    query.Get("search"),
		SortBy:    query.Get("sortBy"),
		SortOrder: query.Get("sortOrder"),
		Status:    query.Get("status"),
	}
}

// parseDateRange reads startDate/endDate as YYYY-MM-DD; the end date is
// inclusive, so the returned end bound is midnight after it.
func parseDateRange(query url.Values) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	now := time.Now().UTC()
	end := now
	start := now.AddDate(0, 0, -30)
	if raw := query.Get("startDate"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid startDate")
		}
		start = parsed
	}
	if raw := query.Get("endDate"); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid endDate")
		}
		end = parsed.AddDate(0, 0, 1)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, errors.New("endDate must be after startDate")
	}
	return start, end, nil
}
