package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gigbook/internal/core"
	"gigbook/internal/services"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON decodes a request body strictly: unknown fields and trailing
// content are rejected.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return core.Invalid("malformed request body: " + err.Error())
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return core.Invalid("request body must contain a single JSON object")
	}
	return nil
}

// parseAmount converts a decimal string field to Money.
func parseAmount(s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// parseNonNegativeAmount is parseAmount with zero allowed.
func parseNonNegativeAmount(s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCentsNonNegative(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// parseDate parses a YYYY-MM-DD value as a UTC date.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, core.Invalid("invalid date, expected YYYY-MM-DD")
	}
	return t, nil
}

// parseListOptions extracts pagination, filters and sorting from the query
// string. Malformed numeric values fall back to defaults; unknown enum values
// pass through and are dropped downstream.
func parseListOptions(r *http.Request) (services.ListOptions, error) {
	q := r.URL.Query()
	opts := services.ListOptions{
		ProjectID: strings.TrimSpace(q.Get("projectId")),
		Category:  strings.TrimSpace(q.Get("category")),
		Status:    strings.TrimSpace(q.Get("status")),
		Priority:  strings.TrimSpace(q.Get("priority")),
		SortBy:    strings.TrimSpace(q.Get("sortBy")),
		SortDir:   strings.TrimSpace(q.Get("sortDir")),
	}

	if v := strings.TrimSpace(q.Get("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Page = n
		}
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Limit = n
		}
	}

	if v := strings.TrimSpace(q.Get("startDate")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return opts, err
		}
		opts.StartDate = t
	}
	if v := strings.TrimSpace(q.Get("endDate")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return opts, err
		}
		opts.EndDate = t
	}
	return opts, nil
}
