// Package services orchestrates domain operations across the record store,
// the message broker and the stats cache. Handlers hand it typed, already
// parsed inputs; it owns validation ordering (validate before any store
// mutation) and ownership checks on cross-entity references.
package services

import (
	"context"
	"time"

	"gigbook/internal/core"
	"gigbook/internal/query"
)

// ListOptions carries the caller-supplied list parameters after parsing.
// Unknown enum values and sort fields are ignored downstream, never rejected.
type ListOptions struct {
	ProjectID string
	Category  string
	Status    string
	Priority  string
	StartDate time.Time
	EndDate   time.Time
	SortBy    string
	SortDir   string
	Page      int
	Limit     int
}

func (o ListOptions) page() query.Page {
	return query.Page{Page: o.Page, Limit: o.Limit}.Normalize()
}

// Caller-facing sort field names mapped to store columns, per entity.
var (
	projectSortFields = map[string]string{
		"name":            "name",
		"status":          "status",
		"clientName":      "client_name",
		"expectedPayment": "expected_payment_cents",
		"createdDate":     "created_date",
	}

	entrySortFields = map[string]string{
		"date":     "entry_date",
		"amount":   "amount_cents",
		"category": "category",
	}

	goalSortFields = map[string]string{
		"deadline":     "deadline",
		"targetAmount": "target_amount_cents",
		"priority":     "priority",
		"title":        "title",
	}

	projectStatuses = map[string]bool{
		string(core.StatusActive):    true,
		string(core.StatusCompleted): true,
		string(core.StatusOnHold):    true,
	}

	goalPriorities = map[string]bool{
		string(core.PriorityLow):    true,
		string(core.PriorityMedium): true,
		string(core.PriorityHigh):   true,
	}
)

func (o ListOptions) projectQuery(userID string) *query.Builder {
	return query.ForOwner(userID).
		Enum("status", o.Status, projectStatuses).
		Sort(o.SortBy, o.SortDir, projectSortFields)
}

func (o ListOptions) entryQuery(userID string, categories map[string]bool) *query.Builder {
	return query.ForOwner(userID).
		Project(o.ProjectID).
		Enum("category", o.Category, categories).
		From(o.StartDate).
		Until(o.EndDate).
		Sort(o.SortBy, o.SortDir, entrySortFields)
}

func (o ListOptions) goalQuery(userID string) *query.Builder {
	return query.ForOwner(userID).
		Enum("category", o.Category, core.SavingsCategories).
		Enum("priority", o.Priority, goalPriorities).
		Sort(o.SortBy, o.SortDir, goalSortFields)
}

// RecomputePublisher is the broker-side dependency of the mutating services.
// A nil publisher disables async recompute without failing requests.
type RecomputePublisher interface {
	PublishUserRecompute(ctx context.Context, userID, reason string) error
}

// StatsInvalidator drops a user's cached stats after any of their writes.
type StatsInvalidator interface {
	Invalidate(userID string)
}
