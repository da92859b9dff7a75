// Package query builds owner-scoped store queries and pagination metadata.
// Every descriptor it produces carries the two non-overridable constraints:
// the owner's user id and is_active = 1. Caller-supplied filters only ever
// narrow the result further.
package query

import (
	"strings"
	"time"
)

// Builder accumulates filter conditions for one entity table. Construct it
// with ForOwner; there is no way to obtain a builder without an owner.
type Builder struct {
	conds []string
	args  []any
	sort  string
	desc  bool
}

// ForOwner starts a descriptor scoped to one user's active records.
func ForOwner(userID string) *Builder {
	return &Builder{
		conds: []string{"user_id = ?", "is_active = 1"},
		args:  []any{userID},
		sort:  "created_at",
		desc:  true,
	}
}

// Project adds an exact-match project filter. The project's existence is not
// verified; an unknown id legitimately yields an empty result.
func (b *Builder) Project(projectID string) *Builder {
	if projectID != "" {
		b.conds = append(b.conds, "project_id = ?")
		b.args = append(b.args, projectID)
	}
	return b
}

// Enum adds an equality filter on column only when value is in the allowed
// set. Unrecognized values are silently ignored, never rejected; rejection is
// the validation layer's job on writes, and list filters stay permissive.
func (b *Builder) Enum(column, value string, allowed map[string]bool) *Builder {
	if value != "" && allowed[value] {
		b.conds = append(b.conds, column+" = ?")
		b.args = append(b.args, value)
	}
	return b
}

// From constrains entry_date >= start.
func (b *Builder) From(start time.Time) *Builder {
	if !start.IsZero() {
		b.conds = append(b.conds, "entry_date >= ?")
		b.args = append(b.args, start.UTC())
	}
	return b
}

// Until constrains entry_date <= the last instant of end's calendar day, so a
// single-day range captures the whole day.
func (b *Builder) Until(end time.Time) *Builder {
	if !end.IsZero() {
		b.conds = append(b.conds, "entry_date <= ?")
		b.args = append(b.args, EndOfDay(end))
	}
	return b
}

// Sort sets the sort column from a caller-supplied field name. A field
// outside the allowed map falls back to the default created_at descending;
// unknown fields are ignored, not errors.
func (b *Builder) Sort(field, direction string, allowed map[string]string) *Builder {
	if column, ok := allowed[field]; ok {
		b.sort = column
		b.desc = !strings.EqualFold(direction, "asc")
	}
	return b
}

// Where renders the conjunction of all conditions plus bind args.
func (b *Builder) Where() (string, []any) {
	return strings.Join(b.conds, " AND "), b.args
}

// OrderBy renders the ORDER BY clause body.
func (b *Builder) OrderBy() string {
	if b.desc {
		return b.sort + " DESC"
	}
	return b.sort + " ASC"
}

// EndOfDay normalizes t to 23:59:59.999 of its calendar day in UTC.
func EndOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, time.UTC)
}
