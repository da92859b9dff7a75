package core

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Placeholder names substituted when a project referenced by an entry is
// missing or inactive. A dangling reference must not abort a report.
const (
	UnknownProjectName = "Unknown Project"
	UnknownClientName  = "Unknown Client"
)

type (
	// EntrySample is the aggregation view of an income or expense entry.
	// Callers hand the engine an already owner-scoped, active-only,
	// date-filtered set; the engine only groups and sums.
	EntrySample struct {
		Amount    Money
		Date      time.Time
		Category  string
		ProjectID string
	}

	Summary struct {
		Total   Money
		Count   int
		Average Money
	}

	// MonthBucket is one point of a monthly trend, labeled "YYYY-MM".
	MonthBucket struct {
		Month  string
		Amount Money
		Count  int
	}

	// ProjectBreakdown aggregates entries for one project. Names are joined
	// at read time by the caller; the engine leaves them empty.
	ProjectBreakdown struct {
		ProjectID   string
		ProjectName string
		ClientName  string
		TotalAmount Money
		EntryCount  int
	}

	SavingsStats struct {
		TotalGoals         int
		ActiveGoals        int
		CompletedGoals     int
		ExpiringSoonCount  int
		TotalTargetAmount  Money
		TotalCurrentAmount Money
		// TotalProgress is current/target as a percentage, 2 decimals.
		TotalProgress float64
	}
)

// Summarize computes total, count and average. Average is zero for an empty
// set, half-up rounded to whole cents otherwise.
func Summarize(samples []EntrySample) Summary {
	s := Summary{Count: len(samples)}
	for _, e := range samples {
		s.Total = s.Total.Add(e.Amount)
	}
	if s.Count > 0 {
		s.Average = Money{Cents: int64(math.Round(float64(s.Total.Cents) / float64(s.Count)))}
	}
	return s
}

// SumByCategory sums amounts per distinct category. Categories absent from
// the set never appear as zero entries, so the values always partition the
// summary total.
func SumByCategory(samples []EntrySample) map[string]Money {
	out := make(map[string]Money)
	for _, e := range samples {
		out[e.Category] = out[e.Category].Add(e.Amount)
	}
	return out
}

// MonthlyTrend groups samples by calendar (year, month), chronologically
// ascending. Months without records produce no bucket; gap-filling is a
// presentation concern.
func MonthlyTrend(samples []EntrySample) []MonthBucket {
	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key]*MonthBucket)
	for _, e := range samples {
		k := key{year: e.Date.Year(), month: e.Date.Month()}
		b, ok := buckets[k]
		if !ok {
			b = &MonthBucket{Month: fmt.Sprintf("%04d-%02d", k.year, int(k.month))}
			buckets[k] = b
		}
		b.Amount = b.Amount.Add(e.Amount)
		b.Count++
	}

	out := make([]MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	// "YYYY-MM" labels sort chronologically as strings.
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// SumByProject aggregates per distinct project id, sorted by total descending
// with project id as a stable tiebreak. Projects with no matching entries do
// not appear.
func SumByProject(samples []EntrySample) []ProjectBreakdown {
	byID := make(map[string]*ProjectBreakdown)
	for _, e := range samples {
		b, ok := byID[e.ProjectID]
		if !ok {
			b = &ProjectBreakdown{ProjectID: e.ProjectID}
			byID[e.ProjectID] = b
		}
		b.TotalAmount = b.TotalAmount.Add(e.Amount)
		b.EntryCount++
	}

	out := make([]ProjectBreakdown, 0, len(byID))
	for _, b := range byID {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalAmount.Cents != out[j].TotalAmount.Cents {
			return out[i].TotalAmount.Cents > out[j].TotalAmount.Cents
		}
		return out[i].ProjectID < out[j].ProjectID
	})
	return out
}

// SummarizeGoals rolls up savings goals. The expiring-soon window counts
// incomplete goals whose deadline falls at or before now+window; expiry is a
// query, never stored state.
func SummarizeGoals(goals []SavingsGoal, now time.Time, window time.Duration) SavingsStats {
	stats := SavingsStats{TotalGoals: len(goals)}
	cutoff := now.Add(window)
	for _, g := range goals {
		stats.TotalTargetAmount = stats.TotalTargetAmount.Add(g.TargetAmount)
		stats.TotalCurrentAmount = stats.TotalCurrentAmount.Add(g.CurrentAmount)
		if g.IsCompleted {
			stats.CompletedGoals++
			continue
		}
		stats.ActiveGoals++
		if !g.Deadline.After(cutoff) {
			stats.ExpiringSoonCount++
		}
	}
	if stats.TotalTargetAmount.Cents > 0 {
		pct := float64(stats.TotalCurrentAmount.Cents) / float64(stats.TotalTargetAmount.Cents) * 100
		stats.TotalProgress = math.Round(pct*100) / 100
	}
	return stats
}
