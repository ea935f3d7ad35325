// Package report folds the ledgers into period summaries and renders the
// export formats.
package report

import "sort"

// Records carry ISO "YYYY-MM-DD" date strings; range checks are plain
// lexicographic comparisons, which are equivalent to date order for this
// format.

type ConsumptionRecord struct {
	Date           string
	IngredientName string
	AmountUsed     float64
	StudentCount   int
}

type SupplyRecord struct {
	Date        string
	AmountAdded float64
}

type PeriodSummary struct {
	TotalConsumed float64 `json:"total_consumed"`
	TotalReceived float64 `json:"total_received"`
	TotalMeals    int     `json:"total_meals"`
	ActiveDays    int     `json:"active_days"`
}

type IngredientTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

type DailyBucket struct {
	Date     string  `json:"date"`
	Consumed float64 `json:"consumed"`
	Received float64 `json:"received"`
	Meals    int     `json:"meals"`
}

func inRange(date, start, end string) bool {
	return date >= start && date <= end
}

// Summarize folds both ledgers over [start, end] inclusive. Empty input
// yields zeros.
func Summarize(cons []ConsumptionRecord, sups []SupplyRecord, start, end string) PeriodSummary {
	var s PeriodSummary
	activeDays := make(map[string]struct{})

	for _, r := range cons {
		if !inRange(r.Date, start, end) {
			continue
		}
		s.TotalConsumed += r.AmountUsed
		s.TotalMeals += r.StudentCount
		activeDays[r.Date] = struct{}{}
	}
	for _, r := range sups {
		if !inRange(r.Date, start, end) {
			continue
		}
		s.TotalReceived += r.AmountAdded
	}

	s.ActiveDays = len(activeDays)
	return s
}

// TopIngredients groups in-range consumption by ingredient name, sums, and
// returns the top n by total. Sorting is by value only and stable, so ties
// keep the input's first-seen order.
func TopIngredients(cons []ConsumptionRecord, start, end string, n int) []IngredientTotal {
	totals := make(map[string]float64)
	var order []string

	for _, r := range cons {
		if !inRange(r.Date, start, end) {
			continue
		}
		if _, seen := totals[r.IngredientName]; !seen {
			order = append(order, r.IngredientName)
		}
		totals[r.IngredientName] += r.AmountUsed
	}

	out := make([]IngredientTotal, 0, len(order))
	for _, name := range order {
		out = append(out, IngredientTotal{Name: name, Total: totals[name]})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// PercentChange returns the period-over-period change in percent, 0 when the
// previous value is zero.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// DailyBuckets returns one bucket per date that has activity in [start, end],
// sorted ascending by date.
func DailyBuckets(cons []ConsumptionRecord, sups []SupplyRecord, start, end string) []DailyBucket {
	byDate := make(map[string]*DailyBucket)

	bucket := func(date string) *DailyBucket {
		if b, ok := byDate[date]; ok {
			return b
		}
		b := &DailyBucket{Date: date}
		byDate[date] = b
		return b
	}

	for _, r := range cons {
		if !inRange(r.Date, start, end) {
			continue
		}
		b := bucket(r.Date)
		b.Consumed += r.AmountUsed
		b.Meals += r.StudentCount
	}
	for _, r := range sups {
		if !inRange(r.Date, start, end) {
			continue
		}
		bucket(r.Date).Received += r.AmountAdded
	}

	out := make([]DailyBucket, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
