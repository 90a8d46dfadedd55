// Package analytics aggregates read-only statistics over a set of schedules.
package analytics

import (
	"math"
	"time"

	"github.com/taskmaster/planner/internal/domain/entities"
)

const (
	trendDays   = 7
	trendMonths = 6
)

// Report is the full analytics payload served to the dashboard.
type Report struct {
	Summary              Summary                   `json:"summary"`
	CategoryDistribution map[entities.Category]int `json:"categoryDistribution"`
	PriorityDistribution map[entities.Priority]int `json:"priorityDistribution"`
	CompletionTrend      []DailyTrend              `json:"completionTrend"`
	MonthlyTrend         []MonthlyTrend            `json:"monthlyTrend"`
	GeneratedAt          time.Time                 `json:"generatedAt"`
}

// Summary holds overall counts plus the today/week/month buckets.
type Summary struct {
	Total          int         `json:"total"`
	Completed      int         `json:"completed"`
	CompletionRate int         `json:"completionRate"`
	Overdue        int         `json:"overdue"`
	Today          BucketStats `json:"today"`
	ThisWeek       BucketStats `json:"thisWeek"`
	ThisMonth      BucketStats `json:"thisMonth"`
}

// BucketStats counts schedules starting inside one window.
type BucketStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
}

// DailyTrend is one day of the completion trend, keyed by start date.
type DailyTrend struct {
	Date           string `json:"date"`
	Total          int    `json:"total"`
	Completed      int    `json:"completed"`
	CompletionRate int    `json:"completionRate"`
}

// MonthlyTrend is one month of the creation trend, keyed by createdAt.
type MonthlyTrend struct {
	Month     string `json:"month"`
	Count     int    `json:"count"`
	Completed int    `json:"completed"`
}

type window struct {
	start, end time.Time
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

// Compute builds the report for schedules as of now. Calendar boundaries
// (days, the Sunday-start week, months) are taken in now's location.
func Compute(schedules []entities.Schedule, now time.Time) Report {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	todayWin := window{today, today.AddDate(0, 0, 1)}
	weekWin := window{weekStart, weekStart.AddDate(0, 0, 7)}
	monthWin := window{monthStart, monthStart.AddDate(0, 1, 0)}

	report := Report{
		CategoryDistribution: make(map[entities.Category]int, len(entities.Categories)),
		PriorityDistribution: make(map[entities.Priority]int, len(entities.Priorities)),
		GeneratedAt:          now,
	}
	for _, c := range entities.Categories {
		report.CategoryDistribution[c] = 0
	}
	for _, p := range entities.Priorities {
		report.PriorityDistribution[p] = 0
	}

	sum := &report.Summary
	for i := range schedules {
		s := &schedules[i]

		sum.Total++
		if s.IsCompleted {
			sum.Completed++
		}
		if s.IsOverdue(now) {
			sum.Overdue++
		}

		addToBucket(&sum.Today, todayWin, s)
		addToBucket(&sum.ThisWeek, weekWin, s)
		addToBucket(&sum.ThisMonth, monthWin, s)

		if _, ok := report.CategoryDistribution[s.Category]; ok {
			report.CategoryDistribution[s.Category]++
		}
		if _, ok := report.PriorityDistribution[s.Priority]; ok {
			report.PriorityDistribution[s.Priority]++
		}
	}
	sum.CompletionRate = rate(sum.Completed, sum.Total)

	report.CompletionTrend = completionTrend(schedules, today)
	report.MonthlyTrend = monthlyTrend(schedules, monthStart)

	return report
}

func addToBucket(b *BucketStats, w window, s *entities.Schedule) {
	if !w.contains(s.StartDate) {
		return
	}
	b.Total++
	if s.IsCompleted {
		b.Completed++
	} else {
		b.Remaining++
	}
}

func completionTrend(schedules []entities.Schedule, today time.Time) []DailyTrend {
	out := make([]DailyTrend, 0, trendDays)
	for i := trendDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		w := window{day, day.AddDate(0, 0, 1)}

		entry := DailyTrend{Date: day.Format("2006-01-02")}
		for j := range schedules {
			if !w.contains(schedules[j].StartDate) {
				continue
			}
			entry.Total++
			if schedules[j].IsCompleted {
				entry.Completed++
			}
		}
		entry.CompletionRate = rate(entry.Completed, entry.Total)
		out = append(out, entry)
	}
	return out
}

func monthlyTrend(schedules []entities.Schedule, monthStart time.Time) []MonthlyTrend {
	out := make([]MonthlyTrend, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		start := monthStart.AddDate(0, -i, 0)
		w := window{start, start.AddDate(0, 1, 0)}

		entry := MonthlyTrend{Month: start.Format("2006-01")}
		for j := range schedules {
			if !w.contains(schedules[j].CreatedAt) {
				continue
			}
			entry.Count++
			if schedules[j].IsCompleted {
				entry.Completed++
			}
		}
		out = append(out, entry)
	}
	return out
}

// rate returns part/total as a rounded percentage, 0 when total is 0.
func rate(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
