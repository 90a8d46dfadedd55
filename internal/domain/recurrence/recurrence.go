// Package recurrence expands repeating schedules into concrete occurrences.
package recurrence

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/taskmaster/planner/internal/domain/entities"
)

// MaxOccurrences caps how many occurrences a single parent can produce, so a
// far-away repeat end date with a small interval cannot run unbounded.
const MaxOccurrences = 100

// Generate expands parent into its derived occurrences. The parent itself is
// not included and is never modified. Every occurrence keeps the parent's
// duration, references the parent through ParentID and copies every other
// field from it.
func Generate(parent entities.Schedule, now time.Time) []entities.Schedule {
	if !parent.Repeats() {
		return nil
	}

	duration := parent.Duration()
	current := parent.StartDate
	out := make([]entities.Schedule, 0)

	for count := 0; count < MaxOccurrences; count++ {
		next := NextOccurrence(current, parent.RepeatType, parent.RepeatInterval, parent.RepeatDays)
		if parent.RepeatEndDate != nil && next.After(*parent.RepeatEndDate) {
			break
		}

		occ := parent.Clone()
		occ.ID = uuid.NewString()
		occ.StartDate = next
		occ.EndDate = next.Add(duration)
		occ.ParentID = parent.ID
		occ.IsRecurring = true
		occ.CreatedAt = now
		occ.UpdatedAt = now
		out = append(out, occ)

		current = next
	}

	return out
}

// NextOccurrence returns the start of the occurrence following date.
// An interval below 1 is treated as 1.
func NextOccurrence(date time.Time, repeatType entities.RepeatType, interval int, days []int) time.Time {
	if interval < 1 {
		interval = 1
	}

	switch repeatType {
	case entities.RepeatDaily:
		return date.AddDate(0, 0, interval)
	case entities.RepeatWeekly:
		if len(days) > 0 {
			return nextWeekday(date, interval, days)
		}
		return date.AddDate(0, 0, 7*interval)
	case entities.RepeatMonthly:
		// AddDate normalises overflow, so Jan 31 + 1 month lands in early March.
		return date.AddDate(0, interval, 0)
	case entities.RepeatYearly:
		return date.AddDate(interval, 0, 0)
	default:
		return date
	}
}

// nextWeekday advances to the next selected weekday in the current week, or
// wraps to the first selected weekday of a later week. The interval only
// applies at the wrap; moves inside one week ignore it.
func nextWeekday(date time.Time, interval int, days []int) time.Time {
	sorted := append([]int(nil), days...)
	sort.Ints(sorted)

	current := int(date.Weekday())
	for _, d := range sorted {
		if d > current {
			return date.AddDate(0, 0, d-current)
		}
	}

	untilNextWeek := 7 - current + sorted[0]
	return date.AddDate(0, 0, untilNextWeek+7*(interval-1))
}

var frequencies = map[entities.RepeatType]rrule.Frequency{
	entities.RepeatDaily:   rrule.DAILY,
	entities.RepeatWeekly:  rrule.WEEKLY,
	entities.RepeatMonthly: rrule.MONTHLY,
	entities.RepeatYearly:  rrule.YEARLY,
}

var weekdays = []rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// RuleString renders the repeat rule of s as an RFC 5545 RRULE value
// (without the "RRULE:" prefix). It returns "" for non-repeating schedules.
func RuleString(s entities.Schedule) string {
	freq, ok := frequencies[s.RepeatType]
	if !ok {
		return ""
	}

	interval := s.RepeatInterval
	if interval < 1 {
		interval = 1
	}

	opt := rrule.ROption{
		Freq:     freq,
		Interval: interval,
		Wkst:     rrule.SU,
	}
	if s.RepeatEndDate != nil {
		opt.Until = s.RepeatEndDate.UTC()
	} else {
		opt.Count = MaxOccurrences + 1
	}
	if s.RepeatType == entities.RepeatWeekly {
		for _, d := range s.RepeatDays {
			if d >= 0 && d < len(weekdays) {
				opt.Byweekday = append(opt.Byweekday, weekdays[d])
			}
		}
	}

	return strings.TrimPrefix(opt.RRuleString(), "RRULE:")
}

// Rule is the part of an RRULE that maps onto a schedule's repeat fields.
type Rule struct {
	RepeatType entities.RepeatType
	Interval   int
	Until      *time.Time
	Days       []int
}

// ParseRule reads an RFC 5545 RRULE value. Only DAILY, WEEKLY, MONTHLY and
// YEARLY frequencies are supported; BYDAY is kept for weekly rules only.
func ParseRule(value string) (Rule, error) {
	opt, err := rrule.StrToROption(strings.TrimPrefix(strings.TrimSpace(value), "RRULE:"))
	if err != nil {
		return Rule{}, fmt.Errorf("parse rrule %q: %w", value, err)
	}

	var rule Rule
	for rt, freq := range frequencies {
		if freq == opt.Freq {
			rule.RepeatType = rt
		}
	}
	if rule.RepeatType == "" {
		return Rule{}, fmt.Errorf("unsupported rrule frequency in %q", value)
	}

	rule.Interval = opt.Interval
	if rule.Interval < 1 {
		rule.Interval = 1
	}
	if !opt.Until.IsZero() {
		until := opt.Until
		rule.Until = &until
	}
	if rule.RepeatType == entities.RepeatWeekly {
		for _, wd := range opt.Byweekday {
			// rrule counts from Monday; schedules count from Sunday.
			rule.Days = append(rule.Days, (wd.Day()+1)%7)
		}
		sort.Ints(rule.Days)
	}
	return rule, nil
}
