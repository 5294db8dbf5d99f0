package schedule

import (
	"context"
	"fmt"
	"math"
	"time"

	"labreserve/internal/model"
	"labreserve/internal/store"
)

// Year bounds accepted by the calendar; anything outside falls back to the
// current month rather than failing the navigation view.
const (
	minYear = 2000
	maxYear = 2100
)

// DayCell is one real day in the month grid.
type DayCell struct {
	Day              int    `json:"day"`
	Date             string `json:"date"` // YYYY-MM-DD
	IsToday          bool   `json:"is_today"`
	IsWeekend        bool   `json:"is_weekend"`
	IsPast           bool   `json:"is_past"`
	Weekday          string `json:"weekday"` // localized 3-letter abbreviation
	ReservationCount int    `json:"reservation_count"`
}

// MonthGrid is the derived week/day calendar view with per-day and
// per-month occupancy statistics. Recomputed on every request.
type MonthGrid struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Today     string `json:"today"`

	// Weeks holds rows of exactly 7 cells; nil cells pad days that belong
	// to the adjacent month.
	Weeks [][]*DayCell `json:"weeks"`

	TotalDays                 int     `json:"total_days"`
	WorkingDays               int     `json:"working_days"`
	TotalReservations         int     `json:"total_reservations"`
	TotalHours                int     `json:"total_hours"`
	UniqueGroups              int     `json:"unique_groups"`
	UniqueInstructors         int     `json:"unique_instructors"`
	DaysWithReservations      int     `json:"days_with_reservations"`
	ReservationsPerWorkingDay float64 `json:"reservations_per_working_day"`

	PrevYear  int `json:"prev_year"`
	PrevMonth int `json:"prev_month"`
	NextYear  int `json:"next_year"`
	NextMonth int `json:"next_month"`
}

// MonthBuilder derives month calendar views from the reservation store.
type MonthBuilder struct {
	store  store.Store
	clock  Clock
	locale Locale
}

// NewMonthBuilder creates a month calendar builder.
func NewMonthBuilder(s store.Store, clock Clock, locale Locale) *MonthBuilder {
	return &MonthBuilder{store: s, clock: clock, locale: locale}
}

// BuildMonth builds the Monday-first week/day grid for a year and month.
// Out-of-range inputs are clamped to the current year/month: the calendar
// is a navigation view, so a bad query string degrades instead of failing.
func (b *MonthBuilder) BuildMonth(ctx context.Context, year, month int) (*MonthGrid, error) {
	now := b.clock.Now()
	if year < minYear || year > maxYear {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		month = int(now.Month())
	}

	today := now.Format(model.DateLayout)
	firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	offset := mondayIndex(firstDay.Weekday())
	totalDays := daysIn(time.Month(month), year)

	counts, stats, err := b.monthStats(ctx, year, month)
	if err != nil {
		return nil, err
	}

	grid := &MonthGrid{
		Year:      year,
		Month:     month,
		MonthName: b.locale.MonthName(time.Month(month)),
		Today:     today,
	}

	var week []*DayCell
	for i := 0; i < offset; i++ {
		week = append(week, nil)
	}
	for day := 1; day <= totalDays; day++ {
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		dateStr := date.Format(model.DateLayout)
		wd := date.Weekday()

		cell := &DayCell{
			Day:              day,
			Date:             dateStr,
			IsToday:          dateStr == today,
			IsWeekend:        wd == time.Saturday || wd == time.Sunday,
			IsPast:           dateStr < today,
			Weekday:          b.locale.WeekdayShort(wd),
			ReservationCount: counts[dateStr],
		}
		grid.TotalDays++
		if !cell.IsWeekend {
			grid.WorkingDays++
		}

		week = append(week, cell)
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = nil
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, nil)
		}
		grid.Weeks = append(grid.Weeks, week)
	}

	grid.TotalReservations = stats.total
	grid.TotalHours = stats.hours
	grid.UniqueGroups = stats.groups
	grid.UniqueInstructors = stats.instructors
	grid.DaysWithReservations = len(counts)
	grid.ReservationsPerWorkingDay = round1(float64(stats.total) / math.Max(1, float64(grid.WorkingDays)))

	grid.PrevYear, grid.PrevMonth = PrevMonthOf(year, month)
	grid.NextYear, grid.NextMonth = NextMonthOf(year, month)
	return grid, nil
}

// MonthReservations returns the month's confirmed reservations ordered as
// stored. Used by the export report.
func (b *MonthBuilder) MonthReservations(ctx context.Context, year, month int) ([]model.Reservation, error) {
	all, err := b.store.ReadAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "read", Err: err}
	}

	prefix := fmt.Sprintf("%04d-%02d-", year, month)
	var out []model.Reservation
	for _, r := range all {
		if r.IsConfirmed() && len(r.Date) >= len(prefix) && r.Date[:len(prefix)] == prefix {
			out = append(out, r)
		}
	}
	return out, nil
}

type monthAggregates struct {
	total       int
	hours       int
	groups      int
	instructors int
}

// monthStats groups the month's confirmed reservations by date once, so
// the grid looks up per-day counts instead of rescanning per day.
func (b *MonthBuilder) monthStats(ctx context.Context, year, month int) (map[string]int, monthAggregates, error) {
	reservations, err := b.MonthReservations(ctx, year, month)
	if err != nil {
		return nil, monthAggregates{}, err
	}

	counts := make(map[string]int)
	groups := make(map[string]struct{})
	instructors := make(map[string]struct{})
	var agg monthAggregates
	for _, r := range reservations {
		counts[r.Date]++
		agg.total++
		agg.hours += r.Duration
		groups[r.Group] = struct{}{}
		instructors[r.Instructor] = struct{}{}
	}
	agg.groups = len(groups)
	agg.instructors = len(instructors)
	return counts, agg, nil
}

// PrevMonthOf wraps to December of the previous year at the January boundary.
func PrevMonthOf(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// NextMonthOf wraps to January of the next year at the December boundary.
func NextMonthOf(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

func daysIn(m time.Month, year int) int {
	// Day 0 of the next month normalizes to the last day of m.
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
