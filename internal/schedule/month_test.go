package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labreserve/internal/model"
	"labreserve/internal/store"
)

func fixedJune() Clock {
	return FixedClock{T: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)}
}

func TestBuildMonthGridShape(t *testing.T) {
	b := NewMonthBuilder(store.NewMemory(), fixedJune(), SpanishLocale())

	grid, err := b.BuildMonth(context.Background(), 2024, 6)
	require.NoError(t, err)

	assert.Equal(t, 2024, grid.Year)
	assert.Equal(t, 6, grid.Month)
	assert.Equal(t, "Junio", grid.MonthName)
	assert.Equal(t, "2024-06-15", grid.Today)
	assert.Equal(t, 30, grid.TotalDays)
	assert.Equal(t, 20, grid.WorkingDays)

	// Every week row is exactly 7 wide and the real cells add up to the
	// month's length.
	cells := 0
	for _, week := range grid.Weeks {
		require.Len(t, week, 7)
		for _, cell := range week {
			if cell != nil {
				cells++
			}
		}
	}
	assert.Equal(t, 30, cells)

	// June 2024 starts on a Saturday, so Monday..Friday of the first row
	// are padding.
	firstWeek := grid.Weeks[0]
	for i := 0; i < 5; i++ {
		assert.Nil(t, firstWeek[i])
	}
	require.NotNil(t, firstWeek[5])
	assert.Equal(t, 1, firstWeek[5].Day)
	assert.Equal(t, "Sáb", firstWeek[5].Weekday)
	assert.True(t, firstWeek[5].IsWeekend)
}

func TestBuildMonthDayFlags(t *testing.T) {
	b := NewMonthBuilder(store.NewMemory(), fixedJune(), SpanishLocale())

	grid, err := b.BuildMonth(context.Background(), 2024, 6)
	require.NoError(t, err)

	byDay := make(map[int]*DayCell)
	for _, week := range grid.Weeks {
		for _, cell := range week {
			if cell != nil {
				byDay[cell.Day] = cell
			}
		}
	}

	assert.True(t, byDay[15].IsToday)
	assert.True(t, byDay[14].IsPast)
	assert.False(t, byDay[14].IsToday)
	assert.False(t, byDay[16].IsPast)
	assert.Equal(t, "Lun", byDay[10].Weekday)
	assert.False(t, byDay[10].IsWeekend)
}

func TestBuildMonthClampsOutOfRange(t *testing.T) {
	b := NewMonthBuilder(store.NewMemory(), fixedJune(), SpanishLocale())

	tests := []struct {
		name  string
		year  int
		month int
	}{
		{"year below floor", 1999, 6},
		{"year above ceiling", 2101, 6},
		{"month zero", 2024, 0},
		{"month thirteen", 2024, 13},
		{"both invalid", -5, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := b.BuildMonth(context.Background(), tt.year, tt.month)
			require.NoError(t, err)
			assert.Equal(t, 2024, grid.Year)
			assert.Equal(t, 6, grid.Month)
		})
	}
}

func TestBuildMonthNavigationWrapsYear(t *testing.T) {
	b := NewMonthBuilder(store.NewMemory(), fixedJune(), SpanishLocale())

	january, err := b.BuildMonth(context.Background(), 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 2023, january.PrevYear)
	assert.Equal(t, 12, january.PrevMonth)
	assert.Equal(t, 2024, january.NextYear)
	assert.Equal(t, 2, january.NextMonth)

	december, err := b.BuildMonth(context.Background(), 2024, 12)
	require.NoError(t, err)
	assert.Equal(t, 2025, december.NextYear)
	assert.Equal(t, 1, december.NextMonth)
}

func TestBuildMonthStats(t *testing.T) {
	mem := store.NewMemory()
	first := confirmed("a", "2024-06-10", 9, 2)
	second := confirmed("b", "2024-06-10", 14, 1)
	second.Instructor = "López"
	third := confirmed("c", "2024-06-12", 7, 1)
	third.Group = "4B"
	cancelled := confirmed("d", "2024-06-13", 9, 1)
	cancelled.Status = model.StatusCancelled
	otherMonth := confirmed("e", "2024-07-01", 9, 1)
	require.NoError(t, mem.WriteAll(context.Background(), []model.Reservation{
		first, second, third, cancelled, otherMonth,
	}))

	grid, err := NewMonthBuilder(mem, fixedJune(), SpanishLocale()).BuildMonth(context.Background(), 2024, 6)
	require.NoError(t, err)

	assert.Equal(t, 3, grid.TotalReservations)
	assert.Equal(t, 4, grid.TotalHours)
	assert.Equal(t, 2, grid.UniqueGroups)
	assert.Equal(t, 2, grid.UniqueInstructors)
	assert.Equal(t, 2, grid.DaysWithReservations)
	assert.InDelta(t, 0.2, grid.ReservationsPerWorkingDay, 0.001)

	byDay := make(map[int]*DayCell)
	for _, week := range grid.Weeks {
		for _, cell := range week {
			if cell != nil {
				byDay[cell.Day] = cell
			}
		}
	}
	assert.Equal(t, 2, byDay[10].ReservationCount)
	assert.Equal(t, 1, byDay[12].ReservationCount)
	assert.Equal(t, 0, byDay[13].ReservationCount)
}

func TestMonthReservationsFiltersConfirmedMonth(t *testing.T) {
	mem := store.NewMemory()
	cancelled := confirmed("b", "2024-06-11", 9, 1)
	cancelled.Status = model.StatusCancelled
	require.NoError(t, mem.WriteAll(context.Background(), []model.Reservation{
		confirmed("a", "2024-06-10", 9, 2),
		cancelled,
		confirmed("c", "2024-07-01", 9, 1),
	}))

	out, err := NewMonthBuilder(mem, fixedJune(), SpanishLocale()).MonthReservations(context.Background(), 2024, 6)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ID)
}

func TestLocaleLabels(t *testing.T) {
	es := SpanishLocale()
	assert.Equal(t, "Lun", es.WeekdayShort(time.Monday))
	assert.Equal(t, "Dom", es.WeekdayShort(time.Sunday))
	assert.Equal(t, "Enero", es.MonthName(time.January))

	en := EnglishLocale()
	assert.Equal(t, "Sun", en.WeekdayShort(time.Sunday))
	assert.Equal(t, "December", en.MonthName(time.December))
}
