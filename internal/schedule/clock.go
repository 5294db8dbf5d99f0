package schedule

import "time"

// Clock supplies the current moment. Injectable so tests can pin "today"
// instead of reading the global clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Locale carries display names for calendar rendering. Weekdays are
// Monday-first three-letter abbreviations.
type Locale struct {
	Weekdays [7]string
	Months   [12]string
}

// SpanishLocale matches the lab's original display language.
func SpanishLocale() Locale {
	return Locale{
		Weekdays: [7]string{"Lun", "Mar", "Mié", "Jue", "Vie", "Sáb", "Dom"},
		Months: [12]string{
			"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
			"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
		},
	}
}

// EnglishLocale is available for deployments that prefer English labels.
func EnglishLocale() Locale {
	return Locale{
		Weekdays: [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Months: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
	}
}

// WeekdayShort returns the localized abbreviation for a weekday.
func (l Locale) WeekdayShort(wd time.Weekday) string {
	return l.Weekdays[mondayIndex(wd)]
}

// MonthName returns the localized name for a month.
func (l Locale) MonthName(m time.Month) string {
	return l.Months[int(m)-1]
}

// mondayIndex maps time.Weekday (Sunday = 0) to a Monday-first index.
func mondayIndex(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}
