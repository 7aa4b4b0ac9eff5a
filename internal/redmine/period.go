package redmine

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	monthNames = [12]string{
		"январь", "февраль", "март", "апрель", "май", "июнь",
		"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
	}
	monthNamesGenitive = [12]string{
		"января", "февраля", "марта", "апреля", "мая", "июня",
		"июля", "августа", "сентября", "октября", "ноября", "декабря",
	}
	titleCase = cases.Title(language.Russian)
)

// MonthName returns the Russian name of month m (1..12), in the genitive
// case when genitive is set ("марта" as in "5 марта"). Months outside
// 1..12 wrap around.
func MonthName(m int, genitive bool) string {
	i := ((m-1)%12 + 12) % 12
	if genitive {
		return monthNamesGenitive[i]
	}
	return monthNames[i]
}

// CurrentMonthName returns the name of the month plus months after date.
// For December a positive plus counts from the start of the year.
func CurrentMonthName(date time.Time, plus int) string {
	m := int(date.Month())
	if m == 12 && plus > 0 {
		return MonthName(plus, false)
	}
	return MonthName(m+plus, false)
}

// CurrentYear returns the planning year of date: reports made in November
// already plan for the next year.
func CurrentYear(date time.Time) int {
	if date.Month() == time.November {
		return date.Year() + 1
	}
	return date.Year()
}

// PeriodString renders a month of a year as "Март 2024 года".
func PeriodString(year, month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf(" %d года", year)
	}
	return fmt.Sprintf("%s %d года", titleCase.String(MonthName(month, false)), year)
}

// monthBounds returns the first instant of the month of date and of the
// following month, in date's location.
func monthBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 1, 0)
}
