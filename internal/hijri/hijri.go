// Package hijri converts Gregorian dates to the tabular (civil) Islamic
// calendar. The tabular calendar alternates 30/29-day months and adds a
// leap day to Dhu al-Hijjah in 11 years of each 30-year cycle; it can be
// off by a day from sighting-based calendars, which is why tenant configs
// carry an adjustment offset.
package hijri

import "time"

// Date is a civil Islamic calendar date. Month is 1-based (1 = Muharram,
// 9 = Ramadan, 12 = Dhu al-Hijjah).
type Date struct {
	Year  int
	Month int
	Day   int
}

const (
	Muharram   = 1
	Ramadan    = 9
	DhulHijjah = 12
)

// FromTime converts the calendar date of t, shifted by adjustDays, to a
// Hijri date. The time-of-day and location of t are ignored beyond the
// date they denote.
func FromTime(t time.Time, adjustDays int) Date {
	jdn := gregorianJDN(t.Year(), int(t.Month()), t.Day()) + adjustDays
	return fromJDN(jdn)
}

// gregorianJDN returns the Julian day number for a Gregorian calendar date.
func gregorianJDN(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// fromJDN implements the arithmetic (Kuwaiti) tabular conversion.
func fromJDN(jdn int) Date {
	d := jdn - 1948440 + 10632
	n := (d - 1) / 10631
	d = d - 10631*n + 354
	j := ((10985-d)/5316)*((50*d)/17719) + (d/5670)*((43*d)/15238)
	d = d - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	month := (24 * d) / 709
	day := d - (709*month)/24
	year := 30*n + j - 30
	return Date{Year: year, Month: month, Day: day}
}

// IsWhiteDay reports whether the date falls on the 13th, 14th or 15th of
// a Hijri month.
func (d Date) IsWhiteDay() bool {
	return d.Day >= 13 && d.Day <= 15
}

// IsAshura reports whether the date is the 10th of Muharram.
func (d Date) IsAshura() bool {
	return d.Month == Muharram && d.Day == 10
}

// IsArafah reports whether the date is the 9th of Dhu al-Hijjah.
func (d Date) IsArafah() bool {
	return d.Month == DhulHijjah && d.Day == 9
}
