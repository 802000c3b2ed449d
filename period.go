package senticorpus

import (
	"fmt"
	"strconv"
	"strings"
)

// Period is one of the six historical ranges the corpus is divided into.
// The zero value is the earliest period; the enum order is chronological.
type Period int

const (
	Period1970s Period = iota // 1970–1979
	Period1980s               // 1980–1987
	Period1988                // 1988–1995
	Period1996                // 1996–2007
	Period2008                // 2008–2014
	Period2015                // 2015–2023
)

// Periods lists every period in chronological order.
var Periods = []Period{Period1970s, Period1980s, Period1988, Period1996, Period2008, Period2015}

var periodRanges = [...]struct{ from, to int }{
	{1970, 1979},
	{1980, 1987},
	{1988, 1995},
	{1996, 2007},
	{2008, 2014},
	{2015, 2023},
}

// Valid reports whether p is one of the six known periods.
func (p Period) Valid() bool {
	return p >= Period1970s && p <= Period2015
}

// Years returns the first and last year covered by the period.
func (p Period) Years() (from, to int) {
	if !p.Valid() {
		return 0, 0
	}
	r := periodRanges[p]
	return r.from, r.to
}

// String returns the label used in output tables, e.g. "1. 1970–1979".
func (p Period) String() string {
	if !p.Valid() {
		return "Unknown"
	}
	r := periodRanges[p]
	return fmt.Sprintf("%d. %d–%d", int(p)+1, r.from, r.to)
}

// PeriodFromYear maps a publication year onto its period.
func PeriodFromYear(year int) (Period, error) {
	for i, r := range periodRanges {
		if year >= r.from && year <= r.to {
			return Period(i), nil
		}
	}
	return 0, &UnknownPeriodError{Value: strconv.Itoa(year)}
}

// ParsePeriod accepts a period label in any of the forms people type into
// the coding sheet: "3", "3. 1988–1995", "1988-1995" or "1988–1995".
func ParsePeriod(label string) (Period, error) {
	s := strings.TrimSpace(label)
	if s == "" {
		return 0, &UnknownPeriodError{Value: label}
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= len(periodRanges) {
			return Period(n - 1), nil
		}
		return 0, &UnknownPeriodError{Value: label}
	}
	if i := strings.Index(s, ". "); i > 0 {
		s = s[i+2:]
	}
	s = strings.ReplaceAll(s, "–", "-")
	for i, r := range periodRanges {
		if s == fmt.Sprintf("%d-%d", r.from, r.to) {
			return Period(i), nil
		}
	}
	return 0, &UnknownPeriodError{Value: label}
}
