package due

import (
	"strings"
	"time"
)

const (
	dateLayout         = "2006-01-02"
	naiveLayout        = "2006-01-02T15:04:05"
	zuluLayout         = "2006-01-02T15:04:05Z"
	zuluFractionLayout = "2006-01-02T15:04:05.000000Z"
)

type Info struct {
	Date        string `json:"date"`
	IsRecurring bool   `json:"is_recurring"`
	String      string `json:"string,omitempty"`
	Lang        string `json:"lang,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

type Deadline struct {
	Date string `json:"date"`
	Lang string `json:"lang,omitempty"`
}

type Kind int

const (
	KindNone Kind = iota
	KindDate
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	default:
		return "none"
	}
}

// Resolved is due info pinned to a zone. Date is midnight of the calendar day for
// KindDate; Instant is set for KindDateTime.
type Resolved struct {
	Kind      Kind
	Date      time.Time
	Instant   time.Time
	Recurring bool
	Text      string
	Location  *time.Location
}

func (r Resolved) IsZero() bool {
	return r.Kind == KindNone
}

func Resolve(info *Info, fallback string) (Resolved, error) {
	if info == nil {
		return Resolved{Kind: KindNone}, nil
	}
	name := strings.TrimSpace(info.Timezone)
	if name == "" {
		name = strings.TrimSpace(fallback)
	}
	loc, err := LoadLocation(name)
	if err != nil {
		return Resolved{}, err
	}
	raw := info.Date
	out := Resolved{Recurring: info.IsRecurring, Text: info.String, Location: loc}
	switch len(raw) {
	case 10:
		date, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return Resolved{}, &ParseError{Raw: raw, Kind: ParseMalformed, Err: err}
		}
		out.Kind = KindDate
		out.Date = date
	case 19:
		instant, err := time.ParseInLocation(naiveLayout, raw, loc)
		if err != nil {
			return Resolved{}, &ParseError{Raw: raw, Kind: ParseMalformed, Err: err}
		}
		out.Kind = KindDateTime
		out.Instant = instant
	case 20, 27:
		layout := zuluLayout
		if len(raw) == 27 {
			layout = zuluFractionLayout
		}
		instant, err := time.ParseInLocation(layout, raw, time.UTC)
		if err != nil {
			return Resolved{}, &ParseError{Raw: raw, Kind: ParseMalformed, Err: err}
		}
		out.Kind = KindDateTime
		out.Instant = instant.In(loc)
	default:
		return Resolved{}, &ParseError{Raw: raw, Kind: ParseUnsupportedLength}
	}
	return out, nil
}

func ParseDeadline(deadline *Deadline, loc *time.Location) (time.Time, error) {
	if deadline == nil {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	raw := deadline.Date
	if len(raw) != 10 {
		return time.Time{}, &ParseError{Raw: raw, Kind: ParseUnsupportedLength}
	}
	date, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, &ParseError{Raw: raw, Kind: ParseMalformed, Err: err}
	}
	return date, nil
}

func Midnight(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween counts calendar days from a to b. Both are reduced to dates first so
// DST transitions do not skew the count.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func (r Resolved) String() string {
	switch r.Kind {
	case KindDate:
		return FormatDate(r.Date)
	case KindDateTime:
		return r.Instant.Format("2006-01-02 15:04 MST")
	default:
		return ""
	}
}
