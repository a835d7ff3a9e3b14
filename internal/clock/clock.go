package clock

import "time"

type Provider interface {
	Now(loc *time.Location) time.Time
	Today(loc *time.Location) time.Time
}

type System struct{}

func (System) Now(loc *time.Location) time.Time {
	return time.Now().In(orUTC(loc))
}

func (s System) Today(loc *time.Location) time.Time {
	return midnight(s.Now(loc))
}

type Fixed struct {
	At time.Time
}

func (f Fixed) Now(loc *time.Location) time.Time {
	return f.At.In(orUTC(loc))
}

func (f Fixed) Today(loc *time.Location) time.Time {
	return midnight(f.Now(loc))
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
