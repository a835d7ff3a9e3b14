package clock

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestFixedTodayUsesRequestedZone(t *testing.T) {
	at := time.Date(2025, 5, 10, 3, 30, 0, 0, time.UTC)
	vancouver, err := time.LoadLocation("America/Vancouver")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	today := Fixed{At: at}.Today(vancouver)
	if today.Day() != 9 || today.Hour() != 0 || today.Location() != vancouver {
		t.Fatalf("unexpected today: %s", today)
	}
	if got := (Fixed{At: at}).Today(nil); got.Day() != 10 || got.Location() != time.UTC {
		t.Fatalf("unexpected utc today: %s", got)
	}
}

func TestSystemNowIsCurrent(t *testing.T) {
	before := time.Now()
	got := System{}.Now(time.UTC)
	if got.Before(before) || got.Sub(before) > time.Minute {
		t.Fatalf("unexpected now: %s", got)
	}
}
