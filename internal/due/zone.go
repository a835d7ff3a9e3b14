package due

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	lru "github.com/hashicorp/golang-lru/v2"
)

const zoneCacheSize = 64

var gmtOffsetPattern = regexp.MustCompile(`^GMT\s*([+-])\s*(\d{1,2})(?::(\d{2}))?$`)

var zones = mustZoneCache()

func mustZoneCache() *lru.Cache[string, *time.Location] {
	cache, err := lru.New[string, *time.Location](zoneCacheSize)
	if err != nil {
		panic(err)
	}
	return cache
}

// LoadLocation resolves an IANA zone name, falling back to the "GMT -7:00" form Todoist
// reports for users without a named zone. An empty name is UTC.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	if loc, ok := zones.Get(name); ok {
		return loc, nil
	}
	loc, err := loadLocation(name)
	if err != nil {
		return nil, err
	}
	zones.Add(name, loc)
	return loc, nil
}

func loadLocation(name string) (*time.Location, error) {
	if loc, err := time.LoadLocation(name); err == nil {
		return loc, nil
	}
	m := gmtOffsetPattern.FindStringSubmatch(name)
	if m == nil {
		return nil, &TimezoneError{Name: name}
	}
	hours, _ := strconv.Atoi(m[2])
	minutes := 0
	if m[3] != "" {
		minutes, _ = strconv.Atoi(m[3])
	}
	if minutes >= 60 {
		return nil, &TimezoneError{Name: name}
	}
	if minutes != 0 {
		offset := hours*3600 + minutes*60
		if m[1] == "-" {
			offset = -offset
		}
		return time.FixedZone(fmt.Sprintf("GMT%s%02d:%02d", m[1], hours, minutes), offset), nil
	}
	// Etc/GMT names use the POSIX sign: west of UTC is positive.
	etc := "Etc/GMT"
	if hours != 0 {
		sign := "+"
		if m[1] == "+" {
			sign = "-"
		}
		etc = fmt.Sprintf("Etc/GMT%s%d", sign, hours)
	}
	loc, err := time.LoadLocation(etc)
	if err != nil {
		return nil, &TimezoneError{Name: name, Err: err}
	}
	return loc, nil
}
