package pkg

import (
	"math"
	"strings"
	"time"
)

// CeilHours rounds d up to whole hours. Non-positive durations give 0.
func CeilHours(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours()))
}

// ParseIDSet splits a comma or whitespace separated id list.
func ParseIDSet(s string) map[string]bool {
	ids := make(map[string]bool)
	for _, id := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	}) {
		ids[id] = true
	}
	return ids
}

func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
