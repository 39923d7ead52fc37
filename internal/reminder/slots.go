// Package reminder evaluates per-tenant reminder slots once a minute
// and turns the ones that fire into queued deliveries, guarded by the
// schedule ledger.
package reminder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

var hhmmRe = regexp.MustCompile(`^\d{2}:\d{2}$`)

// AddMinutes shifts an "HH:MM" time, wrapping across midnight. A
// malformed input collapses to the fallback.
func AddMinutes(t string, add int, fallback string) string {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return fallback
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return fallback
	}
	total := ((h*60+m+add)%minutesPerDay + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ExpandTimes normalizes a user-provided time list into exactly count
// distinct "HH:MM" slots:
//
//   - count clamps to 1..5
//   - invalid entries are dropped; an empty result starts from fallback
//   - missing slots extend the last one by 180 minutes, wrapping
//   - duplicates shift forward one minute at a time, bounded
func ExpandTimes(times []string, fallback string, count int) []string {
	if count < 1 {
		count = 1
	}
	if count > 5 {
		count = 5
	}

	var valid []string
	for _, t := range times {
		t = strings.TrimSpace(t)
		if hhmmRe.MatchString(t) {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		valid = []string{fallback}
	}
	if len(valid) > count {
		valid = valid[:count]
	}
	for len(valid) < count {
		valid = append(valid, AddMinutes(valid[len(valid)-1], 180, fallback))
	}

	used := make(map[string]bool, count)
	out := make([]string, 0, count)
	for _, t := range valid {
		tt := t
		for i := 0; i < 90 && used[tt]; i++ {
			tt = AddMinutes(tt, 1, fallback)
		}
		used[tt] = true
		out = append(out, tt)
	}
	return out[:count]
}
