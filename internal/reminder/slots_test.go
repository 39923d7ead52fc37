package reminder

import (
	"reflect"
	"testing"
)

func TestExpandTimes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		times    []string
		fallback string
		count    int
		want     []string
	}{
		{
			name:     "pads with three hour steps",
			times:    []string{"09:00"},
			fallback: "12:00",
			count:    3,
			want:     []string{"09:00", "12:00", "15:00"},
		},
		{
			name:     "empty list seeds from fallback",
			times:    nil,
			fallback: "12:00",
			count:    2,
			want:     []string{"12:00", "15:00"},
		},
		{
			name:     "truncates to count",
			times:    []string{"06:00", "07:00", "08:00", "09:00"},
			fallback: "12:00",
			count:    2,
			want:     []string{"06:00", "07:00"},
		},
		{
			name:     "drops invalid entries",
			times:    []string{"7:30", "nope", "22:00"},
			fallback: "12:00",
			count:    1,
			want:     []string{"22:00"},
		},
		{
			name:     "all invalid falls back",
			times:    []string{"x", "25:00junk"},
			fallback: "10:00",
			count:    1,
			want:     []string{"10:00"},
		},
		{
			name:     "duplicates shift by one minute",
			times:    []string{"09:00", "09:00", "09:00"},
			fallback: "12:00",
			count:    3,
			want:     []string{"09:00", "09:01", "09:02"},
		},
		{
			name:     "padding wraps midnight",
			times:    []string{"22:30"},
			fallback: "12:00",
			count:    2,
			want:     []string{"22:30", "01:30"},
		},
		{
			name:     "count clamps high",
			times:    []string{"09:00"},
			fallback: "12:00",
			count:    9,
			want:     []string{"09:00", "12:00", "15:00", "18:00", "21:00"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExpandTimes(tc.times, tc.fallback, tc.count)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ExpandTimes(%v, %q, %d) = %v, want %v", tc.times, tc.fallback, tc.count, got, tc.want)
			}
			// Deterministic: repeat gives the same sequence.
			again := ExpandTimes(tc.times, tc.fallback, tc.count)
			if !reflect.DeepEqual(got, again) {
				t.Fatalf("not idempotent: %v then %v", got, again)
			}
		})
	}
}

func TestAddMinutes(t *testing.T) {
	t.Parallel()
	if got := AddMinutes("23:50", 20, "12:00"); got != "00:10" {
		t.Fatalf("forward wrap = %q", got)
	}
	if got := AddMinutes("00:05", -10, "12:00"); got != "23:55" {
		t.Fatalf("backward wrap = %q", got)
	}
	if got := AddMinutes("garbage", 5, "12:00"); got != "12:00" {
		t.Fatalf("malformed input = %q, want fallback", got)
	}
}
