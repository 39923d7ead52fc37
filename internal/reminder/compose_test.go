package reminder

import (
	"strings"
	"testing"
)

func TestArabicTime12(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"00:15", "12:15 ص"},
		{"05:12", "5:12 ص"},
		{"12:00", "12:00 م"},
		{"19:05", "7:05 م"},
		{"23:59", "11:59 م"},
		{"bad", "bad"},
	}
	for _, tc := range tests {
		if got := ArabicTime12(tc.in); got != tc.want {
			t.Errorf("ArabicTime12(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPrayerReminderMessage(t *testing.T) {
	t.Parallel()
	msg := PrayerReminderMessage("fajr", "05:12", 10)
	if !strings.Contains(msg, "الفجر") {
		t.Fatalf("missing prayer name: %q", msg)
	}
	if !strings.Contains(msg, "5:12 ص") {
		t.Fatalf("missing 12h time: %q", msg)
	}
	if !strings.Contains(msg, "باقي 10 دقيقة") {
		t.Fatalf("missing countdown: %q", msg)
	}

	noCountdown := PrayerReminderMessage("isha", "19:30", 0)
	if strings.Contains(noCountdown, "باقي") {
		t.Fatalf("zero offset should drop countdown: %q", noCountdown)
	}
}

func TestHashTextNormalizesWhitespace(t *testing.T) {
	t.Parallel()
	a := HashText("سبحان  الله\nوبحمده")
	b := HashText(" سبحان الله وبحمده ")
	if a == "" || a != b {
		t.Fatalf("whitespace variants hash differently: %q vs %q", a, b)
	}
	if HashText("   ") != "" {
		t.Fatal("blank text should hash to empty")
	}
}

func TestDorarSearchLink(t *testing.T) {
	t.Parallel()
	link := DorarSearchLink(`قال رسول الله ﷺ: "إنما الأعمال بالنيات (123)."`)
	if !strings.HasPrefix(link, "https://dorar.net/hadith/search?q=") {
		t.Fatalf("bad link prefix: %q", link)
	}
	if strings.Contains(link, "123") {
		t.Fatalf("non-Arabic characters leaked into snippet: %q", link)
	}
}

func TestFallbackSourceLink(t *testing.T) {
	t.Parallel()
	if got := FallbackSourceLink("adhkar", "morning", ""); got != morningAdhkarURL {
		t.Fatalf("morning link = %q", got)
	}
	if got := FallbackSourceLink("adhkar", "evening", ""); got != eveningAdhkarURL {
		t.Fatalf("evening link = %q", got)
	}
	if got := FallbackSourceLink("adhkar", "after_prayer", ""); got != morningAdhkarURL {
		t.Fatalf("after_prayer should use the default adhkar link, got %q", got)
	}
	if got := FallbackSourceLink("hadith", "general", "نص الحديث"); !strings.Contains(got, "dorar.net") {
		t.Fatalf("hadith fallback = %q", got)
	}
	if got := FallbackSourceLink("content", "general", "x"); got != "" {
		t.Fatalf("unknown type should have no fallback, got %q", got)
	}
}
