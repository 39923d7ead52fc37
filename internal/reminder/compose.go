package reminder

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var prayerNamesAr = map[string]string{
	"fajr":    "الفجر",
	"dhuhr":   "الظهر",
	"asr":     "العصر",
	"maghrib": "المغرب",
	"isha":    "العشاء",
}

const (
	morningAdhkarURL = "https://www.islambook.com/azkar/1/%D8%A3%D8%B0%D9%83%D8%A7%D8%B1-%D8%A7%D9%84%D8%B5%D8%A8%D8%A7%D8%AD"
	eveningAdhkarURL = "https://www.islambook.com/azkar/2/%D8%A3%D8%B0%D9%83%D8%A7%D8%B1-%D8%A7%D9%84%D9%85%D8%B3%D8%A7%D8%A1"

	digestSeparator = "\n\n--------------------------------\n\n"
)

const fridayKahfMessage = `🕌 *جمعة مباركة!*

قال النبي ﷺ: "من قرأ سورة الكهف في يوم الجمعة أضاء له من النور ما بين الجمعتين."

لا تنس قراءة سورة الكهف والصلوات على النبي ﷺ 📿`

// ArabicTime12 renders "HH:MM" in 12-hour form with the Arabic period
// marker, e.g. "19:05" -> "7:05 م".
func ArabicTime12(hhmm string) string {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return hhmm
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return hhmm
	}
	period := "ص"
	if h >= 12 {
		period = "م"
	}
	h = h % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%s %s", h, parts[1], period)
}

// PrayerReminderMessage builds the before-prayer text.
func PrayerReminderMessage(prayer, prayerTime string, beforeMinutes int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🕌 تذكير بصلاة %s\n⏰ الوقت: %s\n\n", prayerNamesAr[prayer], ArabicTime12(prayerTime))
	if beforeMinutes > 0 {
		fmt.Fprintf(&b, "⏳ باقي %d دقيقة على الأذان\n\n", beforeMinutes)
	}
	b.WriteString("حَيَّ عَلَى الصَّلَاةِ 🤲")
	return b.String()
}

func QuranIntroMessage(juz, startPage, endPage int) string {
	return fmt.Sprintf("📖 *الورد اليومي من القرآن الكريم*\n\n🔹 الجزء: %d\n🔹 الصفحات: من %d إلى %d\n\n(يتم إرسال الصفحات كصور...)",
		juz, startPage, endPage)
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	arabicOnlyRe = regexp.MustCompile("[^ء-ي\\s]")
)

// HashText fingerprints content for the same-day anti-repeat check.
// Whitespace differences do not change the hash.
func HashText(text string) string {
	s := strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if s == "" {
		return ""
	}
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// DorarSearchLink builds a hadith lookup URL from a cleaned snippet of
// the text: the part after the uniform opening, first 100 characters,
// Arabic letters and spaces only.
func DorarSearchLink(text string) string {
	core := text
	if _, after, found := strings.Cut(text, "قال رسول الله ﷺ:"); found {
		core = after
	}
	runes := []rune(core)
	if len(runes) > 100 {
		runes = runes[:100]
	}
	snippet := strings.TrimSpace(arabicOnlyRe.ReplaceAllString(string(runes), ""))
	return "https://dorar.net/hadith/search?q=" + url.QueryEscape(snippet)
}

// FallbackSourceLink supplies a reference URL when the content itself
// carries none.
func FallbackSourceLink(typ, category, text string) string {
	switch typ {
	case "adhkar":
		if category == "evening" {
			return eveningAdhkarURL
		}
		return morningAdhkarURL
	case "hadith", "hadith_cached":
		if text != "" {
			return DorarSearchLink(text)
		}
	}
	return ""
}

func sourceLine(source string) string {
	return "📚 المصدر: " + source
}

func linkLine(link string) string {
	return "🔗 للمزيد: " + link
}

const (
	imageSourceBackgrounds = "\n🖼️ مصدر الصورة: صور مساجد احترافية"
	imageSourceQuranPages  = "\n🖼️ مصدر الصورة: صفحات القرآن (مصحف المدينة)"
)

// digestHeader returns the banner wrapping for full-mode digests.
func digestHeader(category string) (header, footer string) {
	var title string
	switch category {
	case "morning":
		title = "🌅 أذكار الصباح كاملة"
	case "evening":
		title = "🌙 أذكار المساء كاملة"
	case "after_prayer":
		title = "📿 أذكار بعد الصلاة"
	}
	header = "========================\n" + title + "\n========================\n\n"
	footer = "\n\n========================\n🤍 تم بحمد الله\n========================"
	return header, footer
}
