package content

import "math/rand"

// Dhikr is one static remembrance entry. The static pool backs the
// selected-adhkar slot and the external fallback snippets; it never
// depends on the database.
type Dhikr struct {
	Category  string
	Text      string
	Source    string
	SourceURL string
}

var adhkarPool = []Dhikr{
	{Category: "general", Text: "لا إله إلا الله وحده لا شريك له، له الملك وله الحمد، وهو على كل شيء قدير.", Source: "متفق عليه", SourceURL: "https://www.islambook.com/azkar"},
	{Category: "istighfar", Text: "أستغفر الله العظيم وأتوب إليه.", Source: "ذكر", SourceURL: "https://www.islambook.com/azkar"},
	{Category: "tasbeeh", Text: "سبحان الله.", Source: "ذكر", SourceURL: "https://www.islambook.com/azkar"},
	{Category: "hamd", Text: "الحمد لله.", Source: "ذكر", SourceURL: "https://www.islambook.com/azkar"},
	{Category: "tahleel", Text: "لا إله إلا الله.", Source: "ذكر", SourceURL: "https://www.islambook.com/azkar"},
	{Category: "takbeer", Text: "الله أكبر.", Source: "ذكر", SourceURL: "https://www.islambook.com/azkar"},
	{Category: "salat", Text: "اللهم صل وسلم وبارك على نبينا محمد.", Source: "ذكر", SourceURL: "https://www.islambook.com/azkar"},
	{Category: "dua", Text: "ربنا آتنا في الدنيا حسنة وفي الآخرة حسنة وقنا عذاب النار.", Source: "قرآن (البقرة: 201)", SourceURL: "https://quran.com/2/201"},
	{Category: "dua", Text: "اللهم إنك عفوٌ تحب العفو فاعفُ عني.", Source: "سنن الترمذي", SourceURL: "https://dorar.net/hadith/sharh/23242"},
	{Category: "dua", Text: "اللهم إني أسألك الهدى والتقى والعفاف والغنى.", Source: "صحيح مسلم", SourceURL: "https://dorar.net/hadith/sharh/106209"},
	{Category: "general", Text: "سبحان الله وبحمده، عدد خلقه، ورضا نفسه، وزنة عرشه، ومداد كلماته.", Source: "صحيح مسلم", SourceURL: "https://dorar.net/hadith/sharh/106350"},
	{Category: "general", Text: "اللهم صل وسلم وبارك على نبينا محمد.", Source: "ذكر", SourceURL: "https://www.islambook.com/azkar"},
	{Category: "morning", Text: "أصبحنا وأصبح الملك لله، والحمد لله، لا إله إلا الله وحده لا شريك له، له الملك وله الحمد وهو على كل شيء قدير، رب أسألك خير ما في هذا اليوم وخير ما بعده، وأعوذ بك من شر ما في هذا اليوم وشر ما بعده، رب أعوذ بك من الكسل وسوء الكبر، رب أعوذ بك من عذاب في النار وعذاب في القبر.", Source: "صحيح مسلم", SourceURL: "https://www.islambook.com/azkar/1/%D8%A3%D8%B0%D9%83%D8%A7%D8%B1-%D8%A7%D9%84%D8%B5%D8%A8%D8%A7%D8%AD"},
	{Category: "morning", Text: "اللهم بك أصبحنا، وبك أمسينا، وبك نحيا، وبك نموت، وإليك النشور.", Source: "سنن الترمذي", SourceURL: "https://dorar.net/hadith/sharh/144642"},
	{Category: "evening", Text: "أمسينا وأمسى الملك لله، والحمد لله، لا إله إلا الله وحده لا شريك له، له الملك وله الحمد وهو على كل شيء قدير، رب أسألك خير ما في هذه الليلة وخير ما بعدها، وأعوذ بك من شر ما في هذه الليلة وشر ما بعدها، رب أعوذ بك من الكسل وسوء الكبر، رب أعوذ بك من عذاب في النار وعذاب في القبر.", Source: "صحيح مسلم", SourceURL: "https://www.islambook.com/azkar/2/%D8%A3%D8%B0%D9%83%D8%A7%D8%B1-%D8%A7%D9%84%D9%85%D8%B3%D8%A7%D8%A1"},
	{Category: "evening", Text: "اللهم بك أمسينا، وبك أصبحنا، وبك نحيا، وبك نموت، وإليك المصير.", Source: "سنن الترمذي", SourceURL: "https://dorar.net/hadith/sharh/144638"},
}

// AdhkarCategories lists the categories the selected-adhkar slot can
// pick from.
func AdhkarCategories() []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range adhkarPool {
		if !seen[d.Category] {
			seen[d.Category] = true
			out = append(out, d.Category)
		}
	}
	return out
}

// RandomDhikr picks from the named category, falling back to the whole
// pool when the category is unknown or empty.
func RandomDhikr(category string) Dhikr {
	var list []Dhikr
	for _, d := range adhkarPool {
		if d.Category == category {
			list = append(list, d)
		}
	}
	if len(list) == 0 {
		list = adhkarPool
	}
	return list[rand.Intn(len(list))]
}
