package reminder

import (
	"fmt"
	"math/rand"
)

// Madani mushaf layout: start page of each juz, 604 pages total.
var juzStartPages = [31]int{
	1:  1,
	2:  22,
	3:  42,
	4:  62,
	5:  82,
	6:  102,
	7:  122,
	8:  142,
	9:  162,
	10: 182,
	11: 202,
	12: 222,
	13: 242,
	14: 262,
	15: 282,
	16: 302,
	17: 322,
	18: 342,
	19: 362,
	20: 382,
	21: 402,
	22: 422,
	23: 442,
	24: 462,
	25: 482,
	26: 502,
	27: 522,
	28: 542,
	29: 562,
	30: 582,
}

const quranTotalPages = 604

const quranPageBase = "https://raw.githubusercontent.com/Five-Prayers/quran-pages/main/quran_pages"

// JuzForDay maps a day of month (1-31) to the juz read that day. Days
// past 30 stay on the last juz.
func JuzForDay(day int) int {
	if day < 1 {
		return 1
	}
	if day > 30 {
		return 30
	}
	return day
}

// JuzPages returns the inclusive page range of a juz.
func JuzPages(juz int) (start, end int, err error) {
	if juz < 1 || juz > 30 {
		return 0, 0, fmt.Errorf("juz %d out of range", juz)
	}
	start = juzStartPages[juz]
	if juz == 30 {
		end = quranTotalPages
	} else {
		end = juzStartPages[juz+1] - 1
	}
	return start, end, nil
}

func QuranPageURL(page int) string {
	return fmt.Sprintf("%s/%d.png", quranPageBase, page)
}

// JuzPageURLs lists every page image of a juz in reading order.
func JuzPageURLs(juz int) ([]string, error) {
	start, end, err := JuzPages(juz)
	if err != nil {
		return nil, err
	}
	urls := make([]string, 0, end-start+1)
	for p := start; p <= end; p++ {
		urls = append(urls, QuranPageURL(p))
	}
	return urls, nil
}

func RandomQuranPageURL() string {
	return QuranPageURL(rand.Intn(quranTotalPages) + 1)
}
