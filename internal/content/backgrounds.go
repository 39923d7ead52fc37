package content

import "math/rand"

// Background is one curated image with its attribution.
type Background struct {
	URL    string
	Source string
	Theme  string
}

const wikimediaCredit = "Wikimedia Commons (صور مساجد احترافية)"

var mosqueBackgrounds = []Background{
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/a/ac/Bohoniki_meczet_5.jpg/1920px-Bohoniki_meczet_5.jpg", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/7/76/Arc_design_National_Mosque_of_Ghana.jpg/1920px-Arc_design_National_Mosque_of_Ghana.jpg", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/2/2c/Mosque_in_Yrdyk_02.jpg/1920px-Mosque_in_Yrdyk_02.jpg", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/3/32/Masjid_Nurul_iman.jpg/1920px-Masjid_Nurul_iman.jpg", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/7/74/ALWaledain_Grand_Mosque.jpg/1920px-ALWaledain_Grand_Mosque.jpg", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/5/5d/Blua_moskeo_en_Erevano_27.jpg/1920px-Blua_moskeo_en_Erevano_27.jpg", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/1/1a/Interior_masjid_jami_inuman.jpg/3840px-Interior_masjid_jami_inuman.jpg", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/3/30/Mosqu%C3%A9e_Kouba_Int%C3%A9rieur.jpg/3840px-Mosqu%C3%A9e_Kouba_Int%C3%A9rieur.jpg", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/9/93/Baiturrahman_Mosque_dome_Temukus.jpg/1920px-Baiturrahman_Mosque_dome_Temukus.jpg", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/c/c7/The_Great_Mosque_in_Prishtina.JPG", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/5/51/Mosque_in_Yrdyk_03.jpg/1920px-Mosque_in_Yrdyk_03.jpg", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/3/3d/Abbas-Mirza-Mosque.jpg", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/d/d8/Bohoniki_meczet_6.jpg/1920px-Bohoniki_meczet_6.jpg", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/d/df/Shkoder_128.JPG/3840px-Shkoder_128.JPG", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/1/1a/SkodraEbu-Bekr-MoscheeInnen2014.JPG/3840px-SkodraEbu-Bekr-MoscheeInnen2014.JPG", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/e/e7/Mehrab_of_Masjed_e_Mufti_-_Azam.JPG/1920px-Mehrab_of_Masjed_e_Mufti_-_Azam.JPG", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/0/02/Preston_mosque.jpg", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/6/61/Eupatoria%2C_Juma-Jami_Mosque%2C_Minbar%2C_Mihrab%2C_Crimea.jpg/1920px-Eupatoria%2C_Juma-Jami_Mosque%2C_Minbar%2C_Mihrab%2C_Crimea.jpg", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/0/07/Tokyo_Camii_mihrab.JPG/1920px-Tokyo_Camii_mihrab.JPG", Source: wikimediaCredit, Theme: "mosques"},
	{URL: "https://upload.wikimedia.org/wikipedia/commons/thumb/9/97/State_Mosque_Mihrab.jpg/1920px-State_Mosque_Mihrab.jpg", Source: wikimediaCredit, Theme: "mosques"},
}

// PickBackground returns a curated image for the theme, skipping any
// URL already used today. An exhausted exclude set falls back to the
// full theme list so the slot still gets an image.
func PickBackground(theme string, exclude map[string]bool) Background {
	full := themeList(theme)
	var fresh []Background
	for _, b := range full {
		if !exclude[b.URL] {
			fresh = append(fresh, b)
		}
	}
	if len(fresh) == 0 {
		fresh = full
	}
	return fresh[rand.Intn(len(fresh))]
}

// Only the mosques theme is curated for now; unknown themes fall back
// to it rather than failing the slot.
func themeList(theme string) []Background {
	return mosqueBackgrounds
}
