package content

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// External is one piece of externally sourced daily content.
type External struct {
	Type      string // "adhkar" or "hadith"
	Text      string
	Source    string
	MediaURL  string
	MediaType string // "image" or "video"
}

// ExternalService fetches daily material from public endpoints and
// pairs it with a curated image or video. Everything degrades to static
// pools when the network is down.
type ExternalService struct {
	HadithURL string
	Client    *http.Client
	log       zerolog.Logger
}

func NewExternalService(log zerolog.Logger) *ExternalService {
	return &ExternalService{
		HadithURL: "https://random-hadith-generator.vercel.app/bukhari/",
		Client:    &http.Client{Timeout: 15 * time.Second},
		log:       log,
	}
}

var curatedImages = []string{
	"https://images.unsplash.com/photo-1596417469794-811c751a0279?auto=format&fit=crop&w=1080&q=80",
	"https://images.unsplash.com/photo-1584551246679-0daf3d275d0f?auto=format&fit=crop&w=1080&q=80",
	"https://images.unsplash.com/photo-1519817650390-64a93db51149?auto=format&fit=crop&w=1080&q=80",
	"https://images.unsplash.com/photo-1579218698188-466c1b3f6831?auto=format&fit=crop&w=1080&q=80",
	"https://images.unsplash.com/photo-1564121211835-e88c852648ab?auto=format&fit=crop&w=1080&q=80",
	"https://images.unsplash.com/photo-1534960680480-cca9853322bc?auto=format&fit=crop&w=1080&q=80",
	"https://images.unsplash.com/photo-1580418827493-f2b22c4f7ceb?auto=format&fit=crop&w=1080&q=80",
	"https://images.unsplash.com/photo-1596700813735-d8aa40536c0a?auto=format&fit=crop&w=1080&q=80",
}

var curatedVideos = []string{
	"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerJoyrides.mp4",
	"https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerMeltdowns.mp4",
}

func RandomImageURL() string {
	return curatedImages[rand.Intn(len(curatedImages))]
}

func RandomVideoURL() string {
	return curatedVideos[rand.Intn(len(curatedVideos))]
}

type hadithGeneratorResponse struct {
	Data struct {
		HadithArabic string `json:"hadith_arabic"`
		HadithURL    string `json:"hadith_url"`
	} `json:"data"`
}

// RandomHadith fetches one hadith from the public generator.
func (s *ExternalService) RandomHadith(ctx context.Context) (text, source string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.HadithURL, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("hadith generator: status %d", resp.StatusCode)
	}
	var body hadithGeneratorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", err
	}
	if body.Data.HadithArabic == "" {
		return "", "", fmt.Errorf("hadith generator: empty response")
	}
	return body.Data.HadithArabic, "صحيح البخاري", nil
}

// Daily builds one externally sourced item. Preference "mixed" picks
// video roughly one time in five, otherwise image.
func (s *ExternalService) Daily(ctx context.Context, preference, typ, category string) External {
	useVideo := false
	switch preference {
	case "video":
		useVideo = true
	case "image":
		useVideo = false
	default:
		useVideo = rand.Float64() > 0.8
	}

	out := External{Type: typ}
	if typ == "adhkar" {
		d := RandomDhikr(category)
		out.Text, out.Source = d.Text, d.Source
	} else {
		text, source, err := s.RandomHadith(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("external hadith fetch failed")
		} else {
			out.Text, out.Source = text, source
			out.Type = "hadith"
		}
	}
	if out.Text == "" {
		out.Text = "سبحان الله وبحمده 🌿"
		out.Source = "ذكر"
		out.Type = "adhkar"
	}

	if useVideo {
		out.MediaURL, out.MediaType = RandomVideoURL(), "video"
	} else {
		out.MediaURL, out.MediaType = RandomImageURL(), "image"
	}
	return out
}
