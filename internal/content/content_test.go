package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wasel/internal/storage"
	"wasel/pkg/logx"
)

func TestStripSanad(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "marker found",
			in:   "حدثنا فلان عن فلان أن رسول الله صلى الله عليه وسلم قال إنما الأعمال بالنيات",
			want: `قال رسول الله ﷺ: "إنما الأعمال بالنيات"`,
		},
		{
			name: "no marker compacts honorific",
			in:   "ذكر النبي صلى الله عليه وسلم في حديث آخر",
			want: "ذكر النبي ﷺ في حديث آخر",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripSanad(tc.in); got != tc.want {
				t.Fatalf("StripSanad() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCleanHadithText(t *testing.T) {
	t.Parallel()
	in := "12 - [تعليق] عن النبي صلى الله عليه وسلم قال من حسن إسلام المرء تركه ما لا يعنيه"
	got := CleanHadithText(in)
	if strings.Contains(got, "12") || strings.Contains(got, "[") {
		t.Fatalf("numbering or brackets survived: %q", got)
	}
	if !strings.HasPrefix(got, "قال رسول الله ﷺ") {
		t.Fatalf("missing uniform opening: %q", got)
	}
}

func TestRandomDhikrCategory(t *testing.T) {
	t.Parallel()
	for i := 0; i < 20; i++ {
		d := RandomDhikr("morning")
		if d.Category != "morning" {
			t.Fatalf("got category %q, want morning", d.Category)
		}
	}
	// Unknown category falls back to the whole pool.
	if d := RandomDhikr("nope"); d.Text == "" {
		t.Fatal("fallback pick is empty")
	}
}

func TestPickBackgroundExcludes(t *testing.T) {
	t.Parallel()
	exclude := map[string]bool{}
	all := themeList("mosques")
	for _, b := range all[:len(all)-1] {
		exclude[b.URL] = true
	}
	keep := all[len(all)-1].URL
	for i := 0; i < 10; i++ {
		if got := PickBackground("mosques", exclude); got.URL != keep {
			t.Fatalf("picked excluded URL %q", got.URL)
		}
	}

	// Fully exhausted set still yields an image.
	exclude[keep] = true
	if got := PickBackground("mosques", exclude); got.URL == "" {
		t.Fatal("exhausted exclude set returned nothing")
	}
}

func TestSeedLibraryOnce(t *testing.T) {
	t.Parallel()
	st, err := storage.Open(storage.Config{Path: t.TempDir() + "/wasel.db"}, logx.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	ctx := context.Background()

	if err := SeedLibrary(ctx, st, logx.Nop()); err != nil {
		t.Fatal(err)
	}
	n, err := st.TotalContent(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(seedItems) {
		t.Fatalf("seeded %d items, want %d", n, len(seedItems))
	}

	if err := SeedLibrary(ctx, st, logx.Nop()); err != nil {
		t.Fatal(err)
	}
	n2, _ := st.TotalContent(ctx)
	if n2 != n {
		t.Fatalf("second seed changed count: %d -> %d", n, n2)
	}
}

func TestExternalDaily(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body hadithGeneratorResponse
		body.Data.HadithArabic = "قال رسول الله ﷺ: \"الدين النصيحة\""
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	svc := NewExternalService(logx.Nop())
	svc.HadithURL = srv.URL

	got := svc.Daily(context.Background(), "image", "hadith", "")
	if got.MediaType != "image" || got.MediaURL == "" {
		t.Fatalf("image preference not honored: %+v", got)
	}
	if got.Source != "صحيح البخاري" {
		t.Fatalf("source = %q", got.Source)
	}

	vid := svc.Daily(context.Background(), "video", "adhkar", "morning")
	if vid.MediaType != "video" {
		t.Fatalf("video preference not honored: %+v", vid)
	}
	if vid.Type != "adhkar" || vid.Text == "" {
		t.Fatalf("adhkar snippet missing: %+v", vid)
	}
}

func TestExternalDailyFallsBackOffline(t *testing.T) {
	t.Parallel()
	svc := NewExternalService(logx.Nop())
	svc.HadithURL = "http://127.0.0.1:1/unreachable"

	got := svc.Daily(context.Background(), "image", "hadith", "")
	if got.Text == "" || got.Type != "adhkar" {
		t.Fatalf("offline fallback missing: %+v", got)
	}
}
