// Package content sources the material that fills reminder slots: the
// local library, static adhkar pools, curated backgrounds, and the
// external fetchers with their refill worker.
package content

import (
	"context"

	"github.com/rs/zerolog"

	"wasel/internal/storage"
)

var seedItems = []storage.ContentItem{
	{Type: "adhkar", Category: "morning", Body: "أصبحنا وأصبح الملك لله، والحمد لله، لا إله إلا الله وحده لا شريك له.", Attribution: "صحيح مسلم", Active: true},
	{Type: "adhkar", Category: "morning", Body: "اللهم بك أصبحنا وبك أمسينا وبك نحيا وبك نموت وإليك النشور.", Attribution: "الترمذي", Active: true},

	{Type: "adhkar", Category: "evening", Body: "أمسينا وأمسى الملك لله، والحمد لله، لا إله إلا الله وحده لا شريك له.", Attribution: "صحيح مسلم", Active: true},
	{Type: "adhkar", Category: "evening", Body: "اللهم بك أمسينا وبك أصبحنا وبك نحيا وبك نموت وإليك المصير.", Attribution: "الترمذي", Active: true},

	{Type: "adhkar", Category: "after_prayer", Body: "أستغفر الله (ثلاثاً)، اللهم أنت السلام ومنك السلام، تباركت يا ذا الجلال والإكرام.", Attribution: "صحيح مسلم", Active: true},
	{Type: "adhkar", Category: "after_prayer", Body: "لا إله إلا الله وحده لا شريك له، له الملك وله الحمد وهو على كل شيء قدير، اللهم لا مانع لما أعطيت، ولا معطي لما منعت، ولا ينفع ذا الجد منك الجد.", Attribution: "متفق عليه", Active: true},
	{Type: "adhkar", Category: "after_prayer", Body: "لا إله إلا الله وحده لا شريك له، له الملك وله الحمد وهو على كل شيء قدير، لا حول ولا قوة إلا بالله، لا إله إلا الله، ولا نعبد إلا إياه، له النعمة وله الفضل وله الثناء الحسن، لا إله إلا الله مخلصين له الدين ولو كره الكافرون.", Attribution: "صحيح مسلم", Active: true},
	{Type: "adhkar", Category: "after_prayer", Body: "سبحان الله (33 مرة)، الحمد لله (33 مرة)، الله أكبر (33 مرة)، ثم يتم المئة بقوله: لا إله إلا الله وحده لا شريك له، له الملك وله الحمد وهو على كل شيء قدير.", Attribution: "صحيح مسلم", Active: true},
	{Type: "adhkar", Category: "after_prayer", Body: "قراءة آية الكرسي: {اللَّهُ لَا إِلَهَ إِلَّا هُوَ الْحَيُّ الْقَيُّومُ...} [البقرة: 255].", Attribution: "النسائي (صححه الألباني)", Active: true},
	{Type: "adhkar", Category: "after_prayer", Body: "قراءة المعوذات: {قل هو الله أحد}، {قل أعوذ برب الفلق}، {قل أعوذ برب الناس}. (مرة واحدة بعد الظهر والعصر والعشاء، وثلاثاً بعد الفجر والمغرب).", Attribution: "أبو داود والترمذي", Active: true},

	{Type: "adhkar", Category: "general", Body: "سبحان الله وبحمده، عدد خلقه، ورضا نفسه، وزنة عرشه، ومداد كلماته.", Attribution: "صحيح مسلم", Active: true},
	{Type: "adhkar", Category: "general", Body: "لا حول ولا قوة إلا بالله العلي العظيم.", Attribution: "متفق عليه", Active: true},

	{Type: "hadith", Category: "general", Body: "قال رسول الله ﷺ: \"من يرد الله به خيراً يفقهه في الدين\".", Attribution: "متفق عليه", Active: true},
	{Type: "hadith", Category: "general", Body: "قال رسول الله ﷺ: \"إنما الأعمال بالنيات، وإنما لكل امرئ ما نوى\".", Attribution: "البخاري", Active: true},
}

// SeedLibrary inserts the starter library once, only into an empty table.
func SeedLibrary(ctx context.Context, store *storage.Store, log zerolog.Logger) error {
	n, err := store.TotalContent(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, it := range seedItems {
		if _, err := store.AddContent(ctx, it); err != nil {
			return err
		}
	}
	log.Info().Int("items", len(seedItems)).Msg("seeded content library")
	return nil
}
