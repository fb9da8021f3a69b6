// Package lexicon holds the static keyword and synonym tables used to map
// free-text questions onto topic types when NLP classification is unavailable,
// and to expand query keywords before full-text search. Tables are built once
// at init and are read-only afterwards, so concurrent lookups need no locking.
package lexicon

import (
	"sort"
	"strings"

	"github.com/campuslink/campuslink/models"
)

// entry pairs one literal phrase with its canonical topic type. Matching is
// substring containment against the lowercased question, tried in table order.
type entry struct {
	Phrase string
	Type   models.TopicType
}

// keywordToType is ordered: more specific phrases come before their prefixes
// ("internship" before "intern") and before looser terms, because the first
// hit wins. Phrases cover English and Vietnamese, with and without diacritics.
var keywordToType = []entry{
	{"scholarship", models.TypeScholarship},
	{"học bổng", models.TypeScholarship},
	{"hoc bong", models.TypeScholarship},
	{"financial aid", models.TypeScholarship},
	{"tuition support", models.TypeScholarship},

	{"internship", models.TypeInternship},
	{"thực tập", models.TypeInternship},
	{"thuc tap", models.TypeInternship},
	{"intern", models.TypeInternship},

	{"recruitment", models.TypeRecruitment},
	{"tuyển dụng", models.TypeRecruitment},
	{"tuyen dung", models.TypeRecruitment},
	{"hiring", models.TypeRecruitment},

	{"part-time job", models.TypeJob},
	{"việc làm", models.TypeJob},
	{"viec lam", models.TypeJob},
	{"job", models.TypeJob},
	{"vacancy", models.TypeJob},
	{"employment", models.TypeJob},

	{"volunteer", models.TypeVolunteer},
	{"tình nguyện", models.TypeVolunteer},
	{"tinh nguyen", models.TypeVolunteer},
	{"thiện nguyện", models.TypeVolunteer},
	{"thien nguyen", models.TypeVolunteer},

	{"extracurricular", models.TypeExtracurricular},
	{"ngoại khóa", models.TypeExtracurricular},
	{"ngoai khoa", models.TypeExtracurricular},
	{"câu lạc bộ", models.TypeExtracurricular},
	{"cau lac bo", models.TypeExtracurricular},
	{"club", models.TypeExtracurricular},

	{"advertisement", models.TypeAdvertisement},
	{"quảng cáo", models.TypeAdvertisement},
	{"quang cao", models.TypeAdvertisement},
	{"promotion", models.TypeAdvertisement},

	{"notification", models.TypeNotification},
	{"announcement", models.TypeNotification},
	{"thông báo", models.TypeNotification},
	{"thong bao", models.TypeNotification},

	{"event", models.TypeEvent},
	{"sự kiện", models.TypeEvent},
	{"su kien", models.TypeEvent},
	{"workshop", models.TypeEvent},
	{"seminar", models.TypeEvent},
	{"hội thảo", models.TypeEvent},
	{"hoi thao", models.TypeEvent},
	{"talkshow", models.TypeEvent},
}

// synonyms maps each canonical tag to the phrases used for query expansion.
// Used for expansion only, never for type detection.
var synonyms = map[string][]string{
	"scholarship":     {"học bổng", "hoc bong", "financial aid", "grant", "tuition"},
	"event":           {"sự kiện", "su kien", "workshop", "seminar", "hội thảo", "hoi thao"},
	"job":             {"việc làm", "viec lam", "employment", "vacancy", "career"},
	"internship":      {"thực tập", "thuc tap", "intern", "trainee"},
	"recruitment":     {"tuyển dụng", "tuyen dung", "hiring"},
	"volunteer":       {"tình nguyện", "tinh nguyen", "thiện nguyện", "thien nguyen"},
	"notification":    {"thông báo", "thong bao", "announcement", "notice"},
	"advertisement":   {"quảng cáo", "quang cao", "promotion"},
	"extracurricular": {"ngoại khóa", "ngoai khoa", "câu lạc bộ", "cau lac bo", "club"},
}

// DetectType scans the lowercased question against the keyword table in order
// and returns the first matching topic type. ok is false when nothing matches.
func DetectType(question string) (models.TopicType, bool) {
	q := strings.ToLower(question)
	if strings.TrimSpace(q) == "" {
		return "", false
	}
	for _, e := range keywordToType {
		if strings.Contains(q, e.Phrase) {
			return e.Type, true
		}
	}
	return "", false
}

// ExpandKeywords returns the de-duplicated union of the input keywords and, for
// every keyword that contains a canonical tag or one of its synonyms, that tag
// plus its full synonym group. The result is sorted so output is deterministic,
// and the function is idempotent: expanding an expansion adds nothing new.
func ExpandKeywords(keywords []string) []string {
	set := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		set[kw] = struct{}{}
		for tag, syns := range synonyms {
			if !matchesGroup(kw, tag, syns) {
				continue
			}
			set[tag] = struct{}{}
			for _, s := range syns {
				set[strings.ToLower(s)] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for kw := range set {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

func matchesGroup(kw, tag string, syns []string) bool {
	if strings.Contains(kw, tag) {
		return true
	}
	for _, s := range syns {
		if strings.Contains(kw, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// Synonyms returns the synonym group for a canonical tag, nil when unknown.
func Synonyms(tag string) []string {
	return synonyms[strings.ToLower(tag)]
}
