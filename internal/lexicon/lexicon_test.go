package lexicon

import (
	"reflect"
	"testing"

	"github.com/campuslink/campuslink/models"
)

func TestDetectType(t *testing.T) {
	cases := []struct {
		question string
		want     models.TopicType
		ok       bool
	}{
		{"Are there any scholarships for CS students?", models.TypeScholarship, true},
		{"Có học bổng nào cho sinh viên CNTT không?", models.TypeScholarship, true},
		{"co hoc bong nao khong", models.TypeScholarship, true},
		{"any internships this summer", models.TypeInternship, true},
		{"is the company hiring interns", models.TypeInternship, true},
		{"thông báo mới nhất", models.TypeNotification, true},
		{"upcoming workshop on AI", models.TypeEvent, true},
		{"câu lạc bộ bóng đá", models.TypeExtracurricular, true},
		{"what is the weather today", "", false},
		{"   ", "", false},
	}
	for _, c := range cases {
		got, ok := DetectType(c.question)
		if ok != c.ok || got != c.want {
			t.Errorf("DetectType(%q) = (%q, %v), want (%q, %v)", c.question, got, ok, c.want, c.ok)
		}
	}
}

func TestDetectType_FirstHitWins(t *testing.T) {
	// "internship" outranks "job" in table order even when both occur.
	got, ok := DetectType("job or internship, which should I take?")
	if !ok || got != models.TypeInternship {
		t.Errorf("expected internship to win, got %q", got)
	}
}

func TestExpandKeywords_AddsTagAndSynonyms(t *testing.T) {
	out := ExpandKeywords([]string{"học bổng"})
	want := map[string]bool{"scholarship": true, "hoc bong": true, "grant": true}
	for kw := range want {
		if !contains(out, kw) {
			t.Errorf("expansion of 'học bổng' missing %q: %v", kw, out)
		}
	}
}

func TestExpandKeywords_Idempotent(t *testing.T) {
	in := []string{"scholarship", "summer internship", "deadline"}
	once := ExpandKeywords(in)
	twice := ExpandKeywords(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("ExpandKeywords not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestExpandKeywords_NeverShrinks(t *testing.T) {
	in := []string{"scholarship"}
	out := ExpandKeywords(in)
	if !contains(out, "scholarship") {
		t.Error("expansion dropped an input canonical tag")
	}
	if len(out) < len(in) {
		t.Error("expansion shrank its input")
	}
}

func TestExpandKeywords_NoDuplicatesAndPlainInput(t *testing.T) {
	out := ExpandKeywords([]string{"deadline", "Deadline", "  deadline "})
	if len(out) != 1 || out[0] != "deadline" {
		t.Errorf("expected single lowercased keyword, got %v", out)
	}
}

func TestExpandKeywords_Empty(t *testing.T) {
	if out := ExpandKeywords(nil); len(out) != 0 {
		t.Errorf("expected empty expansion, got %v", out)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
