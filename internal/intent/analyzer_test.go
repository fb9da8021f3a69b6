package intent

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
)

type fakeClassifier struct {
	raw string
	err error
}

func (f fakeClassifier) Analyze(ctx context.Context, question string) (string, error) {
	return f.raw, f.err
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestAnalyze_ParsesFencedJSON(t *testing.T) {
	raw := "```json\n{\"intent\":\"scholarship\",\"keywords\":[\"scholarship\",\"cs\"],\"queryType\":\"search\",\"timeReference\":\"future\"}\n```"
	a := NewAnalyzer(fakeClassifier{raw: raw}, quietLogger())
	got := a.Analyze(context.Background(), "any scholarships for cs students?")
	if got == nil {
		t.Fatal("expected analysis, got nil")
	}
	if got.Intent != "scholarship" || len(got.Keywords) != 2 || got.QueryType != "search" {
		t.Errorf("unexpected analysis: %+v", got)
	}
}

func TestAnalyze_PlainJSON(t *testing.T) {
	a := NewAnalyzer(fakeClassifier{raw: `{"intent":"job","keywords":["job"]}`}, quietLogger())
	if got := a.Analyze(context.Background(), "jobs?"); got == nil || got.Intent != "job" {
		t.Fatalf("unexpected analysis: %+v", got)
	}
}

func TestAnalyze_DegradesToNil(t *testing.T) {
	cases := map[string]fakeClassifier{
		"transport error":  {err: errors.New("timeout")},
		"not json":         {raw: "I could not classify that."},
		"malformed json":   {raw: `{"intent": "x", "keywords": [}`},
		"empty payload":    {raw: `{}`},
		"empty raw":        {raw: ""},
	}
	for name, fake := range cases {
		a := NewAnalyzer(fake, quietLogger())
		if got := a.Analyze(context.Background(), "question"); got != nil {
			t.Errorf("%s: expected nil analysis, got %+v", name, got)
		}
	}
}

func TestAnalyze_NilClassifier(t *testing.T) {
	a := NewAnalyzer(nil, quietLogger())
	if got := a.Analyze(context.Background(), "question"); got != nil {
		t.Errorf("expected nil analysis without classifier, got %+v", got)
	}
}

func TestAnalyze_EmptyQuestion(t *testing.T) {
	a := NewAnalyzer(fakeClassifier{raw: `{"intent":"x","keywords":["y"]}`}, quietLogger())
	if got := a.Analyze(context.Background(), "   "); got != nil {
		t.Errorf("expected nil analysis for blank question, got %+v", got)
	}
}
