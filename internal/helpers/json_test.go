package helpers

import "testing"

func TestExtractJSON_Plain(t *testing.T) {
	out, err := ExtractJSON(`{"intent":"scholarship"}`)
	if err != nil || out != `{"intent":"scholarship"}` {
		t.Fatalf("got %q, %v", out, err)
	}
}

func TestExtractJSON_Fenced(t *testing.T) {
	raw := "```json\n{\"keywords\":[\"a\",\"b\"]}\n```"
	out, err := ExtractJSON(raw)
	if err != nil || out != `{"keywords":["a","b"]}` {
		t.Fatalf("got %q, %v", out, err)
	}
}

func TestExtractJSON_FencedNoLang(t *testing.T) {
	raw := "```\n[1,2,3]\n```"
	out, err := ExtractJSON(raw)
	if err != nil || out != `[1,2,3]` {
		t.Fatalf("got %q, %v", out, err)
	}
}

func TestExtractJSON_SurroundingProse(t *testing.T) {
	raw := "Here is the analysis you asked for:\n{\"intent\":\"job\",\"note\":\"has } inside\"} thanks"
	out, err := ExtractJSON(raw)
	if err != nil {
		t.Fatal(err)
	}
	if out != `{"intent":"job","note":"has } inside"}` {
		t.Fatalf("got %q", out)
	}
}

func TestExtractJSON_EscapedQuotes(t *testing.T) {
	raw := `{"a":"quote \" and brace {"}`
	out, err := ExtractJSON(raw)
	if err != nil || out != raw {
		t.Fatalf("got %q, %v", out, err)
	}
}

func TestExtractJSON_None(t *testing.T) {
	if _, err := ExtractJSON("no json here"); err == nil {
		t.Fatal("expected error for input without JSON")
	}
	if _, err := ExtractJSON("{unterminated"); err == nil {
		t.Fatal("expected error for unbalanced JSON")
	}
}
