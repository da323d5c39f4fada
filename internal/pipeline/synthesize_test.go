package pipeline

import "testing"

func TestParseSynthesisPlainJSON(t *testing.T) {
	syn := parseSynthesis(`{"sql": "SELECT * FROM students LIMIT 20", "message": ""}`)
	if !syn.OK {
		t.Fatal("expected OK synthesis")
	}
	if syn.Query != "SELECT * FROM students LIMIT 20" {
		t.Fatalf("unexpected query %q", syn.Query)
	}
	if syn.Message != "" {
		t.Fatalf("unexpected message %q", syn.Message)
	}
}

func TestParseSynthesisStripsFences(t *testing.T) {
	raw := "```json\n{\"sql\": \"\", \"message\": \"สวัสดีครับ\"}\n```"
	syn := parseSynthesis(raw)
	if !syn.OK {
		t.Fatal("expected OK synthesis for fenced JSON")
	}
	if syn.Message != "สวัสดีครับ" {
		t.Fatalf("unexpected message %q", syn.Message)
	}
}

func TestParseSynthesisBareFences(t *testing.T) {
	raw := "```\n{\"sql\": \"SELECT 1\", \"message\": \"\"}\n```"
	syn := parseSynthesis(raw)
	if !syn.OK || syn.Query != "SELECT 1" {
		t.Fatalf("unexpected synthesis %+v", syn)
	}
}

func TestParseSynthesisUnparsable(t *testing.T) {
	for _, raw := range []string{
		"not json at all",
		"SELECT * FROM students",
		"{\"sql\": broken}",
		"",
	} {
		if syn := parseSynthesis(raw); syn.OK {
			t.Fatalf("parseSynthesis(%q) = %+v, want not OK", raw, syn)
		}
	}
}

func TestParseSynthesisTrimsWhitespace(t *testing.T) {
	syn := parseSynthesis(`{"sql": "  SELECT 1  ", "message": "  ตอบ  "}`)
	if syn.Query != "SELECT 1" || syn.Message != "ตอบ" {
		t.Fatalf("unexpected synthesis %+v", syn)
	}
}
