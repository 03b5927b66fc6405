package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/stressease/go-backend/internal/safety"
	"github.com/stressease/go-backend/internal/session"
)

func TestParseRegional_CodeFencedArray(t *testing.T) {
	raw := "Here are the resources:\n```json\n[\n" +
		`{"type":"emergency","name":"Emergency Services","number":"999","description":"Police, fire, ambulance.","availability":"24/7"},` +
		`{"type":"online_resource","name":"Samaritans Online","website":"https://www.samaritans.org","description":"Email and chat support."}` +
		"\n]\n```"

	got, err := parseRegional(raw, "United Kingdom")
	if err != nil {
		t.Fatalf("parseRegional: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d contacts, want 2", len(got))
	}
	if got[0].Type != safety.ContactEmergency || got[0].Number != "999" {
		t.Errorf("first contact mismatch: %+v", got[0])
	}
	if got[0].Country != "United Kingdom" || got[0].Priority != 1 {
		t.Errorf("country/priority not stamped: %+v", got[0])
	}
	if got[1].Availability != "24/7" {
		t.Errorf("missing availability should default to 24/7, got %q", got[1].Availability)
	}
	if got[1].ID != "samaritans-online" {
		t.Errorf("ID = %q, want samaritans-online", got[1].ID)
	}
}

func TestParseRegional_BadInput(t *testing.T) {
	cases := map[string]string{
		"no array":       "I could not find resources for that country.",
		"empty array":    "[]",
		"nameless only":  `[{"type":"crisis_hotline","number":"111"}]`,
		"malformed json": `[{"type":"crisis_hotline","name":}]`,
	}
	for name, raw := range cases {
		if _, err := parseRegional(raw, "Atlantis"); err == nil {
			t.Errorf("%s: parseRegional accepted %q", name, raw)
		}
	}
}

func TestParseRegional_UnknownTypeFallsBack(t *testing.T) {
	got, err := parseRegional(`[{"type":"helpline","name":"Lifeline","number":"13 11 14"}]`, "Australia")
	if err != nil {
		t.Fatalf("parseRegional: %v", err)
	}
	if got[0].Type != safety.ContactHotline {
		t.Errorf("unknown type should map to crisis_hotline, got %q", got[0].Type)
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"988 Suicide & Crisis Lifeline": "988-suicide-crisis-lifeline",
		"AASRA":                         "aasra",
		"7 Cups":                        "7-cups",
		"  Trailing  ":                  "trailing",
	}
	for in, want := range cases {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestChatHistory_PersonaHandshakeFirst(t *testing.T) {
	at := time.Now().UTC()
	turns := []session.Turn{
		{Role: "user", Content: "rough week", At: at},
		{Role: "assistant", Content: "that sounds hard", At: at},
	}

	got := chatHistory(turns)
	if len(got) != 4 {
		t.Fatalf("got %d content entries, want 4", len(got))
	}
	if got[0].Role != "user" || got[1].Role != "model" {
		t.Fatalf("handshake roles wrong: %s, %s", got[0].Role, got[1].Role)
	}
	if got[2].Role != "user" || got[3].Role != "model" {
		t.Fatalf("turn roles wrong: %s, %s", got[2].Role, got[3].Role)
	}
}

func TestTranscript(t *testing.T) {
	at := time.Now().UTC()
	turns := []session.Turn{
		{Role: "user", Content: "hi", At: at},
		{Role: "assistant", Content: "hello", At: at},
	}
	got := transcript(turns)
	want := "User: hi\nAssistant: hello\n"
	if got != want {
		t.Errorf("transcript = %q, want %q", got, want)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("transcript must end with newline")
	}
}

func TestClampTitle(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short stays intact", "Workplace stress", 50, "Workplace stress"},
		{"exact length stays intact", strings.Repeat("a", 50), 50, strings.Repeat("a", 50)},
		{"long ascii is clamped", strings.Repeat("a", 60), 50, strings.Repeat("a", 47) + "..."},
		{"multi-byte runes are not split", strings.Repeat("å", 60), 50, strings.Repeat("å", 47) + "..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := clampTitle(tc.in, tc.max)
			if got != tc.want {
				t.Fatalf("clampTitle = %q, want %q", got, tc.want)
			}
			if len([]rune(got)) > tc.max {
				t.Fatalf("clamped title is %d runes, max %d", len([]rune(got)), tc.max)
			}
		})
	}
}
