package toon

import (
	"strings"
	"testing"
)

func TestEncodeMapOrder(t *testing.T) {
	value := map[string]any{"b": 1, "a": 2}
	got := Encode(value)
	if got != "a: 2\nb: 1" {
		t.Fatalf("unexpected encoding: %s", got)
	}
}

func TestEncodeStringEscapes(t *testing.T) {
	got := Encode("a,b")
	if got != "\"a,b\"" {
		t.Fatalf("unexpected encoding: %s", got)
	}
}

func TestEncodeRecommendation(t *testing.T) {
	result := map[string]any{
		"outfit": map[string]any{
			"top":    "Tailored blazer",
			"bottom": "Formal trousers",
		},
		"hairstyle":   "Clean, slicked-back professional look",
		"explanation": "Navy complements the tone.",
		"shopping_keywords": map[string]any{
			"myntra": []any{"men-blazers", "men-formal-shirts"},
		},
	}

	got := EncodeRecommendation("Medium", "Business", result)
	if !strings.HasPrefix(got, "skin_tone: Medium\noccasion: Business\nrecommendation:") {
		t.Fatalf("unexpected header: %s", got)
	}
	if !strings.Contains(got, "  outfit:\n    bottom: Formal trousers\n    top: Tailored blazer") {
		t.Fatalf("expected nested outfit block: %s", got)
	}
	if !strings.Contains(got, "hairstyle: \"Clean, slicked-back professional look\"") {
		t.Fatalf("expected quoted hairstyle: %s", got)
	}
	if !strings.Contains(got, "myntra: [2]: men-blazers,men-formal-shirts") {
		t.Fatalf("expected keyword list encoding: %s", got)
	}
}

func TestEncodeRecommendationWithoutResult(t *testing.T) {
	got := EncodeRecommendation("Fair", "Party", nil)
	if got != "skin_tone: Fair\noccasion: Party" {
		t.Fatalf("unexpected encoding: %s", got)
	}
	if strings.Contains(got, "recommendation:") {
		t.Fatalf("did not expect recommendation block: %s", got)
	}
}
