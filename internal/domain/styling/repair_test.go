package styling

import "testing"

func validKeywords() ShoppingKeywords {
	return ShoppingKeywords{
		PlatformAmazonIndia:  {"a1", "a2", "a3", "a4", "a5"},
		PlatformMyntra:       {"m1", "m2", "m3", "m4", "m5"},
		PlatformZara:         {"z1", "z2", "z3", "z4", "z5"},
		PlatformAjio:         {"j1", "j2", "j3", "j4", "j5"},
		PlatformNykaaFashion: {"n1", "n2", "n3", "n4", "n5"},
	}
}

func TestRepairKeywordsMissingMap(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := &Recommendation{}
	repaired := catalog.RepairKeywords(rec, "Business", "Male")
	if repaired != len(Platforms()) {
		t.Fatalf("expected all platforms repaired, got %d", repaired)
	}
	if rec.ShoppingKeywords[PlatformMyntra][0] != "men-blazers" {
		t.Fatalf("expected curated keywords, got: %v", rec.ShoppingKeywords[PlatformMyntra])
	}
}

func TestRepairKeywordsKeepsValidEntries(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := &Recommendation{ShoppingKeywords: validKeywords()}
	repaired := catalog.RepairKeywords(rec, "Casual", "Female")
	if repaired != 0 {
		t.Fatalf("expected no repairs, got %d", repaired)
	}
	if rec.ShoppingKeywords[PlatformZara][0] != "z1" {
		t.Fatalf("valid keywords were replaced")
	}
}

func TestRepairKeywordsReplacesShortAndPlaceholder(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := &Recommendation{ShoppingKeywords: validKeywords()}
	rec.ShoppingKeywords[PlatformZara] = []string{"only", "two"}
	rec.ShoppingKeywords[PlatformAjio] = []string{"fine one", "fine two", "keyword3", "fine four", "fine five"}
	rec.ShoppingKeywords[PlatformMyntra] = nil

	repaired := catalog.RepairKeywords(rec, "Party", "Female")
	if repaired != 3 {
		t.Fatalf("expected 3 repairs, got %d", repaired)
	}

	curated := catalog.ShoppingKeywords("Party", "Female")
	for _, platform := range []Platform{PlatformZara, PlatformAjio, PlatformMyntra} {
		got := rec.ShoppingKeywords[platform]
		want := curated[platform]
		if len(got) != len(want) {
			t.Fatalf("%s: expected curated replacement", platform)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s[%d] = %q, want %q", platform, i, got[i], want[i])
			}
		}
	}
	if rec.ShoppingKeywords[PlatformAmazonIndia][0] != "a1" {
		t.Fatalf("untouched platform was replaced")
	}
}

func TestRepairKeywordsCaseSensitivePlaceholder(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := &Recommendation{ShoppingKeywords: validKeywords()}
	// 대문자 Keyword 는 placeholder 로 취급하지 않는다
	rec.ShoppingKeywords[PlatformZara] = []string{"Keyword search", "zara shirt", "zara dress"}

	repaired := catalog.RepairKeywords(rec, "Casual", "Female")
	if repaired != 0 {
		t.Fatalf("expected no repairs, got %d", repaired)
	}
}

func TestRepairKeywordsIdempotent(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec := &Recommendation{ShoppingKeywords: ShoppingKeywords{
		PlatformAmazonIndia: {"keyword1", "keyword2", "keyword3", "keyword4", "keyword5"},
	}}
	catalog.RepairKeywords(rec, "Festival", "Male")

	snapshot := make(map[Platform][]string, len(rec.ShoppingKeywords))
	for platform, entries := range rec.ShoppingKeywords {
		snapshot[platform] = append([]string(nil), entries...)
	}

	repaired := catalog.RepairKeywords(rec, "Festival", "Male")
	if repaired != 0 {
		t.Fatalf("second repair should be a no-op, got %d", repaired)
	}
	for platform, entries := range snapshot {
		got := rec.ShoppingKeywords[platform]
		for i := range entries {
			if got[i] != entries[i] {
				t.Fatalf("%s changed on second repair", platform)
			}
		}
	}
}
