package session

import (
	"bytes"
	"strings"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "짧은 메시지", data: `{"role":"user","content":"파티에 어울리는 색 추천해줘"}`},
		{name: "빈 입력", data: ""},
		{name: "긴 추천 결과", data: `{"explanation":"` + strings.Repeat("네이비와 골드 조합은 파티 조명에서 돋보입니다. ", 80) + `"}`},
		{name: "이스케이프 문자", data: "line1\nline2\t\"quoted\" <tag>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := []byte(tt.data)

			compressed, err := sessionCodec.compress(original)
			if err != nil {
				t.Fatalf("compress failed: %v", err)
			}
			restored, err := sessionCodec.decompress(compressed)
			if err != nil {
				t.Fatalf("decompress failed: %v", err)
			}
			if !bytes.Equal(original, restored) {
				t.Fatalf("round-trip mismatch:\noriginal: %q\nrestored: %q", original, restored)
			}
		})
	}
}

func TestCodecShrinksRepetitiveJSON(t *testing.T) {
	// 스타일링 결과 JSON 은 키와 자연어가 반복돼 압축이 잘 된다.
	original := []byte(`{"outfit":{"top":"` + strings.Repeat("Tailored navy blazer with gold buttons. ", 40) + `"}}`)

	compressed, err := sessionCodec.compress(original)
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}
	if len(compressed)*100 >= len(original)*70 {
		t.Fatalf("expected at least 30%% saving: %d -> %d bytes", len(original), len(compressed))
	}
}

func TestCodecRejectsGarbage(t *testing.T) {
	if _, err := sessionCodec.decompress([]byte("not a zstd frame")); err == nil {
		t.Fatalf("expected error for invalid input")
	}
}

func BenchmarkCodecCompress(b *testing.B) {
	data := []byte(`{"role":"model","content":"` + strings.Repeat("추천 결과 본문입니다. ", 30) + `"}`)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = sessionCodec.compress(data)
	}
}

func BenchmarkCodecDecompress(b *testing.B) {
	data := []byte(`{"role":"model","content":"` + strings.Repeat("추천 결과 본문입니다. ", 30) + `"}`)
	compressed, err := sessionCodec.compress(data)
	if err != nil {
		b.Fatalf("compress failed: %v", err)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = sessionCodec.decompress(compressed)
	}
}
