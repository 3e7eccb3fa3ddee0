package skintone

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/Harshini-A12/Stylesense/internal/domain/styling"
	"github.com/Harshini-A12/Stylesense/internal/metrics"
)

func uniformImage(c color.RGBA, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestClassifySkinBrightnessBands(t *testing.T) {
	tests := []struct {
		name     string
		c        color.RGBA
		expected styling.SkinTone
	}{
		{"fair", color.RGBA{R: 230, G: 200, B: 180, A: 255}, styling.SkinToneFair},
		{"medium", color.RGBA{R: 180, G: 150, B: 130, A: 255}, styling.SkinToneMedium},
		{"olive", color.RGBA{R: 140, G: 110, B: 90, A: 255}, styling.SkinToneOlive},
		{"deep", color.RGBA{R: 90, G: 70, B: 60, A: 255}, styling.SkinToneDeep},
	}
	for _, tc := range tests {
		got := Classify(uniformImage(tc.c, 12, 12))
		if got != tc.expected {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.expected)
		}
	}
}

func TestClassifyCenterFallbackWhenNoSkin(t *testing.T) {
	// 무채색 흰색은 채도 0이라 피부 마스크에 걸리지 않는다
	white := uniformImage(color.RGBA{R: 250, G: 250, B: 250, A: 255}, 12, 12)
	if got := Classify(white); got != styling.SkinToneFair {
		t.Fatalf("expected Fair via center fallback, got %s", got)
	}

	blue := uniformImage(color.RGBA{R: 0, G: 0, B: 255, A: 255}, 12, 12)
	if got := Classify(blue); got != styling.SkinToneDeep {
		t.Fatalf("expected Deep via center fallback, got %s", got)
	}
}

func TestClassifyCenterFallbackIgnoresBorder(t *testing.T) {
	// 밝은 테두리 + 어두운 중앙: 중앙 1/3 영역만 평균에 들어가야 한다
	img := uniformImage(color.RGBA{R: 250, G: 250, B: 250, A: 255}, 12, 12)
	for y := 4; y < 8; y++ {
		for x := 4; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 10, G: 10, B: 10, A: 255})
		}
	}
	if got := Classify(img); got != styling.SkinToneDeep {
		t.Fatalf("expected Deep from center region, got %s", got)
	}
}

func TestClassifyDegenerateImage(t *testing.T) {
	// 1x1 비피부 픽셀: 마스크도 비고 중앙 영역도 비어 Medium 으로 수렴
	img := uniformImage(color.RGBA{A: 255}, 1, 1)
	if got := Classify(img); got != styling.SkinToneMedium {
		t.Fatalf("expected Medium for degenerate image, got %s", got)
	}
}

func TestClassifyTinySkinPixel(t *testing.T) {
	// 1x1 피부 픽셀은 마스크 경로로 정상 분류된다
	img := uniformImage(color.RGBA{R: 230, G: 200, B: 180, A: 255}, 1, 1)
	if got := Classify(img); got != styling.SkinToneFair {
		t.Fatalf("expected Fair for skin pixel, got %s", got)
	}
}

func TestClassifyIsTotal(t *testing.T) {
	colors := []color.RGBA{
		{R: 255, G: 255, B: 255, A: 255},
		{R: 0, G: 0, B: 0, A: 255},
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 123, G: 231, B: 12, A: 255},
	}
	for _, c := range colors {
		tone := Classify(uniformImage(c, 9, 9))
		if !tone.IsValid() {
			t.Fatalf("classification must always return a known tone, got %q", tone)
		}
	}
}

func TestDetectorDecodesPNG(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
	detector := NewDetector(logger, metrics.NewStore())

	var buf bytes.Buffer
	if err := png.Encode(&buf, uniformImage(color.RGBA{R: 230, G: 200, B: 180, A: 255}, 16, 16)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := detector.Detect(&buf); got != styling.SkinToneFair {
		t.Fatalf("expected Fair, got %s", got)
	}
}

func TestDetectorInvalidDataReturnsMedium(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
	store := metrics.NewStore()
	detector := NewDetector(logger, store)

	if got := detector.Detect(strings.NewReader("not an image")); got != styling.SkinToneMedium {
		t.Fatalf("expected Medium for invalid data, got %s", got)
	}
	if snapshot := store.Snapshot(); snapshot["total_tone_defaults"] != 1 {
		t.Fatalf("expected tone default recorded, got %v", snapshot["total_tone_defaults"])
	}
}
