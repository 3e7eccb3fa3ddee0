package skintone

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"math"

	_ "golang.org/x/image/webp"

	"github.com/Harshini-A12/Stylesense/internal/domain/styling"
	"github.com/Harshini-A12/Stylesense/internal/metrics"
)

// HSV 피부 마스크 경계 (OpenCV 8비트 스케일: H 0~180, S/V 0~255).
const (
	maxSkinHue = 20
	minSkinSat = 20
	minSkinVal = 70
)

// 평균 밝기 분류 경계.
const (
	fairThreshold   = 200
	mediumThreshold = 150
	oliveThreshold  = 100
)

// Detector: 업로드 사진에서 피부 톤을 분류합니다.
type Detector struct {
	logger  *slog.Logger
	metrics *metrics.Store
}

// NewDetector: 피부 톤 분류기를 생성합니다.
func NewDetector(logger *slog.Logger, metricsStore *metrics.Store) *Detector {
	return &Detector{logger: logger, metrics: metricsStore}
}

// Detect: 이미지를 디코딩해 피부 톤을 분류합니다.
// 디코딩 실패와 표본 없음은 모두 Medium 으로 수렴한다.
func (d *Detector) Detect(r io.Reader) styling.SkinTone {
	img, _, err := image.Decode(r)
	if err != nil {
		d.logger.Warn("skin_tone_decode_failed", "error", err)
		d.recordDefault()
		return styling.SkinToneMedium
	}

	tone, sampled := classify(img)
	if !sampled {
		bounds := img.Bounds()
		d.logger.Warn("skin_tone_empty_sample", "width", bounds.Dx(), "height", bounds.Dy())
		d.recordDefault()
	}
	return tone
}

func (d *Detector) recordDefault() {
	if d.metrics == nil {
		return
	}
	d.metrics.RecordToneDefault()
}

// Classify: 이미지의 평균 피부 밝기로 톤을 분류합니다.
// 피부 마스크가 비면 중앙 1/3 영역 평균으로 대체한다.
func Classify(img image.Image) styling.SkinTone {
	tone, _ := classify(img)
	return tone
}

func classify(img image.Image) (styling.SkinTone, bool) {
	sumR, sumG, sumB, count := skinSums(img)
	if count == 0 {
		sumR, sumG, sumB, count = centerSums(img)
	}
	if count == 0 {
		return styling.SkinToneMedium, false
	}

	brightness := (sumR + sumG + sumB) / float64(3*count)
	switch {
	case brightness > fairThreshold:
		return styling.SkinToneFair, true
	case brightness > mediumThreshold:
		return styling.SkinToneMedium, true
	case brightness > oliveThreshold:
		return styling.SkinToneOlive, true
	default:
		return styling.SkinToneDeep, true
	}
}

func skinSums(img image.Image) (sumR, sumG, sumB float64, count int) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b := rgb8(img, x, y)
			if isSkin(r, g, b) {
				sumR += r
				sumG += g
				sumB += b
				count++
			}
		}
	}
	return sumR, sumG, sumB, count
}

func centerSums(img image.Image) (sumR, sumG, sumB float64, count int) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	for y := bounds.Min.Y + h/3; y < bounds.Min.Y+2*h/3; y++ {
		for x := bounds.Min.X + w/3; x < bounds.Min.X+2*w/3; x++ {
			r, g, b := rgb8(img, x, y)
			sumR += r
			sumG += g
			sumB += b
			count++
		}
	}
	return sumR, sumG, sumB, count
}

func rgb8(img image.Image, x int, y int) (float64, float64, float64) {
	r, g, b, _ := img.At(x, y).RGBA()
	return float64(r >> 8), float64(g >> 8), float64(b >> 8)
}

func isSkin(r, g, b float64) bool {
	h, s, v := rgbToHSV(r, g, b)
	return math.Round(h) <= maxSkinHue && math.Round(s) >= minSkinSat && v >= minSkinVal
}

// rgbToHSV 는 8비트 RGB 를 OpenCV 스케일 HSV 로 변환한다 (H 는 0~180 범위).
func rgbToHSV(r, g, b float64) (h, s, v float64) {
	v = math.Max(r, math.Max(g, b))
	minc := math.Min(r, math.Min(g, b))
	delta := v - minc

	if v > 0 {
		s = delta / v * 255
	}
	if delta > 0 {
		switch v {
		case r:
			h = 60 * (g - b) / delta
		case g:
			h = 120 + 60*(b-r)/delta
		case b:
			h = 240 + 60*(r-g)/delta
		}
		if h < 0 {
			h += 360
		}
	}
	return h / 2, s, v
}
