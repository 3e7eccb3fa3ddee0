package styling

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SkinTone: 피부 톤 분류 결과입니다.
type SkinTone string

const (
	// SkinToneFair 는 밝은 피부 톤입니다.
	SkinToneFair SkinTone = "Fair"
	// SkinToneMedium 는 중간 피부 톤입니다.
	SkinToneMedium SkinTone = "Medium"
	// SkinToneOlive 는 올리브 피부 톤입니다.
	SkinToneOlive SkinTone = "Olive"
	// SkinToneDeep 는 어두운 피부 톤입니다.
	SkinToneDeep SkinTone = "Deep"
)

var allSkinTones = []SkinTone{SkinToneFair, SkinToneMedium, SkinToneOlive, SkinToneDeep}

// AllSkinTones: 전체 피부 톤 목록을 반환합니다.
func AllSkinTones() []SkinTone {
	return append([]SkinTone(nil), allSkinTones...)
}

// IsValid: 알려진 피부 톤인지 확인합니다.
func (s SkinTone) IsValid() bool {
	switch s {
	case SkinToneFair, SkinToneMedium, SkinToneOlive, SkinToneDeep:
		return true
	}
	return false
}

// Platform: 쇼핑 플랫폼 식별자입니다.
type Platform string

const (
	// PlatformAmazonIndia 는 Amazon India 플랫폼입니다.
	PlatformAmazonIndia Platform = "amazon_india"
	// PlatformMyntra 는 Myntra 플랫폼입니다.
	PlatformMyntra Platform = "myntra"
	// PlatformZara 는 Zara 플랫폼입니다.
	PlatformZara Platform = "zara"
	// PlatformAjio 는 Ajio 플랫폼입니다.
	PlatformAjio Platform = "ajio"
	// PlatformNykaaFashion 는 Nykaa Fashion 플랫폼입니다.
	PlatformNykaaFashion Platform = "nykaa_fashion"
)

var allPlatforms = []Platform{
	PlatformAmazonIndia,
	PlatformMyntra,
	PlatformZara,
	PlatformAjio,
	PlatformNykaaFashion,
}

// Platforms: 고정 순서의 플랫폼 목록을 반환합니다.
func Platforms() []Platform {
	return append([]Platform(nil), allPlatforms...)
}

// knownOccasions 는 큐레이션된 상황 목록이다 (표시 순서 고정).
var knownOccasions = []string{
	"Business",
	"Formal",
	"Casual",
	"Party",
	"Wedding",
	"Date Night",
	"Festival",
}

// KnownOccasions: 큐레이션된 상황 목록을 반환합니다.
func KnownOccasions() []string {
	return append([]string(nil), knownOccasions...)
}

// NormalizeOccasion: 상황 문자열을 조회 키로 정규화합니다.
// 빈 문자열은 Casual 로 대체됩니다.
func NormalizeOccasion(occasion string) string {
	if occasion == "" {
		return "Casual"
	}
	return cases.Title(language.English).String(strings.TrimSpace(occasion))
}

// IsMaleGender: 성별 문자열이 남성 계열인지 판단합니다.
func IsMaleGender(gender string) bool {
	switch strings.ToLower(gender) {
	case "male", "man", "men":
		return true
	}
	return false
}

// GenderBranch: 데이터 조회용 성별 분기 키를 반환합니다.
func GenderBranch(gender string) string {
	if IsMaleGender(gender) {
		return "male"
	}
	return "female"
}

// GenderSlug: 프롬프트 예시용 슬러그를 반환합니다.
// 키워드 분기와 달리 "male" 만 men 으로 취급하고 man/men 은 women 슬러그를 쓴다.
func GenderSlug(gender string) string {
	if strings.ToLower(gender) == "male" {
		return "men"
	}
	return "women"
}

// Profile: 스타일링 요청 프로필입니다.
type Profile struct {
	Gender          string   `json:"gender"`
	Age             string   `json:"age"`
	Occasion        string   `json:"occasion"`
	Budget          string   `json:"budget"`
	PreferredColors string   `json:"preferred_colors"`
	SkinTone        SkinTone `json:"skin_tone"`
}

// Outfit: 추천 코디 구성입니다.
type Outfit struct {
	Top         string `json:"top"`
	Bottom      string `json:"bottom"`
	Shoes       string `json:"shoes"`
	Accessories string `json:"accessories"`
}

// ColorPalette: 추천 색상 조합입니다.
type ColorPalette struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// ShoppingKeywords: 플랫폼별 쇼핑 검색 키워드입니다.
type ShoppingKeywords map[Platform][]string

// Recommendation: 스타일링 추천 결과입니다.
type Recommendation struct {
	Outfit           Outfit           `json:"outfit"`
	Hairstyle        string           `json:"hairstyle"`
	ColorPalette     ColorPalette     `json:"color_palette"`
	Explanation      string           `json:"explanation"`
	ShoppingKeywords ShoppingKeywords `json:"shopping_keywords"`
}

// LastStyling: 세션에 보관되는 마지막 스타일링 결과입니다.
type LastStyling struct {
	UserData Profile        `json:"user_data"`
	Result   Recommendation `json:"result"`
}
