package styling

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// stringSchema 는 문자열 타입 스키마를 만듭니다.
func stringSchema() map[string]any {
	return map[string]any{"type": "string"}
}

// stringArraySchema 는 문자열 배열 타입 스키마를 만듭니다.
func stringArraySchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

// objectSchema 는 필수 필드가 지정된 객체 스키마를 만듭니다.
func objectSchema(properties map[string]any, required []string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// recommendationSchema 는 추천 출력 스키마입니다.
var recommendationSchema = objectSchema(map[string]any{
	"outfit": objectSchema(map[string]any{
		"top":         stringSchema(),
		"bottom":      stringSchema(),
		"shoes":       stringSchema(),
		"accessories": stringSchema(),
	}, []string{"top", "bottom", "shoes", "accessories"}),
	"hairstyle": stringSchema(),
	"color_palette": objectSchema(map[string]any{
		"primary":   stringSchema(),
		"secondary": stringSchema(),
		"accent":    stringSchema(),
	}, []string{"primary", "secondary", "accent"}),
	"explanation": stringSchema(),
	"shopping_keywords": objectSchema(map[string]any{
		string(PlatformAmazonIndia):  stringArraySchema(),
		string(PlatformMyntra):       stringArraySchema(),
		string(PlatformZara):         stringArraySchema(),
		string(PlatformAjio):         stringArraySchema(),
		string(PlatformNykaaFashion): stringArraySchema(),
	}, []string{
		string(PlatformAmazonIndia),
		string(PlatformMyntra),
		string(PlatformZara),
		string(PlatformAjio),
		string(PlatformNykaaFashion),
	}),
}, []string{"outfit", "hairstyle", "color_palette", "explanation", "shopping_keywords"})

// RecommendationSchema: 추천 JSON 스키마를 반환합니다.
func RecommendationSchema() map[string]any {
	return recommendationSchema
}

// DecodeRecommendation: 구조화 응답 payload 를 Recommendation 으로 변환합니다.
// 모델이 스키마를 느슨하게 지키더라도 타입 패닉 없이 에러로 돌려줍니다.
func DecodeRecommendation(payload map[string]any) (*Recommendation, error) {
	var rec Recommendation
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rec,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("new decoder: %w", err)
	}
	if err := decoder.Decode(payload); err != nil {
		return nil, fmt.Errorf("decode recommendation: %w", err)
	}
	return &rec, nil
}
