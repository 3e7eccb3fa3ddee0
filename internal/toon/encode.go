package toon

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Encode 는 값을 Toon 포맷 문자열로 바꾼다.
// JSON 왕복을 거친 추천 결과가 담는 형태(맵, 슬라이스, 스칼라)만 지원한다.
func Encode(value any) string {
	return encode(value, 0)
}

// EncodeRecommendation 는 스타일링 추천 결과를 Toon 포맷으로 만든다.
// 후속 채팅 시스템 프롬프트의 컨텍스트 블록으로 쓰인다.
func EncodeRecommendation(skinTone string, occasion string, result map[string]any) string {
	lines := []string{
		"skin_tone: " + Encode(skinTone),
		"occasion: " + Encode(occasion),
	}
	if len(result) > 0 {
		lines = append(lines, "recommendation:")
		lines = append(lines, strings.Split(encode(result, 2), "\n")...)
	}
	return strings.Join(lines, "\n")
}

func encode(value any, indent int) string {
	if scalar, ok := encodeScalar(value); ok {
		return scalar
	}
	if slice, ok := asSlice(value); ok {
		return encodeSlice(slice, indent)
	}
	if mapping, ok := asMap(value); ok {
		return encodeMap(mapping, indent)
	}
	return fmt.Sprint(value)
}

func encodeScalar(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "null", true
	case bool:
		return strconv.FormatBool(v), true
	case string:
		return encodeString(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// encodeString 은 구분자가 섞인 문자열만 따옴표로 감싼다.
func encodeString(value string) string {
	if strings.ContainsAny(value, ",:\n\"'") {
		return "\"" + strings.ReplaceAll(value, "\"", "\\\"") + "\""
	}
	return value
}

func encodeSlice(slice []any, indent int) string {
	if len(slice) == 0 {
		return "[]"
	}
	for _, item := range slice {
		if _, ok := encodeScalar(item); !ok {
			return encodeItemList(slice, indent)
		}
	}
	items := make([]string, 0, len(slice))
	for _, item := range slice {
		items = append(items, encode(item, 0))
	}
	return fmt.Sprintf("[%d]: %s", len(slice), strings.Join(items, ","))
}

func encodeItemList(slice []any, indent int) string {
	prefix := strings.Repeat(" ", indent)
	lines := []string{fmt.Sprintf("[%d]:", len(slice))}
	for _, item := range slice {
		lines = append(lines, fmt.Sprintf("%s - %s", prefix, encode(item, indent+2)))
	}
	return strings.Join(lines, "\n")
}

func encodeMap(mapping map[string]any, indent int) string {
	if len(mapping) == 0 {
		return "{}"
	}
	prefix := strings.Repeat(" ", indent)
	keys := sortedKeys(mapping)
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		entry := mapping[key]
		if nested, ok := asMap(entry); ok && len(nested) > 0 {
			lines = append(lines, fmt.Sprintf("%s%s:", prefix, key))
			for _, subKey := range sortedKeys(nested) {
				lines = append(lines, fmt.Sprintf("%s  %s: %s", prefix, subKey, encode(nested[subKey], indent+2)))
			}
			continue
		}
		lines = append(lines, fmt.Sprintf("%s%s: %s", prefix, key, encode(entry, indent)))
	}
	return strings.Join(lines, "\n")
}

func asSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, item)
		}
		return out, true
	default:
		return nil, false
	}
}

func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case map[string]string:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func sortedKeys(mapping map[string]any) []string {
	keys := make([]string, 0, len(mapping))
	for key := range mapping {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
