package config

import (
	"os"
	"strconv"
	"strings"
	"unicode"
)

// parseAPIKeys 는 GOOGLE_API_KEYS(쉼표/공백 구분 복수 키)를 우선 읽고,
// 없으면 GOOGLE_API_KEY 단일 키로 내려간다.
func parseAPIKeys() []string {
	if keys := splitList(os.Getenv("GOOGLE_API_KEYS")); len(keys) > 0 {
		return keys
	}
	if key := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); key != "" {
		return []string{key}
	}
	return nil
}

// splitList 는 쉼표 또는 공백으로 구분된 목록을 자른다.
// FieldsFunc 가 빈 조각을 만들지 않으므로 추가 필터링은 필요 없다.
func splitList(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func getEnvString(key string, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if parsed, err := strconv.Atoi(raw); err == nil {
		return parsed
	}
	return def
}

func getEnvNonNegativeInt(key string, def int) int {
	if value := getEnvInt(key, def); value > 0 {
		return value
	}
	return 0
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
		return parsed
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "y":
		return true
	default:
		return false
	}
}
