package styling

import "strings"

// RepairKeywords: 모델 응답의 쇼핑 키워드를 검증하고 보정합니다.
// 키워드 맵 자체가 없으면 큐레이션 전체로 대체하고, 플랫폼별로
// 비어 있거나 3개 미만이거나 placeholder("keyword...")가 섞여 있으면
// 해당 플랫폼만 큐레이션 키워드로 교체한다. 교체된 플랫폼 수를 반환한다.
func (c *Catalog) RepairKeywords(rec *Recommendation, occasion string, gender string) int {
	curated := c.ShoppingKeywords(occasion, gender)

	if rec.ShoppingKeywords == nil {
		rec.ShoppingKeywords = curated
		return len(allPlatforms)
	}

	repaired := 0
	for _, platform := range allPlatforms {
		if needsRepair(rec.ShoppingKeywords[platform]) {
			rec.ShoppingKeywords[platform] = curated[platform]
			repaired++
		}
	}
	return repaired
}

func needsRepair(keywords []string) bool {
	if len(keywords) < 3 {
		return true
	}
	for _, keyword := range keywords {
		if strings.HasPrefix(keyword, "keyword") {
			return true
		}
	}
	return false
}
