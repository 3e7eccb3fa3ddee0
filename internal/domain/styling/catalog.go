package styling

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Harshini-A12/Stylesense/internal/prompt"
)

//go:embed data/*.yml
var dataFS embed.FS

type keywordsFile struct {
	Occasions map[string]map[string]map[Platform][]string `yaml:"occasions"`
}

type guidanceFile struct {
	Occasions map[string]map[string]string `yaml:"occasions"`
	Default   string                       `yaml:"default"`
}

type fallbackLook struct {
	Outfit    Outfit `yaml:"outfit"`
	Hairstyle string `yaml:"hairstyle"`
}

type fallbackOccasion struct {
	Male         fallbackLook `yaml:"male"`
	Female       fallbackLook `yaml:"female"`
	ColorPalette ColorPalette `yaml:"color_palette"`
	Explanation  string       `yaml:"explanation"`
}

type fallbacksFile struct {
	Occasions map[string]fallbackOccasion `yaml:"occasions"`
}

// Catalog: 상황별 키워드/가이드/폴백 데이터를 보관합니다.
type Catalog struct {
	keywords        map[string]map[string]map[Platform][]string
	guidance        map[string]map[string]string
	guidanceDefault string
	fallbacks       map[string]fallbackOccasion
}

// NewCatalog: 내장 데이터를 로드하고 검증합니다.
func NewCatalog() (*Catalog, error) {
	var keywords keywordsFile
	if err := loadDataFile("data/keywords.yml", &keywords); err != nil {
		return nil, err
	}
	var guidance guidanceFile
	if err := loadDataFile("data/guidance.yml", &guidance); err != nil {
		return nil, err
	}
	var fallbacks fallbacksFile
	if err := loadDataFile("data/fallbacks.yml", &fallbacks); err != nil {
		return nil, err
	}

	catalog := &Catalog{
		keywords:        keywords.Occasions,
		guidance:        guidance.Occasions,
		guidanceDefault: guidance.Default,
		fallbacks:       fallbacks.Occasions,
	}
	if err := catalog.validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

func loadDataFile(path string, out any) error {
	data, err := fs.ReadFile(dataFS, path)
	if err != nil {
		return fmt.Errorf("read styling data %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse styling data %s: %w", path, err)
	}
	return nil
}

func (c *Catalog) validate() error {
	for _, occasion := range knownOccasions {
		branches, ok := c.keywords[occasion]
		if !ok {
			return fmt.Errorf("keywords missing occasion: %s", occasion)
		}
		for _, branch := range []string{"male", "female"} {
			platforms, ok := branches[branch]
			if !ok {
				return fmt.Errorf("keywords missing branch: %s/%s", occasion, branch)
			}
			if len(platforms) != len(allPlatforms) {
				return fmt.Errorf("keywords platform count mismatch: %s/%s", occasion, branch)
			}
			for _, platform := range allPlatforms {
				entries := platforms[platform]
				if len(entries) != 5 {
					return fmt.Errorf("keywords entry count mismatch: %s/%s/%s", occasion, branch, platform)
				}
				for _, entry := range entries {
					if strings.TrimSpace(entry) == "" {
						return fmt.Errorf("empty keyword: %s/%s/%s", occasion, branch, platform)
					}
				}
			}
		}

		texts, ok := c.guidance[occasion]
		if !ok {
			return fmt.Errorf("guidance missing occasion: %s", occasion)
		}
		for _, branch := range []string{"male", "female"} {
			if strings.TrimSpace(texts[branch]) == "" {
				return fmt.Errorf("guidance missing branch: %s/%s", occasion, branch)
			}
		}

		fallback, ok := c.fallbacks[occasion]
		if !ok {
			return fmt.Errorf("fallback missing occasion: %s", occasion)
		}
		for _, look := range []fallbackLook{fallback.Male, fallback.Female} {
			if look.Outfit.Top == "" || look.Outfit.Bottom == "" || look.Outfit.Shoes == "" ||
				look.Outfit.Accessories == "" || look.Hairstyle == "" {
				return fmt.Errorf("fallback look incomplete: %s", occasion)
			}
		}
		if fallback.ColorPalette.Primary == "" || fallback.Explanation == "" {
			return fmt.Errorf("fallback palette incomplete: %s", occasion)
		}
	}

	if strings.TrimSpace(c.guidanceDefault) == "" {
		return fmt.Errorf("guidance default missing")
	}
	return nil
}

// ShoppingKeywords: 상황/성별에 맞는 플랫폼별 키워드 사본을 반환합니다.
// 알 수 없는 상황은 Casual 키워드로 대체됩니다.
func (c *Catalog) ShoppingKeywords(occasion string, gender string) ShoppingKeywords {
	key := NormalizeOccasion(occasion)
	branches, ok := c.keywords[key]
	if !ok {
		branches = c.keywords["Casual"]
	}
	platforms := branches[GenderBranch(gender)]

	out := make(ShoppingKeywords, len(allPlatforms))
	for _, platform := range allPlatforms {
		out[platform] = append([]string(nil), platforms[platform]...)
	}
	return out
}

// Guidance: 상황/성별에 맞는 가이드 문구를 반환합니다.
// 알 수 없는 상황은 원문 상황명을 담은 기본 문구를 돌려준다.
func (c *Catalog) Guidance(occasion string, gender string) (string, error) {
	key := NormalizeOccasion(occasion)
	if texts, ok := c.guidance[key]; ok {
		return texts[GenderBranch(gender)], nil
	}
	rendered, err := prompt.FormatTemplate(c.guidanceDefault, map[string]string{
		"occasion": occasion,
	})
	if err != nil {
		return "", fmt.Errorf("format default guidance: %w", err)
	}
	return rendered, nil
}

// Fallback: 상황/성별에 맞는 정적 추천 결과를 생성합니다.
// 알 수 없는 상황은 Casual 코디로 대체됩니다.
func (c *Catalog) Fallback(occasion string, gender string) *Recommendation {
	key := NormalizeOccasion(occasion)
	entry, ok := c.fallbacks[key]
	if !ok {
		entry = c.fallbacks["Casual"]
	}

	look := entry.Female
	if IsMaleGender(gender) {
		look = entry.Male
	}

	return &Recommendation{
		Outfit:           look.Outfit,
		Hairstyle:        look.Hairstyle,
		ColorPalette:     entry.ColorPalette,
		Explanation:      entry.Explanation,
		ShoppingKeywords: c.ShoppingKeywords(occasion, gender),
	}
}
