package guard

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"gopkg.in/yaml.v3"
)

// rawRulepack 은 rulepacks/*.yml 파일의 스키마다.
type rawRulepack struct {
	Version   int       `yaml:"version"`
	Threshold float64   `yaml:"threshold"`
	Rules     []rawRule `yaml:"rules"`
}

type rawRule struct {
	ID      string   `yaml:"id"`
	Type    string   `yaml:"type"`
	Pattern string   `yaml:"pattern"`
	Phrases []string `yaml:"phrases"`
	Weight  float64  `yaml:"weight"`
}

type regexRule struct {
	ID      string
	Pattern *regexp.Regexp
	Weight  float64
}

// compiledPack 은 로드 시점에 정규식과 Aho-Corasick 매처로 컴파일한 룰팩이다.
type compiledPack struct {
	Threshold     float64
	RegexRules    []regexRule
	PhraseMatcher *ahocorasick.Matcher
	Phrases       []string
	PhraseWeights map[string]float64
}

// score 는 규칙 적중을 카드에 누적한다. 정규식은 원문을, 구문 사전은 소문자 본문을 본다.
func (p compiledPack) score(text string, lower string, card *scorecard) {
	for _, rule := range p.RegexRules {
		if rule.Pattern.MatchString(text) {
			card.hit(rule.ID, rule.Weight)
		}
	}

	if p.PhraseMatcher == nil {
		return
	}
	for _, index := range p.PhraseMatcher.MatchThreadSafe([]byte(lower)) {
		if index < 0 || index >= len(p.Phrases) {
			continue
		}
		phrase := p.Phrases[index]
		if weight := p.PhraseWeights[phrase]; weight > 0 {
			card.hit("phrase:"+phrase, weight)
		}
	}
}

// loadRulepacks 는 디렉터리의 룰팩을 모두 컴파일한다. 깨진 파일은 건너뛰고 경고만 남긴다.
func loadRulepacks(dir string, logger *slog.Logger) []compiledPack {
	paths := findRulepackFiles(dir)
	if len(paths) == 0 {
		if logger != nil {
			logger.Warn("rulepacks_not_found", "dir", dir)
		}
		return nil
	}

	packs := make([]compiledPack, 0, len(paths))
	for _, path := range paths {
		pack, err := loadRulepackFile(path, logger)
		if err != nil {
			if logger != nil {
				logger.Warn("rulepack_load_failed", "path", path, "err", err)
			}
			continue
		}
		packs = append(packs, pack)
	}
	return packs
}

func findRulepackFiles(dir string) []string {
	var files []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}
	return files
}

func loadRulepackFile(path string, logger *slog.Logger) (compiledPack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return compiledPack{}, fmt.Errorf("read rulepack: %w", err)
	}

	var raw rawRulepack
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return compiledPack{}, fmt.Errorf("parse rulepack: %w", err)
	}
	return compileRulepack(raw, logger)
}

func compileRulepack(raw rawRulepack, logger *slog.Logger) (compiledPack, error) {
	pack := compiledPack{
		Threshold:     raw.Threshold,
		PhraseWeights: make(map[string]float64),
	}
	if pack.Threshold == 0 {
		pack.Threshold = defaultThreshold
	}

	for _, rule := range raw.Rules {
		switch strings.ToLower(strings.TrimSpace(rule.Type)) {
		case "regex":
			compiled, err := compileRegexRule(rule, logger)
			if err != nil {
				return compiledPack{}, err
			}
			if compiled != nil {
				pack.RegexRules = append(pack.RegexRules, *compiled)
			}
		case "phrases":
			if rule.ID == "" || len(rule.Phrases) == 0 {
				return compiledPack{}, fmt.Errorf("invalid phrases rule")
			}
			for _, phrase := range rule.Phrases {
				value := strings.ToLower(phrase)
				pack.Phrases = append(pack.Phrases, value)
				pack.PhraseWeights[value] = rule.Weight
			}
		default:
			return compiledPack{}, fmt.Errorf("unknown rule type: %s", rule.Type)
		}
	}

	pack.PhraseMatcher = buildPhraseMatcher(pack.Phrases)
	return pack, nil
}

// compileRegexRule 은 패턴이 깨진 규칙을 (nil, nil) 로 돌려줘 팩 전체를 살린다.
func compileRegexRule(rule rawRule, logger *slog.Logger) (*regexRule, error) {
	if rule.ID == "" || rule.Pattern == "" {
		return nil, fmt.Errorf("invalid regex rule")
	}

	pattern, err := regexp.Compile("(?i)" + rule.Pattern)
	if err != nil {
		if logger != nil {
			logger.Warn("rulepack_regex_invalid", "rule_id", rule.ID, "err", err)
		}
		return nil, nil
	}
	return &regexRule{ID: rule.ID, Pattern: pattern, Weight: rule.Weight}, nil
}

func buildPhraseMatcher(phrases []string) *ahocorasick.Matcher {
	if len(phrases) == 0 {
		return nil
	}
	patterns := make([][]byte, 0, len(phrases))
	for _, phrase := range phrases {
		patterns = append(patterns, []byte(phrase))
	}
	return ahocorasick.NewMatcher(patterns)
}
