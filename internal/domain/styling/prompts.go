package styling

import (
	"embed"
	"fmt"
	"strings"

	"github.com/Harshini-A12/Stylesense/internal/prompt"
)

//go:embed prompts/*.yml
var promptsFS embed.FS

// noColorPreference 는 선호 색상 미입력 시 프롬프트에 들어가는 문구다.
const noColorPreference = "No specific preference"

// Prompts 는 스타일링 프롬프트 모음이다.
type Prompts struct {
	bundle *prompt.Bundle
}

// NewPrompts: 스타일링 프롬프트를 로드합니다.
func NewPrompts() (*Prompts, error) {
	bundle, err := prompt.LoadBundle(promptsFS, "prompts", "styling")
	if err != nil {
		return nil, fmt.Errorf("load styling prompts: %w", err)
	}
	return &Prompts{bundle: bundle}, nil
}

// StylingSystem: 상황을 고정하는 시스템 프롬프트를 반환합니다.
func (p *Prompts) StylingSystem(occasion string) (string, error) {
	data, err := p.getPrompt("styling")
	if err != nil {
		return "", err
	}
	template, err := p.promptField(data, "system_template", "styling.system_template")
	if err != nil {
		return "", err
	}
	formatted, err := prompt.FormatTemplate(template, map[string]string{
		"occasion": occasion,
	})
	if err != nil {
		return "", fmt.Errorf("format styling.system_template: %w", err)
	}
	return formatted, nil
}

// StylingUser: 프로필과 가이드를 담은 유저 프롬프트를 반환합니다.
func (p *Prompts) StylingUser(profile Profile, guidance string) (string, error) {
	data, err := p.getPrompt("styling")
	if err != nil {
		return "", err
	}
	template, err := p.promptField(data, "user", "styling.user")
	if err != nil {
		return "", err
	}

	preferredColors := profile.PreferredColors
	if strings.TrimSpace(preferredColors) == "" {
		preferredColors = noColorPreference
	}

	formatted, err := prompt.FormatTemplate(template, map[string]string{
		"skin_tone":         string(profile.SkinTone),
		"gender":            profile.Gender,
		"age":               profile.Age,
		"occasion":          profile.Occasion,
		"budget":            profile.Budget,
		"preferred_colors":  preferredColors,
		"occasion_guidance": guidance,
		"gender_lower":      strings.ToLower(profile.Gender),
		"occasion_lower":    strings.ToLower(profile.Occasion),
		"gender_slug":       GenderSlug(profile.Gender),
	})
	if err != nil {
		return "", fmt.Errorf("format styling.user: %w", err)
	}
	return formatted, nil
}

// ChatSystem: 후속 질문 채팅의 시스템 프롬프트를 반환합니다.
func (p *Prompts) ChatSystem() (string, error) {
	data, err := p.getPrompt("chat")
	if err != nil {
		return "", err
	}
	return p.promptField(data, "system", "chat.system")
}

// ChatSystemWithRecommendation: 직전 추천 결과를 포함한 시스템 프롬프트를 반환합니다.
// Toon 포맷이 이미 구조화되어 있으므로 XML 래핑 불필요
func (p *Prompts) ChatSystemWithRecommendation(encoded string) (string, error) {
	base, err := p.ChatSystem()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n\n[Current styling recommendation]\n%s", base, encoded), nil
}

func (p *Prompts) getPrompt(name string) (map[string]string, error) {
	if p == nil || p.bundle == nil {
		return nil, fmt.Errorf("styling prompts not initialized")
	}
	promptMap, err := p.bundle.Prompt(name)
	if err != nil {
		return nil, fmt.Errorf("get styling prompt %s: %w", name, err)
	}
	return promptMap, nil
}

func (p *Prompts) promptField(data map[string]string, key string, label string) (string, error) {
	value, err := p.bundle.Field(data, key, label)
	if err != nil {
		return "", fmt.Errorf("get styling prompt field %s: %w", label, err)
	}
	return value, nil
}
