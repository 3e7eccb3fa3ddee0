package prompt

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mapping 은 프롬프트 파일 하나가 담는 키-값 묶음이다.
type Mapping map[string]string

// Bundle 은 한 디렉터리 분량의 프롬프트 묶음이다.
// 파일명(확장자 제외)이 프롬프트 이름이 된다.
type Bundle struct {
	label   string
	prompts map[string]Mapping
}

// LoadBundle 은 fsys 의 dir 아래 YAML 프롬프트를 전부 로드한다.
// label 은 에러 메시지에 붙는 도메인 이름이다.
func LoadBundle(fsys fs.FS, dir string, label string) (*Bundle, error) {
	prompts, err := loadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return nil, fmt.Errorf("no prompt files under %s", dir)
	}
	return &Bundle{label: label, prompts: prompts}, nil
}

// Prompt 는 이름으로 프롬프트 맵을 찾는다.
func (b *Bundle) Prompt(name string) (Mapping, error) {
	if b == nil || b.prompts == nil {
		return nil, fmt.Errorf("prompts not initialized")
	}
	mapping, ok := b.prompts[name]
	if !ok {
		return nil, fmt.Errorf("%s prompt not found: %s", b.label, name)
	}
	return mapping, nil
}

// Field 는 프롬프트 맵에서 키 하나를 꺼낸다. label 은 "이름.키" 형태를 권장한다.
func (b *Bundle) Field(data Mapping, key string, label string) (string, error) {
	value, ok := data[key]
	if !ok {
		return "", fmt.Errorf("prompt field missing: %s", label)
	}
	return value, nil
}

func loadDir(fsys fs.FS, dir string) (map[string]Mapping, error) {
	var paths []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matched, err := fs.Glob(fsys, path.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob prompt dir: %w", err)
		}
		paths = append(paths, matched...)
	}

	prompts := make(map[string]Mapping, len(paths))
	for _, filePath := range paths {
		mapping, err := loadFile(fsys, filePath)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
		prompts[name] = mapping
	}
	return prompts, nil
}

func loadFile(fsys fs.FS, filePath string) (Mapping, error) {
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prompt yaml: %w", err)
	}

	mapping := make(Mapping, len(raw))
	for key, value := range raw {
		if value == nil {
			mapping[key] = ""
			continue
		}
		mapping[key] = fmt.Sprint(value)
	}

	// system 키는 정적 프롬프트 전용이다. 변수가 필요한 시스템 프롬프트는
	// system_template 처럼 별도 키에 둔다.
	if system := mapping["system"]; strings.TrimSpace(system) != "" {
		if err := ValidateSystemStatic(filePath, system); err != nil {
			return nil, err
		}
	}
	return mapping, nil
}
