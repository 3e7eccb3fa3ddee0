package prompt

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errUnexpectedClose = errors.New("invalid template: unexpected '}'")
	errMissingClose    = errors.New("invalid template: missing '}'")
)

// scanTemplate 은 Python format 스타일 템플릿을 훑으며 리터럴 조각과
// {key} 변수를 콜백으로 넘긴다. {{ 와 }} 는 괄호 리터럴 이스케이프다.
func scanTemplate(template string, literal func(string), variable func(string) error) error {
	rest := template
	for len(rest) > 0 {
		brace := strings.IndexAny(rest, "{}")
		if brace < 0 {
			literal(rest)
			return nil
		}
		literal(rest[:brace])

		// 같은 괄호가 연달아 오면 이스케이프다.
		if brace+1 < len(rest) && rest[brace+1] == rest[brace] {
			literal(string(rest[brace]))
			rest = rest[brace+2:]
			continue
		}
		if rest[brace] == '}' {
			return errUnexpectedClose
		}

		end := strings.IndexByte(rest[brace:], '}')
		if end < 0 {
			return errMissingClose
		}
		if err := variable(rest[brace+1 : brace+end]); err != nil {
			return err
		}
		rest = rest[brace+end+1:]
	}
	return nil
}

// FormatTemplate: {key} 자리를 values 값으로 치환합니다. 알 수 없는 키는 에러입니다.
func FormatTemplate(template string, values map[string]string) (string, error) {
	var out strings.Builder
	out.Grow(len(template))

	err := scanTemplate(template,
		func(chunk string) { out.WriteString(chunk) },
		func(key string) error {
			value, ok := values[key]
			if !ok {
				return fmt.Errorf("missing template value for %q", key)
			}
			out.WriteString(value)
			return nil
		})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// ValidateSystemStatic: 시스템 프롬프트에 템플릿 변수가 남아 있지 않은지 확인합니다.
func ValidateSystemStatic(name string, system string) error {
	err := scanTemplate(system,
		func(string) {},
		func(key string) error {
			return fmt.Errorf("%s: system prompt must not contain template variables %q", name, key)
		})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errUnexpectedClose) || errors.Is(err, errMissingClose):
		return fmt.Errorf("%s: invalid system prompt template syntax", name)
	default:
		return err
	}
}
