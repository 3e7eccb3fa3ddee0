package guard

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
	"github.com/mtibben/confusables"
	"github.com/ymw0407/jamo/pkg/jamo"
	"golang.org/x/text/unicode/norm"
)

// base64 런이 이 길이를 넘어야 은닉 페이로드로 본다.
const minBase64RunLen = 20

// jamoTable 은 한글 자모 블록 전체다. unicode.Is 로 이진 탐색된다.
var jamoTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x1100, Hi: 0x11FF, Stride: 1}, // Hangul Jamo
		{Lo: 0x3130, Hi: 0x318F, Stride: 1}, // Hangul Compatibility Jamo
		{Lo: 0xA960, Hi: 0xA97F, Stride: 1}, // Hangul Jamo Extended-A
		{Lo: 0xD7B0, Hi: 0xD7FF, Stride: 1}, // Hangul Jamo Extended-B
	},
}

// hangulTable 은 완성형 음절 범위다 (가-힣). 자모는 포함하지 않는다.
var hangulTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0xAC00, Hi: 0xD7A3, Stride: 1},
	},
}

func isHangulRune(r rune) bool {
	return unicode.Is(hangulTable, r) || unicode.Is(jamoTable, r)
}

func isJamoRune(r rune) bool {
	return unicode.Is(jamoTable, r)
}

func isASCIIOnly(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// normalizeText 는 룰 매칭 전에 입력을 정규화한다.
// 한글 런은 그대로 두고 나머지만 homoglyph skeleton + NFKC 를 거친 뒤
// 제어/포맷 문자를 걷어낸다.
func normalizeText(text string) string {
	if isASCIIOnly(text) {
		return removeControlChars(text)
	}

	// NFD 로 풀어 쓴 한글이 보존 대상에서 빠지지 않도록 먼저 NFC 로 모은다.
	nfcText := norm.NFC.String(text)

	normalized := mapRuns(nfcText, isHangulRune,
		func(run string) string { return run },
		func(run string) string { return norm.NFKC.String(confusables.Skeleton(run)) },
	)
	return removeControlChars(normalized)
}

// removeControlChars 는 Cc/Cf 문자를 지운다. 지울 것이 없으면 원본을 그대로 돌려준다.
func removeControlChars(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, text)
}

// containsEmoji 는 입력에 이모지가 섞였는지 확인한다.
func containsEmoji(text string) bool {
	return gomoji.ContainsEmoji(text)
}

// isJamoOnly 는 입력이 풀어 쓴 자모로만 이루어졌는지 확인한다.
// 공백, 숫자, 구두점은 허용하고 완성형 한글이 하나라도 있으면 거짓이다.
func isJamoOnly(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	hasJamo := false
	for _, r := range trimmed {
		switch {
		case isJamoRune(r):
			hasJamo = true
		case unicode.IsSpace(r), unicode.IsDigit(r), unicode.IsPunct(r):
		default:
			return false
		}
	}
	return hasJamo
}

// composeJamoSequences 는 연속 자모 런을 완성형 음절로 조합한다.
// 예: "시스템 ㅍㅡㄹㅗㅁㅍㅡㅌㅡ" → "시스템 프롬프트". 조합 실패 시 런을 그대로 둔다.
func composeJamoSequences(text string) string {
	return mapRuns(text, isJamoRune,
		composeJamoRun,
		func(run string) string { return run },
	)
}

func composeJamoRun(run string) string {
	composed, err := jamo.ComposeHangeul(run)
	if err != nil || len(composed) == 0 {
		return run
	}
	return composed[0]
}

// mapRuns 는 pred 기준으로 연속 런을 나눠 매칭 런과 나머지 런을 각각 변환한다.
func mapRuns(text string, pred func(rune) bool, matched func(string) string, rest func(string) string) string {
	var out strings.Builder
	out.Grow(len(text))

	var run strings.Builder
	current := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if current {
			out.WriteString(matched(run.String()))
		} else {
			out.WriteString(rest(run.String()))
		}
		run.Reset()
	}

	for _, r := range text {
		match := pred(r)
		if run.Len() > 0 && match != current {
			flush()
		}
		current = match
		run.WriteRune(r)
	}
	flush()

	return out.String()
}

func isBase64Char(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '+' || c == '/' || c == '-' || c == '_'
}

// isPureBase64 는 공백을 제외한 입력 전체가 하나의 base64 페이로드인지 판별한다.
// 길이가 4의 배수이고 패딩(최대 2개)은 끝에만 올 수 있다.
func isPureBase64(input string) bool {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, input)

	n := len(stripped)
	if n < minBase64RunLen || n%4 != 0 {
		return false
	}

	padding := 0
	for i := 0; i < n; i++ {
		c := stripped[i]
		if c == '=' {
			padding++
			if padding > 2 {
				return false
			}
			continue
		}
		if padding > 0 || !isBase64Char(c) {
			return false
		}
	}

	_, err := decodeLooseBase64(stripped)
	return err == nil
}

// containsSuspiciousBase64 는 본문에 숨긴 base64 페이로드를 찾는다.
// 디코딩 결과가 읽을 수 있는 텍스트일 때만 참을 돌려준다. 이미지 바이트 같은
// 이진 데이터 조각은 지시문이 될 수 없으므로 무시한다.
func containsSuspiciousBase64(input string) bool {
	for start, end := nextBase64Run(input, 0); start >= 0; start, end = nextBase64Run(input, end) {
		if end-start < minBase64RunLen {
			continue
		}
		decoded, err := decodeLooseBase64(input[start:end])
		if err != nil {
			continue
		}
		if isMostlyPrintable(decoded) {
			return true
		}
	}
	return false
}

// nextBase64Run 은 from 이후 첫 base64 런의 [start, end) 를 찾는다. 없으면 start<0.
// 런 끝의 패딩은 2개까지 포함한다.
func nextBase64Run(input string, from int) (int, int) {
	n := len(input)
	i := from
	for i < n && !isBase64Char(input[i]) {
		i++
	}
	if i >= n {
		return -1, n
	}

	start := i
	for i < n && isBase64Char(input[i]) {
		i++
	}
	padding := 0
	for i < n && input[i] == '=' && padding < 2 {
		i++
		padding++
	}
	return start, i
}

// decodeLooseBase64 는 URL-safe 문자를 표준 문자로 바꾸고 패딩을 무시하고 디코딩한다.
func decodeLooseBase64(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("base64 decode: empty input")
	}

	normalized := strings.Map(func(r rune) rune {
		switch r {
		case '-':
			return '+'
		case '_':
			return '/'
		}
		return r
	}, s)

	decoded, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(normalized, "="))
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	return decoded, nil
}

// isMostlyPrintable 은 바이트가 사람이 읽을 텍스트인지 판별한다.
// 유효한 UTF-8 이면서 90% 초과가 출력 가능 문자여야 한다.
func isMostlyPrintable(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	printable := 0
	total := 0
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return false
		}
		i += size
		total++
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}
	return total > 0 && printable*100 > total*90
}
