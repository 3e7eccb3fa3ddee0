package gemini

import (
	"regexp"
	"strings"

	"google.golang.org/genai"

	"github.com/Harshini-A12/Stylesense/internal/llm"
)

// 모델이 마크다운 코드 펜스로 JSON 을 감쌀 때 제거한다.
var codeFencePattern = regexp.MustCompile("(?m)^```(?:json)?\\s*|\\s*```$")

func stripCodeFences(text string) string {
	return strings.TrimSpace(codeFencePattern.ReplaceAllString(strings.TrimSpace(text), ""))
}

// buildContents 는 히스토리와 프롬프트를 genai 콘텐츠로 바꾼다.
// assistant 외의 role 은 모두 user 로 보낸다.
func buildContents(prompt string, history []llm.HistoryEntry) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, entry := range history {
		var role genai.Role = genai.RoleUser
		if strings.EqualFold(entry.Role, llm.RoleAssistant) {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(entry.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))
	return contents
}

func normalizeThinkingLevel(level string) (genai.ThinkingLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low":
		return genai.ThinkingLevelLow, true
	case "medium":
		return genai.ThinkingLevelMedium, true
	case "high":
		return genai.ThinkingLevelHigh, true
	case "minimal":
		return genai.ThinkingLevelMinimal, true
	default:
		return "", false
	}
}

func isGemini3(model string) bool {
	return strings.Contains(strings.ToLower(model), "gemini-3")
}

// extractParts 는 응답에서 본문 텍스트와 thought 텍스트를 분리한다.
func extractParts(response *genai.GenerateContentResponse) ([]string, []string) {
	if response == nil || len(response.Candidates) == 0 {
		return nil, nil
	}
	content := response.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return nil, nil
	}

	texts := make([]string, 0)
	thoughts := make([]string, 0)
	for _, part := range content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		if part.Thought {
			thoughts = append(thoughts, part.Text)
			continue
		}
		texts = append(texts, part.Text)
	}
	return texts, thoughts
}

func extractUsage(response *genai.GenerateContentResponse) llm.Usage {
	if response == nil || response.UsageMetadata == nil {
		return llm.Usage{}
	}
	usage := response.UsageMetadata
	return llm.Usage{
		InputTokens:     int(usage.PromptTokenCount),
		OutputTokens:    int(usage.CandidatesTokenCount) + int(usage.ThoughtsTokenCount),
		TotalTokens:     int(usage.TotalTokenCount),
		ReasoningTokens: int(usage.ThoughtsTokenCount),
		CachedTokens:    int(usage.CachedContentTokenCount),
	}
}
