package llm

// 대화 히스토리의 role 값. 세션 저장소와 모델 요청 양쪽에서 같은 문자열을 쓴다.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryEntry 는 후속 질문 대화의 한 턴이다.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage 는 한 번의 생성 호출이 소비한 토큰 수다.
// CachedTokens 는 암시적 캐싱으로 재사용된 입력 토큰(CachedContentTokenCount)이다.
type Usage struct {
	InputTokens     int `json:"input_tokens"`
	OutputTokens    int `json:"output_tokens"`
	TotalTokens     int `json:"total_tokens"`
	ReasoningTokens int `json:"reasoning_tokens"`
	CachedTokens    int `json:"cached_tokens"`
}

// CacheHitRatio 는 입력 토큰 중 캐싱된 비율을 반환한다 (0.0 ~ 1.0).
func (u Usage) CacheHitRatio() float64 {
	if u.InputTokens == 0 {
		return 0
	}
	return float64(u.CachedTokens) / float64(u.InputTokens)
}

// ChatResult 는 생성 결과 텍스트와 사용량, 분리된 추론 텍스트를 담는다.
type ChatResult struct {
	Text         string
	Usage        Usage
	Reasoning    string
	HasReasoning bool
}
