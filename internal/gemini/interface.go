package gemini

import (
	"context"

	"github.com/Harshini-A12/Stylesense/internal/llm"
)

// LLM 은 스타일링 유스케이스가 의존하는 생성 모델 인터페이스다.
// 테스트에서는 fake 구현을 주입한다.
type LLM interface {
	// Chat 은 텍스트 응답만 돌려준다.
	Chat(ctx context.Context, req Request) (string, string, error)

	// ChatWithUsage 는 텍스트 응답과 토큰 사용량을 함께 돌려준다.
	ChatWithUsage(ctx context.Context, req Request) (llm.ChatResult, string, error)

	// Structured 는 JSON 스키마를 강제한 응답을 돌려준다.
	Structured(ctx context.Context, req Request, schema map[string]any) (map[string]any, string, error)
}

var _ LLM = (*Client)(nil)
