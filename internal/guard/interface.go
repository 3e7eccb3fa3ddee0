package guard

// Guard 는 사용자 입력을 LLM 에 넘기기 전에 거치는 검사 인터페이스다.
// 스타일링 유스케이스가 이 인터페이스에 의존하고, 테스트는 stub 을 주입한다.
type Guard interface {
	// Evaluate 는 입력의 점수와 적중 규칙을 돌려준다.
	Evaluate(input string) Evaluation

	// EnsureSafe 는 위험 입력이면 *BlockedError 를 돌려준다.
	EnsureSafe(input string) error

	// IsMalicious 는 입력이 임계값을 넘는지 여부다.
	IsMalicious(input string) bool
}

var _ Guard = (*InjectionGuard)(nil)
