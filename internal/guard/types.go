package guard

import "fmt"

// Match 는 입력에 적중한 규칙 하나를 나타낸다.
type Match struct {
	ID     string
	Weight float64
}

// Evaluation 은 입력 한 건의 검사 결과다.
type Evaluation struct {
	Score     float64
	Hits      []Match
	Threshold float64
}

// Malicious 는 점수가 임계값에 도달했는지 여부다.
func (e Evaluation) Malicious() bool {
	return e.Score >= e.Threshold
}

// scorecard 는 팩 평가 중 점수와 적중 목록을 누적한다.
type scorecard struct {
	total float64
	hits  []Match
}

func (s *scorecard) hit(id string, weight float64) {
	s.total += weight
	s.hits = append(s.hits, Match{ID: id, Weight: weight})
}

// BlockedError 는 차단된 입력을 나타낸다. httperror 가 400 응답으로 변환한다.
type BlockedError struct {
	Score     float64
	Threshold float64
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("input blocked by injection guard (score=%.2f, threshold=%.2f)", e.Score, e.Threshold)
}
