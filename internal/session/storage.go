package session

import (
	"context"

	"github.com/Harshini-A12/Stylesense/internal/domain/styling"
	"github.com/Harshini-A12/Stylesense/internal/llm"
)

// Storage 는 세션 저장소가 제공해야 하는 동작 전부다.
// Store 가 유일한 실제 구현이고, 핸들러와 유스케이스 테스트는
// 이 인터페이스로 가짜 저장소를 주입한다.
type Storage interface {
	// IsEnabled 저장소 활성화 여부
	IsEnabled() bool

	// CreateSession 세션 메타데이터 저장
	CreateSession(ctx context.Context, meta Meta) error

	// GetSession 세션 조회. 없으면 ErrSessionNotFound.
	GetSession(ctx context.Context, sessionID string) (*Meta, error)

	// UpdateSession 세션 메타데이터 갱신
	UpdateSession(ctx context.Context, meta Meta) error

	// DeleteSession 세션과 딸린 히스토리, 스타일링 결과까지 삭제
	DeleteSession(ctx context.Context, sessionID string) error

	// GetHistory 대화 히스토리 조회
	GetHistory(ctx context.Context, sessionID string) ([]llm.HistoryEntry, error)

	// AppendHistory 대화 히스토리 추가
	AppendHistory(ctx context.Context, sessionID string, entries ...llm.HistoryEntry) error

	// SetLastStyling 마지막 스타일링 결과 저장
	SetLastStyling(ctx context.Context, sessionID string, last styling.LastStyling) error

	// GetLastStyling 마지막 스타일링 결과 조회. 없으면 ErrNoLastStyling.
	GetLastStyling(ctx context.Context, sessionID string) (*styling.LastStyling, error)

	// SessionCount 활성 세션 수
	SessionCount(ctx context.Context) (int, error)

	// Ping 백엔드 연결 확인
	Ping(ctx context.Context) error

	// Close 백엔드 연결 정리
	Close()
}

var _ Storage = (*Store)(nil)
