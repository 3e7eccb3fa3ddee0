package di

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/session"
	"github.com/Harshini-A12/Stylesense/internal/usage"
)

// App: 애플리케이션 구성 요소를 묶는다.
type App struct {
	Server        *http.Server
	Logger        *slog.Logger
	Config        *config.Config
	SessionStore  *session.Store
	UsageRecorder *usage.Recorder
	sqlDB         *sql.DB
}

// NewApp: App 인스턴스를 생성합니다.
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	sessionStore *session.Store,
	usageRecorder *usage.Recorder,
	sqlDB *sql.DB,
) *App {
	return &App{
		Server:        server,
		Logger:        logger,
		Config:        cfg,
		SessionStore:  sessionStore,
		UsageRecorder: usageRecorder,
		sqlDB:         sqlDB,
	}
}

// Close: 앱 리소스를 정리합니다.
// 레코더가 잔여 사용량을 DB로 내보낸 뒤에 DB 연결을 닫는다.
func (a *App) Close() {
	if a.SessionStore != nil {
		a.SessionStore.Close()
	}
	if a.UsageRecorder != nil {
		a.UsageRecorder.Close()
	}
	if a.sqlDB != nil {
		_ = a.sqlDB.Close()
	}
}
