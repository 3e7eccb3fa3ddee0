package health

import (
	"context"
	"database/sql"
	"time"

	"github.com/Harshini-A12/Stylesense/internal/config"
	"github.com/Harshini-A12/Stylesense/internal/session"
)

var startTime = time.Now()

// Component 는 상태 구성 요소다.
type Component struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail"`
}

// Response 는 상태 응답 본문이다.
type Response struct {
	Status       string               `json:"status"`
	Components   map[string]Component `json:"components"`
	SessionStore map[string]any       `json:"session_store"`
}

// Checker 는 이미 열린 연결로 구성 요소 상태를 수집한다.
// 상태 확인 때마다 저장소를 새로 붙지 않는다.
type Checker struct {
	cfg   *config.Config
	store *session.Store
	sqlDB *sql.DB
}

// NewChecker 는 체커를 생성한다.
func NewChecker(cfg *config.Config, store *session.Store, sqlDB *sql.DB) *Checker {
	return &Checker{
		cfg:   cfg,
		store: store,
		sqlDB: sqlDB,
	}
}

// Collect 는 헬스 상태를 수집한다.
// deepChecks 가 참이면 세션 저장소와 DB에 실제로 질의한다.
func (h *Checker) Collect(ctx context.Context, deepChecks bool) Response {
	if ctx == nil {
		ctx = context.Background()
	}

	components := make(map[string]Component)
	components["app"] = buildAppStatus()

	sessionStoreStatus := h.buildSessionStoreStatus(ctx, deepChecks)
	components["session_store"] = sessionStoreStatus
	components["database"] = h.buildDatabaseStatus(ctx, deepChecks)
	components["gemini"] = h.buildGeminiStatus()

	overall := "ok"
	for _, component := range components {
		if component.Status != "ok" {
			overall = "degraded"
			break
		}
	}

	return Response{
		Status:       overall,
		Components:   components,
		SessionStore: sessionStoreStatus.Detail,
	}
}

func buildAppStatus() Component {
	uptimeSeconds := int(time.Since(startTime).Seconds())
	return Component{
		Status: "ok",
		Detail: map[string]any{
			"uptime_seconds": uptimeSeconds,
		},
	}
}

func (h *Checker) buildGeminiStatus() Component {
	apiKeyPresent := false
	defaultModel := ""
	chatModel := ""
	timeoutSeconds := 0

	if h.cfg != nil {
		apiKeyPresent = h.cfg.Gemini.PrimaryKey() != ""
		defaultModel = h.cfg.Gemini.DefaultModel
		chatModel = h.cfg.Gemini.ModelForTask("chat")
		timeoutSeconds = h.cfg.Gemini.TimeoutSeconds
	}
	status := "ok"
	if !apiKeyPresent {
		status = "degraded"
	}

	return Component{
		Status: status,
		Detail: map[string]any{
			"api_key_present": apiKeyPresent,
			"default_model":   defaultModel,
			"chat_model":      chatModel,
			"timeout_seconds": timeoutSeconds,
		},
	}
}

func (h *Checker) buildSessionStoreStatus(ctx context.Context, deepChecks bool) Component {
	storeEnabled := h.store != nil && h.store.IsEnabled()
	backend := "memory"
	reachable := false
	sessionCount := 0
	var checkErr string

	if storeEnabled {
		backend = h.store.BackendName()
	}
	if storeEnabled && deepChecks {
		checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()

		if err := h.store.Ping(checkCtx); err != nil {
			checkErr = err.Error()
		} else {
			reachable = true
			count, err := h.store.SessionCount(checkCtx)
			if err != nil {
				checkErr = err.Error()
			} else {
				sessionCount = count
			}
		}
	}

	status := "ok"
	if storeEnabled && deepChecks && !reachable {
		status = "degraded"
	}

	sessionTTL := 0
	if h.cfg != nil {
		sessionTTL = h.cfg.Session.SessionTTLMinutes
	}

	detail := map[string]any{
		"store_enabled":       storeEnabled,
		"store_connected":     reachable,
		"backend":             backend,
		"session_count":       sessionCount,
		"session_ttl_minutes": sessionTTL,
		"deep_checked":        deepChecks,
	}
	if checkErr != "" {
		detail["check_error"] = checkErr
	}

	return Component{
		Status: status,
		Detail: detail,
	}
}

func (h *Checker) buildDatabaseStatus(ctx context.Context, deepChecks bool) Component {
	if h.sqlDB == nil {
		return Component{
			Status: "degraded",
			Detail: map[string]any{"connected": false},
		}
	}

	reachable := true
	var checkErr string
	if deepChecks {
		checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()

		if err := h.sqlDB.PingContext(checkCtx); err != nil {
			reachable = false
			checkErr = err.Error()
		}
	}

	status := "ok"
	if !reachable {
		status = "degraded"
	}

	stats := h.sqlDB.Stats()
	detail := map[string]any{
		"connected":        reachable,
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"deep_checked":     deepChecks,
	}
	if checkErr != "" {
		detail["check_error"] = checkErr
	}

	return Component{
		Status: status,
		Detail: detail,
	}
}
