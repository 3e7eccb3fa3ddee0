package config

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

const gemini3MinTemperature = 1.0

// GeminiConfig: Gemini 모델 설정입니다.
type GeminiConfig struct {
	APIKeys         []string
	DefaultModel    string
	ChatModel       string
	Temperature     float64
	MaxOutputTokens int
	ThinkingLevel   string
	TimeoutSeconds  int
}

// PrimaryKey: 기본 API 키를 반환합니다.
func (g GeminiConfig) PrimaryKey() string {
	if len(g.APIKeys) == 0 {
		return ""
	}
	return g.APIKeys[0]
}

// ModelForTask: 작업 유형별 모델을 반환합니다.
func (g GeminiConfig) ModelForTask(task string) string {
	if task == "chat" && g.ChatModel != "" {
		return g.ChatModel
	}
	return g.DefaultModel
}

// TemperatureForModel: 모델별 temperature를 계산합니다.
// Gemini 3 계열은 1.0 미만 temperature를 지원하지 않습니다.
func (g GeminiConfig) TemperatureForModel(model string) float64 {
	if isGemini3(model) {
		return max(gemini3MinTemperature, g.Temperature)
	}
	return g.Temperature
}

func isGemini3(model string) bool {
	return strings.Contains(strings.ToLower(model), "gemini-3")
}

// SessionConfig: 세션 관련 설정입니다.
type SessionConfig struct {
	MaxSessions       int
	SessionTTLMinutes int
	HistoryMaxPairs   int
}

// SessionStoreConfig: 세션 저장소 연결 설정입니다.
type SessionStoreConfig struct {
	URL                 string
	Enabled             bool
	Required            bool
	DisableCache        bool
	ConnectMaxAttempts  int
	ConnectRetrySeconds int
}

// GuardConfig: 입력 검증 설정입니다.
type GuardConfig struct {
	Enabled         bool
	Threshold       float64
	RulepacksDir    string
	CacheMaxSize    int
	CacheTTLSeconds int
}

// LoggingConfig: 로깅 설정입니다.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig: HTTP 서버 설정입니다.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
	CookieSecure bool
}

// HTTPAuthConfig: 관리용 API 키 인증 설정입니다.
type HTTPAuthConfig struct {
	APIKey string
}

// HTTPRateLimitConfig: 요청 제한 설정입니다.
type HTTPRateLimitConfig struct {
	RequestsPerMinute int
	LoginPerMinute    int
	CacheSize         int
	CacheTTLSeconds   int
}

// CORSConfig: 허용 오리진 설정입니다.
type CORSConfig struct {
	AllowOrigins []string
}

// UploadConfig: 프로필 사진 업로드 설정입니다.
type UploadConfig struct {
	Dir       string
	MaxSizeMB int
}

// MaxSizeBytes: 업로드 허용 최대 크기를 바이트로 반환합니다.
func (u UploadConfig) MaxSizeBytes() int64 {
	return int64(u.MaxSizeMB) << 20
}

// DatabaseConfig: DB 연결 및 저장 설정입니다.
type DatabaseConfig struct {
	Driver                               string
	Host                                 string
	Port                                 int
	Name                                 string
	User                                 string
	Password                             string
	SQLitePath                           string
	MinPool                              int
	MaxPool                              int
	ConnMaxLifetimeMinutes               int
	ConnMaxIdleTimeMinutes               int
	UsageBatchEnabled                    bool
	UsageBatchFlushIntervalSeconds       int
	UsageBatchFlushTimeoutSeconds        int
	UsageBatchMaxPendingRequests         int
	UsageBatchMaxBackoffSeconds          int
	UsageBatchErrorLogMaxIntervalSeconds int
}

// DSN: PostgreSQL 접속 문자열을 반환합니다.
func (d DatabaseConfig) DSN() string {
	host := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	u := &url.URL{
		Scheme: "postgresql",
		Host:   host,
		Path:   "/" + d.Name,
	}
	if d.Password == "" {
		u.User = url.User(d.User)
	} else {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

// Config: 애플리케이션 전체 설정입니다.
type Config struct {
	Gemini        GeminiConfig
	Session       SessionConfig
	SessionStore  SessionStoreConfig
	Guard         GuardConfig
	Logging       LoggingConfig
	HTTP          HTTPConfig
	HTTPAuth      HTTPAuthConfig
	HTTPRateLimit HTTPRateLimitConfig
	CORS          CORSConfig
	Upload        UploadConfig
	Database      DatabaseConfig
}
