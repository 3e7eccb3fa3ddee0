package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Harshini-A12/Stylesense/internal/config"
)

const logFileName = "server.log"

// NewLogger 는 tint 핸들러 기반 slog 로거를 만들고 기본 로거로 등록한다.
// LOG_DIR 가 설정되면 stdout 과 회전 로그 파일에 동시에 쓴다.
func NewLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	level := parseLevel(cfg.Level)

	logDir := strings.TrimSpace(cfg.LogDir)
	if logDir == "" {
		logger := newTintLogger(os.Stdout, level, false)
		slog.SetDefault(logger)
		return logger, nil
	}

	fileWriter, err := newRotatingWriter(cfg, logDir)
	if err != nil {
		return nil, err
	}

	// 파일에는 색상 코드를 남기지 않는다.
	logger := newTintLogger(io.MultiWriter(os.Stdout, fileWriter), level, true)
	slog.SetDefault(logger)
	logger.Info("file_logging_enabled", "path", fileWriter.Filename)
	return logger, nil
}

func newRotatingWriter(cfg config.LoggingConfig, logDir string) (*lumberjack.Logger, error) {
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		return nil, fmt.Errorf(
			"invalid log config: size=%d backups=%d age_days=%d",
			cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays,
		)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir failed: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}, nil
}

func newTintLogger(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		AddSource:  true,
		NoColor:    noColor,
	}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
