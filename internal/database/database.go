package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Harshini-A12/Stylesense/internal/config"
)

const pingTimeout = 5 * time.Second

// Open 은 설정된 드라이버로 DB에 연결하고 커넥션 풀을 초기화한다.
// 반환된 *sql.DB 는 종료 시 Close 용도로만 사용한다.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*gorm.DB, *sql.DB, error) {
	if cfg == nil {
		return nil, nil, errors.New("database config is nil")
	}

	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}

	var (
		db     *gorm.DB
		target string
		err    error
	)
	switch cfg.Database.Driver {
	case "sqlite":
		target = cfg.Database.SQLitePath
		db, err = gorm.Open(sqlite.Open(target), gormCfg)
	case "postgres":
		db, target, err = openPostgres(cfg, gormCfg, logger)
	default:
		return nil, nil, fmt.Errorf("unsupported db driver: %s", cfg.Database.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get db handle: %w", err)
	}

	tunePool(sqlDB, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("db ping failed: %w", err)
	}

	if logger != nil {
		logger.Info("db_connected", "driver", cfg.Database.Driver, "target", target)
	}

	return db, sqlDB, nil
}

func openPostgres(cfg *config.Config, gormCfg *gorm.Config, logger *slog.Logger) (*gorm.DB, string, error) {
	hostUsed := cfg.Database.Host
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), gormCfg)
	if err != nil && shouldFallbackToLocalhost(err, cfg.Database.Host) {
		fallback := cfg.Database
		fallback.Host = "127.0.0.1"
		db, err = gorm.Open(postgres.Open(fallback.DSN()), gormCfg)
		if err == nil {
			hostUsed = fallback.Host
			if logger != nil {
				logger.Warn(
					"db_host_fallback",
					"configured_host", cfg.Database.Host,
					"effective_host", hostUsed,
				)
			}
		}
	}
	return db, hostUsed, err
}

// tunePool 은 드라이버별 커넥션 풀을 조정한다.
// glebarez SQLite 는 단일 커넥션으로 고정해야 잠금 경합과
// :memory: DB 소멸을 피할 수 있다.
func tunePool(sqlDB *sql.DB, cfg *config.Config) {
	if cfg.Database.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		return
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MinPool)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxPool)
	if cfg.Database.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetimeMinutes) * time.Minute)
	}
	if cfg.Database.ConnMaxIdleTimeMinutes > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.Database.ConnMaxIdleTimeMinutes) * time.Minute)
	}
}

// 도커 compose 의 서비스명(postgres)이 호스트에서 풀리지 않을 때만
// 로컬호스트로 한 번 더 시도한다.
func shouldFallbackToLocalhost(err error, host string) bool {
	if err == nil {
		return false
	}
	if host == "" || host == "127.0.0.1" || strings.EqualFold(host, "localhost") {
		return false
	}
	if !strings.EqualFold(host, "postgres") {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return strings.EqualFold(dnsErr.Name, host)
	}

	lower := strings.ToLower(err.Error())
	hostLower := strings.ToLower(host)
	if strings.Contains(lower, "lookup "+hostLower) && strings.Contains(lower, "no such host") {
		return true
	}
	return strings.Contains(lower, "no such host") && strings.Contains(lower, hostLower)
}
