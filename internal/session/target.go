package session

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const defaultValkeyPort = "6379"

// valkeyTarget 은 세션 저장소 접속 정보다.
type valkeyTarget struct {
	addr string
	user string
	pass string
	db   int
	tls  bool
}

// tlsConfig 는 rediss 스킴일 때만 TLS 설정을 돌려준다.
func (t valkeyTarget) tlsConfig() (*tls.Config, error) {
	if !t.tls {
		return nil, nil
	}
	host, _, err := net.SplitHostPort(t.addr)
	if err != nil {
		return nil, fmt.Errorf("parse session store addr: %w", err)
	}
	return &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}, nil
}

// parseTarget 은 redis://, rediss:// URL 이나 scheme 없는 host:port 형태를 받는다.
func parseTarget(raw string) (valkeyTarget, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return valkeyTarget{}, errors.New("session store url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		return parseBareAddr(trimmed)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return valkeyTarget{}, fmt.Errorf("parse url: %w", err)
	}

	host := parsed.Hostname()
	if host == "" {
		return valkeyTarget{}, errors.New("session store host missing")
	}
	port := parsed.Port()
	if port == "" {
		port = defaultValkeyPort
	}

	db, err := parseTargetDB(parsed.Path)
	if err != nil {
		return valkeyTarget{}, err
	}

	target := valkeyTarget{
		addr: net.JoinHostPort(host, port),
		db:   db,
		tls:  strings.EqualFold(parsed.Scheme, "rediss"),
	}
	if parsed.User != nil {
		target.user = parsed.User.Username()
		target.pass, _ = parsed.User.Password()
	}
	return target, nil
}

// parseTargetDB 는 URL 경로에 붙는 DB 번호를 읽는다. 경로가 없으면 0 번이다.
func parseTargetDB(path string) (int, error) {
	path = strings.TrimPrefix(strings.TrimSpace(path), "/")
	if path == "" {
		return 0, nil
	}
	db, err := strconv.Atoi(path)
	if err != nil || db < 0 {
		return 0, fmt.Errorf("invalid session store db: %q", path)
	}
	return db, nil
}

// parseBareAddr 은 host:port, 맨 호스트, 포트 없는 IPv6 형태를 받는다.
func parseBareAddr(addr string) (valkeyTarget, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		var addrErr *net.AddrError
		if !errors.As(err, &addrErr) {
			return valkeyTarget{}, fmt.Errorf("invalid session store address: %w", err)
		}
		switch addrErr.Err {
		case "missing port in address":
			host = strings.TrimSuffix(strings.TrimPrefix(addr, "["), "]")
		case "too many colons in address":
			// 포트 없는 IPv6 주소
			host = addr
		default:
			return valkeyTarget{}, fmt.Errorf("invalid session store address: %w", err)
		}
		port = defaultValkeyPort
	}

	if strings.TrimSpace(host) == "" {
		return valkeyTarget{}, errors.New("session store host missing")
	}
	return valkeyTarget{addr: net.JoinHostPort(host, port)}, nil
}
