package server

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/Harshini-A12/Stylesense/internal/config"
)

// NewHTTPServer 는 설정된 주소에 묶일 HTTP 서버를 만든다.
// HTTP2_ENABLED 가 켜져 있으면 TLS 없이 HTTP/2 를 받도록 h2c 로 감싼다.
func NewHTTPServer(cfg *config.Config, router *gin.Engine) *http.Server {
	var handler http.Handler = router
	if cfg.HTTP.HTTP2Enabled {
		handler = h2c.NewHandler(router, &http2.Server{})
	}

	return &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port)),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
